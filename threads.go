// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chatsift

import (
	"context"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/enrich"
	"github.com/poiesic/chatsift/storage"
)

// threadRecentLimit bounds how many replies a thread context carries.
const threadRecentLimit = 10

// repositoryThreadSource assembles thread context from the message
// repository on demand. Thread messages come back in timestamp order;
// the first is treated as the thread parent and the tail as replies.
type repositoryThreadSource struct {
	messages storage.MessageRepository
}

var _ enrich.ThreadSource = (*repositoryThreadSource)(nil)

func (s *repositoryThreadSource) ThreadContext(ctx context.Context, threadID string) (*core.ThreadContext, error) {
	messages, err := s.messages.GetMessagesByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		// Absent thread, not an error. Callers and the cache treat a
		// nil context as "no such thread".
		return nil, nil
	}

	replies := messages[1:]
	if len(replies) > threadRecentLimit {
		replies = replies[len(replies)-threadRecentLimit:]
	}

	return &core.ThreadContext{
		ThreadId:      threadID,
		Parent:        messages[0],
		Recent:        replies,
		TotalMessages: len(messages),
	}, nil
}
