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


package reembed

import (
	"context"
	"time"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/storage"
)

// DefaultBatchSize is the default number of messages fetched per batch.
const DefaultBatchSize = 100

// MessageIterator walks every stored message in timestamp order,
// handing them to a callback in batches.
type MessageIterator struct {
	repo      storage.MessageRepository
	batchSize int
}

// NewMessageIterator creates an iterator. A non-positive batchSize
// falls back to DefaultBatchSize.
func NewMessageIterator(repo storage.MessageRepository, batchSize int) *MessageIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MessageIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of messages. Iteration stops on the
// first error from fn. Context cancellation is checked between batches.
func (it *MessageIterator) ForEach(ctx context.Context, fn func([]*core.Message) error) error {
	startTime := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	endTime := time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	messages, err := it.repo.GetMessagesByDateRange(ctx, startTime, endTime)
	if err != nil {
		return err
	}

	for i := 0; i < len(messages); i += it.batchSize {
		end := i + it.batchSize
		if end > len(messages) {
			end = len(messages)
		}

		if err := fn(messages[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
