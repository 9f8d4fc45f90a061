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


package enrich

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/chatsift/core"
)

const (
	// DefaultChunkWindow is the maximum time span a chunk may cover.
	DefaultChunkWindow = time.Hour

	// DefaultMaxChunkSize caps how many messages a single chunk holds.
	DefaultMaxChunkSize = 20
)

// chunkStopWords excludes structural words from topic selection. This
// is a smaller set than query stop words: chunk topics come from chat
// prose, not query scaffolding.
var chunkStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"it": true, "its": true, "this": true, "that": true, "i": true,
	"we": true, "you": true, "he": true, "she": true, "they": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"not": true, "no": true, "so": true, "just": true, "can": true,
	"will": true, "would": true, "my": true, "your": true, "our": true,
	"me": true, "us": true, "them": true, "what": true, "about": true,
	"if": true, "as": true, "all": true,
}

// CreateConversationChunks groups messages into time- and size-bounded
// chunks. Messages are processed in ascending timestamp order; a new
// chunk starts when the gap to the previous message exceeds window,
// when adding the message would stretch the chunk's span past window,
// or when the current chunk reached maxSize. Every input message lands
// in exactly one chunk and no chunk spans more than window.
//
// Zero or negative window and maxSize fall back to the defaults.
func CreateConversationChunks(messages []*core.Message, window time.Duration, maxSize int) []*core.ConversationChunk {
	if len(messages) == 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultChunkWindow
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	ordered := make([]*core.Message, len(messages))
	copy(ordered, messages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	chunks := make([]*core.ConversationChunk, 0, len(ordered)/maxSize+1)
	var current []*core.Message

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, buildChunk(current))
		current = nil
	}

	for _, msg := range ordered {
		if len(current) > 0 {
			gap := msg.Timestamp.Sub(current[len(current)-1].Timestamp)
			span := msg.Timestamp.Sub(current[0].Timestamp)
			if gap > window || span > window || len(current) >= maxSize {
				flush()
			}
		}
		current = append(current, msg)
	}
	flush()

	return chunks
}

func buildChunk(messages []*core.Message) *core.ConversationChunk {
	topic := chunkTopic(messages)

	participants := make(map[string]bool, len(messages))
	for _, m := range messages {
		participants[m.Sender] = true
	}

	start := messages[0].Timestamp
	end := messages[len(messages)-1].Timestamp

	return &core.ConversationChunk{
		Id:           core.IDFromContent(topic + start.UTC().Format(time.RFC3339Nano)),
		Topic:        topic,
		Messages:     messages,
		StartTime:    start,
		EndTime:      end,
		Participants: len(participants),
		Summary: fmt.Sprintf("Conversation about %s with %d messages from %d participants",
			topic, len(messages), len(participants)),
	}
}

// chunkTopic picks the most frequent non-stop-word token across the
// chunk's contents. Ties break toward the token seen first, which keeps
// the result deterministic for identical input.
func chunkTopic(messages []*core.Message) string {
	counts := make(map[string]int)
	order := make([]string, 0, 32)

	for _, m := range messages {
		for _, tok := range strings.Fields(strings.ToLower(m.Contents)) {
			tok = strings.Trim(tok, ".,!?;:\"'()[]{}")
			if tok == "" || chunkStopWords[tok] {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	best := "general discussion"
	bestCount := 0
	for _, tok := range order {
		if counts[tok] > bestCount {
			best = tok
			bestCount = counts[tok]
		}
	}
	return best
}
