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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/chatsift/ai"
	"github.com/poiesic/chatsift/core"
)

const (
	// DefaultShortThreshold is the content length at or below which a
	// message is treated as short and eligible for thread enhancement.
	DefaultShortThreshold = 25

	// DefaultRecentWindow is how many recent thread messages are woven
	// into enhanced text.
	DefaultRecentWindow = 3
)

// ThreadSource provides thread context lookups. Implementations may be
// backed by storage directly or wrapped in a cache.
type ThreadSource interface {
	ThreadContext(ctx context.Context, threadID string) (*core.ThreadContext, error)
}

// Contextualizer produces enhanced text representations of messages so
// that short, low-information messages ("👍", "lgtm") get embeddings
// that reflect what they mean in their conversation, not just their
// literal characters.
type Contextualizer struct {
	embedder       ai.Embedder
	threads        ThreadSource
	shortThreshold int
	recentWindow   int
	logger         *slog.Logger
}

// ContextualizerOption configures a Contextualizer.
type ContextualizerOption func(*Contextualizer)

// WithShortThreshold overrides the short-message character threshold.
func WithShortThreshold(n int) ContextualizerOption {
	return func(c *Contextualizer) {
		if n > 0 {
			c.shortThreshold = n
		}
	}
}

// WithRecentWindow overrides how many recent thread messages are
// included in enhanced text.
func WithRecentWindow(n int) ContextualizerOption {
	return func(c *Contextualizer) {
		if n > 0 {
			c.recentWindow = n
		}
	}
}

// NewContextualizer creates a contextualizer. The thread source may be
// nil, in which case enhancement degrades to plain descriptions.
func NewContextualizer(embedder ai.Embedder, threads ThreadSource, opts ...ContextualizerOption) *Contextualizer {
	c := &Contextualizer{
		embedder:       embedder,
		threads:        threads,
		shortThreshold: DefaultShortThreshold,
		recentWindow:   DefaultRecentWindow,
		logger:         slog.Default().With("component", "contextualizer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsShort reports whether a message qualifies as short: its trimmed
// content is at or below the threshold, or it is an exact gloss-table
// token regardless of length.
func (c *Contextualizer) IsShort(msg *core.Message) bool {
	trimmed := strings.TrimSpace(msg.Contents)
	if len(trimmed) <= c.shortThreshold {
		return true
	}
	_, ok := lookupGloss(trimmed)
	return ok
}

// EnhanceWithThreadContext builds the text that should be embedded for
// a message. Short messages inside a thread get a synthetic string that
// embeds the parent message, a window of recent thread messages, and
// the current message. Everything else gets a channel/sender/time
// description wrapping the content, never the raw content alone, so
// embeddings stay comparable in format.
func (c *Contextualizer) EnhanceWithThreadContext(msg *core.Message, tc *core.ThreadContext) string {
	if c.IsShort(msg) && tc != nil && tc.Parent != nil {
		var b strings.Builder
		b.WriteString("Thread context: ")
		b.WriteString(tc.Parent.Sender)
		b.WriteString(" said: ")
		b.WriteString(tc.Parent.Contents)

		recent := tc.Recent
		if len(recent) > c.recentWindow {
			recent = recent[len(recent)-c.recentWindow:]
		}
		for _, m := range recent {
			if m.Id == msg.Id {
				continue
			}
			b.WriteString(" | ")
			b.WriteString(m.Sender)
			b.WriteString(": ")
			b.WriteString(m.Contents)
		}

		b.WriteString(" Current: ")
		b.WriteString(msg.Sender)
		b.WriteString(" replied: ")
		b.WriteString(msg.Contents)
		if gloss, ok := c.glossFor(msg, tc); ok {
			b.WriteString(" (")
			b.WriteString(gloss)
			b.WriteString(")")
		}
		return b.String()
	}

	return c.describeMessage(msg)
}

// describeMessage renders the plain enhancement format. Sender, channel
// and time are always present, so the result is never empty even for a
// message with blank content.
func (c *Contextualizer) describeMessage(msg *core.Message) string {
	return fmt.Sprintf("Message from %s in #%s at %s: %s",
		msg.Sender,
		msg.Channel,
		msg.Timestamp.Format("2006-01-02 15:04"),
		msg.Contents)
}

// ExtractContextualMeaning returns a gloss for a short message, or
// ok=false when the message does not qualify. Long messages never get a
// gloss. With thread context present, the gloss quotes the parent
// message so the meaning is anchored to what was being replied to.
func (c *Contextualizer) ExtractContextualMeaning(msg *core.Message, tc *core.ThreadContext) (string, bool) {
	if !c.IsShort(msg) {
		return "", false
	}
	return c.glossFor(msg, tc)
}

func (c *Contextualizer) glossFor(msg *core.Message, tc *core.ThreadContext) (string, bool) {
	entry, found := lookupGloss(msg.Contents)

	var b strings.Builder
	if found {
		b.WriteString(describeGloss(entry))
	} else {
		b.WriteString("short reply: ")
		b.WriteString(strings.TrimSpace(msg.Contents))
	}

	if tc != nil && tc.Parent != nil {
		b.WriteString(", in response to: ")
		b.WriteString(tc.Parent.Contents)
	}

	if !found && (tc == nil || tc.Parent == nil) {
		// No table entry and nothing to anchor against; the raw echo
		// adds no meaning beyond the content itself.
		return "", false
	}
	return b.String(), true
}

// EnhancedText resolves a message's thread context (when it has one and
// a thread source is configured) and returns the text that should be
// embedded for it. A failed context lookup degrades to the plain
// description rather than failing.
func (c *Contextualizer) EnhancedText(ctx context.Context, msg *core.Message) string {
	var tc *core.ThreadContext
	if msg.ThreadId != "" && c.threads != nil {
		var err error
		tc, err = c.threads.ThreadContext(ctx, msg.ThreadId)
		if err != nil {
			c.logger.Warn("thread context lookup failed, embedding without it",
				"thread_id", msg.ThreadId, "error", err)
			tc = nil
		}
	}
	return c.EnhanceWithThreadContext(msg, tc)
}

// GenerateContextualEmbedding embeds the enhanced representation of a
// message.
func (c *Contextualizer) GenerateContextualEmbedding(ctx context.Context, msg *core.Message) ([]float32, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	enhanced := c.EnhancedText(ctx, msg)
	if strings.TrimSpace(enhanced) == "" {
		return nil, ai.ErrEmptyEmbeddingInput
	}

	vector, err := c.embedder.EmbedText(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("generating contextual embedding: %w", err)
	}
	return NormalizeVector(vector), nil
}

// GenerateChunkEmbedding embeds a conversation chunk as a single unit.
// The representation leads with the topic and summary, then the message
// contents in order.
func (c *Contextualizer) GenerateChunkEmbedding(ctx context.Context, chunk *core.ConversationChunk) ([]float32, error) {
	if chunk == nil || len(chunk.Messages) == 0 {
		return nil, ErrEmptyChunk
	}

	var b strings.Builder
	b.WriteString("Topic: ")
	b.WriteString(chunk.Topic)
	b.WriteString(". ")
	b.WriteString(chunk.Summary)
	for _, m := range chunk.Messages {
		b.WriteString(" ")
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Contents)
	}

	vector, err := c.embedder.EmbedText(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("generating chunk embedding: %w", err)
	}
	return NormalizeVector(vector), nil
}
