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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/dedup"
	"github.com/poiesic/chatsift/enrich"
	"github.com/poiesic/chatsift/query"
	"github.com/poiesic/chatsift/storage"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
)

// Pipeline runs messages through validation, deduplication, persistence,
// and asynchronous contextual embedding. Ingest returns as soon as the
// message is durably stored; embedding happens on a background worker
// pool so slow embedding providers do not stall intake.
//
// Within a channel the pipeline enforces arrival order for new messages:
// a new message timestamped earlier than one already accepted for that
// channel is rejected with ErrOutOfOrder. Edits and reaction updates
// carry their original timestamps and are exempt.
type Pipeline struct {
	messages       storage.MessageRepository
	gate           *dedup.Gate
	contextualizer *enrich.Contextualizer
	threadCache    *enrich.CachedThreadSource
	embedPool      *ants.Pool
	maxAttempts    int
	retryDelay     time.Duration
	logger         *slog.Logger

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the embedding worker pool size.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		if p.embedPool != nil {
			p.embedPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("creating embedding pool: %w", err)
		}
		p.embedPool = pool
		return nil
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithRetryPolicy sets how store writes are retried before Ingest gives
// up: maxAttempts total attempts with exponential backoff starting at
// baseDelay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return fmt.Errorf("max attempts must be positive, got %d", maxAttempts)
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithThreadCache attaches the thread context cache so the pipeline can
// invalidate a thread's entry when a new message lands in it.
func WithThreadCache(cache *enrich.CachedThreadSource) Option {
	return func(p *Pipeline) error {
		p.threadCache = cache
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(messages storage.MessageRepository, gate *dedup.Gate, contextualizer *enrich.Contextualizer, opts ...Option) (*Pipeline, error) {
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if gate == nil {
		return nil, ErrGateRequired
	}
	if contextualizer == nil {
		return nil, ErrContextualizerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating embedding pool: %w", err)
	}

	p := &Pipeline{
		messages:       messages,
		gate:           gate,
		contextualizer: contextualizer,
		embedPool:      pool,
		maxAttempts:    defaultMaxAttempts,
		retryDelay:     defaultRetryDelay,
		logger:         slog.Default().With("component", "ingestion"),
		lastSeen:       make(map[string]time.Time),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.embedPool.Release()
			return nil, err
		}
	}
	return p, nil
}

// Ingest runs one message through the pipeline. The returned result
// carries the deduplication outcome and the stored message ID. The
// pipeline takes ownership of msg and may mutate it.
//
// Duplicates are dropped silently with the existing message's ID.
// Edits replace content and bump the stored version. Reaction-only
// updates replace reactions without touching content, version, or the
// stored embedding.
func (p *Pipeline) Ingest(ctx context.Context, msg *core.Message) (dedup.Result, error) {
	if err := core.ValidateMessage(msg); err != nil {
		return dedup.Result{}, err
	}

	if len(msg.Keywords) == 0 {
		msg.Keywords = query.Keywords(msg.Contents)
	}

	result, err := p.gate.Process(ctx, msg, func(ctx context.Context, status dedup.Status, prior *core.DedupRecord) (core.ID, error) {
		return p.persist(ctx, msg, status, prior)
	})
	if err != nil {
		return dedup.Result{}, err
	}

	switch result.Status {
	case dedup.StatusNew, dedup.StatusUpdated:
		if p.threadCache != nil && msg.ThreadId != "" {
			p.threadCache.Invalidate(msg.ThreadId)
		}
		p.scheduleEmbedding(result.MessageId)
	}

	p.logger.Debug("message ingested",
		"channel", msg.Channel,
		"status", result.Status.String(),
		"message_id", result.MessageId)

	return result, nil
}

// persist runs under the gate's lock and performs the store write for
// an admitted message.
func (p *Pipeline) persist(ctx context.Context, msg *core.Message, status dedup.Status, prior *core.DedupRecord) (core.ID, error) {
	switch status {
	case dedup.StatusNew:
		if err := p.checkOrder(msg); err != nil {
			return 0, err
		}
		msg.ContentHash = core.HashContent(msg.Contents, msg.Sender, msg.Timestamp)
		msg.Version = 1
		if err := withRetry(ctx, func() error {
			_, err := p.messages.AddMessages(ctx, msg)
			return err
		}, p.maxAttempts, p.retryDelay); err != nil {
			return 0, fmt.Errorf("storing message: %w", err)
		}
		p.recordSeen(msg)
		return msg.Id, nil

	case dedup.StatusUpdated:
		msg.Id = prior.MessageId
		msg.ContentHash = core.HashContent(msg.Contents, msg.Sender, msg.Timestamp)
		msg.Version = prior.Version + 1
		msg.EditedAt = time.Now().UTC()
		if err := withRetry(ctx, func() error {
			_, err := p.messages.UpdateMessages(ctx, msg)
			return err
		}, p.maxAttempts, p.retryDelay); err != nil {
			return 0, fmt.Errorf("storing edit: %w", err)
		}
		return prior.MessageId, nil

	case dedup.StatusReactionsUpdated:
		stored, err := p.messages.GetMessage(ctx, prior.MessageId)
		if err != nil {
			return 0, fmt.Errorf("loading message for reaction update: %w", err)
		}
		stored.Reactions = msg.Reactions
		if err := withRetry(ctx, func() error {
			_, err := p.messages.UpdateMessages(ctx, stored)
			return err
		}, p.maxAttempts, p.retryDelay); err != nil {
			return 0, fmt.Errorf("storing reaction update: %w", err)
		}
		return prior.MessageId, nil

	default:
		return 0, fmt.Errorf("unexpected dedup status %d", status)
	}
}

// checkOrder rejects a new message that is older than the newest one
// already accepted for its channel.
func (p *Pipeline) checkOrder(msg *core.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if last, ok := p.lastSeen[msg.Channel]; ok && msg.Timestamp.Before(last) {
		return fmt.Errorf("%w: channel %q, got %s after %s",
			ErrOutOfOrder, msg.Channel,
			msg.Timestamp.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	return nil
}

func (p *Pipeline) recordSeen(msg *core.Message) {
	p.mu.Lock()
	if msg.Timestamp.After(p.lastSeen[msg.Channel]) {
		p.lastSeen[msg.Channel] = msg.Timestamp
	}
	p.mu.Unlock()
}

// scheduleEmbedding submits a background task that embeds the stored
// message with its thread context and writes the vector back. Failures
// are logged, not surfaced; the message stays searchable by keyword and
// a later re-embed pass picks it up.
func (p *Pipeline) scheduleEmbedding(id core.ID) {
	err := p.embedPool.Submit(func() {
		ctx := context.Background()

		msg, err := p.messages.GetMessage(ctx, id)
		if err != nil {
			p.logger.Error("embedding: load failed", "message_id", id, "error", err)
			return
		}

		vector, err := p.contextualizer.GenerateContextualEmbedding(ctx, msg)
		if err != nil {
			p.logger.Error("embedding: generation failed", "message_id", id, "error", err)
			return
		}

		// Re-read before writing back: an edit may have landed while the
		// embedding was generated. The edit schedules its own task, so a
		// stale vector is dropped here rather than written over it.
		fresh, err := p.messages.GetMessage(ctx, id)
		if err != nil {
			p.logger.Error("embedding: reload failed", "message_id", id, "error", err)
			return
		}
		if fresh.ContentHash != msg.ContentHash {
			p.logger.Debug("embedding: content changed during embedding, skipping", "message_id", id)
			return
		}

		fresh.Vector = vector
		if _, err := p.messages.UpdateMessages(ctx, fresh); err != nil {
			p.logger.Error("embedding: store failed", "message_id", id, "error", err)
		}
	})
	if err != nil {
		p.logger.Error("embedding: submit failed", "message_id", id, "error", err)
	}
}

// Release shuts down the embedding worker pool. Tasks already submitted
// may be dropped; call after intake has stopped.
func (p *Pipeline) Release() {
	if p.embedPool != nil {
		p.embedPool.Release()
	}
}
