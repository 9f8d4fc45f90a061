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


package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/storage"
)

// PersistFunc writes the message for a New, Updated, or ReactionsUpdated
// outcome and returns its storage ID. The prior record is nil for New.
// It runs under the gate's lock, so it must not call back into the gate.
type PersistFunc func(ctx context.Context, status Status, prior *core.DedupRecord) (core.ID, error)

// Gate classifies each ingested message against the deduplication index.
//
// Classification is check-then-act: read the record for the key, decide,
// write. The gate serializes Process calls with a mutex so two messages
// with the same key cannot both observe "no existing record". Search and
// other reads never go through the gate.
type Gate struct {
	records storage.DedupRepository
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewGate creates a deduplication gate over the given record index.
func NewGate(records storage.DedupRepository) *Gate {
	return &Gate{
		records: records,
		logger:  slog.Default().With("component", "dedup-gate"),
	}
}

// Key derives the deduplication key for a message. Messages that carry a
// source ID (the originating platform's message identifier) are keyed by
// channel and source ID. Without one, the key falls back to channel and
// timestamp, which cannot distinguish two same-instant messages in one
// channel; callers that can supply a source ID should.
func Key(channel, sourceID string, timestamp time.Time) string {
	if sourceID != "" {
		return channel + "/" + sourceID
	}
	return channel + "/" + timestamp.UTC().Format(time.RFC3339Nano)
}

// Process runs one message through the gate. The persist callback is
// invoked for every outcome that requires a message write (New, Updated,
// ReactionsUpdated); for Duplicate nothing is written and persist is not
// called. The dedup record is written after persist succeeds, so a
// failed persist leaves the index unchanged and the message can be
// retried.
//
// There is no failure state in classification itself; only store I/O
// can fail.
func (g *Gate) Process(ctx context.Context, msg *core.Message, persist PersistFunc) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := Key(msg.Channel, msg.SourceId, msg.Timestamp)
	contentHash := core.HashContent(msg.Contents, msg.Sender, msg.Timestamp)

	prior, err := g.records.GetDedupRecord(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Result{}, fmt.Errorf("reading dedup record: %w", err)
	}

	switch {
	case prior == nil:
		return g.admit(ctx, msg, persist, StatusNew, key, contentHash, nil)

	case prior.ContentHash != contentHash:
		return g.admit(ctx, msg, persist, StatusUpdated, key, contentHash, prior)

	case !reactionsEqual(prior.Reactions, msg.Reactions):
		return g.admit(ctx, msg, persist, StatusReactionsUpdated, key, prior.ContentHash, prior)

	default:
		g.logger.Debug("duplicate message", "key", key)
		return Result{Status: StatusDuplicate, MessageId: prior.MessageId}, nil
	}
}

func (g *Gate) admit(ctx context.Context, msg *core.Message, persist PersistFunc, status Status, key string, contentHash uint64, prior *core.DedupRecord) (Result, error) {
	id, err := persist(ctx, status, prior)
	if err != nil {
		return Result{}, err
	}

	record := &core.DedupRecord{
		Key:         key,
		MessageId:   id,
		ContentHash: contentHash,
		Version:     1,
		Reactions:   cloneReactions(msg.Reactions),
		UpdatedAt:   time.Now().UTC(),
	}

	switch status {
	case StatusUpdated:
		record.Version = prior.Version + 1
		record.MessageId = prior.MessageId
		if id != 0 {
			record.MessageId = id
		}
	case StatusReactionsUpdated:
		record.Version = prior.Version
		record.MessageId = prior.MessageId
	}

	if err := g.records.PutDedupRecord(ctx, record); err != nil {
		return Result{}, fmt.Errorf("writing dedup record: %w", err)
	}

	g.logger.Debug("message admitted",
		"key", key, "status", status.String(), "version", record.Version)

	return Result{Status: status, MessageId: record.MessageId}, nil
}

func reactionsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	return maps.Equal(a, b)
}

func cloneReactions(reactions map[string]int) map[string]int {
	if reactions == nil {
		return nil
	}
	return maps.Clone(reactions)
}
