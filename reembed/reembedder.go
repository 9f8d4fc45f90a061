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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/chatsift/ai"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/enrich"
	"github.com/poiesic/chatsift/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of messages to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of messages)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the contextual embedding of every stored
// message. Run it after switching embedding models or after changing
// how enhancement renders messages; stored vectors from different
// models are not comparable.
type Reembedder struct {
	repo      storage.MessageRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *MessageIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.MessageRepository, embedder ai.Embedder, contextualizer *enrich.Contextualizer, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, contextualizer, config.MaxRetries, config.RetryDelay),
		iterator:  NewMessageIterator(repo, config.BatchSize),
	}
}

// Run executes the reembedding operation over every stored message,
// reporting progress to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	startTime := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	endTime := time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)

	all, err := r.repo.GetMessagesByDateRange(ctx, startTime, endTime)
	if err != nil {
		return fmt.Errorf("failed to query messages: %w", err)
	}

	total := len(all)
	if total == 0 {
		fmt.Fprintf(r.progress, "No messages found in database (0 messages)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d messages (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(batch []*core.Message) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d messages in %v (%.1f messages/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
