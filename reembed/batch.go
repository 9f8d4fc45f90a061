package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/chatsift/ai"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/enrich"
	"github.com/poiesic/chatsift/storage"
)

// BatchProcessor re-embeds batches of messages. Each message is rendered
// through the contextualizer first, so short replies pick up their
// thread context the same way they do during ingestion, then the whole
// batch goes to the embedder in one call.
type BatchProcessor struct {
	repo           storage.MessageRepository
	embedder       ai.Embedder
	contextualizer *enrich.Contextualizer
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(repo storage.MessageRepository, embedder ai.Embedder, contextualizer *enrich.Contextualizer, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		contextualizer: contextualizer,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds one batch of messages and writes the vectors back.
// Vectors are normalized so stored embeddings stay compatible with
// cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, messages []*core.Message) error {
	if len(messages) == 0 {
		return nil
	}

	texts := make([]string, len(messages))
	for i, msg := range messages {
		texts[i] = bp.contextualizer.EnhancedText(ctx, msg)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(messages) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(messages), len(embeddings))
	}

	for i := range messages {
		messages[i].Vector = enrich.NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpdateMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to update messages: %w", err)
	}

	return nil
}
