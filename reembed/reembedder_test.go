package reembed

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/chatsift/ai/mock"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/enrich"
	"github.com/poiesic/chatsift/storage"
	badgerstore "github.com/poiesic/chatsift/storage/badger"
)

var reembedBase = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newReembedRepo(t *testing.T) storage.MessageRepository {
	t.Helper()
	repo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repo
}

func seedMessages(t *testing.T, repo storage.MessageRepository, n int) []*core.Message {
	t.Helper()
	messages := make([]*core.Message, n)
	for i := range messages {
		messages[i] = &core.Message{
			Sender:    "alice",
			Contents:  fmt.Sprintf("message number %d about the migration", i),
			Channel:   "general",
			Type:      core.MessageTypeRegular,
			Timestamp: reembedBase.Add(time.Duration(i) * time.Minute),
		}
	}
	_, err := repo.AddMessages(context.Background(), messages...)
	require.NoError(t, err)
	return messages
}

func TestReembedderRun(t *testing.T) {
	repo := newReembedRepo(t)
	seeded := seedMessages(t, repo, 7)

	embedder := mock.NewMockEmbedder()
	contextualizer := enrich.NewContextualizer(embedder, nil)

	var out bytes.Buffer
	config := &Config{BatchSize: 3, ReportInterval: 3, MaxRetries: 2, RetryDelay: time.Millisecond}
	r := NewReembedder(repo, embedder, contextualizer, config, &out)

	require.NoError(t, r.Run(context.Background()))

	for _, msg := range seeded {
		stored, err := repo.GetMessage(context.Background(), msg.Id)
		require.NoError(t, err)
		require.NotEmpty(t, stored.Vector, "message %d has no vector", msg.Id)

		var sumSquares float64
		for _, v := range stored.Vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 0.001)
	}

	assert.Contains(t, out.String(), "Starting reembedding of 7 messages")
	assert.Contains(t, out.String(), "Reembedding complete")
}

func TestReembedderEmptyDatabase(t *testing.T) {
	repo := newReembedRepo(t)

	embedder := mock.NewMockEmbedder()
	contextualizer := enrich.NewContextualizer(embedder, nil)

	var out bytes.Buffer
	r := NewReembedder(repo, embedder, contextualizer, nil, &out)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "No messages found")
	assert.Zero(t, embedder.CallCount())
}

func TestReembedderEmbedsEnhancedText(t *testing.T) {
	repo := newReembedRepo(t)
	seedMessages(t, repo, 1)

	embedder := mock.NewMockEmbedder()
	var captured []string
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		captured = append(captured, texts...)
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}
	contextualizer := enrich.NewContextualizer(embedder, nil)

	var out bytes.Buffer
	r := NewReembedder(repo, embedder, contextualizer, nil, &out)
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, captured, 1)
	assert.Contains(t, captured[0], "Message from alice in #general")
}
