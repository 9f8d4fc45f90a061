package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/chatsift/ai/mock"
	"github.com/poiesic/chatsift/core"
)

func testMessage(sender, contents string) *core.Message {
	return &core.Message{
		Id:        core.IDFromContent(sender + contents),
		Sender:    sender,
		Contents:  contents,
		Channel:   "engineering",
		Timestamp: time.Date(2025, time.June, 10, 9, 15, 0, 0, time.UTC),
	}
}

func testThreadContext(parent *core.Message, recent ...*core.Message) *core.ThreadContext {
	return &core.ThreadContext{
		ThreadId:      "T100",
		Parent:        parent,
		Recent:        recent,
		TotalMessages: len(recent) + 1,
	}
}

func TestIsShort(t *testing.T) {
	c := NewContextualizer(mock.NewMockEmbedder(), nil)

	assert.True(t, c.IsShort(testMessage("alice", "👍")))
	assert.True(t, c.IsShort(testMessage("alice", "lgtm")))
	assert.True(t, c.IsShort(testMessage("alice", "sounds good to me")))
	assert.False(t, c.IsShort(testMessage("alice",
		"I reviewed the whole migration plan and left detailed comments on the doc.")))
}

func TestEnhanceWithThreadContext(t *testing.T) {
	c := NewContextualizer(mock.NewMockEmbedder(), nil)

	t.Run("short message in thread gets synthetic context", func(t *testing.T) {
		parent := testMessage("bob", "Should we deploy the API changes? Tests are passing.")
		msg := testMessage("alice", "👍")
		msg.ThreadId = "T100"

		enhanced := c.EnhanceWithThreadContext(msg, testThreadContext(parent))

		assert.Contains(t, enhanced, "Thread context:")
		assert.Contains(t, enhanced, "Should we deploy the API changes?")
		assert.Contains(t, enhanced, "Current:")
		assert.Contains(t, enhanced, "👍")
	})

	t.Run("recent messages bounded by window", func(t *testing.T) {
		parent := testMessage("bob", "kickoff")
		recent := []*core.Message{
			testMessage("carol", "first reply"),
			testMessage("dave", "second reply"),
			testMessage("erin", "third reply"),
			testMessage("frank", "fourth reply"),
		}
		msg := testMessage("alice", "ack")
		msg.ThreadId = "T100"

		enhanced := c.EnhanceWithThreadContext(msg, testThreadContext(parent, recent...))

		// Window is 3, so the oldest reply is dropped.
		assert.NotContains(t, enhanced, "first reply")
		assert.Contains(t, enhanced, "second reply")
		assert.Contains(t, enhanced, "fourth reply")
	})

	t.Run("long message gets plain description", func(t *testing.T) {
		msg := testMessage("alice", "Here is the full writeup of the incident from last Tuesday.")

		enhanced := c.EnhanceWithThreadContext(msg, nil)

		assert.Contains(t, enhanced, "Message from alice in #engineering")
		assert.Contains(t, enhanced, msg.Contents)
	})

	t.Run("never returns raw content alone", func(t *testing.T) {
		msg := testMessage("alice", "short note")
		enhanced := c.EnhanceWithThreadContext(msg, nil)
		assert.NotEqual(t, msg.Contents, enhanced)
		assert.Contains(t, enhanced, "alice")
	})
}

func TestExtractContextualMeaning(t *testing.T) {
	c := NewContextualizer(mock.NewMockEmbedder(), nil)

	t.Run("thumbs up with thread parent", func(t *testing.T) {
		parent := testMessage("bob", "Should we deploy the API changes? Tests are passing.")
		msg := testMessage("alice", "👍")

		meaning, ok := c.ExtractContextualMeaning(msg, testThreadContext(parent))

		require.True(t, ok)
		assert.Contains(t, meaning, "approval")
		assert.Contains(t, meaning, "Should we deploy the API changes?")
	})

	t.Run("abbreviation without thread context", func(t *testing.T) {
		meaning, ok := c.ExtractContextualMeaning(testMessage("alice", "lgtm"), nil)

		require.True(t, ok)
		assert.Contains(t, meaning, "looks good to me")
	})

	t.Run("case insensitive lookup", func(t *testing.T) {
		meaning, ok := c.ExtractContextualMeaning(testMessage("alice", "LGTM"), nil)

		require.True(t, ok)
		assert.Contains(t, meaning, "approval")
	})

	t.Run("long message yields no meaning", func(t *testing.T) {
		msg := testMessage("alice",
			"I spent the afternoon rewriting the ingestion pipeline and it works now.")

		_, ok := c.ExtractContextualMeaning(msg, nil)

		assert.False(t, ok)
	})

	t.Run("short unknown token without context yields no meaning", func(t *testing.T) {
		_, ok := c.ExtractContextualMeaning(testMessage("alice", "hmm"), nil)
		assert.False(t, ok)
	})

	t.Run("short unknown token with context anchors to parent", func(t *testing.T) {
		parent := testMessage("bob", "Can you take the on-call shift tomorrow?")
		meaning, ok := c.ExtractContextualMeaning(testMessage("alice", "sure thing"), testThreadContext(parent))

		require.True(t, ok)
		assert.Contains(t, meaning, "sure thing")
		assert.Contains(t, meaning, "on-call shift")
	})
}

func TestGenerateContextualEmbedding(t *testing.T) {
	ctx := context.Background()

	t.Run("deterministic for identical input", func(t *testing.T) {
		c := NewContextualizer(mock.NewMockEmbedder(), nil)
		msg := testMessage("alice", "deploy finished")

		v1, err := c.GenerateContextualEmbedding(ctx, msg)
		require.NoError(t, err)
		v2, err := c.GenerateContextualEmbedding(ctx, msg)
		require.NoError(t, err)

		assert.Equal(t, v1, v2)
		assert.Len(t, v1, 384)
	})

	t.Run("result is unit length", func(t *testing.T) {
		c := NewContextualizer(mock.NewMockEmbedder(), nil)

		v, err := c.GenerateContextualEmbedding(ctx, testMessage("alice", "deploy finished"))
		require.NoError(t, err)

		var sumSquares float64
		for _, x := range v {
			sumSquares += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, sumSquares, 0.001)
	})

	t.Run("embeds enhanced text, not raw content", func(t *testing.T) {
		var embedded string
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			embedded = text
			return []float32{1, 0, 0}, nil
		}
		c := NewContextualizer(embedder, nil)
		msg := testMessage("alice", "short note")

		_, err := c.GenerateContextualEmbedding(ctx, msg)
		require.NoError(t, err)

		assert.NotEqual(t, msg.Contents, embedded)
		assert.Contains(t, embedded, "alice")
	})

	t.Run("thread source consulted for thread messages", func(t *testing.T) {
		parent := testMessage("bob", "Should we deploy?")
		source := &staticThreadSource{tc: testThreadContext(parent)}
		c := NewContextualizer(mock.NewMockEmbedder(), source)

		msg := testMessage("alice", "👍")
		msg.ThreadId = "T100"

		_, err := c.GenerateContextualEmbedding(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("nil message rejected", func(t *testing.T) {
		c := NewContextualizer(mock.NewMockEmbedder(), nil)
		_, err := c.GenerateContextualEmbedding(ctx, nil)
		assert.ErrorIs(t, err, ErrNilMessage)
	})
}

func TestGenerateChunkEmbedding(t *testing.T) {
	ctx := context.Background()
	c := NewContextualizer(mock.NewMockEmbedder(), nil)

	t.Run("embeds topic and contents", func(t *testing.T) {
		chunk := buildChunk([]*core.Message{
			testMessage("alice", "database migration started"),
			testMessage("bob", "migration looks healthy"),
		})

		v, err := c.GenerateChunkEmbedding(ctx, chunk)
		require.NoError(t, err)
		assert.Len(t, v, 384)
	})

	t.Run("empty chunk rejected", func(t *testing.T) {
		_, err := c.GenerateChunkEmbedding(ctx, &core.ConversationChunk{})
		assert.ErrorIs(t, err, ErrEmptyChunk)
	})
}

// staticThreadSource returns a fixed thread context and counts lookups.
type staticThreadSource struct {
	tc    *core.ThreadContext
	calls int
}

func (s *staticThreadSource) ThreadContext(ctx context.Context, threadID string) (*core.ThreadContext, error) {
	s.calls++
	return s.tc, nil
}
