package enrich

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/chatsift/core"
)

func chunkFixture(count int, spacing time.Duration) []*core.Message {
	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	messages := make([]*core.Message, count)
	for i := 0; i < count; i++ {
		messages[i] = &core.Message{
			Id:        core.ID(i + 1),
			Sender:    fmt.Sprintf("user%d", i%3),
			Contents:  fmt.Sprintf("message %d about deployment", i),
			Channel:   "ops",
			Timestamp: base.Add(time.Duration(i) * spacing),
		}
	}
	return messages
}

func TestCreateConversationChunksCoverage(t *testing.T) {
	messages := chunkFixture(25, 30*time.Second)

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	// Every input message appears exactly once across all chunks.
	seen := make(map[core.ID]int)
	total := 0
	for _, chunk := range chunks {
		require.NotEmpty(t, chunk.Messages)
		assert.LessOrEqual(t, len(chunk.Messages), 20)
		for _, m := range chunk.Messages {
			seen[m.Id]++
			total++
		}
	}
	assert.Equal(t, len(messages), total)
	for id, n := range seen {
		assert.Equal(t, 1, n, "message %d appears %d times", id, n)
	}

	// Chunks are ordered by start time.
	for i := 1; i < len(chunks); i++ {
		assert.False(t, chunks[i].StartTime.Before(chunks[i-1].StartTime))
	}
}

func TestCreateConversationChunksSizeCap(t *testing.T) {
	// 25 messages spaced 30s apart never exceed a 1h window, so the
	// size cap alone must force at least two chunks.
	messages := chunkFixture(25, 30*time.Second)

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Len(t, chunks[0].Messages, 20)
	assert.Len(t, chunks[1].Messages, 5)
}

func TestCreateConversationChunksTimeGap(t *testing.T) {
	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	messages := []*core.Message{
		{Id: 1, Sender: "alice", Contents: "morning standup notes", Timestamp: base},
		{Id: 2, Sender: "bob", Contents: "standup looks fine", Timestamp: base.Add(time.Minute)},
		{Id: 3, Sender: "alice", Contents: "afternoon incident report", Timestamp: base.Add(5 * time.Hour)},
	}

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Messages, 2)
	assert.Len(t, chunks[1].Messages, 1)
}

func TestCreateConversationChunksSpanWithinWindow(t *testing.T) {
	// Consecutive gaps of 40 minutes never exceed a 1h window on their
	// own, but letting them chain would produce a single chunk spanning
	// six hours. The span bound must split it.
	messages := chunkFixture(10, 40*time.Minute)

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	require.GreaterOrEqual(t, len(chunks), 2)
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, chunk.EndTime.Sub(chunk.StartTime), time.Hour)
		total += len(chunk.Messages)
	}
	assert.Equal(t, len(messages), total)
}

func TestCreateConversationChunksTopicAndSummary(t *testing.T) {
	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	messages := []*core.Message{
		{Id: 1, Sender: "alice", Contents: "migration plan ready", Timestamp: base},
		{Id: 2, Sender: "bob", Contents: "migration started", Timestamp: base.Add(time.Minute)},
		{Id: 3, Sender: "alice", Contents: "migration done", Timestamp: base.Add(2 * time.Minute)},
	}

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	require.Len(t, chunks, 1)
	chunk := chunks[0]
	assert.Equal(t, "migration", chunk.Topic)
	assert.Equal(t, 2, chunk.Participants)
	assert.Contains(t, chunk.Summary, "3 messages")
	assert.Contains(t, chunk.Summary, "2 participants")
	assert.NotZero(t, chunk.Id)
}

func TestCreateConversationChunksDeterministicTieBreak(t *testing.T) {
	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	// "alpha" and "beta" both appear once; first-seen order wins.
	messages := []*core.Message{
		{Id: 1, Sender: "alice", Contents: "alpha", Timestamp: base},
		{Id: 2, Sender: "bob", Contents: "beta", Timestamp: base.Add(time.Second)},
	}

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha", chunks[0].Topic)
}

func TestCreateConversationChunksUnsortedInput(t *testing.T) {
	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	messages := []*core.Message{
		{Id: 2, Sender: "bob", Contents: "second", Timestamp: base.Add(time.Minute)},
		{Id: 1, Sender: "alice", Contents: "first", Timestamp: base},
	}

	chunks := CreateConversationChunks(messages, time.Hour, 20)

	require.Len(t, chunks, 1)
	assert.Equal(t, core.ID(1), chunks[0].Messages[0].Id)
}

func TestCreateConversationChunksEmptyInput(t *testing.T) {
	assert.Nil(t, CreateConversationChunks(nil, time.Hour, 20))
}
