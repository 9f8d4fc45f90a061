package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("engineering/1726000000.000100")
		b := IDFromContent("engineering/1726000000.000100")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content produces distinct ids", func(t *testing.T) {
		a := IDFromContent("engineering/1726000000.000100")
		b := IDFromContent("engineering/1726000000.000200")
		assert.NotEqual(t, a, b)
	})
}

func TestHashContent(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stable for identical input", func(t *testing.T) {
		a := HashContent("ship it", "alice", ts)
		b := HashContent("ship it", "alice", ts)
		assert.Equal(t, a, b)
	})

	t.Run("changes when content changes", func(t *testing.T) {
		a := HashContent("ship it", "alice", ts)
		b := HashContent("hold off", "alice", ts)
		assert.NotEqual(t, a, b)
	})

	t.Run("changes when sender changes", func(t *testing.T) {
		a := HashContent("ship it", "alice", ts)
		b := HashContent("ship it", "bob", ts)
		assert.NotEqual(t, a, b)
	})

	t.Run("changes when timestamp changes", func(t *testing.T) {
		a := HashContent("ship it", "alice", ts)
		b := HashContent("ship it", "alice", ts.Add(time.Second))
		assert.NotEqual(t, a, b)
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		// "ab" + "c" must not collide with "a" + "bc"
		a := HashContent("ab", "c", ts)
		b := HashContent("a", "bc", ts)
		assert.NotEqual(t, a, b)
	})
}

func TestTemporalHintContains(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	hint := &TemporalHint{Kind: TemporalRelative, Raw: "yesterday", Start: start, End: end}

	assert.True(t, hint.Contains(start))
	assert.True(t, hint.Contains(end))
	assert.True(t, hint.Contains(start.Add(12*time.Hour)))
	assert.False(t, hint.Contains(start.Add(-time.Second)))
	assert.False(t, hint.Contains(end.Add(time.Second)))
}

func TestMessageTypeRoundTrip(t *testing.T) {
	for _, mt := range []MessageType{
		MessageTypeRegular,
		MessageTypeThread,
		MessageTypeReply,
		MessageTypeSystem,
		MessageTypeBot,
	} {
		assert.Equal(t, mt, ParseMessageType(mt.String()))
	}

	assert.Equal(t, MessageTypeRegular, ParseMessageType(""))
	assert.Equal(t, MessageTypeRegular, ParseMessageType("nonsense"))
}
