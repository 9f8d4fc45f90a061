package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() *Message {
	return &Message{
		SourceId:  "1726000000.000100",
		Sender:    "alice",
		Contents:  "Deploy is done, monitoring looks clean",
		Channel:   "engineering",
		Type:      MessageTypeRegular,
		Timestamp: time.Now().Add(-time.Minute),
	}
}

func TestValidateMessage(t *testing.T) {
	t.Run("valid message", func(t *testing.T) {
		require.NoError(t, ValidateMessage(validMessage()))
	})

	t.Run("nil message", func(t *testing.T) {
		err := ValidateMessage(nil)
		assert.ErrorIs(t, err, ErrInvalidMessage)
	})

	t.Run("empty sender", func(t *testing.T) {
		msg := validMessage()
		msg.Sender = ""
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidMessage)
		assert.ErrorIs(t, err, ErrEmptySender)
	})

	t.Run("empty content", func(t *testing.T) {
		msg := validMessage()
		msg.Contents = ""
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("empty channel", func(t *testing.T) {
		msg := validMessage()
		msg.Channel = ""
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrEmptyChannel)
	})

	t.Run("invalid type", func(t *testing.T) {
		msg := validMessage()
		msg.Type = MessageType(42)
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidMessageType)
	})

	t.Run("zero timestamp", func(t *testing.T) {
		msg := validMessage()
		msg.Timestamp = time.Time{}
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})

	t.Run("future timestamp", func(t *testing.T) {
		msg := validMessage()
		msg.Timestamp = time.Now().Add(time.Hour)
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}

func TestValidateMessageType(t *testing.T) {
	valid := []MessageType{
		MessageTypeRegular,
		MessageTypeThread,
		MessageTypeReply,
		MessageTypeSystem,
		MessageTypeBot,
	}
	for _, mt := range valid {
		assert.NoError(t, ValidateMessageType(mt), mt.String())
	}

	assert.Error(t, ValidateMessageType(MessageType(0)))
	assert.Error(t, ValidateMessageType(MessageType(99)))
}
