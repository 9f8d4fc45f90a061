package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/chatsift/core"
)

func TestIteratorBatches(t *testing.T) {
	repo := newReembedRepo(t)
	seedMessages(t, repo, 10)

	it := NewMessageIterator(repo, 4)

	var batchSizes []int
	total := 0
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		batchSizes = append(batchSizes, len(batch))
		total += len(batch)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 2}, batchSizes)
	assert.Equal(t, 10, total)
}

func TestIteratorStopsOnError(t *testing.T) {
	repo := newReembedRepo(t)
	seedMessages(t, repo, 10)

	it := NewMessageIterator(repo, 4)

	wantErr := errors.New("batch failed")
	calls := 0
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestIteratorEmptyRepo(t *testing.T) {
	repo := newReembedRepo(t)

	it := NewMessageIterator(repo, 0)
	calls := 0
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestIteratorCancelledContext(t *testing.T) {
	repo := newReembedRepo(t)
	seedMessages(t, repo, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := NewMessageIterator(repo, 1)
	err := it.ForEach(ctx, func(batch []*core.Message) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
