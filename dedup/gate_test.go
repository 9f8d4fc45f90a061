package dedup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/storage"
)

// memoryDedupRepo is a map-backed storage.DedupRepository for tests.
type memoryDedupRepo struct {
	mu      sync.Mutex
	records map[string]*core.DedupRecord
	getErr  error
	putErr  error
}

func newMemoryDedupRepo() *memoryDedupRepo {
	return &memoryDedupRepo{records: make(map[string]*core.DedupRecord)}
}

func (m *memoryDedupRepo) GetDedupRecord(ctx context.Context, key string) (*core.DedupRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memoryDedupRepo) PutDedupRecord(ctx context.Context, record *core.DedupRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	copied := *record
	m.records[record.Key] = &copied
	return nil
}

func persistReturning(id core.ID) PersistFunc {
	return func(ctx context.Context, status Status, prior *core.DedupRecord) (core.ID, error) {
		return id, nil
	}
}

func gateMessage(contents string, reactions map[string]int) *core.Message {
	return &core.Message{
		SourceId:  "1700000000.000100",
		Sender:    "alice",
		Contents:  contents,
		Channel:   "general",
		Timestamp: time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC),
		Reactions: reactions,
	}
}

func TestGateIdempotentDuplicate(t *testing.T) {
	gate := NewGate(newMemoryDedupRepo())
	ctx := context.Background()

	first, err := gate.Process(ctx, gateMessage("hello", nil), persistReturning(1))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, first.Status)
	assert.Equal(t, core.ID(1), first.MessageId)

	second, err := gate.Process(ctx, gateMessage("hello", nil), func(ctx context.Context, status Status, prior *core.DedupRecord) (core.ID, error) {
		t.Fatal("persist must not be called for a duplicate")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDuplicate, second.Status)
	assert.Equal(t, core.ID(1), second.MessageId)
}

func TestGateUpdateBumpsVersion(t *testing.T) {
	repo := newMemoryDedupRepo()
	gate := NewGate(repo)
	ctx := context.Background()

	_, err := gate.Process(ctx, gateMessage("original", nil), persistReturning(1))
	require.NoError(t, err)
	originalHash := repo.records["general/1700000000.000100"].ContentHash

	result, err := gate.Process(ctx, gateMessage("edited", nil), persistReturning(1))
	require.NoError(t, err)

	assert.Equal(t, StatusUpdated, result.Status)
	assert.Equal(t, core.ID(1), result.MessageId)

	record := repo.records["general/1700000000.000100"]
	assert.Equal(t, uint32(2), record.Version)
	assert.NotEqual(t, originalHash, record.ContentHash)
}

func TestGateReactionIsolation(t *testing.T) {
	repo := newMemoryDedupRepo()
	gate := NewGate(repo)
	ctx := context.Background()

	_, err := gate.Process(ctx, gateMessage("hello", map[string]int{"👍": 1}), persistReturning(1))
	require.NoError(t, err)
	before := repo.records["general/1700000000.000100"]

	result, err := gate.Process(ctx, gateMessage("hello", map[string]int{"👍": 3}), persistReturning(1))
	require.NoError(t, err)

	assert.Equal(t, StatusReactionsUpdated, result.Status)

	after := repo.records["general/1700000000.000100"]
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.ContentHash, after.ContentHash)
	assert.Equal(t, map[string]int{"👍": 3}, after.Reactions)
}

func TestGateDistinctKeysAreIndependent(t *testing.T) {
	gate := NewGate(newMemoryDedupRepo())
	ctx := context.Background()

	a := gateMessage("hello", nil)
	b := gateMessage("hello", nil)
	b.Channel = "random"

	resultA, err := gate.Process(ctx, a, persistReturning(1))
	require.NoError(t, err)
	resultB, err := gate.Process(ctx, b, persistReturning(2))
	require.NoError(t, err)

	assert.Equal(t, StatusNew, resultA.Status)
	assert.Equal(t, StatusNew, resultB.Status)
}

func TestGateTimestampFallbackKey(t *testing.T) {
	gate := NewGate(newMemoryDedupRepo())
	ctx := context.Background()

	// Without a source ID, identity falls back to channel+timestamp, so
	// the same content at two instants is two logical messages.
	a := gateMessage("hello", nil)
	a.SourceId = ""
	b := gateMessage("hello", nil)
	b.SourceId = ""
	b.Timestamp = a.Timestamp.Add(time.Second)

	resultA, err := gate.Process(ctx, a, persistReturning(1))
	require.NoError(t, err)
	resultB, err := gate.Process(ctx, b, persistReturning(2))
	require.NoError(t, err)

	assert.Equal(t, StatusNew, resultA.Status)
	assert.Equal(t, StatusNew, resultB.Status)
}

func TestGatePersistFailureLeavesIndexUnchanged(t *testing.T) {
	repo := newMemoryDedupRepo()
	gate := NewGate(repo)
	ctx := context.Background()

	persistErr := errors.New("store down")
	_, err := gate.Process(ctx, gateMessage("hello", nil), func(ctx context.Context, status Status, prior *core.DedupRecord) (core.ID, error) {
		return 0, persistErr
	})
	require.ErrorIs(t, err, persistErr)
	assert.Empty(t, repo.records)

	// Retry succeeds and classifies as New again
	result, err := gate.Process(ctx, gateMessage("hello", nil), persistReturning(1))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, result.Status)
}

func TestGateStoreReadFailure(t *testing.T) {
	repo := newMemoryDedupRepo()
	repo.getErr = errors.New("io error")
	gate := NewGate(repo)

	_, err := gate.Process(context.Background(), gateMessage("hello", nil), persistReturning(1))
	assert.Error(t, err)
}

func TestGateConcurrentSameKey(t *testing.T) {
	repo := newMemoryDedupRepo()
	gate := NewGate(repo)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make([]Result, workers)

	var idMu sync.Mutex
	nextID := core.ID(0)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := gate.Process(ctx, gateMessage("hello", nil), func(ctx context.Context, status Status, prior *core.DedupRecord) (core.ID, error) {
				idMu.Lock()
				nextID++
				id := nextID
				idMu.Unlock()
				return id, nil
			})
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	// Exactly one goroutine may observe New; all others see Duplicate.
	newCount := 0
	for _, r := range results {
		if r.Status == StatusNew {
			newCount++
		} else {
			assert.Equal(t, StatusDuplicate, r.Status)
		}
	}
	assert.Equal(t, 1, newCount)
}
