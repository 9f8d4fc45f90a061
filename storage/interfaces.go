package storage

import (
	"context"
	"time"

	"github.com/poiesic/chatsift/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds messages similar to the given vector.
	// Returns results with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// MessageRepository provides operations for managing chat messages.
type MessageRepository interface {
	Repository
	// AddMessages adds one or more messages to storage.
	// For messages with ID=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the messages with generated IDs and timestamps populated.
	AddMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error)

	// UpdateMessages updates existing messages.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any message doesn't exist.
	UpdateMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error)

	// DeleteMessages removes messages by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any message doesn't exist.
	DeleteMessages(ctx context.Context, ids ...core.ID) error

	// GetMessage retrieves a single message by ID.
	// Returns ErrNotFound if the message doesn't exist.
	GetMessage(ctx context.Context, id core.ID) (*core.Message, error)

	// GetMessages retrieves multiple messages by their IDs.
	// Returns only the messages that exist (no error for missing messages).
	GetMessages(ctx context.Context, ids ...core.ID) ([]*core.Message, error)

	// GetMessagesByDateRange retrieves messages within a time range.
	// Returns messages where start <= Timestamp < end, ordered by timestamp.
	GetMessagesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Message, error)

	// GetRecentMessages retrieves the N most recent messages, ordered by timestamp descending.
	// Returns up to limit messages, with the most recent first.
	GetRecentMessages(ctx context.Context, limit int) ([]*core.Message, error)

	// GetMessagesByChannel retrieves messages for a channel ordered by
	// timestamp ascending, up to limit (0 means no limit).
	GetMessagesByChannel(ctx context.Context, channel string, limit int) ([]*core.Message, error)

	// GetMessagesByThread retrieves all messages belonging to a thread,
	// ordered by timestamp ascending.
	GetMessagesByThread(ctx context.Context, threadID string) ([]*core.Message, error)

	// GetMessagesByKeyword retrieves IDs of messages indexed under a keyword.
	// Returns only message IDs, not full messages.
	GetMessagesByKeyword(ctx context.Context, keyword string) ([]core.ID, error)
}

// DedupRepository provides operations for the deduplication record index.
// It is intentionally narrow: the gate only ever reads one record by key
// and writes one record back.
type DedupRepository interface {
	// GetDedupRecord retrieves the record for a dedup key.
	// Returns ErrNotFound if no record exists for the key.
	GetDedupRecord(ctx context.Context, key string) (*core.DedupRecord, error)

	// PutDedupRecord inserts or replaces the record for its key.
	PutDedupRecord(ctx context.Context, record *core.DedupRecord) error
}
