package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(backend *Backend) (*MessageRepository, error) {
	idSeq, err := backend.GetSequence(messageIDSeq)
	if err != nil {
		return nil, err
	}

	return &MessageRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *MessageRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *MessageRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *MessageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMessages adds one or more messages to storage.
func (r *MessageRepository) AddMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, message := range messages {
			// Generate an ID unless the caller supplied one
			if message.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				message.Id = core.ID(nextID)
			}

			message.InsertedAt = time.Now().UTC()
			message.UpdatedAt = message.InsertedAt

			// Store primary record
			key := makeMessageKey(message.Id)
			value := storage.MarshalMessage(message)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update secondary indices
			if err := r.writeIndices(tx, message); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// UpdateMessages updates existing messages.
func (r *MessageRepository) UpdateMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, message := range messages {
			key := makeMessageKey(message.Id)

			// Read old message to detect index changes
			old, err := r.readMessage(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			message.UpdatedAt = time.Now().UTC()
			if message.InsertedAt.IsZero() {
				message.InsertedAt = old.InsertedAt
			}

			// Store updated message
			value := storage.MarshalMessage(message)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Rewrite indices only when their source fields changed
			if err := r.reconcileIndices(tx, old, message); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// DeleteMessages removes messages by their IDs.
func (r *MessageRepository) DeleteMessages(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMessageKey(id)

			// Read message to get metadata for index cleanup
			message, err := r.readMessage(tx, key)
			if err != nil {
				return err
			}
			if message == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteIndices(tx, message); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetMessage retrieves a single message by ID.
func (r *MessageRepository) GetMessage(ctx context.Context, id core.ID) (*core.Message, error) {
	var result *core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMessageKey(id)
		var err error
		result, err = r.readMessage(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetMessages retrieves multiple messages by their IDs.
func (r *MessageRepository) GetMessages(ctx context.Context, ids ...core.ID) ([]*core.Message, error) {
	var result []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMessageKey(id)
			message, err := r.readMessage(tx, key)
			if err != nil {
				return err
			}
			if message != nil {
				result = append(result, message)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetMessagesByDateRange retrieves messages within a time range.
func (r *MessageRepository) GetMessagesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Message, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialMessageDateKey(start)
		endKey := makePartialMessageDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			// Read the ID from the index
			var messageID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				messageID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full message
			message, err := r.readMessage(tx, makeMessageKey(messageID))
			if err != nil {
				return err
			}
			if message != nil {
				results = append(results, message)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentMessages retrieves the N most recent messages, ordered by timestamp descending.
func (r *MessageRepository) GetRecentMessages(ctx context.Context, limit int) ([]*core.Message, error) {
	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent messages first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialMessageDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(messageDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var messageID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				messageID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			message, err := r.readMessage(tx, makeMessageKey(messageID))
			if err != nil {
				return err
			}
			if message != nil {
				results = append(results, message)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// GetMessagesByChannel retrieves a channel's messages ordered by timestamp ascending.
func (r *MessageRepository) GetMessagesByChannel(ctx context.Context, channel string, limit int) ([]*core.Message, error) {
	return r.scanScopedIndex(makePartialChannelKey(channel), limit)
}

// GetMessagesByThread retrieves all messages of a thread ordered by timestamp ascending.
func (r *MessageRepository) GetMessagesByThread(ctx context.Context, threadID string) ([]*core.Message, error) {
	return r.scanScopedIndex(makePartialThreadKey(threadID), 0)
}

// GetMessagesByKeyword retrieves IDs of messages indexed under a keyword.
func (r *MessageRepository) GetMessagesByKeyword(ctx context.Context, keyword string) ([]core.ID, error) {
	var messageIDs []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialKeywordKey(keyword)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var messageID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				messageID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			messageIDs = append(messageIDs, messageID)
		}
		return nil
	}, false)

	return messageIDs, err
}

// Helper methods

// scanScopedIndex walks a channel or thread index prefix, resolving IDs
// to full messages. A limit of 0 means no limit.
func (r *MessageRepository) scanScopedIndex(startKey []byte, limit int) ([]*core.Message, error) {
	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}
			if limit > 0 && len(results) >= limit {
				break
			}

			var messageID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				messageID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			message, err := r.readMessage(tx, makeMessageKey(messageID))
			if err != nil {
				return err
			}
			if message != nil {
				results = append(results, message)
			}
		}
		return nil
	}, false)

	return results, err
}

// readMessage reads a message from the transaction.
func (r *MessageRepository) readMessage(tx *badger.Txn, key []byte) (*core.Message, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var message *core.Message
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		message, unmarshalErr = storage.UnmarshalMessage(val)
		return unmarshalErr
	})
	return message, err
}

// writeIndices adds all secondary index entries for a message.
func (r *MessageRepository) writeIndices(tx *badger.Txn, message *core.Message) error {
	idValue := storage.MarshalID(message.Id)

	if err := tx.Set(makeMessageDateKey(message.Timestamp, message.Id), idValue); err != nil {
		return err
	}
	if err := tx.Set(makeChannelKey(message.Channel, message.Timestamp, message.Id), idValue); err != nil {
		return err
	}
	if message.ThreadId != "" {
		if err := tx.Set(makeThreadKey(message.ThreadId, message.Timestamp, message.Id), idValue); err != nil {
			return err
		}
	}
	for _, keyword := range message.Keywords {
		if err := tx.Set(makeKeywordKey(keyword, message.Id), idValue); err != nil {
			return err
		}
	}
	return nil
}

// deleteIndices removes all secondary index entries for a message.
func (r *MessageRepository) deleteIndices(tx *badger.Txn, message *core.Message) error {
	if err := tx.Delete(makeMessageDateKey(message.Timestamp, message.Id)); err != nil {
		return err
	}
	if err := tx.Delete(makeChannelKey(message.Channel, message.Timestamp, message.Id)); err != nil {
		return err
	}
	if message.ThreadId != "" {
		if err := tx.Delete(makeThreadKey(message.ThreadId, message.Timestamp, message.Id)); err != nil {
			return err
		}
	}
	for _, keyword := range message.Keywords {
		if err := tx.Delete(makeKeywordKey(keyword, message.Id)); err != nil {
			return err
		}
	}
	return nil
}

// reconcileIndices rewrites secondary indices that depend on fields
// which changed between old and updated.
func (r *MessageRepository) reconcileIndices(tx *badger.Txn, old, updated *core.Message) error {
	idValue := storage.MarshalID(updated.Id)
	timestampChanged := !old.Timestamp.Equal(updated.Timestamp)

	if timestampChanged {
		if err := tx.Delete(makeMessageDateKey(old.Timestamp, old.Id)); err != nil {
			return err
		}
		if err := tx.Set(makeMessageDateKey(updated.Timestamp, updated.Id), idValue); err != nil {
			return err
		}
	}

	if timestampChanged || old.Channel != updated.Channel {
		if err := tx.Delete(makeChannelKey(old.Channel, old.Timestamp, old.Id)); err != nil {
			return err
		}
		if err := tx.Set(makeChannelKey(updated.Channel, updated.Timestamp, updated.Id), idValue); err != nil {
			return err
		}
	}

	if timestampChanged || old.ThreadId != updated.ThreadId {
		if old.ThreadId != "" {
			if err := tx.Delete(makeThreadKey(old.ThreadId, old.Timestamp, old.Id)); err != nil {
				return err
			}
		}
		if updated.ThreadId != "" {
			if err := tx.Set(makeThreadKey(updated.ThreadId, updated.Timestamp, updated.Id), idValue); err != nil {
				return err
			}
		}
	}

	if !slices.Equal(old.Keywords, updated.Keywords) {
		for _, keyword := range old.Keywords {
			if err := tx.Delete(makeKeywordKey(keyword, old.Id)); err != nil {
				return err
			}
		}
		for _, keyword := range updated.Keywords {
			if err := tx.Set(makeKeywordKey(keyword, updated.Id), idValue); err != nil {
				return err
			}
		}
	}

	return nil
}
