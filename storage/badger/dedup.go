// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/storage"
)

// DedupRepository implements storage.DedupRepository for BadgerDB.
type DedupRepository struct {
	backend *Backend
}

var _ storage.DedupRepository = (*DedupRepository)(nil)

// NewDedupRepository creates a new DedupRepository.
func NewDedupRepository(backend *Backend) *DedupRepository {
	return &DedupRepository{backend: backend}
}

// GetDedupRecord retrieves the record for a dedup key.
// Returns storage.ErrNotFound if no record exists.
func (r *DedupRepository) GetDedupRecord(ctx context.Context, key string) (*core.DedupRecord, error) {
	var result *core.DedupRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDedupRecordKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalDedupRecord(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// PutDedupRecord inserts or replaces the record for its key.
func (r *DedupRepository) PutDedupRecord(ctx context.Context, record *core.DedupRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		value := storage.MarshalDedupRecord(record)
		if err := tx.Set(makeDedupRecordKey(record.Key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
