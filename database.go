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


package chatsift

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/chatsift/ai"
	"github.com/poiesic/chatsift/ai/openai"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/dedup"
	"github.com/poiesic/chatsift/enrich"
	"github.com/poiesic/chatsift/ingestion"
	"github.com/poiesic/chatsift/query"
	"github.com/poiesic/chatsift/reembed"
	"github.com/poiesic/chatsift/search"
	"github.com/poiesic/chatsift/storage"
	"github.com/poiesic/chatsift/storage/badger"
)

// Database wires storage, AI services, and thread context resolution
// into one handle the services are built from.
type Database struct {
	backend   *badger.Backend
	messages  storage.MessageRepository
	dedupRepo storage.DedupRepository
	provider  ai.Provider
	threads   *enrich.CachedThreadSource
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig       *ai.Config
	provider       ai.Provider
	inMemory       bool
	threadCacheTTL time.Duration
}

// WithAIConfig sets the AI service configuration used to construct the
// default provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider supplies an already-constructed AI provider instead of
// building one from config.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the store in memory. Nothing is persisted; used
// for tests and demos.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithThreadCacheTTL overrides how long thread contexts are cached.
func WithThreadCacheTTL(ttl time.Duration) DatabaseOption {
	return func(o *databaseOptions) {
		o.threadCacheTTL = ttl
	}
}

// NewDatabase opens (or creates) the message database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	messages, err := badger.NewMessageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	dedupRepo := badger.NewDedupRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			messages.Close()
			backend.Close()
			return nil, err
		}
	}

	threads := enrich.NewCachedThreadSource(
		&repositoryThreadSource{messages: messages}, options.threadCacheTTL)

	return &Database{
		backend:   backend,
		messages:  messages,
		dedupRepo: dedupRepo,
		provider:  provider,
		threads:   threads,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.messages.Close(); err != nil {
		db.logger.Error("error closing message repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MessageRepository() storage.MessageRepository {
	return db.messages
}

func (db *Database) DedupRepository() storage.DedupRepository {
	return db.dedupRepo
}

// NewContextualizer builds a contextualizer backed by the shared thread
// context cache.
func (db *Database) NewContextualizer(opts ...enrich.ContextualizerOption) *enrich.Contextualizer {
	return enrich.NewContextualizer(db.provider.Embedder(), db.threads, opts...)
}

// NewIngestionPipeline builds an ingestion pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	gate := dedup.NewGate(db.dedupRepo)
	opts = append([]ingestion.Option{ingestion.WithThreadCache(db.threads)}, opts...)
	return ingestion.NewPipeline(db.messages, gate, db.NewContextualizer(), opts...)
}

// NewQueryParser builds a natural-language query parser backed by this
// database's entity recognizer.
func (db *Database) NewQueryParser(opts ...query.ParserOption) *query.Parser {
	return query.NewParser(db.provider.EntityRecognizer(), opts...)
}

// NewSearchEngine builds a hybrid search engine over this database.
func (db *Database) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	parser := query.NewParser(db.provider.EntityRecognizer())
	return search.NewEngine(db.messages, parser, db.provider.Embedder(), opts...)
}

// NewReembedder builds a reembedder that regenerates every stored
// message embedding, writing progress to the given writer.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.messages, db.provider.Embedder(), db.NewContextualizer(), config, progress)
}

// ThreadContext assembles the context of a thread: its parent message,
// a bounded window of the most recent replies, and the total count. The
// returned context is nil when the thread has no messages.
func (db *Database) ThreadContext(ctx context.Context, threadID string) (*core.ThreadContext, error) {
	return db.threads.ThreadContext(ctx, threadID)
}

// ContextualMeaning explains what a short message means in its thread
// ("👍" becomes an approval of what the parent proposed). ok is false
// when the message has no extractable meaning beyond its content.
func (db *Database) ContextualMeaning(ctx context.Context, messageID core.ID) (string, bool, error) {
	msg, err := db.messages.GetMessage(ctx, messageID)
	if err != nil {
		return "", false, err
	}

	var tc *core.ThreadContext
	if msg.ThreadId != "" {
		tc, err = db.threads.ThreadContext(ctx, msg.ThreadId)
		if err != nil {
			return "", false, err
		}
	}

	meaning, ok := db.NewContextualizer().ExtractContextualMeaning(msg, tc)
	return meaning, ok, nil
}

// CreateChunks groups a channel's messages into conversation chunks
// bounded by a time window and a maximum size. Non-positive window or
// maxSize fall back to the defaults.
func (db *Database) CreateChunks(ctx context.Context, channel string, window time.Duration, maxSize int) ([]*core.ConversationChunk, error) {
	messages, err := db.messages.GetMessagesByChannel(ctx, channel, 0)
	if err != nil {
		return nil, err
	}
	return enrich.CreateConversationChunks(messages, window, maxSize), nil
}
