package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/storage"
)

func TestMessageBasics(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		messageRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	message := &core.Message{
		Sender:    "alice",
		Contents:  "Hello, world!",
		Channel:   "general",
		Type:      core.MessageTypeRegular,
		Timestamp: time.Now().UTC(),
	}

	added, err := messageRepo.AddMessages(ctx, message)
	if err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	retrieved, err := messageRepo.GetMessage(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get message: %v", err)
	}

	if retrieved.Contents != "Hello, world!" {
		t.Fatalf("Expected 'Hello, world!', got '%s'", retrieved.Contents)
	}
	if retrieved.Channel != "general" {
		t.Fatalf("Expected channel 'general', got '%s'", retrieved.Channel)
	}
}

func TestMessageCallerSuppliedID(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	message := &core.Message{
		Id:        core.ID(42),
		Sender:    "bob",
		Contents:  "fixed id",
		Channel:   "general",
		Timestamp: time.Now().UTC(),
	}

	_, err = messageRepo.AddMessages(ctx, message)
	if err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}

	retrieved, err := messageRepo.GetMessage(ctx, core.ID(42))
	if err != nil {
		t.Fatalf("Failed to get message by supplied ID: %v", err)
	}
	if retrieved.Sender != "bob" {
		t.Fatalf("Expected sender 'bob', got '%s'", retrieved.Sender)
	}
}

func TestMessageDateRange(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	now := time.Now().UTC()
	messages := []*core.Message{
		{Sender: "alice", Contents: "Message 1", Channel: "general", Timestamp: now.Add(-2 * time.Hour)},
		{Sender: "bob", Contents: "Message 2", Channel: "general", Timestamp: now.Add(-1 * time.Hour)},
		{Sender: "alice", Contents: "Message 3", Channel: "general", Timestamp: now},
	}

	_, err = messageRepo.AddMessages(ctx, messages...)
	if err != nil {
		t.Fatalf("Failed to add messages: %v", err)
	}

	start := now.Add(-90 * time.Minute)
	end := now.Add(1 * time.Minute)

	results, err := messageRepo.GetMessagesByDateRange(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to get messages by date range: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(results))
	}
}

func TestGetRecentMessages(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	messages := []*core.Message{
		{Sender: "alice", Contents: "Message 1", Channel: "general", Timestamp: now.Add(-4 * time.Hour)},
		{Sender: "bob", Contents: "Message 2", Channel: "general", Timestamp: now.Add(-3 * time.Hour)},
		{Sender: "alice", Contents: "Message 3", Channel: "general", Timestamp: now.Add(-2 * time.Hour)},
		{Sender: "bob", Contents: "Message 4", Channel: "general", Timestamp: now.Add(-1 * time.Hour)},
		{Sender: "alice", Contents: "Message 5", Channel: "general", Timestamp: now},
	}

	_, err = messageRepo.AddMessages(ctx, messages...)
	if err != nil {
		t.Fatalf("Failed to add messages: %v", err)
	}

	results, err := messageRepo.GetRecentMessages(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get recent messages: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(results))
	}
	if results[0].Contents != "Message 5" {
		t.Fatalf("Expected most recent first, got '%s'", results[0].Contents)
	}
	if results[2].Contents != "Message 3" {
		t.Fatalf("Expected 'Message 3' last, got '%s'", results[2].Contents)
	}
}

func TestMessagesByChannel(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	now := time.Now().UTC()
	messages := []*core.Message{
		{Sender: "alice", Contents: "in dev", Channel: "dev", Timestamp: now.Add(-2 * time.Hour)},
		{Sender: "bob", Contents: "in devops", Channel: "devops", Timestamp: now.Add(-1 * time.Hour)},
		{Sender: "alice", Contents: "also in dev", Channel: "dev", Timestamp: now},
	}

	_, err = messageRepo.AddMessages(ctx, messages...)
	if err != nil {
		t.Fatalf("Failed to add messages: %v", err)
	}

	// "dev" must not match "devops" entries
	results, err := messageRepo.GetMessagesByChannel(ctx, "dev", 0)
	if err != nil {
		t.Fatalf("Failed to get messages by channel: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 messages in dev, got %d", len(results))
	}
	if results[0].Contents != "in dev" || results[1].Contents != "also in dev" {
		t.Fatal("Expected ascending timestamp order within channel")
	}

	limited, err := messageRepo.GetMessagesByChannel(ctx, "dev", 1)
	if err != nil {
		t.Fatalf("Failed to get limited messages: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("Expected 1 message with limit, got %d", len(limited))
	}
}

func TestMessagesByThread(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	now := time.Now().UTC()
	messages := []*core.Message{
		{Sender: "alice", Contents: "thread start", Channel: "dev", ThreadId: "T1", Timestamp: now.Add(-time.Hour)},
		{Sender: "bob", Contents: "reply", Channel: "dev", ThreadId: "T1", Timestamp: now.Add(-30 * time.Minute)},
		{Sender: "carol", Contents: "unrelated", Channel: "dev", Timestamp: now},
	}

	_, err = messageRepo.AddMessages(ctx, messages...)
	if err != nil {
		t.Fatalf("Failed to add messages: %v", err)
	}

	results, err := messageRepo.GetMessagesByThread(ctx, "T1")
	if err != nil {
		t.Fatalf("Failed to get messages by thread: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 thread messages, got %d", len(results))
	}
	if results[0].Contents != "thread start" {
		t.Fatalf("Expected parent first, got '%s'", results[0].Contents)
	}
}

func TestMessagesByKeyword(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	now := time.Now().UTC()
	messages := []*core.Message{
		{Sender: "alice", Contents: "deploy started", Channel: "ops", Keywords: []string{"deploy"}, Timestamp: now.Add(-time.Hour)},
		{Sender: "bob", Contents: "deploy done", Channel: "ops", Keywords: []string{"deploy", "done"}, Timestamp: now},
		{Sender: "carol", Contents: "lunch", Channel: "random", Keywords: []string{"lunch"}, Timestamp: now},
	}

	added, err := messageRepo.AddMessages(ctx, messages...)
	if err != nil {
		t.Fatalf("Failed to add messages: %v", err)
	}

	ids, err := messageRepo.GetMessagesByKeyword(ctx, "deploy")
	if err != nil {
		t.Fatalf("Failed to get messages by keyword: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 IDs for 'deploy', got %d", len(ids))
	}

	// Keyword index must survive updates that change keywords
	updated := added[1]
	updated.Keywords = []string{"done"}
	if _, err := messageRepo.UpdateMessages(ctx, updated); err != nil {
		t.Fatalf("Failed to update message: %v", err)
	}

	ids, err = messageRepo.GetMessagesByKeyword(ctx, "deploy")
	if err != nil {
		t.Fatalf("Failed to get messages by keyword after update: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("Expected 1 ID for 'deploy' after update, got %d", len(ids))
	}
}

func TestMessageUpdateAndDelete(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	message := &core.Message{
		Sender:    "alice",
		Contents:  "original",
		Channel:   "general",
		Timestamp: time.Now().UTC(),
	}
	added, err := messageRepo.AddMessages(ctx, message)
	if err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}

	added[0].Contents = "edited"
	if _, err := messageRepo.UpdateMessages(ctx, added[0]); err != nil {
		t.Fatalf("Failed to update message: %v", err)
	}

	retrieved, err := messageRepo.GetMessage(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get message: %v", err)
	}
	if retrieved.Contents != "edited" {
		t.Fatalf("Expected 'edited', got '%s'", retrieved.Contents)
	}

	if err := messageRepo.DeleteMessages(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete message: %v", err)
	}

	_, err = messageRepo.GetMessage(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Updating a missing message fails
	_, err = messageRepo.UpdateMessages(ctx, added[0])
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on update of missing message, got %v", err)
	}
}

func TestFindSimilar(t *testing.T) {
	messageRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { messageRepo.Close(); backend.Close() }()

	ctx := context.Background()

	now := time.Now().UTC()
	messages := []*core.Message{
		{Sender: "alice", Contents: "close match", Channel: "dev", Timestamp: now, Vector: []float32{1, 0, 0}},
		{Sender: "bob", Contents: "far match", Channel: "dev", Timestamp: now, Vector: []float32{0, 1, 0}},
		{Sender: "carol", Contents: "no vector", Channel: "dev", Timestamp: now},
	}

	_, err = messageRepo.AddMessages(ctx, messages...)
	if err != nil {
		t.Fatalf("Failed to add messages: %v", err)
	}

	results, err := messageRepo.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result above threshold, got %d", len(results))
	}
	if results[0].Message.Contents != "close match" {
		t.Fatalf("Expected 'close match', got '%s'", results[0].Message.Contents)
	}
}

func TestDedupRecordRoundTrip(t *testing.T) {
	_, dedupRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	_, err = dedupRepo.GetDedupRecord(ctx, "general/123")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing record, got %v", err)
	}

	record := &core.DedupRecord{
		Key:         "general/123",
		MessageId:   core.ID(7),
		ContentHash: 12345,
		Version:     1,
		Reactions:   map[string]int{"👍": 2},
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := dedupRepo.PutDedupRecord(ctx, record); err != nil {
		t.Fatalf("Failed to put dedup record: %v", err)
	}

	retrieved, err := dedupRepo.GetDedupRecord(ctx, "general/123")
	if err != nil {
		t.Fatalf("Failed to get dedup record: %v", err)
	}
	if retrieved.ContentHash != 12345 || retrieved.Version != 1 {
		t.Fatalf("Dedup record fields not preserved: %+v", retrieved)
	}
	if retrieved.Reactions["👍"] != 2 {
		t.Fatal("Reactions map not preserved")
	}

	// Overwrite bumps in place
	record.Version = 2
	record.ContentHash = 99999
	if err := dedupRepo.PutDedupRecord(ctx, record); err != nil {
		t.Fatalf("Failed to overwrite dedup record: %v", err)
	}
	retrieved, err = dedupRepo.GetDedupRecord(ctx, "general/123")
	if err != nil {
		t.Fatalf("Failed to re-read dedup record: %v", err)
	}
	if retrieved.Version != 2 {
		t.Fatalf("Expected version 2, got %d", retrieved.Version)
	}
}

func TestClosedBackendRejectsOperations(t *testing.T) {
	messageRepo, dedupRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}

	ctx := context.Background()

	message := &core.Message{
		Sender:    "alice",
		Contents:  "written before close",
		Channel:   "general",
		Type:      core.MessageTypeRegular,
		Timestamp: time.Now().UTC(),
	}
	added, err := messageRepo.AddMessages(ctx, message)
	if err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}

	messageRepo.Close()
	backend.Close()

	if _, err := messageRepo.GetMessage(ctx, added[0].Id); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed from GetMessage, got %v", err)
	}
	if _, err := messageRepo.AddMessages(ctx, message); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed from AddMessages, got %v", err)
	}
	if _, err := dedupRepo.GetDedupRecord(ctx, "general/1"); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed from GetDedupRecord, got %v", err)
	}
}
