package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// HashContent computes the content hash used for edit detection.
// The hash covers content, sender, and origin timestamp so that an edit
// (changed content) produces a different hash while a reaction-only change
// does not.
func HashContent(content, sender string, timestamp time.Time) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(sender))
	h.Write([]byte{0})
	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(timestamp.UTC().UnixMicro()))
	h.Write(ts[:])
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// MessageType identifies the kind of conversational message.
type MessageType int

const (
	// MessageTypeRegular is an ordinary channel message.
	MessageTypeRegular MessageType = iota + 1
	// MessageTypeThread is a message that starts a thread.
	MessageTypeThread
	// MessageTypeReply is a reply inside a thread.
	MessageTypeReply
	// MessageTypeSystem is a system-generated message (joins, renames, ...).
	MessageTypeSystem
	// MessageTypeBot is a message posted by a bot or integration.
	MessageTypeBot
)

// String returns the lowercase name of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageTypeRegular:
		return "regular"
	case MessageTypeThread:
		return "thread"
	case MessageTypeReply:
		return "reply"
	case MessageTypeSystem:
		return "system"
	case MessageTypeBot:
		return "bot"
	default:
		return "unknown"
	}
}

// ParseMessageType maps a string to a MessageType.
// Unknown or empty strings map to MessageTypeRegular.
func ParseMessageType(s string) MessageType {
	switch s {
	case "thread":
		return MessageTypeThread
	case "reply":
		return MessageTypeReply
	case "system":
		return MessageTypeSystem
	case "bot":
		return MessageTypeBot
	default:
		return MessageTypeRegular
	}
}

// Message represents a single captured conversational message.
// It may be enriched with keywords and an embedding vector during processing.
type Message struct {
	Id          ID
	SourceId    string // External id assigned by the scrape source ("" if unknown)
	Sender      string
	Contents    string
	Channel     string
	ThreadId    string // Thread the message belongs to ("" for top-level messages)
	Type        MessageType
	Timestamp   time.Time // When the message was originally sent
	InsertedAt  time.Time // When the record was inserted into the database
	UpdatedAt   time.Time // When the record was last updated
	EditedAt    time.Time // When the content was last edited (zero if never)
	Version     uint32    // Bumped on every content edit, starts at 1
	ContentHash uint64    // HashContent of the current content
	Reactions   map[string]int
	Mentions    []string
	Attachments []string
	Keywords    []string  // Non-stop-word tokens, populated by processors
	Vector      []float32 // Embedding vector for semantic search, populated by processors
}

// DedupRecord tracks the identity of one logical message for deduplication.
// One record exists per dedup key; it is mutated in place on update.
type DedupRecord struct {
	Key         string
	MessageId   ID
	ContentHash uint64
	Version     uint32
	Reactions   map[string]int
	UpdatedAt   time.Time
}

// ThreadContext is a read-only view over a reply thread.
// It is assembled on demand and never persisted.
type ThreadContext struct {
	ThreadId      string
	Parent        *Message
	Recent        []*Message // Bounded window of the most recent replies, oldest first
	TotalMessages int
}

// ConversationChunk is a time- and size-bounded grouping of messages
// treated as one topical unit for retrieval.
type ConversationChunk struct {
	Id           ID
	Topic        string
	Messages     []*Message // Ordered by timestamp, never empty
	StartTime    time.Time
	EndTime      time.Time
	Participants int
	Summary      string
}

// Intent classifies what a natural-language query is asking for.
type Intent int

const (
	// IntentSearch is the default intent: find matching messages.
	IntentSearch Intent = iota + 1
	// IntentShow asks to display specific messages.
	IntentShow
	// IntentList asks for an enumeration.
	IntentList
	// IntentAnalyze asks for analysis over messages.
	IntentAnalyze
	// IntentSummarize asks for a summary.
	IntentSummarize
	// IntentCompare asks to compare messages or topics.
	IntentCompare
	// IntentFilter asks to narrow a result set.
	IntentFilter
)

// String returns the lowercase name of the intent.
func (i Intent) String() string {
	switch i {
	case IntentSearch:
		return "search"
	case IntentShow:
		return "show"
	case IntentList:
		return "list"
	case IntentAnalyze:
		return "analyze"
	case IntentSummarize:
		return "summarize"
	case IntentCompare:
		return "compare"
	case IntentFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// TemporalKind distinguishes relative temporal hints ("yesterday") from
// absolute ones ("2025-06-01").
type TemporalKind int

const (
	// TemporalRelative is a phrase resolved against the current clock.
	TemporalRelative TemporalKind = iota + 1
	// TemporalAbsolute is a concrete date or date range.
	TemporalAbsolute
)

// TemporalHint is a parsed, resolved date range extracted from a query.
// Start and End bound the range inclusively.
type TemporalHint struct {
	Kind  TemporalKind
	Raw   string // The matched phrase as it appeared in the query
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the hint's resolved range.
func (h *TemporalHint) Contains(ts time.Time) bool {
	return !ts.Before(h.Start) && !ts.After(h.End)
}

// String returns the lowercase name of the temporal kind.
func (k TemporalKind) String() string {
	switch k {
	case TemporalRelative:
		return "relative"
	case TemporalAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Entity is a named entity (person, organization, place) found in a query.
type Entity struct {
	Name string
	Type string
}

// ParsedQuery is the structured form of a natural-language query.
// It is created fresh per parse call and never mutated afterwards.
type ParsedQuery struct {
	Original string
	Intent   Intent
	Keywords []string // Stop-words removed, first-seen order, deduplicated
	Entities []Entity
	Channels []string
	Users    []string
	Temporal *TemporalHint // nil when the query carries no temporal hint
}

// SearchResult is one ranked hit from the hybrid search engine.
// All scores are in [0,1].
type SearchResult struct {
	Message         *Message
	SemanticScore   float32
	KeywordScore    float32
	TemporalScore   float32
	CombinedScore   float32
	MatchedKeywords []string
}
