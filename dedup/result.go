package dedup

import "github.com/poiesic/chatsift/core"

// Status classifies the outcome of processing one message through the gate.
type Status int

const (
	// StatusNew means no record existed for the dedup key; the message
	// was persisted for the first time.
	StatusNew Status = iota + 1
	// StatusDuplicate means an identical message (same content hash,
	// same reactions) was already stored; nothing was written.
	StatusDuplicate
	// StatusUpdated means the content changed for an existing key; the
	// stored message was replaced and its version bumped.
	StatusUpdated
	// StatusReactionsUpdated means only the reaction map changed;
	// content hash and version are untouched.
	StatusReactionsUpdated
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusDuplicate:
		return "duplicate"
	case StatusUpdated:
		return "updated"
	case StatusReactionsUpdated:
		return "reactions_updated"
	default:
		return "unknown"
	}
}

// Result is the terminal output of the gate for one message.
type Result struct {
	Status    Status
	MessageId core.ID
}
