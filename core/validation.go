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


package core

import (
	"fmt"
	"time"
)

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Sender must not be empty
//   - Contents must not be empty
//   - Channel must not be empty
//   - Type must be a known MessageType
//   - Timestamp must be set and not in the future
//
// NOT validated (populated by processors or the store):
//   - Vector and Keywords (empty until enrichment runs)
//   - ContentHash and Version (set by the deduplication gate)
//   - ID (0 is valid before the store assigns one)
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.Sender == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptySender)
	}

	if msg.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}

	if msg.Channel == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyChannel)
	}

	if err := ValidateMessageType(msg.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if !IsValidTimestamp(msg.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateMessageType validates that a MessageType has a valid value.
func ValidateMessageType(t MessageType) error {
	switch t {
	case MessageTypeRegular, MessageTypeThread, MessageTypeReply, MessageTypeSystem, MessageTypeBot:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidMessageType, t)
	}
}

// IsValidTimestamp checks if a timestamp is set and not in the future.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.IsZero() && !ts.After(time.Now())
}
