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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptySender indicates the Sender field is empty.
	ErrEmptySender = errors.New("sender cannot be empty")

	// ErrEmptyContent indicates the Contents field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyChannel indicates the Channel field is empty.
	ErrEmptyChannel = errors.New("channel cannot be empty")

	// ErrInvalidMessageType indicates an invalid MessageType value.
	ErrInvalidMessageType = errors.New("invalid message type")

	// ErrInvalidTimestamp indicates a timestamp is missing or in the future.
	ErrInvalidTimestamp = errors.New("timestamp must be set and not in the future")
)
