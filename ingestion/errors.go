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


package ingestion

import "errors"

var (
	// ErrMessageRepositoryRequired is returned when a message repository is not provided.
	ErrMessageRepositoryRequired = errors.New("message repository required")

	// ErrGateRequired is returned when a deduplication gate is not provided.
	ErrGateRequired = errors.New("deduplication gate required")

	// ErrContextualizerRequired is returned when a contextualizer is not provided.
	ErrContextualizerRequired = errors.New("contextualizer required")

	// ErrOutOfOrder is returned when a message arrives with a timestamp
	// earlier than one already processed for its channel. Out-of-order
	// input is rejected, not buffered; the caller owns reordering.
	ErrOutOfOrder = errors.New("message timestamp is earlier than already-processed messages in channel")
)
