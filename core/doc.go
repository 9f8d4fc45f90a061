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


// Package core defines the domain model for chatsift.
//
// It contains the central types shared by all other packages:
//
//   - Message: a captured conversational message with optional enrichments
//   - DedupRecord: per-identity bookkeeping for the deduplication gate
//   - ThreadContext: a read-only view over a reply thread
//   - ConversationChunk: a topical grouping of messages for retrieval
//   - ParsedQuery, TemporalHint: the structured form of a search query
//   - SearchResult: one ranked hit with its component scores
//
// The package also provides content-based hashing (IDFromContent, HashContent)
// and validation of messages at the ingestion boundary. Serialization code for
// persisted types is generated by cmd/musgen (go generate ./core).
package core
