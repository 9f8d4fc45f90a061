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


// Package ai defines the AI service abstractions used by chatsift.
//
// Two capabilities are consumed by the engine:
//
//   - Embedder: text to embedding vectors, used for semantic search
//   - EntityRecognizer: named-entity spans (person/organization/place),
//     used by the query parser
//
// The Provider interface aggregates both behind a single lifecycle. Production
// implementations live in the openai subpackage (any OpenAI-compatible API);
// deterministic test doubles live in the mock subpackage.
//
// Implementations are injected into constructors by the composition root; no
// package in this module constructs a provider ad hoc.
package ai
