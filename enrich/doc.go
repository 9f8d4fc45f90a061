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


// Package enrich builds context-aware representations of chat messages.
//
// Chat messages are often too short to embed meaningfully on their own:
// "👍" or "lgtm" carries its meaning from the thread it replies to. The
// Contextualizer solves this by producing enhanced text that weaves in
// the thread's parent message and recent replies before embedding, and
// by glossing short messages with their conventional meaning.
//
// The package also groups message streams into ConversationChunks,
// time- and size-bounded topical units that can be embedded and
// retrieved as a whole.
package enrich
