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


// Package query parses natural language search queries into structured form.
//
// The parser extracts five layers of information from a query string:
//
//   - Intent: what kind of answer the user wants (search, list, analyze, ...)
//   - Channels: explicit channel references (#general, "in the dev channel")
//   - Users: explicit sender references (@alice, "from bob")
//   - Temporal: relative ("yesterday", "last week") and absolute
//     ("2025-03-01", "january 2025") time references
//   - Keywords: the remaining topical tokens, stop words removed
//
// Entity recognition is delegated to an ai.EntityRecognizer and is
// strictly optional: a failed or absent recognizer degrades the parse
// rather than failing it. Parse never returns an error.
package query
