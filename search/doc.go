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


// Package search implements hybrid retrieval over stored chat messages.
//
// A query is scored against candidates on three signals:
//
//   - semantic: cosine similarity between the query embedding and the
//     candidate's stored embedding
//   - keyword: fraction of the query's keywords found in the candidate
//   - temporal: proximity of the candidate's timestamp to the query's
//     resolved time hint (neutral when the query has none)
//
// The three signals are combined through a single ScoreWeights policy,
// and results come back sorted by combined score with recency as the
// tie-break. Candidate retrieval for the three signals runs
// concurrently; searches are read-only and can run alongside ingestion.
package search
