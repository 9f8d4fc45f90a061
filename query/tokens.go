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


package query

import "strings"

// stopWords are dropped during keyword extraction. The set covers query
// scaffolding ("show me messages about ...") in addition to ordinary
// English stop words, so that the surviving keywords carry the topical
// content of the query.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"about": true, "as": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true,
	"can": true, "may": true, "might": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true,
	"i": true, "me": true, "my": true, "we": true, "our": true,
	"you": true, "your": true, "he": true, "she": true, "they": true,
	"them": true, "their": true, "what": true, "which": true,
	"who": true, "whom": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "any": true, "some": true,
	"no": true, "not": true, "so": true, "than": true, "too": true,
	"very": true, "just": true, "there": true, "here": true,
	// query scaffolding
	"show": true, "find": true, "search": true, "look": true,
	"list": true, "display": true, "get": true, "give": true,
	"messages": true, "message": true, "said": true, "say": true,
	"mention": true, "mentioned": true, "talk": true, "talked": true,
	"please": true, "want": true, "need": true,
}

// tokenize splits text into lowercase word tokens, stripping punctuation
// from token edges. Tokens that are empty after stripping are dropped.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Keywords extracts the topical keywords of arbitrary text: lowercase
// tokens with stop words removed, deduplicated in first-seen order.
// Ingestion uses this to index message contents with the same token
// rules the parser applies to queries.
func Keywords(text string) []string {
	return extractKeywords(text, nil)
}

// extractKeywords returns the non-stop-word tokens of text, deduplicated
// in first-seen order. Tokens listed in claimed are skipped; the parser
// uses this to exclude words already consumed as channel, user, or
// temporal references.
func extractKeywords(text string, claimed map[string]bool) []string {
	tokens := tokenize(text)
	seen := make(map[string]bool, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopWords[tok] || claimed[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}
