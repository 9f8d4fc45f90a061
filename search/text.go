package search

import "strings"

// matchKeywords returns which of the query keywords appear in the
// message. A keyword matches on an exact hit in the message's keyword
// set or a case-insensitive substring hit in the content.
func matchKeywords(queryKeywords []string, msgKeywords []string, contents string) []string {
	if len(queryKeywords) == 0 {
		return nil
	}

	keywordSet := make(map[string]bool, len(msgKeywords))
	for _, k := range msgKeywords {
		keywordSet[strings.ToLower(k)] = true
	}
	loweredContents := strings.ToLower(contents)

	matched := make([]string, 0, len(queryKeywords))
	for _, q := range queryKeywords {
		lowered := strings.ToLower(q)
		if keywordSet[lowered] || strings.Contains(loweredContents, lowered) {
			matched = append(matched, q)
		}
	}
	return matched
}

// keywordScore is the fraction of query keywords matched, 0 when the
// query has no keywords at all.
func keywordScore(queryKeywords, matched []string) float32 {
	if len(queryKeywords) == 0 {
		return 0
	}
	return float32(len(matched)) / float32(len(queryKeywords))
}
