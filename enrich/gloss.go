package enrich

import "strings"

// glossKind distinguishes the two classes of short-message tokens that
// carry conventional meaning.
type glossKind int

const (
	glossEmoji glossKind = iota + 1
	glossAbbreviation
)

// glossEntry maps a short token to its conventional meaning in chat.
type glossEntry struct {
	token   string
	meaning string
	kind    glossKind
}

// The table is small and scanned linearly. Token matching is exact
// after lowercasing and trimming, so "LGTM" and "lgtm" both hit.
var glossTable = []glossEntry{
	{"👍", "approval confirmation", glossEmoji},
	{"👎", "disapproval", glossEmoji},
	{"✅", "confirmation that something is done", glossEmoji},
	{"❌", "rejection or failure", glossEmoji},
	{"🎉", "celebration", glossEmoji},
	{"👀", "acknowledgment, looking into it", glossEmoji},
	{"🙏", "thanks or a request", glossEmoji},
	{"❤️", "appreciation", glossEmoji},
	{"😂", "amusement", glossEmoji},
	{"🚀", "launch or shipping excitement", glossEmoji},
	{"lgtm", "looks good to me, approval", glossAbbreviation},
	{"ack", "acknowledged", glossAbbreviation},
	{"nack", "not acknowledged, rejection", glossAbbreviation},
	{"+1", "agreement, approval", glossAbbreviation},
	{"-1", "disagreement", glossAbbreviation},
	{"wfm", "works for me, approval", glossAbbreviation},
	{"sgtm", "sounds good to me, approval", glossAbbreviation},
	{"ty", "thank you", glossAbbreviation},
	{"thx", "thank you", glossAbbreviation},
	{"np", "no problem", glossAbbreviation},
	{"brb", "be right back", glossAbbreviation},
	{"afk", "away from keyboard", glossAbbreviation},
	{"eod", "end of day", glossAbbreviation},
	{"eta", "estimated time of arrival", glossAbbreviation},
	{"ptal", "please take another look, review request", glossAbbreviation},
	{"wip", "work in progress", glossAbbreviation},
	{"imo", "in my opinion", glossAbbreviation},
	{"fyi", "for your information", glossAbbreviation},
	{"ok", "agreement", glossAbbreviation},
	{"yes", "affirmative answer", glossAbbreviation},
	{"no", "negative answer", glossAbbreviation},
	{"done", "task completion", glossAbbreviation},
}

// lookupGloss returns the table entry for a token, if any.
func lookupGloss(content string) (glossEntry, bool) {
	token := strings.ToLower(strings.TrimSpace(content))
	for _, entry := range glossTable {
		if entry.token == token {
			return entry, true
		}
	}
	return glossEntry{}, false
}

// describeGloss renders the entry as a gloss phrase appropriate to its
// kind. Exhaustive over glossKind.
func describeGloss(entry glossEntry) string {
	switch entry.kind {
	case glossEmoji:
		return "emoji expressing " + entry.meaning
	case glossAbbreviation:
		return "shorthand for " + entry.meaning
	default:
		return entry.meaning
	}
}
