package query

import (
	"strings"

	"github.com/poiesic/chatsift/core"
)

// intentTrigger maps a leading phrase or contained keyword to an intent.
// Triggers are checked in order; the first match wins.
type intentTrigger struct {
	phrase string
	intent core.Intent
}

// Ordered by specificity. "compare" must come before "show" style
// fallbacks because comparison queries often also say "show me".
var intentTriggers = []intentTrigger{
	{"compare", core.IntentCompare},
	{"difference between", core.IntentCompare},
	{"summarize", core.IntentSummarize},
	{"summary of", core.IntentSummarize},
	{"tl;dr", core.IntentSummarize},
	{"analyze", core.IntentAnalyze},
	{"analysis of", core.IntentAnalyze},
	{"how many", core.IntentAnalyze},
	{"list", core.IntentList},
	{"list all", core.IntentList},
	{"show me", core.IntentShow},
	{"show", core.IntentShow},
	{"display", core.IntentShow},
	{"only", core.IntentFilter},
	{"filter", core.IntentFilter},
	{"exclude", core.IntentFilter},
	{"find", core.IntentSearch},
	{"search", core.IntentSearch},
	{"look for", core.IntentSearch},
	{"what did", core.IntentSearch},
	{"who said", core.IntentSearch},
}

// detectIntent classifies a query into an intent. Queries with no
// recognizable trigger default to search, which is the safe fallback
// for a retrieval system.
func detectIntent(text string) core.Intent {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, trigger := range intentTriggers {
		if strings.HasPrefix(lowered, trigger.phrase) {
			return trigger.intent
		}
	}
	// Second pass: triggers anywhere in the text, still first-match-wins.
	for _, trigger := range intentTriggers {
		if strings.Contains(lowered, trigger.phrase) {
			return trigger.intent
		}
	}
	return core.IntentSearch
}
