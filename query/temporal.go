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

import (
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/chatsift/core"
)

// relativeResolver computes a concrete time range from the reference
// clock. Ranges are half-open in spirit but stored as [Start, End]
// with End at the last covered instant.
type relativeResolver func(now time.Time) (start, end time.Time)

type relativePhrase struct {
	phrase  string
	resolve relativeResolver
}

// Longer phrases first so "last week" is not shadowed by a
// hypothetical "last" entry.
var relativePhrases = []relativePhrase{
	{"this morning", func(now time.Time) (time.Time, time.Time) {
		day := startOfDay(now)
		return day, day.Add(12 * time.Hour)
	}},
	{"last night", func(now time.Time) (time.Time, time.Time) {
		day := startOfDay(now)
		return day.Add(-6 * time.Hour), day
	}},
	{"yesterday", func(now time.Time) (time.Time, time.Time) {
		day := startOfDay(now).AddDate(0, 0, -1)
		return day, day.AddDate(0, 0, 1)
	}},
	{"today", func(now time.Time) (time.Time, time.Time) {
		day := startOfDay(now)
		return day, day.AddDate(0, 0, 1)
	}},
	{"last week", func(now time.Time) (time.Time, time.Time) {
		return now.AddDate(0, 0, -14), now.AddDate(0, 0, -7)
	}},
	{"this week", func(now time.Time) (time.Time, time.Time) {
		return now.AddDate(0, 0, -7), now
	}},
	{"last month", func(now time.Time) (time.Time, time.Time) {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -1, 0), first
	}},
	{"this month", func(now time.Time) (time.Time, time.Time) {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, now
	}},
	{"last year", func(now time.Time) (time.Time, time.Time) {
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(-1, 0, 0), first
	}},
	{"recently", func(now time.Time) (time.Time, time.Time) {
		return now.AddDate(0, 0, -3), now
	}},
}

var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayPattern  = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	monthYearPattern = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// detectTemporal finds the first temporal reference in text and resolves
// it against now. It returns the hint and the raw phrase that was
// consumed, or nil if no reference was found. Relative phrases take
// precedence over absolute dates; a query rarely contains both, and
// relative phrases are the common case in chat search.
func detectTemporal(text string, now time.Time) *core.TemporalHint {
	lowered := strings.ToLower(text)

	for _, rel := range relativePhrases {
		if strings.Contains(lowered, rel.phrase) {
			start, end := rel.resolve(now)
			return &core.TemporalHint{
				Kind:  core.TemporalRelative,
				Raw:   rel.phrase,
				Start: start,
				End:   end,
			}
		}
	}

	if m := isoDatePattern.FindString(lowered); m != "" {
		if day, err := time.ParseInLocation("2006-01-02", m, now.Location()); err == nil {
			return &core.TemporalHint{
				Kind:  core.TemporalAbsolute,
				Raw:   m,
				Start: day,
				End:   day.AddDate(0, 0, 1),
			}
		}
	}

	if m := monthDayPattern.FindStringSubmatch(lowered); m != nil {
		month := monthsByName[m[1]]
		day := parseSmallInt(m[2])
		if day >= 1 && day <= 31 {
			candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
			// A bare month/day in a search query refers to the most recent
			// occurrence, never a future date.
			if candidate.After(now) {
				candidate = candidate.AddDate(-1, 0, 0)
			}
			return &core.TemporalHint{
				Kind:  core.TemporalAbsolute,
				Raw:   m[0],
				Start: candidate,
				End:   candidate.AddDate(0, 0, 1),
			}
		}
	}

	if m := monthYearPattern.FindStringSubmatch(lowered); m != nil {
		month := monthsByName[m[1]]
		year := parseSmallInt(m[2])
		if year > 0 {
			first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
			return &core.TemporalHint{
				Kind:  core.TemporalAbsolute,
				Raw:   m[0],
				Start: first,
				End:   first.AddDate(0, 1, 0),
			}
		}
	}

	return nil
}

// parseSmallInt parses a short digit string without pulling in strconv
// error handling at each call site. Returns 0 on any non-digit input.
func parseSmallInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
