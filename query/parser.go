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
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/chatsift/ai"
	"github.com/poiesic/chatsift/core"
)

var (
	channelHashPattern   = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
	channelPhrasePattern = regexp.MustCompile(`\bin (?:the )?([a-zA-Z0-9_-]+) channel\b`)
	userAtPattern        = regexp.MustCompile(`@([a-zA-Z0-9._-]+)`)
	userPhrasePattern    = regexp.MustCompile(`\b(?:from|by) ([a-zA-Z0-9._-]+)\b`)
)

// Parser turns free-form natural language queries into structured
// ParsedQuery values. Parsing is best-effort and never fails: if the
// entity recognizer is unavailable the query still parses, just without
// recognized entities.
type Parser struct {
	recognizer ai.EntityRecognizer
	now        func() time.Time
	logger     *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithClock overrides the reference clock used to resolve relative
// temporal phrases. Intended for tests.
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser creates a query parser. The recognizer may be nil, in which
// case entity recognition is skipped entirely.
func NewParser(recognizer ai.EntityRecognizer, opts ...ParserOption) *Parser {
	p := &Parser{
		recognizer: recognizer,
		now:        time.Now,
		logger:     slog.Default().With("component", "query-parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse analyzes a natural language query and extracts its intent,
// keywords, entities, channel and user filters, and temporal hints.
//
// Extraction is layered: channel markers (#channel, "in X channel")
// are claimed first, then temporal phrases, then user references
// ("@user", "from X"), and whatever tokens remain feed keyword
// extraction. Temporal phrases resolve before user extraction so that
// "from yesterday" reads as a time filter, not a sender named
// yesterday. Recognizer failures are logged and degrade to an empty
// entity list.
func (p *Parser) Parse(ctx context.Context, text string) *core.ParsedQuery {
	parsed := &core.ParsedQuery{
		Original: text,
		Intent:   detectIntent(text),
	}

	claimed := make(map[string]bool)
	lowered := strings.ToLower(text)

	parsed.Channels = p.extractChannels(lowered, claimed)

	if hint := detectTemporal(lowered, p.now()); hint != nil {
		parsed.Temporal = hint
		for _, tok := range strings.Fields(hint.Raw) {
			claimed[tok] = true
		}
	}

	parsed.Users = p.extractUsers(lowered, claimed)
	parsed.Keywords = extractKeywords(lowered, claimed)
	parsed.Entities = p.recognizeEntities(ctx, text)

	p.logger.Debug("parsed query",
		"intent", parsed.Intent.String(),
		"keywords", len(parsed.Keywords),
		"channels", len(parsed.Channels),
		"users", len(parsed.Users),
		"entities", len(parsed.Entities),
		"temporal", parsed.Temporal != nil)

	return parsed
}

func (p *Parser) extractChannels(lowered string, claimed map[string]bool) []string {
	channels := make([]string, 0, 2)
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		claimed[name] = true
		channels = append(channels, name)
	}

	for _, m := range channelHashPattern.FindAllStringSubmatch(lowered, -1) {
		claimed["#"+m[1]] = true
		add(m[1])
	}
	for _, m := range channelPhrasePattern.FindAllStringSubmatch(lowered, -1) {
		claimed["channel"] = true
		add(m[1])
	}
	return channels
}

// extractUsers finds sender references. Tokens already claimed by a
// channel marker or a temporal phrase are not sender names, and
// neither are month names or bare numbers ("from january 2025" is a
// date even when the temporal detector did not consume it).
func (p *Parser) extractUsers(lowered string, claimed map[string]bool) []string {
	users := make([]string, 0, 2)
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] || stopWords[name] || claimed[name] {
			return
		}
		if _, isMonth := monthsByName[name]; isMonth {
			return
		}
		if parseSmallInt(name) > 0 {
			return
		}
		seen[name] = true
		claimed[name] = true
		users = append(users, name)
	}

	for _, m := range userAtPattern.FindAllStringSubmatch(lowered, -1) {
		claimed["@"+m[1]] = true
		add(m[1])
	}
	for _, m := range userPhrasePattern.FindAllStringSubmatch(lowered, -1) {
		add(m[1])
	}
	return users
}

func (p *Parser) recognizeEntities(ctx context.Context, text string) []core.Entity {
	if p.recognizer == nil {
		return nil
	}

	recognized, err := p.recognizer.RecognizeEntities(ctx, text)
	if err != nil {
		p.logger.Warn("entity recognition failed, continuing without entities", "error", err)
		return nil
	}

	entities := make([]core.Entity, 0, len(recognized))
	for _, r := range recognized {
		entities = append(entities, core.Entity{
			Name: r.Name,
			Type: r.Type,
		})
	}
	return entities
}
