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


package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/chatsift/ai"
	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/query"
	"github.com/poiesic/chatsift/storage"
)

const (
	// defaultSimilarityFloor is the minimum cosine similarity for the
	// semantic candidate pass. Kept low on purpose: keyword and temporal
	// signals can still lift a weak semantic candidate.
	defaultSimilarityFloor = 0.30

	// semanticCandidateMultiplier oversamples the semantic pass so the
	// combined ranking has candidates to reorder.
	semanticCandidateMultiplier = 4

	// temporalDecayHours controls how fast the temporal score decays
	// per hour outside the hinted range.
	temporalDecayHours = 24.0
)

// Response carries ranked results plus guidance when the result set is
// empty. Guidance is advice to the caller, not an error: an empty result
// is a valid outcome.
type Response struct {
	Results  []*core.SearchResult
	Guidance string
}

// Engine ranks stored messages against parsed queries by combining
// semantic, keyword, and temporal relevance signals.
type Engine struct {
	messages storage.MessageRepository
	parser   *query.Parser
	embedder ai.Embedder
	weights  ScoreWeights
	minScore float32
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithWeights sets the scoring policy.
// Default is DefaultWeights().
func WithWeights(weights ScoreWeights) Option {
	return func(e *Engine) error {
		e.weights = weights
		return nil
	}
}

// WithMinScore excludes results whose combined score falls below the
// threshold. Default is 0 (no exclusion).
func WithMinScore(minScore float32) Option {
	return func(e *Engine) error {
		e.minScore = minScore
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new hybrid search engine.
func NewEngine(
	messages storage.MessageRepository,
	parser *query.Parser,
	embedder ai.Embedder,
	opts ...Option,
) (*Engine, error) {
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		messages: messages,
		parser:   parser,
		embedder: embedder,
		weights:  DefaultWeights(),
		logger:   slog.Default().With("component", "search-engine"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search parses the query text and ranks matching messages.
func (e *Engine) Search(ctx context.Context, queryText string, limit int) (*Response, error) {
	return e.SearchWithMonitor(ctx, queryText, limit, nil)
}

// SearchWithMonitor is Search with observation hooks at each stage.
func (e *Engine) SearchWithMonitor(ctx context.Context, queryText string, limit int, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(queryText)

	parsed := e.parser.Parse(ctx, queryText)
	monitor.AfterParse(parsed)

	return e.SearchParsed(ctx, parsed, limit, monitor)
}

// SearchParsed ranks messages against an already-parsed query. Results
// are sorted descending by combined score, ties broken by most recent
// timestamp, truncated to limit.
func (e *Engine) SearchParsed(ctx context.Context, parsed *core.ParsedQuery, limit int, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit <= 0 {
		limit = 10
	}

	queryVector, err := e.embedder.EmbedText(ctx, parsed.Original)
	if err != nil {
		e.logger.Error("error generating embedding for query", "query", parsed.Original, "err", err)
		return nil, err
	}

	candidates, err := e.gatherCandidates(ctx, parsed, queryVector, limit, monitor)
	if err != nil {
		return nil, err
	}

	results := e.scoreCandidates(parsed, queryVector, candidates)

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].Message.Timestamp.After(results[j].Message.Timestamp)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	monitor.Finish(results)

	response := &Response{Results: results}
	if len(results) == 0 {
		response.Guidance = buildGuidance(parsed)
	}
	return response, nil
}

// gatherCandidates runs the three retrieval passes concurrently and
// merges their hits into one candidate set.
func (e *Engine) gatherCandidates(ctx context.Context, parsed *core.ParsedQuery, queryVector []float32, limit int, monitor SearchMonitor) (map[core.ID]*core.Message, error) {
	var (
		mu         sync.Mutex
		candidates = make(map[core.ID]*core.Message)
	)

	addMessages := func(messages []*core.Message) {
		mu.Lock()
		defer mu.Unlock()
		for _, m := range messages {
			if m != nil {
				candidates[m.Id] = m
			}
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// Semantic pass
	group.Go(func() error {
		matches, err := e.messages.FindSimilar(groupCtx, queryVector, defaultSimilarityFloor, limit*semanticCandidateMultiplier)
		if err != nil {
			return err
		}
		ids := make([]uint64, 0, len(matches))
		messages := make([]*core.Message, 0, len(matches))
		for _, match := range matches {
			ids = append(ids, uint64(match.Message.Id))
			messages = append(messages, match.Message)
		}
		monitor.AfterSemanticSearch(ids)
		addMessages(messages)
		return nil
	})

	// Keyword pass
	group.Go(func() error {
		idSet := make(map[core.ID]bool)
		for _, keyword := range parsed.Keywords {
			ids, err := e.messages.GetMessagesByKeyword(groupCtx, keyword)
			if err != nil {
				return err
			}
			for _, id := range ids {
				idSet[id] = true
			}
		}
		if len(idSet) == 0 {
			monitor.AfterKeywordSearch(nil)
			return nil
		}

		ids := make([]core.ID, 0, len(idSet))
		rawIds := make([]uint64, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
			rawIds = append(rawIds, uint64(id))
		}
		monitor.AfterKeywordSearch(rawIds)

		messages, err := e.messages.GetMessages(groupCtx, ids...)
		if err != nil {
			return err
		}
		addMessages(messages)
		return nil
	})

	// Temporal pass
	group.Go(func() error {
		if parsed.Temporal == nil {
			monitor.AfterTemporalSearch(nil)
			return nil
		}
		messages, err := e.messages.GetMessagesByDateRange(groupCtx, parsed.Temporal.Start, parsed.Temporal.End)
		if err != nil {
			return err
		}
		ids := make([]uint64, 0, len(messages))
		for _, m := range messages {
			ids = append(ids, uint64(m.Id))
		}
		monitor.AfterTemporalSearch(ids)
		addMessages(messages)
		return nil
	})

	if err := group.Wait(); err != nil {
		e.logger.Error("candidate gathering failed", "err", err)
		return nil, err
	}

	retrieved := make([]*core.Message, 0, len(candidates))
	for _, m := range candidates {
		retrieved = append(retrieved, m)
	}
	monitor.AfterRetrieval(retrieved)

	return candidates, nil
}

// scoreCandidates computes the three signals and the combined score for
// every candidate, applying the query's channel/user filters.
func (e *Engine) scoreCandidates(parsed *core.ParsedQuery, queryVector []float32, candidates map[core.ID]*core.Message) []*core.SearchResult {
	results := make([]*core.SearchResult, 0, len(candidates))

	for _, msg := range candidates {
		if !passesFilters(parsed, msg) {
			continue
		}

		semantic := semanticScore(queryVector, msg.Vector)
		matched := matchKeywords(parsed.Keywords, msg.Keywords, msg.Contents)
		keyword := keywordScore(parsed.Keywords, matched)
		temporal := temporalScore(parsed.Temporal, msg.Timestamp)
		combined := e.weights.Combine(semantic, keyword, temporal)

		if combined < e.minScore {
			continue
		}

		results = append(results, &core.SearchResult{
			Message:         msg,
			SemanticScore:   semantic,
			KeywordScore:    keyword,
			TemporalScore:   temporal,
			CombinedScore:   combined,
			MatchedKeywords: matched,
		})
	}

	return results
}

// semanticScore maps cosine similarity of normalized vectors into [0,1].
// Candidates without a stored embedding score 0 on this signal.
func semanticScore(queryVector, msgVector []float32) float32 {
	if len(queryVector) == 0 || len(msgVector) == 0 {
		return 0
	}
	var sum float32
	n := len(queryVector)
	if len(msgVector) < n {
		n = len(msgVector)
	}
	for i := 0; i < n; i++ {
		sum += queryVector[i] * msgVector[i]
	}
	return clamp01(sum)
}

// temporalScore is neutral (1.0) without a hint, 1.0 inside the hinted
// range, and decays exponentially with distance outside it.
func temporalScore(hint *core.TemporalHint, timestamp time.Time) float32 {
	if hint == nil {
		return 1.0
	}
	if hint.Contains(timestamp) {
		return 1.0
	}

	var outside time.Duration
	if timestamp.Before(hint.Start) {
		outside = hint.Start.Sub(timestamp)
	} else {
		outside = timestamp.Sub(hint.End)
	}
	hours := outside.Hours()
	return float32(math.Exp(-hours / temporalDecayHours))
}

// passesFilters applies channel and user constraints from the query.
func passesFilters(parsed *core.ParsedQuery, msg *core.Message) bool {
	if len(parsed.Channels) > 0 {
		found := false
		for _, channel := range parsed.Channels {
			if strings.EqualFold(channel, msg.Channel) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(parsed.Users) > 0 {
		found := false
		for _, user := range parsed.Users {
			if strings.EqualFold(user, msg.Sender) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// buildGuidance explains an empty result set in actionable terms.
func buildGuidance(parsed *core.ParsedQuery) string {
	var hints []string
	if len(parsed.Keywords) > 0 {
		hints = append(hints, "try fewer or more general keywords")
	}
	if len(parsed.Channels) > 0 {
		hints = append(hints, "drop the channel filter")
	}
	if len(parsed.Users) > 0 {
		hints = append(hints, "drop the sender filter")
	}
	if parsed.Temporal != nil {
		hints = append(hints, "widen the time range")
	}
	if len(hints) == 0 {
		return "No messages matched. The store may be empty or messages may not be embedded yet."
	}
	return "No messages matched. Suggestions: " + strings.Join(hints, "; ") + "."
}
