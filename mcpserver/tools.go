package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/poiesic/chatsift/core"
	"github.com/poiesic/chatsift/ingestion"
	"github.com/poiesic/chatsift/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeMessageNotFound = -32001 // No stored message with the given id
	ErrorCodeOutOfOrder      = -32002 // Message older than already-ingested messages in its channel
	ErrorCodeEmptyQuery      = -32004 // Query parameter is empty
)

// handleIngestMessage handles the ingest_message tool invocation
func (s *Server) handleIngestMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	msg := &core.Message{
		Sender:   getStringDefault(args, "sender", ""),
		Contents: getStringDefault(args, "contents", ""),
		Channel:  getStringDefault(args, "channel", ""),
		SourceId: getStringDefault(args, "source_id", ""),
		ThreadId: getStringDefault(args, "thread_id", ""),
		Type:     core.ParseMessageType(getStringDefault(args, "type", "regular")),
	}

	rawTimestamp, ok := args["timestamp"].(string)
	if !ok || rawTimestamp == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "timestamp parameter is required", map[string]interface{}{
			"param":  "timestamp",
			"reason": "missing or empty",
		})
	}
	timestamp, err := time.Parse(time.RFC3339, rawTimestamp)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "timestamp must be RFC 3339", map[string]interface{}{
			"param": "timestamp",
			"value": rawTimestamp,
		})
	}
	msg.Timestamp = timestamp

	if reactions, ok := args["reactions"].(map[string]interface{}); ok {
		msg.Reactions = make(map[string]int, len(reactions))
		for emoji, count := range reactions {
			if n, ok := count.(float64); ok {
				msg.Reactions[emoji] = int(n)
			}
		}
	}
	msg.Mentions = getStringSlice(args, "mentions")
	msg.Attachments = getStringSlice(args, "attachments")

	result, err := s.pipeline.Ingest(ctx, msg)
	switch {
	case errors.Is(err, ingestion.ErrOutOfOrder):
		return nil, newMCPError(ErrorCodeOutOfOrder, "message is out of order", map[string]interface{}{
			"channel": msg.Channel,
			"error":   err.Error(),
		})
	case errors.Is(err, core.ErrInvalidMessage):
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid message", map[string]interface{}{
			"error": err.Error(),
		})
	case err != nil:
		return nil, newMCPError(ErrorCodeInternalError, "ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"status":     result.Status.String(),
		"message_id": formatID(result.MessageId),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchMessages handles the search_messages tool invocation
func (s *Server) handleSearchMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	queryText, ok := args["query"].(string)
	if !ok || queryText == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	resp, err := s.engine.Search(ctx, queryText, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		entry := messageJSON(r.Message)
		entry["semantic_score"] = r.SemanticScore
		entry["keyword_score"] = r.KeywordScore
		entry["temporal_score"] = r.TemporalScore
		entry["combined_score"] = r.CombinedScore
		entry["matched_keywords"] = r.MatchedKeywords
		results = append(results, entry)
	}

	response := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}
	if resp.Guidance != "" {
		response["guidance"] = resp.Guidance
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleParseQuery handles the parse_natural_query tool invocation
func (s *Server) handleParseQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	queryText, ok := args["query"].(string)
	if !ok || queryText == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	parsed := s.parser.Parse(ctx, queryText)

	entities := make([]map[string]interface{}, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		entities = append(entities, map[string]interface{}{
			"name": e.Name,
			"type": e.Type,
		})
	}

	response := map[string]interface{}{
		"original": parsed.Original,
		"intent":   parsed.Intent.String(),
		"keywords": parsed.Keywords,
		"channels": parsed.Channels,
		"users":    parsed.Users,
		"entities": entities,
	}
	if parsed.Temporal != nil {
		response["temporal"] = map[string]interface{}{
			"kind":  parsed.Temporal.Kind.String(),
			"raw":   parsed.Temporal.Raw,
			"start": parsed.Temporal.Start.Format(time.RFC3339),
			"end":   parsed.Temporal.End.Format(time.RFC3339),
		}
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetThreadContext handles the get_thread_context tool invocation
func (s *Server) handleGetThreadContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	threadID, ok := args["thread_id"].(string)
	if !ok || threadID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "thread_id parameter is required", map[string]interface{}{
			"param":  "thread_id",
			"reason": "missing or empty",
		})
	}

	tc, err := s.db.ThreadContext(ctx, threadID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load thread context", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if tc == nil {
		response := map[string]interface{}{
			"found":     false,
			"thread_id": threadID,
			"message":   "Thread has no messages.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	recent := make([]map[string]interface{}, 0, len(tc.Recent))
	for _, m := range tc.Recent {
		recent = append(recent, messageJSON(m))
	}

	response := map[string]interface{}{
		"found":          true,
		"thread_id":      tc.ThreadId,
		"parent":         messageJSON(tc.Parent),
		"recent":         recent,
		"total_messages": tc.TotalMessages,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetContextualMeaning handles the get_contextual_meaning tool invocation
func (s *Server) handleGetContextualMeaning(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	rawID, ok := args["message_id"].(string)
	if !ok || rawID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "message_id parameter is required", map[string]interface{}{
			"param":  "message_id",
			"reason": "missing or empty",
		})
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "message_id must be a decimal id", map[string]interface{}{
			"param": "message_id",
			"value": rawID,
		})
	}

	meaning, hasMeaning, err := s.db.ContextualMeaning(ctx, core.ID(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeMessageNotFound, "message not found", map[string]interface{}{
			"message_id": rawID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to extract meaning", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"message_id":  rawID,
		"has_meaning": hasMeaning,
	}
	if hasMeaning {
		response["meaning"] = meaning
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCreateChunks handles the create_chunks tool invocation
func (s *Server) handleCreateChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	channel, ok := args["channel"].(string)
	if !ok || channel == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "channel parameter is required", map[string]interface{}{
			"param":  "channel",
			"reason": "missing or empty",
		})
	}

	windowMinutes := getIntDefault(args, "window_minutes", 60)
	maxSize := getIntDefault(args, "max_size", 20)
	if windowMinutes < 1 || maxSize < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "window_minutes and max_size must be positive", map[string]interface{}{
			"window_minutes": windowMinutes,
			"max_size":       maxSize,
		})
	}

	chunks, err := s.db.CreateChunks(ctx, channel, time.Duration(windowMinutes)*time.Minute, maxSize)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	out := make([]map[string]interface{}, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, map[string]interface{}{
			"id":            formatID(c.Id),
			"topic":         c.Topic,
			"summary":       c.Summary,
			"start_time":    c.StartTime.Format(time.RFC3339),
			"end_time":      c.EndTime.Format(time.RFC3339),
			"participants":  c.Participants,
			"message_count": len(c.Messages),
		})
	}

	response := map[string]interface{}{
		"channel": channel,
		"chunks":  out,
		"count":   len(out),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// relatedSimilarityFloor is the minimum embedding similarity for a
// message to count as related. Matches the search engine's semantic
// candidate floor.
const relatedSimilarityFloor = 0.30

// handleSuggestRelated handles the suggest_related tool invocation
func (s *Server) handleSuggestRelated(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	rawID, ok := args["message_id"].(string)
	if !ok || rawID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "message_id parameter is required", map[string]interface{}{
			"param":  "message_id",
			"reason": "missing or empty",
		})
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "message_id must be a decimal id", map[string]interface{}{
			"param": "message_id",
			"value": rawID,
		})
	}

	limit := getIntDefault(args, "limit", 5)
	if limit < 1 || limit > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 50", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	msg, err := s.db.MessageRepository().GetMessage(ctx, core.ID(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeMessageNotFound, "message not found", map[string]interface{}{
			"message_id": rawID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load message", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"message_id": rawID,
		"related":    []interface{}{},
		"count":      0,
	}
	if len(msg.Vector) == 0 {
		response["guidance"] = "Message has no embedding yet. Embedding is asynchronous; retry shortly or run a reembed pass."
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	// One extra candidate because the message matches itself.
	matches, err := s.db.MessageRepository().FindSimilar(ctx, msg.Vector, relatedSimilarityFloor, limit+1)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "similarity scan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	related := make([]map[string]interface{}, 0, limit)
	for _, match := range matches {
		if match.Message.Id == msg.Id || len(related) >= limit {
			continue
		}
		entry := messageJSON(match.Message)
		entry["similarity"] = match.SemanticScore
		related = append(related, entry)
	}

	response["related"] = related
	response["count"] = len(related)
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDiscoverPatterns handles the discover_patterns tool invocation
func (s *Server) handleDiscoverPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	channel, ok := args["channel"].(string)
	if !ok || channel == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "channel parameter is required", map[string]interface{}{
			"param":  "channel",
			"reason": "missing or empty",
		})
	}

	windowMinutes := getIntDefault(args, "window_minutes", 60)
	minOccurrences := getIntDefault(args, "min_occurrences", 2)
	if windowMinutes < 1 || minOccurrences < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "window_minutes and min_occurrences must be positive", map[string]interface{}{
			"window_minutes":  windowMinutes,
			"min_occurrences": minOccurrences,
		})
	}

	chunks, err := s.db.CreateChunks(ctx, channel, time.Duration(windowMinutes)*time.Minute, 0)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	type topicStats struct {
		topic       string
		occurrences int
		messages    int
		firstSeen   time.Time
		lastSeen    time.Time
	}
	byTopic := make(map[string]*topicStats)
	order := make([]string, 0, len(chunks))
	for _, c := range chunks {
		stats, ok := byTopic[c.Topic]
		if !ok {
			stats = &topicStats{topic: c.Topic, firstSeen: c.StartTime, lastSeen: c.EndTime}
			byTopic[c.Topic] = stats
			order = append(order, c.Topic)
		}
		stats.occurrences++
		stats.messages += len(c.Messages)
		if c.StartTime.Before(stats.firstSeen) {
			stats.firstSeen = c.StartTime
		}
		if c.EndTime.After(stats.lastSeen) {
			stats.lastSeen = c.EndTime
		}
	}

	recurring := make([]*topicStats, 0, len(order))
	for _, topic := range order {
		if stats := byTopic[topic]; stats.occurrences >= minOccurrences {
			recurring = append(recurring, stats)
		}
	}
	sort.SliceStable(recurring, func(i, j int) bool {
		return recurring[i].occurrences > recurring[j].occurrences
	})

	patterns := make([]map[string]interface{}, 0, len(recurring))
	for _, stats := range recurring {
		patterns = append(patterns, map[string]interface{}{
			"topic":         stats.topic,
			"occurrences":   stats.occurrences,
			"message_count": stats.messages,
			"first_seen":    stats.firstSeen.Format(time.RFC3339),
			"last_seen":     stats.lastSeen.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"channel":  channel,
		"patterns": patterns,
		"count":    len(patterns),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// messageJSON renders a stored message for tool responses. IDs are
// strings because message ids are 64-bit and JSON numbers lose
// precision past 2^53.
func messageJSON(msg *core.Message) map[string]interface{} {
	entry := map[string]interface{}{
		"message_id": formatID(msg.Id),
		"sender":     msg.Sender,
		"contents":   msg.Contents,
		"channel":    msg.Channel,
		"type":       msg.Type.String(),
		"timestamp":  msg.Timestamp.Format(time.RFC3339),
		"version":    msg.Version,
	}
	if msg.ThreadId != "" {
		entry["thread_id"] = msg.ThreadId
	}
	if len(msg.Reactions) > 0 {
		entry["reactions"] = msg.Reactions
	}
	if !msg.EditedAt.IsZero() {
		entry["edited_at"] = msg.EditedAt.Format(time.RFC3339)
	}
	return entry
}

func formatID(id core.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
