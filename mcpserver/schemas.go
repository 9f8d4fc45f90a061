package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestMessageTool returns the tool definition for ingest_message
func ingestMessageTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_message",
		Description: "Ingest a chat message into the database. Duplicates are detected and dropped; edits and reaction changes update the stored message.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sender": map[string]interface{}{
					"type":        "string",
					"description": "Who sent the message",
				},
				"contents": map[string]interface{}{
					"type":        "string",
					"description": "Message text",
				},
				"channel": map[string]interface{}{
					"type":        "string",
					"description": "Channel the message was posted in",
				},
				"timestamp": map[string]interface{}{
					"type":        "string",
					"description": "When the message was sent, RFC 3339 (e.g. 2025-06-15T14:30:00Z)",
				},
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Message id assigned by the originating platform. Strongly recommended; without it edits cannot be matched to the original message.",
				},
				"thread_id": map[string]interface{}{
					"type":        "string",
					"description": "Thread the message belongs to, empty for top-level messages",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Message kind",
					"enum":        []string{"regular", "thread", "reply", "system", "bot"},
					"default":     "regular",
				},
				"reactions": map[string]interface{}{
					"type":        "object",
					"description": "Reaction counts keyed by emoji or shortcode",
					"additionalProperties": map[string]interface{}{
						"type": "integer",
					},
				},
				"mentions": map[string]interface{}{
					"type":        "array",
					"description": "Users mentioned in the message",
					"items":       map[string]interface{}{"type": "string"},
				},
				"attachments": map[string]interface{}{
					"type":        "array",
					"description": "Attachment references",
					"items":       map[string]interface{}{"type": "string"},
				},
			},
			Required: []string{"sender", "contents", "channel", "timestamp"},
		},
	}
}

// searchMessagesTool returns the tool definition for search_messages
func searchMessagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_messages",
		Description: "Search stored chat messages with a natural language query. Combines semantic, keyword, and temporal relevance.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query (e.g. 'what did alice say about the deploy yesterday?')",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// parseQueryTool returns the tool definition for parse_natural_query
func parseQueryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "parse_natural_query",
		Description: "Parse a natural language query into its structured parts (intent, keywords, channels, users, time range, entities) without running a search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query to parse",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getThreadContextTool returns the tool definition for get_thread_context
func getThreadContextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_thread_context",
		Description: "Get the context of a reply thread: its parent message, the most recent replies, and the total message count",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"thread_id": map[string]interface{}{
					"type":        "string",
					"description": "Thread identifier",
				},
			},
			Required: []string{"thread_id"},
		},
	}
}

// getContextualMeaningTool returns the tool definition for get_contextual_meaning
func getContextualMeaningTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_contextual_meaning",
		Description: "Explain what a short message (emoji, 'lgtm', '+1') means in its thread context",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message_id": map[string]interface{}{
					"type":        "string",
					"description": "Stored message id, as returned by ingest_message or search_messages",
				},
			},
			Required: []string{"message_id"},
		},
	}
}

// suggestRelatedTool returns the tool definition for suggest_related
func suggestRelatedTool() mcp.Tool {
	return mcp.Tool{
		Name:        "suggest_related",
		Description: "Find stored messages semantically related to a given message, ranked by embedding similarity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message_id": map[string]interface{}{
					"type":        "string",
					"description": "Stored message id to find related messages for",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of related messages to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"message_id"},
		},
	}
}

// discoverPatternsTool returns the tool definition for discover_patterns
func discoverPatternsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "discover_patterns",
		Description: "Discover recurring conversation topics in a channel by chunking its history and reporting topics that come up repeatedly",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"channel": map[string]interface{}{
					"type":        "string",
					"description": "Channel to analyze",
				},
				"window_minutes": map[string]interface{}{
					"type":        "integer",
					"description": "Conversation window in minutes used for chunking",
					"default":     60,
					"minimum":     1,
				},
				"min_occurrences": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum number of separate conversations a topic must appear in to count as a pattern",
					"default":     2,
					"minimum":     1,
				},
			},
			Required: []string{"channel"},
		},
	}
}

// createChunksTool returns the tool definition for create_chunks
func createChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_chunks",
		Description: "Group a channel's messages into topical conversation chunks bounded by a time window and a maximum size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"channel": map[string]interface{}{
					"type":        "string",
					"description": "Channel to chunk",
				},
				"window_minutes": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum gap in minutes between consecutive messages in one chunk",
					"default":     60,
					"minimum":     1,
				},
				"max_size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of messages per chunk",
					"default":     20,
					"minimum":     1,
				},
			},
			Required: []string{"channel"},
		},
	}
}
