// Package mcpserver exposes the message database over the Model
// Context Protocol so AI assistants can ingest and search chat history.
//
// Eight tools are registered:
//
//   - ingest_message: run one message through the ingestion pipeline
//   - search_messages: hybrid search with a natural language query
//   - parse_natural_query: show how a query decomposes without searching
//   - get_thread_context: parent, recent replies, and size of a thread
//   - get_contextual_meaning: what a short reply means in its thread
//   - create_chunks: group a channel into topical conversation chunks
//   - suggest_related: messages similar to a given one by embedding
//   - discover_patterns: topics that recur across a channel's conversations
//
// The server speaks JSON-RPC 2.0 over stdio. Tool responses are
// indented JSON in a single text content block; message ids are decimal
// strings because they are 64-bit values.
package mcpserver
