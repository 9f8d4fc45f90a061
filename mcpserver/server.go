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


package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/poiesic/chatsift"
	"github.com/poiesic/chatsift/ingestion"
	"github.com/poiesic/chatsift/query"
	"github.com/poiesic/chatsift/search"
)

const (
	// ServerName is the MCP server name
	ServerName = "chatsift"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	db       *chatsift.Database
	pipeline *ingestion.Pipeline
	engine   *search.Engine
	parser   *query.Parser
}

// NewServer creates an MCP server over an already-open database. The
// caller keeps ownership of the database and closes it after Serve
// returns.
func NewServer(db *chatsift.Database) (*Server, error) {
	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	engine, err := db.NewSearchEngine()
	if err != nil {
		pipeline.Release()
		return nil, fmt.Errorf("failed to create search engine: %w", err)
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		db:       db,
		pipeline: pipeline,
		engine:   engine,
		parser:   db.NewQueryParser(),
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer s.pipeline.Release()
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(ingestMessageTool(), s.handleIngestMessage)
	s.mcp.AddTool(searchMessagesTool(), s.handleSearchMessages)
	s.mcp.AddTool(parseQueryTool(), s.handleParseQuery)
	s.mcp.AddTool(getThreadContextTool(), s.handleGetThreadContext)
	s.mcp.AddTool(getContextualMeaningTool(), s.handleGetContextualMeaning)
	s.mcp.AddTool(createChunksTool(), s.handleCreateChunks)
	s.mcp.AddTool(suggestRelatedTool(), s.handleSuggestRelated)
	s.mcp.AddTool(discoverPatternsTool(), s.handleDiscoverPatterns)
}
