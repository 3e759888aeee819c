package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/alokkumar353/story-mcp-server/core"
	"github.com/alokkumar353/story-mcp-server/pkg/config"
	"github.com/alokkumar353/story-mcp-server/pkg/logging"
	"github.com/alokkumar353/story-mcp-server/pkg/storyapi"
	"github.com/alokkumar353/story-mcp-server/pkg/tools/story"
)

// MultiTool tracks every tool registered with the MCP server.
type MultiTool struct {
	server *server.MCPServer
	tools  map[string]core.Tool
}

func (mt *MultiTool) addTool(tool core.Tool) {
	mt.tools[tool.Handle().Name] = tool
	mt.server.AddTool(tool.Handle(), tool.Handler)
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info(strings.Repeat("=", 60))
	logger.Info("Story Generation MCP Server starting...")
	logger.Info(strings.Repeat("=", 60))

	mcpServer := server.NewMCPServer(
		"story_generator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithLogging(),
	)

	client := storyapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	multiTool := MultiTool{
		server: mcpServer,
		tools:  make(map[string]core.Tool),
	}
	multiTool.addTool(story.NewGenerateStoryTool(client, logger))
	multiTool.addTool(story.NewEpisodicBeatsTool(client, logger))
	multiTool.addTool(story.NewAskVectorDBTool(client, logger))

	logger.Info("Available tools:")
	logger.Info("  1. generate_story - Generate a story with episodic beats")
	logger.Info("  2. generate_episodic_beats_from_file - Generate episodes from a story file")
	logger.Info("  3. ask_vector_db - Query the vector database about previous stories")
	logger.Info("Upstream API", "base_url", cfg.API.BaseURL)

	addr := cfg.Addr()
	logger.Info("Serving MCP over streamable HTTP", "addr", addr, "path", cfg.Server.Path)

	httpServer := server.NewStreamableHTTPServer(
		mcpServer,
		server.WithEndpointPath(cfg.Server.Path),
	)
	if err := httpServer.Start(addr); err != nil {
		logger.Error("Server error", "err", err)
		logger.Close()
		os.Exit(1)
	}
}
