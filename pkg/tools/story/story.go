// Package story exposes the story-generation tools over MCP. Every tool has
// the same shape: one string argument forwarded as a one-field JSON body to a
// fixed upstream endpoint, with the gateway's outcome serialized back as text.
package story

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alokkumar353/story-mcp-server/core"
	"github.com/alokkumar353/story-mcp-server/pkg/logging"
	"github.com/alokkumar353/story-mcp-server/pkg/storyapi"
)

// apiTool forwards its single string argument to one upstream endpoint.
type apiTool struct {
	handle   mcp.Tool
	argName  string
	endpoint string
	field    string
	client   *storyapi.Client
	logger   *logging.Logger
}

// NewGenerateStoryTool creates the generate_story tool.
func NewGenerateStoryTool(client *storyapi.Client, logger *logging.Logger) core.Tool {
	handle := mcp.NewTool(
		"generate_story",
		mcp.WithDescription("Generate a story with episodic beats based on your prompt. Story generation may take 1-3 minutes depending on complexity."),
		mcp.WithString(
			"prompt",
			mcp.Required(),
			mcp.Description(`Your story prompt describing what kind of story you want to create. Example: "Craft a noir-inspired Bollywood murder mystery micro-series following the shocking death of superstar Zoya..."`),
		),
	)
	return &apiTool{
		handle:   handle,
		argName:  "prompt",
		endpoint: "/story",
		field:    "question",
		client:   client,
		logger:   logger,
	}
}

// NewEpisodicBeatsTool creates the generate_episodic_beats_from_file tool.
func NewEpisodicBeatsTool(client *storyapi.Client, logger *logging.Logger) core.Tool {
	handle := mcp.NewTool(
		"generate_episodic_beats_from_file",
		mcp.WithDescription("Generate episodic beats from a story file. Processing may take 1-3 minutes depending on file size."),
		mcp.WithString(
			"file_path",
			mcp.Required(),
			mcp.Description(`Path to the story file (e.g., "./rag_output.txt"). The file should contain a story that you want to break down into episodes.`),
		),
	)
	return &apiTool{
		handle:   handle,
		argName:  "file_path",
		endpoint: "/episodic_beats_from_file",
		field:    "file_path",
		client:   client,
		logger:   logger,
	}
}

// NewAskVectorDBTool creates the ask_vector_db tool.
func NewAskVectorDBTool(client *storyapi.Client, logger *logging.Logger) core.Tool {
	handle := mcp.NewTool(
		"ask_vector_db",
		mcp.WithDescription("Ask a question to the Vector Database (RAG). Queries previous stories and knowledge stored in the vector database. Query processing may take 30-60 seconds."),
		mcp.WithString(
			"prompt",
			mcp.Required(),
			mcp.Description(`Your question about previous stories or request for content based on stored knowledge. Example: "Write a romantic story based on previous stories"`),
		),
	)
	return &apiTool{
		handle:   handle,
		argName:  "prompt",
		endpoint: "/ask",
		field:    "question",
		client:   client,
		logger:   logger,
	}
}

// Handle returns the tool's definition.
func (t *apiTool) Handle() mcp.Tool {
	return t.handle
}

// Handler executes the tool. The result text is always a valid JSON document:
// the upstream payload on success, an Outcome-shaped error otherwise. The
// deferred recover covers failures the gateway cannot have classified.
func (t *apiTool) Handler(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("unexpected error in tool handler",
				"tool", t.handle.Name, "panic", r, "stack", string(debug.Stack()))
			result = mcp.NewToolResultText(storyapi.Render(storyapi.RecoveredFailure(r)))
			err = nil
		}
	}()

	arg, argErr := request.RequireString(t.argName)
	if argErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid_argument: %s is missing or not a string: %v", t.argName, argErr)), nil
	}

	t.logger.Info("tool called", "tool", t.handle.Name, "arg_length", len(arg))

	outcome := t.client.Post(ctx, t.endpoint, map[string]string{t.field: arg})
	switch {
	case !outcome.OK():
		t.logger.Error("call failed", "tool", t.handle.Name, "err", outcome.Failure.Message)
	default:
		if message, declared := outcome.UpstreamDeclaredFailure(); declared {
			t.logger.Error("upstream reported failure", "tool", t.handle.Name, "err", message)
		} else {
			t.logger.Info("call succeeded", "tool", t.handle.Name)
		}
	}

	return mcp.NewToolResultText(storyapi.Render(outcome)), nil
}
