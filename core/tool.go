package core

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is one host-protocol-invokable operation: a definition the MCP server
// registers and a handler it dispatches calls to.
type Tool interface {
	Handle() mcp.Tool
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
