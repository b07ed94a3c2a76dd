package mcp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
)

func runMiddleware(method string, req sdkmcp.Request, result sdkmcp.Result, err error) string {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		return result, err
	}
	_, _ = LoggingMiddleware(logger)(next)(context.Background(), method, req)
	return buf.String()
}

func TestLoggingMiddleware_ToolCall(t *testing.T) {
	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "wolfram_query"}}

	out := runMiddleware("tools/call", req, &sdkmcp.CallToolResult{}, nil)
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "method=tools/call")
	assert.Contains(t, out, "tool=wolfram_query")
	assert.Contains(t, out, "duration_ms=")

	out = runMiddleware("tools/call", req, &sdkmcp.CallToolResult{IsError: true}, nil)
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "tool_error=true")
}

func TestLoggingMiddleware_OtherMethods(t *testing.T) {
	out := runMiddleware("tools/list", &sdkmcp.ListToolsRequest{}, &sdkmcp.ListToolsResult{}, nil)
	assert.Contains(t, out, "level=DEBUG")
	assert.NotContains(t, out, "tool=")

	out = runMiddleware("resources/read", &sdkmcp.ReadResourceRequest{}, nil, errors.New("resource not found"))
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `error="resource not found"`)
}
