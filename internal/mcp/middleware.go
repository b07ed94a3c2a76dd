package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs every incoming method call.
// Tool calls also log the tool name and whether the tool reported an error.
func LoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			level := slog.LevelDebug
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				attrs = append(attrs, slog.String("tool", call.Params.Name))
				level = slog.LevelInfo
			}
			if res, ok := result.(*sdkmcp.CallToolResult); ok && res != nil && res.IsError {
				attrs = append(attrs, slog.Bool("tool_error", true))
				level = slog.LevelWarn
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			} else {
				logger.LogAttrs(ctx, level, "method call completed", attrs...)
			}

			return result, err
		}
	}
}
