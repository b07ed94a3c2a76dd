// Package query provides jq selection over Wolfram|Alpha results.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/itchyny/gojq"
)

// DefaultProgramCacheSize is the number of compiled expressions kept.
const DefaultProgramCacheSize = 128

// Engine executes jq expressions against JSON documents.
// Compiled expressions are cached, so an Engine should be shared.
type Engine struct {
	programs *lru.Cache[string, *gojq.Code]
}

// NewEngine creates a query engine caching up to cacheSize compiled
// expressions. A non-positive size uses DefaultProgramCacheSize.
func NewEngine(cacheSize int) *Engine {
	if cacheSize <= 0 {
		cacheSize = DefaultProgramCacheSize
	}
	programs, err := lru.New[string, *gojq.Code](cacheSize)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Engine{programs: programs}
}

// Selection contains the values a jq expression produced.
type Selection struct {
	Values    []any    `json:"values"`              // Extracted values
	Errors    []string `json:"errors,omitempty"`    // Runtime errors (e.g., type mismatch)
	RawCount  int      `json:"raw_count"`           // Count before deduplication
	Truncated bool     `json:"truncated,omitempty"` // Stopped at maxResults
}

// Select runs expression against the JSON encoding of v.
// v is typically a *wolfram.QueryResult.
func (e *Engine) Select(ctx context.Context, v any, expression string, deduplicate bool, maxResults int) (*Selection, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding input: %w", err)
	}
	return e.SelectJSON(ctx, data, expression, deduplicate, maxResults)
}

// SelectJSON runs expression against raw JSON data.
func (e *Engine) SelectJSON(ctx context.Context, data []byte, expression string, deduplicate bool, maxResults int) (*Selection, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	result := &Selection{Values: make([]any, 0)}
	seen := make(map[string]bool)
	iter := code.RunWithContext(ctx, input)

	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.Errors = append(result.Errors, formatJQError(err))
			continue
		}

		if v == nil {
			continue
		}

		result.RawCount++

		if deduplicate {
			key := valueKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		if maxResults > 0 && len(result.Values) >= maxResults {
			result.Truncated = true
			break
		}
		result.Values = append(result.Values, v)
	}

	return result, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Engine) compile(expression string) (*gojq.Code, error) {
	if code, ok := e.programs.Get(expression); ok {
		return code, nil
	}

	parsed, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	e.programs.Add(expression, code)
	return code, nil
}

// formatJQError adds hints for the runtime errors users hit most when
// selecting over pods. gojq runtime errors are untyped, so hints come from
// the message text.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this result, e.g. a pod without subpods)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try '.pods[]')"
	}

	return errStr + hint
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
