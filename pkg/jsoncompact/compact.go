// Package jsoncompact shrinks JSON documents for display by trimming arrays,
// truncating strings and dropping bulky keys.
package jsoncompact

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems int      // Trim arrays to N items (0 = no limit)
	MaxStringLen  int      // Truncate strings longer than N runes (0 = no limit)
	MaxDepth      int      // Max recursion depth (0 = unlimited)
	OmitKeys      []string // Object keys replaced by a size marker, e.g. inline image "data"
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 10
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0 // unlimited
)

// DefaultOmitKeys are keys whose values are never useful as text.
var DefaultOmitKeys = []string{"data"}

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
		OmitKeys:      DefaultOmitKeys,
	}
}

// Compact compresses JSON bytes.
// Returns error if input is not valid JSON.
// If opts is nil, DefaultOptions() is used.
func Compact(data []byte, opts *Options) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return json.Marshal(CompactValue(v, opts))
}

// CompactValue compresses a parsed JSON value (any type from json.Unmarshal).
// If opts is nil, DefaultOptions() is used.
func CompactValue(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	c := compactor{opts: opts, omit: make(map[string]struct{}, len(opts.OmitKeys))}
	for _, k := range opts.OmitKeys {
		c.omit[k] = struct{}{}
	}
	return c.value(v, 0)
}

type compactor struct {
	opts *Options
	omit map[string]struct{}
}

func (c compactor) value(v any, depth int) any {
	if c.opts.MaxDepth > 0 && depth >= c.opts.MaxDepth {
		return "[max depth]"
	}

	switch val := v.(type) {
	case []any:
		return c.array(val, depth)
	case map[string]any:
		return c.object(val, depth)
	case string:
		return c.string(val)
	default:
		return v
	}
}

func (c compactor) string(s string) string {
	max := c.opts.MaxStringLen
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	cut, n := 0, 0
	for i := range s {
		if n == max {
			cut = i
			break
		}
		n++
	}
	remaining := utf8.RuneCountInString(s[cut:])
	return s[:cut] + fmt.Sprintf("... (%d more chars)", remaining)
}

func (c compactor) array(arr []any, depth int) []any {
	if len(arr) == 0 {
		return arr
	}

	keep := len(arr)
	if c.opts.MaxArrayItems > 0 && keep > c.opts.MaxArrayItems {
		keep = c.opts.MaxArrayItems
	}

	result := make([]any, keep, keep+1)
	for i := range keep {
		result[i] = c.value(arr[i], depth+1)
	}
	if remaining := len(arr) - keep; remaining > 0 {
		result = append(result, fmt.Sprintf("... (%d more items)", remaining))
	}
	return result
}

func (c compactor) object(obj map[string]any, depth int) map[string]any {
	result := make(map[string]any, len(obj))
	for k, v := range obj {
		if _, ok := c.omit[k]; ok {
			result[k] = omitted(v)
			continue
		}
		result[k] = c.value(v, depth+1)
	}
	return result
}

func omitted(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return fmt.Sprintf("[omitted %d chars]", len(val))
	default:
		return "[omitted]"
	}
}
