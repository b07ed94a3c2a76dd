package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of its output
// type satisfies the schema the SDK infers for it.
//
// Panics if the check fails.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics if the JSON encoding of T's zero value fails the
// schema the MCP SDK infers from T.
//
// A nil slice encodes as null while its schema says "array", so slice fields
// that may be empty need omitzero. json.RawMessage is rejected outright: it
// encodes as arbitrary JSON but its schema is an array of integers.
//
// The untyped any output is accepted as is. Schema inference failures are
// left for the SDK to report.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt, "", map[reflect.Type]bool{}); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s uses json.RawMessage at %s; use any instead",
			toolName, rt, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of %s fails its output schema: %v (JSON: %s); add omitzero to slice fields",
			toolName, rt, err, data,
		))
	}
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths returns the dotted paths of every json.RawMessage reachable
// from t.
func rawMessagePaths(t reflect.Type, path string, seen map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{path}
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	join := func(name string) string {
		if path == "" {
			return name
		}
		return path + "." + name
	}

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawMessagePaths(f.Type, join(f.Name), seen)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = rawMessagePaths(t.Elem(), join("[]"), seen)
	case reflect.Map:
		found = rawMessagePaths(t.Elem(), join("[value]"), seen)
	}
	return found
}
