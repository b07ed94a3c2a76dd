package tools

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOutputSchema(t *testing.T) {
	type nilSlice struct {
		Suggestions []string `json:"suggestions"`
	}
	type omitzeroSlice struct {
		Suggestions []string `json:"suggestions,omitzero"`
	}
	type omitemptySlice struct {
		Suggestions []string `json:"suggestions,omitempty"`
	}
	type scalars struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}
	type pointerSlice struct {
		Pods *[]string `json:"pods"`
	}
	type rawField struct {
		Pod json.RawMessage `json:"pod,omitempty"`
	}
	type rawSlice struct {
		Pods []json.RawMessage `json:"pods,omitzero"`
	}
	type inner struct {
		Img json.RawMessage `json:"img,omitempty"`
	}
	type rawNested struct {
		SubPod inner `json:"subpod"`
	}
	type anySlice struct {
		Values []any `json:"values,omitzero"`
	}

	tests := []struct {
		name   string
		check  func(toolName string)
		panics bool
	}{
		{"nil slice", CheckOutputSchema[nilSlice], true},
		{"omitzero slice", CheckOutputSchema[omitzeroSlice], false},
		{"omitempty slice", CheckOutputSchema[omitemptySlice], false},
		{"scalars", CheckOutputSchema[scalars], false},
		{"untyped any", CheckOutputSchema[any], false},
		{"pointer to slice", CheckOutputSchema[pointerSlice], false},
		{"raw message", CheckOutputSchema[rawField], true},
		{"raw message slice", CheckOutputSchema[rawSlice], true},
		{"nested raw message", CheckOutputSchema[rawNested], true},
		{"any slice", CheckOutputSchema[anySlice], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := func() { tt.check(tt.name) }
			if tt.panics {
				assert.Panics(t, fn)
			} else {
				assert.NotPanics(t, fn)
			}
		})
	}
}

func TestCheckOutputSchema_ToolOutputs(t *testing.T) {
	assert.NotPanics(t, func() { CheckOutputSchema[QueryOutput]("wolfram_query") })
	assert.NotPanics(t, func() { CheckOutputSchema[AutocompleteOutput]("wolfram_autocomplete") })
}

func TestRawMessagePaths(t *testing.T) {
	type inner struct {
		Img json.RawMessage
	}
	type outer struct {
		SubPods []inner
		ByID    map[string]json.RawMessage
	}

	paths := rawMessagePaths(reflect.TypeFor[outer](), "", map[reflect.Type]bool{})
	assert.ElementsMatch(t, []string{"SubPods.[].Img", "ByID.[value]"}, paths)
}
