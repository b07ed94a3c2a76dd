package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/fergun/pkg/wolfram"
)

const chicagoJSON = `{"type":"success","pods":[
	{"title":"Input interpretation","id":"Input","position":100,"error":false,"numsubpods":1,
	 "subpods":[{"title":"","plaintext":"Chicago, Illinois, United States"}]},
	{"title":"Population","id":"Population","position":200,"error":false,"numsubpods":2,
	 "subpods":[{"title":"city","plaintext":"2.7 million people"},{"title":"metro","plaintext":"9.4 million people"}]},
	{"title":"Weather","id":"Weather","position":300,"error":false,"numsubpods":1,
	 "subpods":[{"title":"","plaintext":"2.7 million people"}]}
]}`

func TestEngine_Select_PodTitles(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(chicagoJSON), ".pods[].title", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"Input interpretation", "Population", "Weather"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
	assert.False(t, result.Truncated)
}

func TestEngine_Select_FromQueryResult(t *testing.T) {
	engine := NewEngine(0)
	r := wolfram.NewQueryResult(wolfram.Success{},
		wolfram.Pod{Title: "Result", Position: 200, NumSubpods: 1, SubPods: []wolfram.SubPod{{PlainText: "4"}}},
		wolfram.Pod{Title: "Input", Position: 100, NumSubpods: 1, SubPods: []wolfram.SubPod{{PlainText: "2 + 2"}}},
	)

	result, err := engine.Select(context.Background(), r, `.pods[] | select(.title == "Result") | .subpods[0].plaintext`, false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"4"}, result.Values)

	result, err = engine.Select(context.Background(), r, ".type", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"success"}, result.Values)
}

func TestEngine_Select_Deduplicate(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(chicagoJSON), ".pods[].subpods[].plaintext", true, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"Chicago, Illinois, United States", "2.7 million people", "9.4 million people"}, result.Values)
	assert.Equal(t, 4, result.RawCount)
}

func TestEngine_Select_MaxResults(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(`{"items": [1, 2, 3, 4, 5]}`), ".items[]", false, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, result.Values)
	assert.True(t, result.Truncated)

	result, err = engine.SelectJSON(context.Background(), []byte(`{"items": [1, 2, 3]}`), ".items[]", false, 3)
	require.NoError(t, err)
	assert.Len(t, result.Values, 3)
	assert.False(t, result.Truncated)
}

func TestEngine_Select_SkipsNull(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(`{"items": [{"name": "a"}, {"noname": "b"}, {"name": "c"}]}`), ".items[].name", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)
	assert.Equal(t, 2, result.RawCount)
}

func TestEngine_Select_ObjectExtraction(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(chicagoJSON), `.pods[] | {title, n: .numsubpods}`, false, 0)
	require.NoError(t, err)
	require.Len(t, result.Values, 3)

	second := result.Values[1].(map[string]any)
	assert.Equal(t, "Population", second["title"])
	assert.Equal(t, float64(2), second["n"])
}

func TestEngine_Select_InvalidExpression(t *testing.T) {
	engine := NewEngine(0)

	_, err := engine.SelectJSON(context.Background(), []byte(`{}`), ".pods[", false, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestEngine_Select_InvalidJSON(t *testing.T) {
	engine := NewEngine(0)

	_, err := engine.SelectJSON(context.Background(), []byte(`{invalid json}`), ".pods", false, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestEngine_Select_RuntimeErrorsAreReported(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(`{"type":"noResult","pods":null}`), ".pods[]", false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "cannot iterate over: null")
	assert.Contains(t, result.Errors[0], "path may not exist")
}

func TestEngine_Select_Halt(t *testing.T) {
	engine := NewEngine(0)

	result, err := engine.SelectJSON(context.Background(), []byte(`{}`), `"stop" | halt_error`, false, 0)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "query halted with: stop", result.Errors[0])
}

func TestEngine_Select_Cancelled(t *testing.T) {
	engine := NewEngine(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := engine.SelectJSON(ctx, []byte(`{}`), "last(range(1e15))", false, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngine_CompiledProgramsAreCached(t *testing.T) {
	engine := NewEngine(2)

	require.NoError(t, engine.ValidateExpression(".a"))
	require.NoError(t, engine.ValidateExpression(".b"))
	require.NoError(t, engine.ValidateExpression(".a"))
	require.NoError(t, engine.ValidateExpression(".c"))

	assert.Equal(t, 2, engine.programs.Len())
	assert.True(t, engine.programs.Contains(".a"))
	assert.False(t, engine.programs.Contains(".b"))
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := NewEngine(0)

	assert.NoError(t, engine.ValidateExpression(".pods[].title"))
	assert.NoError(t, engine.ValidateExpression(`.pods[] | select(.id == "Result")`))

	assert.Error(t, engine.ValidateExpression(".pods["))
	assert.Error(t, engine.ValidateExpression("invalid("))
	assert.Error(t, engine.ValidateExpression("$undefined"))
}
