package mcp

import (
	"context"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/fergun/internal/config"
	"github.com/usestring/fergun/internal/mcp/tools"
	"github.com/usestring/fergun/internal/query"
	"github.com/usestring/fergun/pkg/wolfram"
)

type stubWolfram struct {
	language string
	input    string
}

func (s *stubWolfram) Query(_ context.Context, input, language string) (*wolfram.QueryResult, error) {
	s.input, s.language = input, language
	return wolfram.NewQueryResult(wolfram.Success{}, wolfram.Pod{
		Title:    "Result",
		Position: 100,
		SubPods:  []wolfram.SubPod{{PlainText: "3.14159"}},
	}), nil
}

func (s *stubWolfram) Autocomplete(context.Context, string) ([]string, error) {
	return []string{"pi"}, nil
}

func newTestDeps(w *stubWolfram) *tools.Deps {
	return &tools.Deps{
		Wolfram:      w,
		Autocomplete: w,
		Query:        query.NewEngine(8),
		Config:       &config.Config{DefaultLanguage: "en", QueryTimeout: time.Second},
	}
}

func connect(t *testing.T, s *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_Tools(t *testing.T) {
	w := &stubWolfram{}
	s, err := NewServer(newTestDeps(w), WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	cs := connect(t, s)
	ctx := context.Background()

	list, err := cs.ListTools(ctx, &sdkmcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"wolfram_query", "wolfram_autocomplete"}, names)

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "wolfram_query",
		Arguments: map[string]any{"input": "pi"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "success", out["type"])
	assert.Equal(t, "pi", w.input)
	assert.Equal(t, "en", w.language)
}

func TestServer_ResultResource(t *testing.T) {
	w := &stubWolfram{}
	s, err := NewServer(newTestDeps(w), WithBuiltinTools())
	require.NoError(t, err)
	cs := connect(t, s)

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{
		URI: "wolfram://result/fr/population%20de%20Paris",
	})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, `"3.14159"`)
	assert.Equal(t, "population de Paris", w.input)
	assert.Equal(t, "fr", w.language)
}

func TestServer_CustomRegistration(t *testing.T) {
	called := false
	_, err := NewServer(newTestDeps(&stubWolfram{}), WithCustomRegistration(func(*sdkmcp.Server) {
		called = true
	}))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestParseResultURI(t *testing.T) {
	tests := []struct {
		uri      string
		language string
		input    string
		wantErr  bool
	}{
		{uri: "wolfram://result/en/pi", language: "en", input: "pi"},
		{uri: "wolfram://result/de/2%2B2%2F3", language: "de", input: "2+2/3"},
		{uri: "wolfram://result/en/a/b", language: "en", input: "a/b"},
		{uri: "wolfram://result/en/", wantErr: true},
		{uri: "wolfram://result/en", wantErr: true},
		{uri: "wolfram://result/en/%zz", wantErr: true},
		{uri: "wolfram://pods/en/pi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			language, input, err := parseResultURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.language, language)
			assert.Equal(t, tt.input, input)
		})
	}
}
