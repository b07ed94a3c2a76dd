package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// startResults serves a results websocket that answers every init frame with
// frames. The returned function reports the init frames received so far.
func startResults(t *testing.T, frames ...string) (*httptest.Server, func() []map[string]any) {
	t.Helper()
	var (
		mu    sync.Mutex
		inits []map[string]any
	)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var init map[string]any
		if err := conn.ReadJSON(&init); err != nil {
			return
		}
		mu.Lock()
		inits = append(inits, init)
		mu.Unlock()

		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return inits
	}
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "fergun dev (commit: none)\n", out)
}

func TestZeroArgCommandsRejectExtraArgs(t *testing.T) {
	for _, name := range []string{"version", "bot", "mcp"} {
		t.Run(name, func(t *testing.T) {
			_, err := runCmd(t, name, "extra")
			require.Error(t, err)
		})
	}
}

func TestQueryCommandsRequireInput(t *testing.T) {
	for _, name := range []string{"query", "autocomplete"} {
		t.Run(name, func(t *testing.T) {
			_, err := runCmd(t, "wolfram", name)
			require.Error(t, err)
		})
	}
}

func TestBot_RequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	_, err := runCmd(t, "bot")
	assert.ErrorContains(t, err, "DISCORD_TOKEN")
}

func TestQuery(t *testing.T) {
	longText := strings.Repeat("7", 600)
	srv, inits := startResults(t,
		`{"type":"pods","pods":[{"title":"Result","id":"Result","position":200,"error":false,"numsubpods":1,`+
			`"subpods":[{"title":"","plaintext":"`+longText+`","img":{"src":"https://example.com/r.gif","width":10,"height":10,"data":"R0lGODlh"}}]}]}`,
		`{"type":"queryComplete"}`,
	)
	t.Setenv("WOLFRAM_RESULTS_URL", "ws"+strings.TrimPrefix(srv.URL, "http"))
	t.Setenv("COMPACT_MAX_STRING_LEN", "20")

	out, err := runCmd(t, "wolfram", "query", "--lang", "de", "7", "to", "the", "600")
	require.NoError(t, err)

	require.Len(t, inits(), 1)
	frame := inits()[0]
	assert.Equal(t, "de", frame["lang"])
	msg := frame["messages"].([]any)[0].(map[string]any)
	assert.Equal(t, "7 to the 600", msg["input"])

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "success", result["type"])

	pods := result["pods"].([]any)
	require.Len(t, pods, 1)
	sub := pods[0].(map[string]any)["subpods"].([]any)[0].(map[string]any)
	assert.Equal(t, strings.Repeat("7", 20)+"... (580 more chars)", sub["plaintext"])
	assert.Equal(t, "[omitted 8 chars]", sub["img"].(map[string]any)["data"])
}

func TestQuery_Full(t *testing.T) {
	srv, _ := startResults(t,
		`{"type":"pods","pods":[{"title":"Result","id":"Result","position":200,"error":false,"numsubpods":1,`+
			`"subpods":[{"title":"","plaintext":"1","img":{"src":"https://example.com/r.gif","width":10,"height":10,"data":"R0lGODlh"}}]}]}`,
		`{"type":"queryComplete"}`,
	)
	t.Setenv("WOLFRAM_RESULTS_URL", "ws"+strings.TrimPrefix(srv.URL, "http"))

	out, err := runCmd(t, "wolfram", "query", "--full", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"data": "R0lGODlh"`)
}

func TestAutocomplete(t *testing.T) {
	var gotInput string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInput = r.URL.Query().Get("i")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"input":"population of Chicago"},{"input":"population of China"}]}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("WOLFRAM_AUTOCOMPLETE_URL", srv.URL)

	out, err := runCmd(t, "wolfram", "autocomplete", "population", "of", "ch")
	require.NoError(t, err)
	assert.Equal(t, "population of ch", gotInput)
	assert.Equal(t, "population of Chicago\npopulation of China\n", out)
}
