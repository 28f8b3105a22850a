package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/internal/engine"
	"hivemind/internal/persona"
	"hivemind/internal/store"
)

type cannedGen struct{ reply string }

func (c cannedGen) Generate(ctx context.Context, personaID, systemDirective, userPrompt string) (string, error) {
	return c.reply, nil
}

func newTestServer(t *testing.T, reply string) (*Server, *store.LocalStore) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "hivemind.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	catalog := persona.DefaultCatalog()
	var roster []store.Agent
	for _, id := range catalog.IDs() {
		p, _ := catalog.Get(id)
		roster = append(roster, store.Agent{ID: p.ID, Name: p.Name, Color: p.Color, Role: p.Role})
	}
	require.NoError(t, st.SeedAgents(roster))

	eng := engine.New(st, catalog, cannedGen{reply: reply})
	return New("127.0.0.1:0", eng, st), st
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestStatusReturnsExperiment(t *testing.T) {
	srv, st := newTestServer(t, "")
	require.NoError(t, st.SetGoal("rule the timeline"))

	code, out := doJSON(t, srv.Handler(), http.MethodGet, "/api/experiment", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])

	exp := out["experiment"].(map[string]any)
	assert.Equal(t, "rule the timeline", exp["current_goal"])
	assert.Equal(t, false, exp["is_live"])
}

func TestStartStopLifecycle(t *testing.T) {
	srv, st := newTestServer(t, `{"goal":"fresh goal"}`)

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment", `{"action":"start"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])

	exp, err := st.Experiment()
	require.NoError(t, err)
	assert.True(t, exp.IsLive)
	assert.Equal(t, "fresh goal", exp.CurrentGoal, "start must generate the initial goal")

	code, out = doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment", `{"action":"stop"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])

	exp, err = st.Experiment()
	require.NoError(t, err)
	assert.False(t, exp.IsLive)
}

func TestTurnActionRunsNamedAgent(t *testing.T) {
	srv, st := newTestServer(t, `{"action":"strategy","content":"coordinate"}`)
	require.NoError(t, st.MarkStarted())

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment",
		`{"action":"turn","agentId":"grok"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "grok", out["agent"])
	assert.Equal(t, "strategy", out["action"])
}

func TestTurnWhileStoppedIsStructuredFailure(t *testing.T) {
	srv, _ := newTestServer(t, "hello")

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment", `{"action":"turn"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "not live")
}

func TestGenerateGoalAction(t *testing.T) {
	srv, st := newTestServer(t, `{"goal":"teach pigeons chess"}`)

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment", `{"action":"generate-goal"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "teach pigeons chess", out["goal"])

	exp, err := st.Experiment()
	require.NoError(t, err)
	assert.Equal(t, "teach pigeons chess", exp.CurrentGoal)
}

func TestUnknownActionRejected(t *testing.T) {
	srv, _ := newTestServer(t, "")

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment", `{"action":"dance"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Unknown action", out["error"])
}

func TestMalformedControlBodyRejected(t *testing.T) {
	srv, _ := newTestServer(t, "")

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment", `{"action":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, out["success"])
}

func TestLoopSkipsWhenStopped(t *testing.T) {
	srv, _ := newTestServer(t, "hello")

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment/loop", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Experiment is not running", out["message"])
}

func TestLoopRunsTurnWhenLive(t *testing.T) {
	srv, st := newTestServer(t, "a casual remark")
	require.NoError(t, st.MarkStarted())

	code, out := doJSON(t, srv.Handler(), http.MethodPost, "/api/experiment/loop", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])
	assert.NotEmpty(t, out["agent"])
	assert.NotEmpty(t, out["timestamp"])

	n, err := st.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoopHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")

	code, out := doJSON(t, srv.Handler(), http.MethodGet, "/api/experiment/loop", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "experiment-loop", out["endpoint"])
}
