// Package server is the HTTP control surface: experiment status, the
// start/stop/turn/goal controls, and the loop endpoint an external
// scheduler can hit periodically.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hivemind/internal/engine"
	"hivemind/internal/logging"
	"hivemind/internal/store"
)

// Server serves the experiment control API.
type Server struct {
	engine *engine.Engine
	store  *store.LocalStore
	http   *http.Server
}

// New builds a server listening on addr.
func New(addr string, eng *engine.Engine, st *store.LocalStore) *Server {
	s := &Server{engine: eng, store: st}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route mux. Exposed so tests can drive it through
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/experiment", s.handleStatus)
	mux.HandleFunc("POST /api/experiment", s.handleControl)
	mux.HandleFunc("GET /api/experiment/loop", s.handleLoopHealth)
	mux.HandleFunc("POST /api/experiment/loop", s.handleLoop)
	return mux
}

// ListenAndServe blocks serving requests until Shutdown or a listener
// error.
func (s *Server) ListenAndServe() error {
	logging.Get(logging.CategoryServer).Info("listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Get(logging.CategoryServer).Error("response encode failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	exp, err := s.store.Experiment()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "experiment": exp})
}

type controlRequest struct {
	Action  string `json:"action"`
	AgentID string `json:"agentId"`
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logging.Get(logging.CategoryServer).Info("control action %q agent %q", req.Action, req.AgentID)

	switch req.Action {
	case "start":
		if err := s.engine.StartExperiment(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case "stop":
		if err := s.engine.StopExperiment(); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case "turn":
		// A failed turn is still a structured result, not an HTTP error.
		result, _ := s.engine.RunTurn(r.Context(), req.AgentID)
		writeJSON(w, http.StatusOK, result)

	case "generate-goal":
		goal, err := s.engine.GenerateGoal(r.Context())
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})

	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Unknown action"})
	}
}

// handleLoop runs one scheduled turn. External schedulers post here
// periodically; a stopped experiment answers success=false without error
// status so the scheduler keeps polling.
func (s *Server) handleLoop(w http.ResponseWriter, r *http.Request) {
	exp, err := s.store.Experiment()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !exp.IsLive {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Experiment is not running",
		})
		return
	}

	result, _ := s.engine.RunTurn(r.Context(), "")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   result.Success,
		"agent":     result.Agent,
		"action":    result.Action,
		"result":    result.Result,
		"error":     result.Error,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLoopHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "endpoint": "experiment-loop"})
}
