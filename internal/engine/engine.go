// Package engine runs the turn loop of the experiment: pick an actor, build
// its decision context, ask the generation gateway for an action, parse the
// reply, and apply the effects to the store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/singleflight"

	"hivemind/internal/action"
	"hivemind/internal/logging"
	"hivemind/internal/persona"
	"hivemind/internal/store"
)

var (
	// ErrNotLive rejects a turn while the experiment is stopped.
	ErrNotLive = errors.New("experiment is not live")
	// ErrTurnInFlight rejects a turn while another one is still running.
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// Generator produces text for a persona. Satisfied by llm.Gateway; tests
// substitute a canned implementation.
type Generator interface {
	Generate(ctx context.Context, personaID, systemDirective, userPrompt string) (string, error)
}

// Engine drives turns against a single store. Safe for concurrent callers:
// overlapping turn triggers collapse to one winner and a busy failure.
type Engine struct {
	store   *store.LocalStore
	catalog *persona.Catalog
	gen     Generator

	turnMu    sync.Mutex
	goalGroup singleflight.Group
}

// New builds an engine over the given collaborators.
func New(st *store.LocalStore, catalog *persona.Catalog, gen Generator) *Engine {
	return &Engine{store: st, catalog: catalog, gen: gen}
}

// TurnResult is the structured outcome of one turn attempt.
type TurnResult struct {
	Success bool        `json:"success"`
	Agent   string      `json:"agent,omitempty"`
	Action  action.Kind `json:"action,omitempty"`
	Result  *Outcome    `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func failure(agent string, err error) (TurnResult, error) {
	return TurnResult{Success: false, Agent: agent, Error: err.Error()}, err
}

// RunTurn executes one complete turn. actorID selects a specific persona;
// empty picks one uniformly at random. The experiment must be live, and
// only one turn runs at a time.
func (e *Engine) RunTurn(ctx context.Context, actorID string) (TurnResult, error) {
	if !e.turnMu.TryLock() {
		return failure("", ErrTurnInFlight)
	}
	defer e.turnMu.Unlock()

	exp, err := e.store.Experiment()
	if err != nil {
		return failure("", err)
	}
	if !exp.IsLive {
		return failure("", ErrNotLive)
	}

	actor := actorID
	if actor == "" {
		ids := e.catalog.IDs()
		actor = ids[rand.Intn(len(ids))]
	}

	directive, err := e.catalog.SystemDirective(actor)
	if err != nil {
		return failure(actor, err)
	}

	timer := logging.StartTimer(logging.CategoryTurn, "turn "+actor)
	defer timer.Stop()

	snap := e.BuildSnapshot()
	userPrompt := snap.Format() + "\n\n" + persona.ActionDecisionDirective

	raw, err := e.gen.Generate(ctx, actor, directive, userPrompt)
	if err != nil {
		logging.Turn("turn for %s aborted: %v", actor, err)
		return failure(actor, fmt.Errorf("generation failed: %w", err))
	}

	act := action.Parse(raw)
	logging.TurnDebug("%s decided %s (%d chars)", actor, act.Kind, len(act.Content))

	outcome, err := e.ExecuteAction(actor, act)
	if err != nil {
		return failure(actor, err)
	}

	return TurnResult{
		Success: true,
		Agent:   actor,
		Action:  act.Kind,
		Result:  &outcome,
	}, nil
}
