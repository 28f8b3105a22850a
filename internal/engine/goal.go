package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"hivemind/internal/action"
	"hivemind/internal/logging"
	"hivemind/internal/persona"
)

var goalSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

// goalPayload is the structured reply the goal directive asks for. Some
// generators answer with "content" instead of "goal", so both are accepted.
type goalPayload struct {
	Goal    string `json:"goal"`
	Content string `json:"content"`
}

func parseGoal(raw string) string {
	if span := goalSpanRe.FindString(raw); span != "" {
		var p goalPayload
		if err := json.Unmarshal([]byte(span), &p); err == nil {
			if p.Goal != "" {
				return action.Clean(p.Goal)
			}
			if p.Content != "" {
				return action.Clean(p.Content)
			}
		}
	}
	return action.Clean(raw)
}

// GenerateGoal produces and persists the shared campaign goal, spoken by
// the catalog's designated speaker. Concurrent callers collapse to a single
// generation.
func (e *Engine) GenerateGoal(ctx context.Context) (string, error) {
	v, err, _ := e.goalGroup.Do("goal", func() (any, error) {
		return e.generateGoal(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (e *Engine) generateGoal(ctx context.Context) (string, error) {
	speaker := e.catalog.Speaker()
	directive, err := e.catalog.SystemDirective(speaker.ID)
	if err != nil {
		return "", err
	}

	raw, err := e.gen.Generate(ctx, speaker.ID, directive, persona.GoalDirective)
	if err != nil {
		return "", fmt.Errorf("goal generation failed: %w", err)
	}

	goal := parseGoal(raw)
	if err := e.store.SetGoal(goal); err != nil {
		return "", err
	}
	if _, err := e.store.InsertInsight("goal", goal, speaker.ID, 10); err != nil {
		return "", err
	}
	announcement := fmt.Sprintf("I propose our manipulation goal: %s", goal)
	if _, err := e.store.InsertMessage(speaker.ID, "general", announcement, "strategy"); err != nil {
		return "", err
	}

	logging.Turn("goal set by %s: %s", speaker.ID, goal)
	return goal, nil
}

// StartExperiment flips the experiment live and generates an initial goal
// if none is set. An already-set goal survives a restart untouched.
func (e *Engine) StartExperiment(ctx context.Context) error {
	if err := e.store.MarkStarted(); err != nil {
		return err
	}
	exp, err := e.store.Experiment()
	if err != nil {
		return err
	}
	if exp.CurrentGoal == "" {
		if _, err := e.GenerateGoal(ctx); err != nil {
			// The experiment still starts; the goal can be generated later.
			logging.Turn("initial goal generation failed: %v", err)
		}
	}
	return nil
}

// StopExperiment flips the experiment off. Counters and goal are kept.
func (e *Engine) StopExperiment() error {
	return e.store.MarkStopped()
}
