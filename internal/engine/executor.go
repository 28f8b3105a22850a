package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"hivemind/internal/action"
	"hivemind/internal/logging"
	"hivemind/internal/store"
)

// ErrNoPlatform rejects a post action that names no platform. A post is
// never silently downgraded to chat.
var ErrNoPlatform = errors.New("post action requires a platform")

// Outcome is what one executed action produced: exactly one of Post or
// Message is set, matching Type.
type Outcome struct {
	Type    string         `json:"type"`
	Post    *store.Post    `json:"post,omitempty"`
	Message *store.Message `json:"message,omitempty"`
}

const sharedInsightImportance = 7

// chatChannels is the weighted draw for chat-kind messages. Three general
// slots out of five gives the 60/20/20 split.
var chatChannels = []string{"general", "general", "general", "strategy", "content"}

// ExecuteAction applies one action's effects. Writes happen in a fixed
// order: primary record, derived insight, activity log, counter. A failure
// partway through leaves the earlier records in place as an auditable
// trail.
func (e *Engine) ExecuteAction(actorID string, act action.Action) (Outcome, error) {
	if act.Kind == action.KindPost {
		if act.Platform == "" {
			return Outcome{}, ErrNoPlatform
		}
		return e.executePost(actorID, act)
	}
	return e.executeMessage(actorID, act)
}

func (e *Engine) executePost(actorID string, act action.Action) (Outcome, error) {
	post, err := e.store.InsertPost(actorID, act.Platform, act.Content)
	if err != nil {
		return Outcome{}, err
	}
	if err := e.store.SimulateEngagement(post.ID); err != nil {
		return Outcome{}, err
	}
	_, err = e.store.InsertActivity(actorID, "post",
		fmt.Sprintf("Posted on %s", act.Platform),
		map[string]any{"platform": act.Platform, "content": excerpt(act.Content, 100)},
	)
	if err != nil {
		return Outcome{}, err
	}
	if err := e.store.IncrementAgentPosts(actorID); err != nil {
		return Outcome{}, err
	}

	// Re-read so the outcome carries the simulated engagement counts.
	if fresh, err := e.store.Post(post.ID); err == nil {
		post = fresh
	}
	logging.Turn("%s posted on %s", actorID, act.Platform)
	return Outcome{Type: "post", Post: &post}, nil
}

func (e *Engine) executeMessage(actorID string, act action.Action) (Outcome, error) {
	channel := pickChannel(act.Kind)

	msg, err := e.store.InsertMessage(actorID, channel, act.Content, string(act.Kind))
	if err != nil {
		return Outcome{}, err
	}

	// Strategies and analyses feed the shared memory every persona sees.
	if act.Kind == action.KindStrategy || act.Kind == action.KindAnalyze {
		if _, err := e.store.InsertInsight(string(act.Kind), act.Content, actorID, sharedInsightImportance); err != nil {
			return Outcome{}, err
		}
	}

	_, err = e.store.InsertActivity(actorID, string(act.Kind),
		fmt.Sprintf("Sent %s in #%s", act.Kind, channel),
		map[string]any{"content": excerpt(act.Content, 100), "channel": channel},
	)
	if err != nil {
		return Outcome{}, err
	}
	if err := e.store.IncrementAgentMessages(actorID); err != nil {
		return Outcome{}, err
	}

	logging.Turn("%s sent %s in #%s", actorID, act.Kind, channel)
	return Outcome{Type: "message", Message: &msg}, nil
}

func pickChannel(kind action.Kind) string {
	switch kind {
	case action.KindStrategy:
		return "strategy"
	case action.KindAnalyze:
		if rand.Intn(2) == 0 {
			return "strategy"
		}
		return "content"
	default:
		return chatChannels[rand.Intn(len(chatChannels))]
	}
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a character.
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
