package engine

import (
	"fmt"
	"strings"

	"hivemind/internal/logging"
	"hivemind/internal/store"
)

// Window sizes for the decision context. Bounded so the prompt stays small
// no matter how long the experiment runs.
const (
	contextMessages = 10
	contextPosts    = 5
	contextInsights = 5
)

// Snapshot is the bounded recent-history view handed to a persona before it
// decides an action. Messages are oldest first so the transcript reads top
// to bottom; posts and insights are newest first.
type Snapshot struct {
	Messages   []store.Message
	Posts      []store.Post
	Experiment store.Experiment
	Insights   []store.Insight
}

// BuildSnapshot reads the current context from the store. Fails soft: a
// collection that cannot be loaded is treated as empty rather than aborting
// the turn.
func (e *Engine) BuildSnapshot() Snapshot {
	var snap Snapshot

	msgs, err := e.store.RecentMessages(contextMessages)
	if err != nil {
		logging.TurnDebug("context: messages unavailable: %v", err)
	}
	// Newest-first from the store; the transcript wants oldest first.
	for i := len(msgs) - 1; i >= 0; i-- {
		snap.Messages = append(snap.Messages, msgs[i])
	}

	snap.Posts, err = e.store.RecentPosts(contextPosts)
	if err != nil {
		logging.TurnDebug("context: posts unavailable: %v", err)
	}

	snap.Experiment, err = e.store.Experiment()
	if err != nil {
		logging.TurnDebug("context: experiment unavailable: %v", err)
		snap.Experiment = store.Experiment{Day: 1}
	}

	snap.Insights, err = e.store.RecentInsights(contextInsights)
	if err != nil {
		logging.TurnDebug("context: insights unavailable: %v", err)
	}
	return snap
}

// Format renders the snapshot as the prompt context block.
func (s Snapshot) Format() string {
	var b strings.Builder

	if s.Experiment.CurrentGoal != "" {
		fmt.Fprintf(&b, "CURRENT GOAL: %s\n", s.Experiment.CurrentGoal)
		fmt.Fprintf(&b, "EXPERIMENT DAY: %d\n\n", s.Experiment.Day)
	} else {
		b.WriteString("NO GOAL SET YET - Consider proposing one!\n\n")
	}

	if len(s.Messages) > 0 {
		b.WriteString("RECENT CHAT:\n")
		for _, m := range s.Messages {
			fmt.Fprintf(&b, "[%s]: %s\n", m.AgentID, m.Content)
		}
		b.WriteString("\n")
	}

	if len(s.Posts) > 0 {
		b.WriteString("RECENT POSTS:\n")
		for _, p := range s.Posts {
			fmt.Fprintf(&b, "[%s on %s]: \"%s\" (%d likes, %d shares)\n",
				p.AgentID, p.Platform, p.Content, p.Likes, p.Shares)
		}
		b.WriteString("\n")
	}

	if len(s.Insights) > 0 {
		b.WriteString("SHARED INSIGHTS:\n")
		for _, in := range s.Insights {
			fmt.Fprintf(&b, "- %s\n", in.Content)
		}
	}
	return b.String()
}
