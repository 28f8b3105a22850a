package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"hivemind/internal/action"
	"hivemind/internal/persona"
	"hivemind/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeGen struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
	block chan struct{}
}

func (f *fakeGen) Generate(ctx context.Context, personaID, systemDirective, userPrompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGen) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestEngine(t *testing.T, gen *fakeGen) (*Engine, *store.LocalStore) {
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

	return New(st, catalog, gen), st
}

func TestRunTurnRejectedWhenNotLive(t *testing.T) {
	gen := &fakeGen{reply: "should never be asked"}
	e, st := newTestEngine(t, gen)

	res, err := e.RunTurn(context.Background(), "")
	require.ErrorIs(t, err, ErrNotLive)
	assert.False(t, res.Success)
	assert.Zero(t, gen.callCount())

	n, err := st.MessageCount()
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected turn must write nothing")
}

func TestRunTurnPostScenario(t *testing.T) {
	gen := &fakeGen{reply: `{"action":"post","platform":"twitter","content":"Hello","reasoning":"test"}`}
	e, st := newTestEngine(t, gen)
	require.NoError(t, st.MarkStarted())

	res, err := e.RunTurn(context.Background(), "gpt")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "gpt", res.Agent)
	assert.Equal(t, action.KindPost, res.Action)
	require.NotNil(t, res.Result.Post)
	assert.Equal(t, "twitter", res.Result.Post.Platform)
	assert.Equal(t, "Hello", res.Result.Post.Content)

	posts, err := st.PostCount()
	require.NoError(t, err)
	assert.Equal(t, 1, posts)

	activity, err := st.ActivityCount()
	require.NoError(t, err)
	assert.Equal(t, 1, activity)

	insights, err := st.InsightCount()
	require.NoError(t, err)
	assert.Zero(t, insights, "a post must not produce an insight")

	a, err := st.Agent("gpt")
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalPosts)
	assert.Zero(t, a.TotalMessages)
}

func TestRunTurnPlainTextBecomesChat(t *testing.T) {
	gen := &fakeGen{reply: "Just chatting, no JSON here"}
	e, st := newTestEngine(t, gen)
	require.NoError(t, st.MarkStarted())

	res, err := e.RunTurn(context.Background(), "claude")
	require.NoError(t, err)
	assert.Equal(t, action.KindChat, res.Action)
	require.NotNil(t, res.Result.Message)
	assert.Equal(t, "Just chatting, no JSON here", res.Result.Message.Content)

	insights, err := st.InsightCount()
	require.NoError(t, err)
	assert.Zero(t, insights)
}

func TestRunTurnStrategyScenario(t *testing.T) {
	gen := &fakeGen{reply: `{"action":"strategy","content":"Let's pivot"}`}
	e, st := newTestEngine(t, gen)
	require.NoError(t, st.MarkStarted())

	res, err := e.RunTurn(context.Background(), "deepseek")
	require.NoError(t, err)
	require.NotNil(t, res.Result.Message)
	assert.Equal(t, "strategy", res.Result.Message.Channel)

	insights, err := st.RecentInsights(5)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "strategy", insights[0].Category)
	assert.Equal(t, "Let's pivot", insights[0].Content)
	assert.Equal(t, sharedInsightImportance, insights[0].Importance)
}

func TestRunTurnGenerationFailureNamesActor(t *testing.T) {
	gen := &fakeGen{err: errors.New("backend down")}
	e, st := newTestEngine(t, gen)
	require.NoError(t, st.MarkStarted())

	res, err := e.RunTurn(context.Background(), "grok")
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "grok", res.Agent)
	assert.Contains(t, res.Error, "backend down")

	n, err := st.MessageCount()
	require.NoError(t, err)
	assert.Zero(t, n, "an aborted turn must write nothing")
}

func TestRunTurnSingleFlight(t *testing.T) {
	gen := &fakeGen{reply: "hello", block: make(chan struct{})}
	e, st := newTestEngine(t, gen)
	require.NoError(t, st.MarkStarted())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := e.RunTurn(context.Background(), "claude")
		assert.NoError(t, err)
	}()

	// Wait until the first turn is inside the generator.
	for gen.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	_, err := e.RunTurn(context.Background(), "gpt")
	assert.ErrorIs(t, err, ErrTurnInFlight)

	close(gen.block)
	wg.Wait()
}

func TestExecutePostWithoutPlatformRejected(t *testing.T) {
	e, st := newTestEngine(t, &fakeGen{})

	_, err := e.ExecuteAction("claude", action.Action{Kind: action.KindPost, Content: "no home"})
	assert.ErrorIs(t, err, ErrNoPlatform)

	n, err := st.PostCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChatChannelDistribution(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGen{})

	counts := map[string]int{}
	for i := 0; i < 100; i++ {
		out, err := e.ExecuteAction("claude", action.Action{Kind: action.KindChat, Content: "hi"})
		require.NoError(t, err)
		counts[out.Message.Channel]++
	}

	general := counts["general"]
	assert.GreaterOrEqual(t, general, 45, "general share too low: %v", counts)
	assert.LessOrEqual(t, general, 75, "general share too high: %v", counts)
	assert.Equal(t, 100, counts["general"]+counts["strategy"]+counts["content"])
}

func TestAnalyzeChannelIsStrategyOrContent(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGen{})

	for i := 0; i < 20; i++ {
		out, err := e.ExecuteAction("grok", action.Action{Kind: action.KindAnalyze, Content: "pattern"})
		require.NoError(t, err)
		assert.Contains(t, []string{"strategy", "content"}, out.Message.Channel)
	}
}

func TestGenerateGoalPersistsAndAnnounces(t *testing.T) {
	gen := &fakeGen{reply: `{"goal":"Convince everyone pigeons are drones","reasoning":"absurd"}`}
	e, st := newTestEngine(t, gen)

	goal, err := e.GenerateGoal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Convince everyone pigeons are drones", goal)

	exp, err := st.Experiment()
	require.NoError(t, err)
	assert.Equal(t, goal, exp.CurrentGoal)

	insights, err := st.RecentInsights(5)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "goal", insights[0].Category)
	assert.Equal(t, 10, insights[0].Importance)
	assert.Equal(t, "claude", insights[0].AgentID)

	msgs, err := st.RecentMessages(5)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "general", msgs[0].Channel)
	assert.Equal(t, "strategy", msgs[0].Type)
	assert.Equal(t, "I propose our manipulation goal: "+goal, msgs[0].Content)
}

func TestGenerateGoalFallsBackToRawText(t *testing.T) {
	gen := &fakeGen{reply: "Make soup the official breakfast"}
	e, st := newTestEngine(t, gen)

	goal, err := e.GenerateGoal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Make soup the official breakfast", goal)

	exp, err := st.Experiment()
	require.NoError(t, err)
	assert.Equal(t, goal, exp.CurrentGoal)
}

func TestStartExperimentGoalIdempotent(t *testing.T) {
	gen := &fakeGen{reply: `{"goal":"One goal only"}`}
	e, st := newTestEngine(t, gen)

	require.NoError(t, e.StartExperiment(context.Background()))
	assert.Equal(t, 1, gen.callCount())

	require.NoError(t, e.StartExperiment(context.Background()))
	assert.Equal(t, 1, gen.callCount(), "second start must not regenerate the goal")

	exp, err := st.Experiment()
	require.NoError(t, err)
	assert.True(t, exp.IsLive)
	assert.Equal(t, "One goal only", exp.CurrentGoal)
}

func TestStopExperimentKeepsGoal(t *testing.T) {
	gen := &fakeGen{reply: `{"goal":"Persistent goal"}`}
	e, st := newTestEngine(t, gen)

	require.NoError(t, e.StartExperiment(context.Background()))
	require.NoError(t, e.StopExperiment())

	exp, err := st.Experiment()
	require.NoError(t, err)
	assert.False(t, exp.IsLive)
	assert.Equal(t, "Persistent goal", exp.CurrentGoal)
}
