package narrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/utils"
)

type processorFunc func(ctx context.Context, input, userID string) (Result, error)

func (f processorFunc) Process(ctx context.Context, input, userID string) (Result, error) {
	return f(ctx, input, userID)
}

type completerFunc func(ctx context.Context, system, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

func weekEntries() []models.JournalEntry {
	return []models.JournalEntry{
		{ID: "3", Date: "2024-06-03", Mood: 5, Habits: models.Habits{"Exercise": true}, CreatedAt: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Date: "2024-06-02", Mood: 4, Decision: "read more", Habits: models.Habits{"Reading": true}, CreatedAt: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)},
		{ID: "1", Date: "2024-05-30", Mood: 2, CreatedAt: time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)},
	}
}

func testClock() utils.Clock {
	return utils.FixedClock(time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC))
}

func TestDecodeSummary_Partial(t *testing.T) {
	s, err := DecodeSummary([]byte(`{"summary":"Good week","moodAnalysis":{"averageMood":"4.5","moodDistribution":{"4":2,"mood_score":1,"9":3}}}`))
	require.NoError(t, err)

	assert.Equal(t, "Good week", s.Summary)
	assert.Equal(t, []string{}, s.Insights)
	assert.InDelta(t, 4.5, s.MoodAnalysis.AverageMood, 0.001)
	assert.Equal(t, constants.TrendStable, s.MoodAnalysis.MoodTrend)
	assert.Equal(t, map[int]int{4: 2}, s.MoodAnalysis.MoodDistribution)
	assert.NotNil(t, s.NextWeekRecommendations.ActionItems)
	assert.Equal(t, constants.SummarySourceNarrator, s.Source)
}

func TestDecodeSummary_WrongTypes(t *testing.T) {
	s, err := DecodeSummary([]byte(`{"summary":42,"insights":"one insight","habitAnalysis":{"topHabits":[1,"Reading",null,{}]},"goalsProgress":{"completed":"x","inProgress":2}}`))
	require.NoError(t, err)

	assert.Equal(t, "42", s.Summary)
	assert.Equal(t, []string{"one insight"}, s.Insights)
	assert.Equal(t, []string{"1", "Reading"}, s.HabitAnalysis.TopHabits)
	assert.Equal(t, 0, s.GoalsProgress.Completed)
	assert.Equal(t, 2, s.GoalsProgress.InProgress)

	_, err = DecodeSummary([]byte(`["not","an","object"]`))
	assert.Error(t, err)
}

func TestParseCompletion(t *testing.T) {
	fenced := "```json\n{\"summary\":\"Fenced\",\"moodAnalysis\":{\"moodTrend\":\"Improving\"}}\n```"
	res := ParseCompletion(fenced)
	require.True(t, res.IsSummary())
	assert.Equal(t, "Fenced", res.Summary.Summary)
	assert.Equal(t, constants.TrendImproving, res.Summary.MoodAnalysis.MoodTrend)

	res = ParseCompletion("  Great job today! 😊 ")
	assert.False(t, res.IsSummary())
	assert.Equal(t, "Great job today! 😊", res.Text)

	res = ParseCompletion("{not json")
	assert.False(t, res.IsSummary())
}

func TestParseResult(t *testing.T) {
	assert.Equal(t, "hello", ParseResult([]byte(`"hello"`)).Text)
	assert.True(t, ParseResult([]byte(`{"summary":"s"}`)).IsSummary())
	assert.Equal(t, Result{}, ParseResult([]byte(`null`)))
	assert.Equal(t, "12", ParseResult([]byte(`12`)).Text)
}

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.Equal(t, ErrUnavailable, MapError(errors.New("insufficient_quota: you exceeded your quota")))
	assert.Equal(t, ErrMisconfigured, MapError(errors.New("Incorrect API key provided")))
	assert.Equal(t, ErrMisconfigured, MapError(errors.New("authentication failed")))
	other := errors.New("connection refused")
	assert.Equal(t, other, MapError(other))
}

func TestNarrator_Timeout(t *testing.T) {
	n := New(processorFunc(func(ctx context.Context, _, _ string) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}), 20*time.Millisecond)

	start := time.Now()
	_, err := n.Process(context.Background(), "hi", "u1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNarrator_Disabled(t *testing.T) {
	var n *Narrator
	_, err := n.Process(context.Background(), "hi", "u1")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestWeeklySummary_NoEntries(t *testing.T) {
	called := false
	n := New(processorFunc(func(context.Context, string, string) (Result, error) {
		called = true
		return Result{}, nil
	}), time.Second)

	clock := testClock()
	s, err := n.WeeklySummary(context.Background(), "u1", clock.StartOfWeek(), clock.Now(), nil)
	require.NoError(t, err)
	assert.False(t, called, "empty range must not call the narrator")
	assert.Equal(t, stats.EmptyWeekSummary().Summary, s.Summary)
}

func TestWeeklySummary_PromptAndResult(t *testing.T) {
	var prompt string
	n := New(processorFunc(func(_ context.Context, input, userID string) (Result, error) {
		prompt = input
		assert.Equal(t, "u1", userID)
		return ParseCompletion(`{"summary":"Nice week","insights":["a"]}`), nil
	}), time.Second)

	clock := testClock()
	s, err := n.WeeklySummary(context.Background(), "u1", clock.StartOfWeek(), clock.Now(), weekEntries())
	require.NoError(t, err)
	assert.Equal(t, "Nice week", s.Summary)
	assert.Equal(t, constants.SummarySourceNarrator, s.Source)

	assert.Contains(t, prompt, `"date": "2024-06-02"`)
	assert.Contains(t, prompt, `"date": "2024-06-03"`)
	assert.NotContains(t, prompt, "2024-05-30", "entries before the week are excluded")
	assert.Less(t, strings.Index(prompt, "2024-06-02"), strings.Index(prompt, "2024-06-03"), "entries are oldest first")
}

func TestWeeklySummary_TextResult(t *testing.T) {
	n := New(processorFunc(func(context.Context, string, string) (Result, error) {
		return Result{Text: "You had a good week."}, nil
	}), time.Second)

	clock := testClock()
	s, err := n.WeeklySummary(context.Background(), "u1", clock.StartOfWeek(), clock.Now(), weekEntries())
	require.NoError(t, err)
	assert.Equal(t, "You had a good week.", s.Summary)
	assert.NotNil(t, s.Insights)
}

func TestSummaryWithFallback(t *testing.T) {
	clock := testClock()
	entries := weekEntries()

	s, err := SummaryWithFallback(context.Background(), nil, "u1", entries, clock)
	require.NoError(t, err)
	assert.Equal(t, constants.SummarySourceLocal, s.Source)

	failing := New(processorFunc(func(context.Context, string, string) (Result, error) {
		return Result{}, errors.New("exceeded quota")
	}), time.Second)
	s, err = SummaryWithFallback(context.Background(), failing, "u1", entries, clock)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, constants.SummarySourceLocal, s.Source)
	assert.NotEmpty(t, s.Summary)
}

func TestCompleterProcessor(t *testing.T) {
	p := NewCompleterProcessor(completerFunc(func(_ context.Context, system, prompt string) (string, error) {
		assert.Equal(t, SystemPrompt, system)
		return "echo: " + prompt, nil
	}))

	res, err := p.Process(context.Background(), "hello", "u1")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", res.Text)

	_, err = p.Process(context.Background(), "   ", "u1")
	assert.Error(t, err)
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultNarratorModel, c.cfg.Model)
}

func TestFromSettings(t *testing.T) {
	n, err := FromSettings(models.Settings{NarratorMode: constants.NarratorOff})
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = FromSettings(models.Settings{NarratorMode: constants.NarratorProxy, NarratorURL: "http://localhost:5000", NarratorTimeoutSec: 5})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 5*time.Second, n.timeout)

	_, err = FromSettings(models.Settings{NarratorMode: "carrier-pigeon"})
	assert.Error(t, err)
}
