// Package narrator talks to the remote summary service and falls back to the
// locally computed summary when it cannot.
package narrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/utils"
)

var (
	ErrUnavailable   = errors.New("AI service is temporarily unavailable. Please try again later or contact support")
	ErrMisconfigured = errors.New("AI service configuration error. Please contact support")
	ErrTimeout       = errors.New("AI service did not respond in time")
	ErrDisabled      = errors.New("narrator is disabled")
)

// Result is what a processor returns: free text, or a structured summary.
type Result struct {
	Text    string
	Summary *models.WeeklySummary
}

// IsSummary reports whether the result carries a structured summary.
func (r Result) IsSummary() bool {
	return r.Summary != nil
}

// Processor sends one prompt on behalf of a user.
type Processor interface {
	Process(ctx context.Context, input, userID string) (Result, error)
}

// Narrator runs processor calls under a timeout and maps their errors to
// user-facing messages.
type Narrator struct {
	proc    Processor
	timeout time.Duration
}

func New(proc Processor, timeout time.Duration) *Narrator {
	if timeout <= 0 {
		timeout = time.Duration(constants.DefaultNarratorTimeoutSec) * time.Second
	}
	return &Narrator{proc: proc, timeout: timeout}
}

func (n *Narrator) Process(ctx context.Context, input, userID string) (Result, error) {
	if n == nil || n.proc == nil {
		return Result{}, ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	res, err := n.proc.Process(ctx, input, userID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warn("Narrator call timed out", "timeout", n.timeout)
			return Result{}, fmt.Errorf("%w after %s", ErrTimeout, n.timeout)
		}
		return Result{}, MapError(err)
	}
	return res, nil
}

// WeeklySummary asks the narrator to summarize the entries dated between
// start and end, inclusive, in start's location.
func (n *Narrator) WeeklySummary(ctx context.Context, userID string, start, end time.Time, entries []models.JournalEntry) (models.WeeklySummary, error) {
	inRange := EntriesBetween(entries, start, end)
	if len(inRange) == 0 {
		return stats.EmptyWeekSummary(), nil
	}

	res, err := n.Process(ctx, BuildSummaryPrompt(inRange), userID)
	if err != nil {
		return models.WeeklySummary{}, err
	}
	if res.IsSummary() {
		s := *res.Summary
		s.Source = constants.SummarySourceNarrator
		return s, nil
	}
	if strings.TrimSpace(res.Text) == "" {
		return models.WeeklySummary{}, ErrUnavailable
	}
	s := models.NewWeeklySummary()
	s.Summary = res.Text
	s.Source = constants.SummarySourceNarrator
	return s, nil
}

// SummaryWithFallback returns the narrator's summary of the current week,
// or the local summary when the narrator is nil or fails. The returned
// summary is always usable; a non-nil error reports the narrator failure.
func SummaryWithFallback(ctx context.Context, n *Narrator, userID string, entries []models.JournalEntry, clock utils.Clock) (models.WeeklySummary, error) {
	if n == nil || n.proc == nil {
		return stats.LocalSummary(entries, clock), nil
	}
	s, err := n.WeeklySummary(ctx, userID, clock.StartOfWeek(), clock.Now(), entries)
	if err != nil {
		logger.Warn("Falling back to local summary", "error", err)
		return stats.LocalSummary(entries, clock), err
	}
	return s, nil
}

// EntriesBetween returns the entries whose local date lies in [start, end],
// oldest first.
func EntriesBetween(entries []models.JournalEntry, start, end time.Time) []models.JournalEntry {
	from := utils.FormatLocalDate(start)
	to := utils.FormatLocalDate(end.In(start.Location()))
	out := []models.JournalEntry{}
	for _, e := range entries {
		if e.Date >= from && e.Date <= to {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type promptEntry struct {
	Date     string   `json:"date"`
	Mood     int      `json:"mood"`
	Content  string   `json:"content"`
	Habits   []string `json:"habits"`
	Recorded string   `json:"recorded_at"`
}

// BuildSummaryPrompt renders entries into the weekly summary request.
func BuildSummaryPrompt(entries []models.JournalEntry) string {
	formatted := make([]promptEntry, 0, len(entries))
	for _, e := range entries {
		formatted = append(formatted, promptEntry{
			Date:     e.Date,
			Mood:     e.Mood,
			Content:  e.Decision,
			Habits:   e.Habits.Completed(),
			Recorded: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	data, _ := json.MarshalIndent(formatted, "", "  ")

	var b strings.Builder
	b.WriteString("Analyze the following weekly entries and provide a comprehensive summary:\n\nEntries:\n")
	b.Write(data)
	b.WriteString("\n\n")
	b.WriteString(summaryInstructions)
	return b.String()
}

const summaryInstructions = `Please provide:
1. Overall Summary: A brief overview of the week
2. Key Insights: 3-5 main takeaways from the entries
3. Mood Analysis: average mood score, trend (improving/declining/stable), distribution and suggestions
4. Habit Analysis: top performing habits and suggestions for improvement
5. Goals Progress: completed and in-progress goals with suggestions
6. Next Week Recommendations: focus areas, action items and habit goals

Format the response as a JSON object with these exact keys:
{
  "summary": "string",
  "insights": ["string"],
  "moodAnalysis": {
    "averageMood": number,
    "moodTrend": "string",
    "suggestions": ["string"],
    "moodDistribution": {"mood_score": count}
  },
  "habitAnalysis": {
    "topHabits": ["string"],
    "habitSuggestions": ["string"]
  },
  "goalsProgress": {
    "completed": number,
    "inProgress": number,
    "suggestions": ["string"]
  },
  "nextWeekRecommendations": {
    "focusAreas": ["string"],
    "actionItems": ["string"],
    "habitGoals": ["string"]
  }
}`

// MapError turns a processor failure into the message shown to the user.
// Quota problems and credential problems get fixed messages; anything else
// is returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota"):
		logger.Error("Narrator quota exceeded", "error", err)
		return ErrUnavailable
	case strings.Contains(msg, "api key"), strings.Contains(msg, "authentication"), strings.Contains(msg, "unauthorized"):
		logger.Error("Narrator rejected credentials", "error", err)
		return ErrMisconfigured
	}
	return err
}
