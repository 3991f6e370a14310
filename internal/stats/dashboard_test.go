package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/utils"
)

func TestCompute(t *testing.T) {
	entries, clock := scenario()
	d := Compute(entries, clock)

	assert.Equal(t, 3, d.TotalEntries)
	assert.Equal(t, 3, d.Streak)
	assert.Equal(t, "📈 Building", d.StreakLabel)
	assert.Equal(t, 2, d.ThisWeek)
	assert.Equal(t, 3, d.ThisMonth)
	assert.InDelta(t, 4.5, d.WeekAverageMood, 0.001)
	assert.Equal(t, constants.TrendInsufficientData, d.Trend)
	assert.Equal(t, 27, d.DaysToLegend)
	assert.Equal(t, "2024-06-02", d.WeekStart)
	assert.Equal(t, "2024-06-08", d.WeekEnd)
	assert.Equal(t, "2024-06-03", d.GeneratedForDate)
	require.NotNil(t, d.Today)
	assert.Len(t, d.Recent, 3)
	assert.Equal(t, "Great momentum! Don't break the streak ⭐", d.Motivation)
	assert.Equal(t, "Positive Vibes", d.Insight.Title)
}

func TestStreakLabel(t *testing.T) {
	assert.Equal(t, "🌱 Starting", StreakLabel(0))
	assert.Equal(t, "🌱 Starting", StreakLabel(2))
	assert.Equal(t, "📈 Building", StreakLabel(3))
	assert.Equal(t, "🔥 On fire!", StreakLabel(7))
}

func TestMoodEmoji(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{avg: 5, want: "😄"},
		{avg: 4.5, want: "😄"},
		{avg: 4.49, want: "😊"},
		{avg: 3.5, want: "😊"},
		{avg: 2.5, want: "😐"},
		{avg: 1.5, want: "😔"},
		{avg: 0, want: "😞"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MoodEmoji(tt.avg), "avg %v", tt.avg)
	}
}

func TestMotivationalMessage(t *testing.T) {
	assert.Equal(t, "Welcome to your growth journey! 🌱", MotivationalMessage(nil))
	assert.Equal(t, "Your positive energy is inspiring! ✨",
		MotivationalMessage([]models.JournalEntry{entry("2024-06-01", 5, nil)}))
	assert.Equal(t, "Every entry is a step forward. You've got this! 💪",
		MotivationalMessage([]models.JournalEntry{entry("2024-06-01", 2, nil)}))

	week := make([]models.JournalEntry, 0, 7)
	for d := 7; d >= 1; d-- {
		week = append(week, entry(time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat), 1, nil))
	}
	assert.Equal(t, "Amazing streak! Time for today's reflection 🔥", MotivationalMessage(week))
	assert.Equal(t, "Great momentum! Don't break the streak ⭐", MotivationalMessage(week[4:]))
}

func TestInsightFor(t *testing.T) {
	clock := utils.FixedClock(time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "Keep Growing", InsightFor(nil, clock).Title)

	// Five low-mood entries this week with a gap, so no streak card.
	week := []models.JournalEntry{
		entry("2024-06-08", 2, nil),
		entry("2024-06-07", 2, nil),
		entry("2024-06-05", 2, nil),
		entry("2024-06-04", 2, nil),
		entry("2024-06-02", 2, nil),
	}
	got := InsightFor(week, clock)
	assert.Equal(t, "Weekly Champion", got.Title)
	assert.Equal(t, "5 entries this week", got.Description)
}

func TestWeeklyHabitProgress(t *testing.T) {
	week := []models.JournalEntry{
		entry("2024-06-03", 3, models.Habits{"Exercise": true, "Journaling": true}),
		entry("2024-06-02", 3, models.Habits{"Exercise": true}),
	}
	progress := WeeklyHabitProgress(week)

	require.Len(t, progress, len(constants.DefaultHabits)+1)
	assert.Equal(t, HabitProgress{Name: "Exercise", Count: 2, Percent: 29}, progress[0])
	assert.Equal(t, HabitProgress{Name: "Meditation", Count: 0, Percent: 0}, progress[1])
	assert.Equal(t, "Journaling", progress[len(progress)-1].Name)
}

func TestLocalSummary(t *testing.T) {
	entries, clock := scenario()
	s := LocalSummary(entries, clock)

	assert.Equal(t, constants.SummarySourceLocal, s.Source)
	assert.Equal(t, WeeklySummaryText(entries, clock), s.Summary)
	assert.InDelta(t, 4.5, s.MoodAnalysis.AverageMood, 0.001)
	assert.Equal(t, 1, s.MoodAnalysis.MoodDistribution[5])
	assert.Equal(t, []string{"Exercise", "Reading"}, s.HabitAnalysis.TopHabits)
	assert.NotEmpty(t, s.Insights)
	assert.LessOrEqual(t, len(s.NextWeekRecommendations.FocusAreas), 3)
	assert.GreaterOrEqual(t, len(s.NextWeekRecommendations.ActionItems), 2)
	assert.GreaterOrEqual(t, len(s.NextWeekRecommendations.HabitGoals), 2)
}

func TestLocalSummaryEmptyWeek(t *testing.T) {
	clock := utils.FixedClock(time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC))
	entries, _ := scenario()

	s := LocalSummary(entries, clock)
	assert.Equal(t, constants.SummarySourceLocal, s.Source)
	assert.Equal(t, EmptyWeekSummary().Summary, s.Summary)
	assert.Equal(t, constants.TrendInsufficientData, s.MoodAnalysis.MoodTrend)
	assert.NotNil(t, s.HabitAnalysis.TopHabits)
}
