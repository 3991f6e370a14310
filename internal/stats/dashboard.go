package stats

import (
	"fmt"
	"math"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/utils"
)

// LegendStreak is the streak length shown as the long-term target.
const LegendStreak = 30

// Dashboard bundles every statistic rendered on one screen.
type Dashboard struct {
	TotalEntries     int
	AverageMood      float64
	WeekAverageMood  float64
	Streak           int
	StreakLabel      string
	Trend            constants.MoodTrend
	ThisWeek         int
	ThisMonth        int
	Distribution     map[int]int
	HabitCounts      map[string]int
	WeekHabits       []HabitProgress
	Today            *models.JournalEntry
	Motivation       string
	Insight          Insight
	WeeklySummary    string
	Recent           []models.JournalEntry
	DaysToLegend     int
	WeekStart        string
	WeekEnd          string
	GeneratedForDate string
}

// Compute derives a Dashboard from one snapshot of the entry list.
func Compute(entries []models.JournalEntry, clock utils.Clock) Dashboard {
	week := ThisWeekEntries(entries, clock)
	streak := StreakCount(entries)
	start, end := clock.WeekRange()

	d := Dashboard{
		TotalEntries:     len(entries),
		AverageMood:      AverageMood(entries),
		WeekAverageMood:  AverageMood(week),
		Streak:           streak,
		StreakLabel:      StreakLabel(streak),
		Trend:            Trend(entries),
		ThisWeek:         len(week),
		ThisMonth:        len(ThisMonthEntries(entries, clock)),
		Distribution:     MoodDistribution(entries),
		HabitCounts:      HabitCompletionCounts(entries),
		WeekHabits:       WeeklyHabitProgress(week),
		Today:            TodaysEntry(entries, clock),
		Motivation:       MotivationalMessage(entries),
		Insight:          InsightFor(entries, clock),
		WeeklySummary:    WeeklySummaryText(entries, clock),
		DaysToLegend:     max(LegendStreak-streak, 0),
		WeekStart:        start,
		WeekEnd:          end,
		GeneratedForDate: clock.Today(),
	}

	n := min(len(entries), 5)
	d.Recent = make([]models.JournalEntry, n)
	for i := 0; i < n; i++ {
		d.Recent[i] = entries[i].Clone()
	}
	return d
}

// StreakLabel describes a streak length.
func StreakLabel(streak int) string {
	switch {
	case streak >= 7:
		return "🔥 On fire!"
	case streak >= 3:
		return "📈 Building"
	default:
		return "🌱 Starting"
	}
}

// MoodEmoji maps an average mood to the nearest face.
func MoodEmoji(avg float64) string {
	switch {
	case avg >= 4.5:
		return "😄"
	case avg >= 3.5:
		return "😊"
	case avg >= 2.5:
		return "😐"
	case avg >= 1.5:
		return "😔"
	default:
		return "😞"
	}
}

// TrendLabel returns a short display string for a trend.
func TrendLabel(trend constants.MoodTrend) string {
	switch trend {
	case constants.TrendImproving:
		return "📈 Improving"
	case constants.TrendDeclining:
		return "📉 Declining"
	case constants.TrendStable:
		return "➡️ Stable"
	default:
		return "Not enough data"
	}
}

// MotivationalMessage picks the greeting line for the home screen.
func MotivationalMessage(entries []models.JournalEntry) string {
	streak := StreakCount(entries)
	switch {
	case streak >= 7:
		return "Amazing streak! Time for today's reflection 🔥"
	case streak >= 3:
		return "Great momentum! Don't break the streak ⭐"
	case AverageMood(entries) >= 4:
		return "Your positive energy is inspiring! ✨"
	case len(entries) == 0:
		return "Welcome to your growth journey! 🌱"
	default:
		return "Every entry is a step forward. You've got this! 💪"
	}
}

// Insight is the highlighted achievement card.
type Insight struct {
	Title       string
	Description string
}

// InsightFor picks the most notable achievement for the entry list.
func InsightFor(entries []models.JournalEntry, clock utils.Clock) Insight {
	streak := StreakCount(entries)
	avg := AverageMood(entries)
	week := len(ThisWeekEntries(entries, clock))

	switch {
	case streak >= 7:
		return Insight{Title: "Streak Master!", Description: fmt.Sprintf("%d days of consistent journaling", streak)}
	case avg >= 4:
		return Insight{Title: "Positive Vibes", Description: fmt.Sprintf("Your average mood is %.1f/5", avg)}
	case week >= 5:
		return Insight{Title: "Weekly Champion", Description: fmt.Sprintf("%d entries this week", week)}
	default:
		return Insight{Title: "Keep Growing", Description: "Your journey is just beginning"}
	}
}

// HabitProgress is a habit's completion count over one week.
type HabitProgress struct {
	Name    string
	Count   int
	Percent int // Count out of seven days, capped at 100
}

// WeeklyHabitProgress reports progress for each default habit, in checklist order,
// followed by any other completed habits ordered by count.
func WeeklyHabitProgress(week []models.JournalEntry) []HabitProgress {
	counts := HabitCompletionCounts(week)
	out := make([]HabitProgress, 0, len(constants.DefaultHabits))
	known := make(map[string]bool, len(constants.DefaultHabits))
	for _, name := range constants.DefaultHabits {
		known[name] = true
		out = append(out, newProgress(name, counts[name]))
	}
	for _, hc := range TopHabits(counts, 0) {
		if !known[hc.Name] {
			out = append(out, newProgress(hc.Name, hc.Count))
		}
	}
	return out
}

func newProgress(name string, count int) HabitProgress {
	pct := int(math.Round(float64(count) / constants.DaysPerWeek * 100))
	return HabitProgress{Name: name, Count: count, Percent: min(pct, 100)}
}
