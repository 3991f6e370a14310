// Package stats derives display statistics from a user's journal entries.
// Every function is pure: it reads a most-recent-first snapshot and never
// modifies it.
package stats

import (
	"fmt"
	"sort"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/utils"
)

// AverageMood returns the arithmetic mean mood, or 0 for an empty list.
func AverageMood(entries []models.JournalEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += e.Mood
	}
	return float64(total) / float64(len(entries))
}

// StreakCount returns the number of consecutive calendar days with at least one
// entry, ending at the most recent entry's date. A day without an entry today
// does not reset the streak; it is anchored at the latest logged day.
func StreakCount(entries []models.JournalEntry) int {
	dates := distinctDatesDesc(entries)
	if len(dates) == 0 {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		gap, err := utils.DaysBetween(dates[i-1], dates[i])
		if err != nil || gap != 1 {
			break
		}
		streak++
	}
	return streak
}

// distinctDatesDesc returns each well-formed entry date once, newest first.
func distinctDatesDesc(entries []models.JournalEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if !utils.ValidateDate(e.Date) {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		dates = append(dates, e.Date)
	}
	// YYYY-MM-DD sorts lexically in calendar order.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// ThisWeekEntries returns the entries dated within the clock's current week.
func ThisWeekEntries(entries []models.JournalEntry, clock utils.Clock) []models.JournalEntry {
	return filter(entries, clock.IsThisWeek)
}

// ThisMonthEntries returns the entries dated within the clock's current month.
func ThisMonthEntries(entries []models.JournalEntry, clock utils.Clock) []models.JournalEntry {
	return filter(entries, clock.IsThisMonth)
}

func filter(entries []models.JournalEntry, keep func(string) bool) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if keep(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// HabitCompletionCounts counts, per habit name, how many entries marked it done.
func HabitCompletionCounts(entries []models.JournalEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		for name, done := range e.Habits {
			if done {
				counts[name]++
			}
		}
	}
	return counts
}

// Trend compares the mean mood of the three most recent entries with the
// mean of the next three.
func Trend(entries []models.JournalEntry) constants.MoodTrend {
	recent := window(entries, 0, 3)
	older := window(entries, 3, 6)
	if len(recent) == 0 || len(older) == 0 {
		return constants.TrendInsufficientData
	}

	recentAvg, olderAvg := AverageMood(recent), AverageMood(older)
	switch {
	case recentAvg > olderAvg:
		return constants.TrendImproving
	case recentAvg < olderAvg:
		return constants.TrendDeclining
	default:
		return constants.TrendStable
	}
}

func window(entries []models.JournalEntry, from, to int) []models.JournalEntry {
	if from >= len(entries) {
		return nil
	}
	if to > len(entries) {
		to = len(entries)
	}
	return entries[from:to]
}

// MoodDistribution counts entries per mood value. Keys 1 through 5 are always present.
func MoodDistribution(entries []models.JournalEntry) map[int]int {
	dist := make(map[int]int, constants.MaxMood)
	for m := constants.MinMood; m <= constants.MaxMood; m++ {
		dist[m] = 0
	}
	for _, e := range entries {
		if _, ok := dist[e.Mood]; ok {
			dist[e.Mood]++
		}
	}
	return dist
}

// TodaysEntry returns the most recent entry dated today, or nil.
func TodaysEntry(entries []models.JournalEntry, clock utils.Clock) *models.JournalEntry {
	today := clock.Today()
	for i := range entries {
		if entries[i].Date == today {
			e := entries[i].Clone()
			return &e
		}
	}
	return nil
}

// MoodDescriptor buckets an average mood into positive, balanced or challenging.
func MoodDescriptor(avg float64) string {
	switch {
	case avg >= 4:
		return constants.MoodPositive
	case avg >= 3:
		return constants.MoodBalanced
	default:
		return constants.MoodChallenging
	}
}

// NoEntriesThisWeek is the summary shown when the current week has no entries.
const NoEntriesThisWeek = "No entries this week. Start journaling to get insights!"

// WeeklySummaryText renders a one-paragraph summary of the current week.
func WeeklySummaryText(entries []models.JournalEntry, clock utils.Clock) string {
	week := ThisWeekEntries(entries, clock)
	if len(week) == 0 {
		return NoEntriesThisWeek
	}

	text := fmt.Sprintf("This week you had %d journal %s with a %s mood overall.",
		len(week), plural(len(week), "entry", "entries"), MoodDescriptor(AverageMood(week)))
	if top := TopHabits(HabitCompletionCounts(week), 1); len(top) > 0 {
		text += fmt.Sprintf(" Your most consistent habit was %s (%d %s).",
			top[0].Name, top[0].Count, plural(top[0].Count, "time", "times"))
	}
	return text + " Keep up the great work on your self-growth journey!"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// HabitCount pairs a habit name with its completion count.
type HabitCount struct {
	Name  string
	Count int
}

// TopHabits returns up to n habits ordered by count descending, ties broken
// alphabetically. n <= 0 returns all of them.
func TopHabits(counts map[string]int, n int) []HabitCount {
	out := make([]HabitCount, 0, len(counts))
	for name, c := range counts {
		if c > 0 {
			out = append(out, HabitCount{Name: name, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
