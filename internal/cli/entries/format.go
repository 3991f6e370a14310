package entries

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
)

// habitSet records every default habit plus names, marking names completed.
// Names matching a default habit case-insensitively use its spelling.
func habitSet(names []string) models.Habits {
	h := make(models.Habits, len(constants.DefaultHabits)+len(names))
	for _, name := range constants.DefaultHabits {
		h[name] = false
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		h[canonicalHabit(name)] = true
	}
	return h
}

func canonicalHabit(name string) string {
	for _, known := range constants.DefaultHabits {
		if strings.EqualFold(known, name) {
			return known
		}
	}
	return name
}

func printEntryLine(e models.JournalEntry) {
	decision := e.Decision
	if len(decision) > 50 {
		decision = decision[:47] + "..."
	}
	fmt.Printf("%s  %s %-8s  %s  %s\n", e.Date, e.MoodEmoji, models.MoodLabel(e.Mood), shortID(e.ID), decision)
}

func printEntry(e models.JournalEntry) {
	fmt.Printf("ID:        %s\n", e.ID)
	fmt.Printf("Date:      %s\n", e.Date)
	fmt.Printf("Mood:      %s %s (%d/%d)\n", e.MoodEmoji, models.MoodLabel(e.Mood), e.Mood, constants.MaxMood)
	if e.Decision != "" {
		fmt.Printf("Decision:  %s\n", e.Decision)
	}
	if done := e.Habits.Completed(); len(done) > 0 {
		fmt.Printf("Habits:    %s\n", strings.Join(done, ", "))
	}
	fmt.Printf("Created:   %s\n", e.CreatedAt.Local().Format(constants.DateFormat+" "+constants.TimeFormat))
	if !e.UpdatedAt.IsZero() && !e.UpdatedAt.Equal(e.CreatedAt) {
		fmt.Printf("Updated:   %s\n", e.UpdatedAt.Local().Format(constants.DateFormat+" "+constants.TimeFormat))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
