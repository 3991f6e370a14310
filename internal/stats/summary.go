package stats

import (
	"fmt"
	"math"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/utils"
)

// EmptyWeekSummary is the structured summary for a week without entries.
func EmptyWeekSummary() models.WeeklySummary {
	s := models.NewWeeklySummary()
	s.Summary = "No entries found for this week. Start by adding some journal entries!"
	s.Insights = []string{"Add your first entry to get personalized insights"}
	s.MoodAnalysis.MoodTrend = constants.TrendInsufficientData
	s.MoodAnalysis.Suggestions = []string{"Start tracking your mood to see patterns over time"}
	s.HabitAnalysis.HabitSuggestions = []string{"Begin tracking your daily habits to see what works best for you"}
	s.GoalsProgress.Suggestions = []string{"Set your first goal to start tracking progress"}
	s.NextWeekRecommendations = models.NextWeekRecommendations{
		FocusAreas:  []string{"Start with small, achievable goals"},
		ActionItems: []string{"Add your first journal entry"},
		HabitGoals:  []string{"Begin tracking one daily habit"},
	}
	return s
}

// LocalSummary builds the structured weekly summary without the narrator.
func LocalSummary(entries []models.JournalEntry, clock utils.Clock) models.WeeklySummary {
	week := ThisWeekEntries(entries, clock)
	if len(week) == 0 {
		s := EmptyWeekSummary()
		s.Source = constants.SummarySourceLocal
		return s
	}

	avg := AverageMood(week)
	counts := HabitCompletionCounts(week)
	top := TopHabits(counts, 3)

	s := models.NewWeeklySummary()
	s.Source = constants.SummarySourceLocal
	s.Summary = WeeklySummaryText(entries, clock)

	s.MoodAnalysis.AverageMood = math.Round(avg*100) / 100
	s.MoodAnalysis.MoodTrend = Trend(week)
	s.MoodAnalysis.MoodDistribution = MoodDistribution(week)
	if avg < 3 {
		s.MoodAnalysis.Suggestions = append(s.MoodAnalysis.Suggestions,
			"Schedule time for activities you enjoy",
			"Practice mindfulness or meditation")
	} else {
		s.MoodAnalysis.Suggestions = append(s.MoodAnalysis.Suggestions,
			"Notice what lifted your mood this week and repeat it")
	}

	s.HabitAnalysis.CompletedHabits = counts
	for _, hc := range top {
		s.HabitAnalysis.TopHabits = append(s.HabitAnalysis.TopHabits, hc.Name)
	}
	if len(top) > 0 {
		s.HabitAnalysis.HabitSuggestions = append(s.HabitAnalysis.HabitSuggestions,
			fmt.Sprintf("Focus on maintaining your consistency with %s", top[0].Name),
			"Consider adding more variety to your routine",
			"Track your progress with habit streaks")
	}

	s.Insights = localInsights(week, avg, top)
	s.GoalsProgress.Suggestions = []string{"Consider setting some new goals for next week"}
	s.NextWeekRecommendations = recommendations(avg, s.HabitAnalysis.TopHabits)
	return s
}

func localInsights(week []models.JournalEntry, avg float64, top []HabitCount) []string {
	insights := []string{
		fmt.Sprintf("You journaled on %d of 7 days", len(distinctDatesDesc(week))),
		fmt.Sprintf("Your average mood was %.1f/5, %s overall", avg, MoodDescriptor(avg)),
	}
	if len(top) > 0 {
		insights = append(insights, fmt.Sprintf("%s was your most consistent habit", top[0].Name))
	}
	if streak := StreakCount(week); streak >= 3 {
		insights = append(insights, fmt.Sprintf("You kept a %d-day streak going", streak))
	}
	return insights
}

// recommendations fills next week's focus areas, action items and habit goals,
// topping each list up to two items and capping it at three.
func recommendations(avg float64, topHabits []string) models.NextWeekRecommendations {
	var focus, actions, goals []string

	if avg < 3 {
		focus = append(focus, "Improve mood and emotional well-being")
		actions = append(actions, "Schedule time for activities you enjoy", "Practice mindfulness or meditation")
	}
	if len(topHabits) == 0 {
		focus = append(focus, "Establish new positive habits")
		goals = append(goals, "Start with one small habit and build consistency")
	} else {
		for _, h := range topHabits {
			goals = append(goals, fmt.Sprintf("Maintain consistency with %s", h))
		}
	}
	focus = append(focus, "Set clear goals for the week")
	actions = append(actions, "Define 2-3 specific, achievable goals")

	if len(focus) < 2 {
		focus = append(focus, "Maintain work-life balance", "Prioritize self-care and rest")
	}
	if len(actions) < 2 {
		actions = append(actions, "Review and adjust your daily routine", "Track your progress regularly")
	}
	if len(goals) < 2 {
		goals = append(goals, "Stay consistent with your daily routines", "Celebrate small wins and progress")
	}

	return models.NextWeekRecommendations{
		FocusAreas:  capList(focus, 3),
		ActionItems: capList(actions, 3),
		HabitGoals:  capList(goals, 3),
	}
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
