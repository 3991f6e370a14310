package models

import "github.com/julianstephens/lifemap/internal/constants"

// WeeklySummary is the structured weekly narrative, produced either by the
// narrator service or locally from the entry list.
type WeeklySummary struct {
	Summary                 string                  `json:"summary"`
	Insights                []string                `json:"insights"`
	MoodAnalysis            MoodAnalysis            `json:"moodAnalysis"`
	HabitAnalysis           HabitAnalysis           `json:"habitAnalysis"`
	GoalsProgress           GoalsProgress           `json:"goalsProgress"`
	NextWeekRecommendations NextWeekRecommendations `json:"nextWeekRecommendations"`
	Source                  string                  `json:"source,omitempty"`
}

type MoodAnalysis struct {
	AverageMood      float64             `json:"averageMood"`
	MoodTrend        constants.MoodTrend `json:"moodTrend"`
	Suggestions      []string            `json:"suggestions"`
	MoodDistribution map[int]int         `json:"moodDistribution"`
}

type HabitAnalysis struct {
	CompletedHabits  map[string]int `json:"completedHabits,omitempty"`
	TopHabits        []string       `json:"topHabits"`
	HabitSuggestions []string       `json:"habitSuggestions"`
}

type GoalsProgress struct {
	Completed   int      `json:"completed"`
	InProgress  int      `json:"inProgress"`
	Suggestions []string `json:"suggestions"`
}

type NextWeekRecommendations struct {
	FocusAreas  []string `json:"focusAreas"`
	ActionItems []string `json:"actionItems"`
	HabitGoals  []string `json:"habitGoals"`
}

// NewWeeklySummary returns a summary with every collection initialized and a
// stable trend, the shape used when a field is missing.
func NewWeeklySummary() WeeklySummary {
	return WeeklySummary{
		Insights: []string{},
		MoodAnalysis: MoodAnalysis{
			MoodTrend:        constants.TrendStable,
			Suggestions:      []string{},
			MoodDistribution: map[int]int{},
		},
		HabitAnalysis: HabitAnalysis{
			TopHabits:        []string{},
			HabitSuggestions: []string{},
		},
		GoalsProgress: GoalsProgress{Suggestions: []string{}},
		NextWeekRecommendations: NextWeekRecommendations{
			FocusAreas:  []string{},
			ActionItems: []string{},
			HabitGoals:  []string{},
		},
	}
}
