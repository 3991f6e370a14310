package narrator

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
)

var errNotObject = errors.New("summary is not a JSON object")

// DecodeSummary reads a weekly summary object. Missing fields keep their
// defaults and fields of the wrong type are skipped, so only a payload that
// is not a JSON object fails.
func DecodeSummary(data []byte) (models.WeeklySummary, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return models.WeeklySummary{}, errNotObject
	}
	return summaryFromMap(obj), nil
}

// ParseResult interprets the "result" member of a proxy response, which is
// either a string or a summary object.
func ParseResult(raw json.RawMessage) Result {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Result{}
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ParseCompletion(text)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		s := summaryFromMap(obj)
		return Result{Summary: &s}
	}
	return Result{Text: string(raw)}
}

// ParseCompletion turns raw model output into a result. Output that holds a
// JSON object, optionally inside a code fence, becomes a summary.
func ParseCompletion(text string) Result {
	trimmed := stripFence(strings.TrimSpace(text))
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && obj != nil {
			s := summaryFromMap(obj)
			return Result{Summary: &s}
		}
	}
	return Result{Text: strings.TrimSpace(text)}
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return s
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func summaryFromMap(obj map[string]any) models.WeeklySummary {
	s := models.NewWeeklySummary()
	s.Source = constants.SummarySourceNarrator

	s.Summary = str(obj["summary"])
	s.Insights = strs(obj["insights"])

	if mood, ok := obj["moodAnalysis"].(map[string]any); ok {
		s.MoodAnalysis.AverageMood = num(mood["averageMood"])
		s.MoodAnalysis.MoodTrend = trend(mood["moodTrend"])
		s.MoodAnalysis.Suggestions = strs(mood["suggestions"])
		s.MoodAnalysis.MoodDistribution = distribution(mood["moodDistribution"])
	}
	if habits, ok := obj["habitAnalysis"].(map[string]any); ok {
		s.HabitAnalysis.TopHabits = strs(habits["topHabits"])
		s.HabitAnalysis.HabitSuggestions = strs(habits["habitSuggestions"])
	}
	if goals, ok := obj["goalsProgress"].(map[string]any); ok {
		s.GoalsProgress.Completed = int(num(goals["completed"]))
		s.GoalsProgress.InProgress = int(num(goals["inProgress"]))
		s.GoalsProgress.Suggestions = strs(goals["suggestions"])
	}
	if next, ok := obj["nextWeekRecommendations"].(map[string]any); ok {
		s.NextWeekRecommendations.FocusAreas = strs(next["focusAreas"])
		s.NextWeekRecommendations.ActionItems = strs(next["actionItems"])
		s.NextWeekRecommendations.HabitGoals = strs(next["habitGoals"])
	}
	return s
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func strs(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := str(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func num(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func trend(v any) constants.MoodTrend {
	switch constants.MoodTrend(strings.ToLower(str(v))) {
	case constants.TrendImproving:
		return constants.TrendImproving
	case constants.TrendDeclining:
		return constants.TrendDeclining
	case constants.TrendInsufficientData:
		return constants.TrendInsufficientData
	default:
		return constants.TrendStable
	}
}

// distribution keeps keys that name a mood in range.
func distribution(v any) map[int]int {
	out := map[int]int{}
	obj, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, count := range obj {
		mood, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || mood < constants.MinMood || mood > constants.MaxMood {
			continue
		}
		if n := int(num(count)); n > 0 {
			out[mood] += n
		}
	}
	return out
}
