// Package report renders dashboard statistics and weekly summaries into a
// scrollable viewport.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/stats"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

type Model struct {
	viewport viewport.Model
	content  string
	empty    string
}

func New(width, height int, empty string) Model {
	return Model{
		viewport: viewport.New(width, height),
		empty:    empty,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.content == "" {
		return mutedStyle.Render(m.empty)
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m *Model) SetContent(content string) {
	m.content = content
	m.viewport.SetContent(content)
}

func (m Model) Content() string {
	return m.content
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func bar(percent, width int) string {
	filled := percent * width / 100
	return barStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

// Dashboard renders the home screen statistics.
func Dashboard(name string, d stats.Dashboard, sub models.Subscription) string {
	var b strings.Builder

	if name != "" {
		b.WriteString(headingStyle.Render("Hi, "+name) + "\n")
	}
	b.WriteString(d.Motivation + "\n\n")

	if d.Today != nil {
		fmt.Fprintf(&b, "Today: %s %s\n\n", d.Today.MoodEmoji, models.MoodLabel(d.Today.Mood))
	} else {
		b.WriteString(mutedStyle.Render("No reflection yet today. Press 'a' to add one.") + "\n\n")
	}

	b.WriteString(row("Total entries", fmt.Sprintf("%d", d.TotalEntries)))
	b.WriteString(row("Streak", fmt.Sprintf("%d days  %s", d.Streak, d.StreakLabel)))
	b.WriteString(row("Average mood", fmt.Sprintf("%.1f/5 %s", d.AverageMood, stats.MoodEmoji(d.AverageMood))))
	b.WriteString(row("Trend", stats.TrendLabel(d.Trend)))
	b.WriteString(row("This week", fmt.Sprintf("%d (%s to %s)", d.ThisWeek, d.WeekStart, d.WeekEnd)))
	b.WriteString(row("This month", fmt.Sprintf("%d of %d (%s)", sub.EntriesThisMonth, sub.MaxEntriesPerMonth, sub.Plan)))
	if d.DaysToLegend > 0 {
		b.WriteString(row("Legend status", fmt.Sprintf("%d days to go", d.DaysToLegend)))
	}

	b.WriteString("\n" + headingStyle.Render(d.Insight.Title) + "\n")
	b.WriteString(d.Insight.Description + "\n\n")

	b.WriteString(headingStyle.Render("Habits this week") + "\n")
	for _, hp := range d.WeekHabits {
		fmt.Fprintf(&b, "%s %s %d/7\n", labelStyle.Render(hp.Name), bar(hp.Percent, 20), hp.Count)
	}

	b.WriteString("\n" + headingStyle.Render("Mood distribution") + "\n")
	for mood := 5; mood >= 1; mood-- {
		count := d.Distribution[mood]
		pct := 0
		if d.TotalEntries > 0 {
			pct = count * 100 / d.TotalEntries
		}
		fmt.Fprintf(&b, "%s %s %d\n", labelStyle.Render(models.DefaultMoodEmoji(mood)+" "+models.MoodLabel(mood)), bar(pct, 20), count)
	}

	b.WriteString("\n" + mutedStyle.Render(d.WeeklySummary) + "\n")
	return b.String()
}

// Summary renders a weekly summary.
func Summary(s models.WeeklySummary) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Weekly summary"))
	if s.Source != "" {
		b.WriteString(mutedStyle.Render(" (" + s.Source + ")"))
	}
	b.WriteString("\n" + s.Summary + "\n")

	section(&b, "Insights", s.Insights)

	b.WriteString("\n" + headingStyle.Render("Mood") + "\n")
	b.WriteString(row("Average", fmt.Sprintf("%.1f/5", s.MoodAnalysis.AverageMood)))
	b.WriteString(row("Trend", stats.TrendLabel(s.MoodAnalysis.MoodTrend)))
	moods := make([]int, 0, len(s.MoodAnalysis.MoodDistribution))
	for mood := range s.MoodAnalysis.MoodDistribution {
		moods = append(moods, mood)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(moods)))
	for _, mood := range moods {
		b.WriteString(row(models.DefaultMoodEmoji(mood)+" "+models.MoodLabel(mood), fmt.Sprintf("%d", s.MoodAnalysis.MoodDistribution[mood])))
	}
	section(&b, "Mood suggestions", s.MoodAnalysis.Suggestions)

	section(&b, "Top habits", s.HabitAnalysis.TopHabits)
	section(&b, "Habit suggestions", s.HabitAnalysis.HabitSuggestions)

	b.WriteString("\n" + headingStyle.Render("Goals") + "\n")
	b.WriteString(row("Completed", fmt.Sprintf("%d", s.GoalsProgress.Completed)))
	b.WriteString(row("In progress", fmt.Sprintf("%d", s.GoalsProgress.InProgress)))
	section(&b, "Goal suggestions", s.GoalsProgress.Suggestions)

	section(&b, "Focus next week", s.NextWeekRecommendations.FocusAreas)
	section(&b, "Action items", s.NextWeekRecommendations.ActionItems)
	section(&b, "Habit goals", s.NextWeekRecommendations.HabitGoals)
	return b.String()
}

func section(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + headingStyle.Render(title) + "\n")
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
}
