package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/utils"
)

// EntryFormModel holds the values bound to the entry form.
type EntryFormModel struct {
	Date     string
	Mood     int
	Decision string
	Habits   []string

	// choices is every habit offered, the defaults plus any already on the entry.
	choices []string
}

// NewEntryFormModel prefills a form for a new entry on day.
func NewEntryFormModel(day string) *EntryFormModel {
	return &EntryFormModel{
		Date:    day,
		Mood:    3,
		Habits:  []string{},
		choices: append([]string{}, constants.DefaultHabits...),
	}
}

// EntryFormModelFrom prefills a form with an existing entry.
func EntryFormModelFrom(e models.JournalEntry) *EntryFormModel {
	fm := &EntryFormModel{
		Date:     e.Date,
		Mood:     e.Mood,
		Decision: e.Decision,
		Habits:   e.Habits.Completed(),
		choices:  append([]string{}, constants.DefaultHabits...),
	}
	var extra []string
	for name := range e.Habits {
		if !contains(fm.choices, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	fm.choices = append(fm.choices, extra...)
	return fm
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// habits records every offered habit, checked or not.
func (fm *EntryFormModel) habits() models.Habits {
	h := make(models.Habits, len(fm.choices))
	for _, name := range fm.choices {
		h[name] = false
	}
	for _, name := range fm.Habits {
		h[name] = true
	}
	return h
}

// Draft converts the form into a creation request.
func (fm *EntryFormModel) Draft() models.EntryDraft {
	d := models.EntryDraft{
		Date:     strings.TrimSpace(fm.Date),
		Mood:     fm.Mood,
		Decision: fm.Decision,
		Habits:   fm.habits(),
	}
	d.Normalize()
	return d
}

// Patch converts the form into a full replacement of the editable fields.
func (fm *EntryFormModel) Patch() models.EntryPatch {
	date := strings.TrimSpace(fm.Date)
	mood := fm.Mood
	decision := fm.Decision
	return models.EntryPatch{
		Date:     &date,
		Mood:     &mood,
		Decision: &decision,
		Habits:   fm.habits(),
	}
}

// NewEntryForm creates the form for adding or editing an entry.
func NewEntryForm(fm *EntryFormModel) *huh.Form {
	moods := make([]huh.Option[int], 0, len(models.MoodScale))
	for i := len(models.MoodScale) - 1; i >= 0; i-- {
		opt := models.MoodScale[i]
		moods = append(moods, huh.NewOption(fmt.Sprintf("%s %s", opt.Emoji, opt.Label), opt.Value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&fm.Date).
				Validate(func(s string) error {
					if !utils.ValidateDate(strings.TrimSpace(s)) {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewSelect[int]().
				Title("How are you feeling?").
				Options(moods...).
				Value(&fm.Mood),
			huh.NewText().
				Title("One decision for tomorrow").
				CharLimit(500).
				Value(&fm.Decision),
			huh.NewMultiSelect[string]().
				Title("Habits completed").
				Options(huh.NewOptions(fm.choices...)...).
				Value(&fm.Habits),
		),
	)
}
