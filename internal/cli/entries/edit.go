package entries

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/storage"
	"github.com/julianstephens/lifemap/internal/tui"
)

type EntryEditCmd struct {
	ID          string   `arg:"" help:"ID (or unique prefix) of the entry to edit."`
	Mood        *int     `short:"m" help:"New mood from 1 to 5."`
	Decision    *string  `short:"d" help:"New decision text."`
	Habit       []string `short:"H" help:"Completed habit, replacing the existing checklist. Repeat for several."`
	Date        *string  `help:"New entry date (YYYY-MM-DD)."`
	Emoji       *string  `help:"New mood emoji."`
	Interactive bool     `short:"i" help:"Edit the entry with a form."`
}

func (c *EntryEditCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	existing, err := findEntry(sess, c.ID)
	if err != nil {
		return err
	}

	var patch models.EntryPatch
	if c.Interactive {
		fm := tui.EntryFormModelFrom(existing)
		if err := tui.NewEntryForm(fm).Run(); err != nil {
			return fmt.Errorf("entry form cancelled: %w", err)
		}
		patch = fm.Patch()
	} else {
		patch = models.EntryPatch{
			Date:      c.Date,
			Mood:      c.Mood,
			MoodEmoji: c.Emoji,
			Decision:  c.Decision,
		}
		if len(c.Habit) > 0 {
			patch.Habits = habitSet(c.Habit)
		}
	}
	if patch.IsEmpty() {
		fmt.Println("No changes specified. Use flags or -i to edit the entry.")
		return nil
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	e, err := sess.Journal.Update(ctx.Background(), existing.ID, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry not found: %s", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	fmt.Printf("✓ Updated reflection for %s %s\n", e.Date, e.MoodEmoji)

	ctx.PerformAutomaticBackup()
	return nil
}

// findEntry resolves an ID or unique ID prefix among the session's entries.
func findEntry(sess *cli.Session, id string) (models.JournalEntry, error) {
	if e, ok := sess.Journal.Get(id); ok {
		return e, nil
	}
	var match *models.JournalEntry
	for _, e := range sess.Journal.List() {
		if len(id) >= 4 && len(e.ID) >= len(id) && e.ID[:len(id)] == id {
			if match != nil {
				return models.JournalEntry{}, fmt.Errorf("entry ID prefix %q is ambiguous", id)
			}
			e := e
			match = &e
		}
	}
	if match == nil {
		return models.JournalEntry{}, fmt.Errorf("entry not found: %s", id)
	}
	return *match, nil
}
