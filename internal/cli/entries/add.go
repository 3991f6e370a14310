package entries

import (
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/tui"
)

type EntryAddCmd struct {
	Mood        int      `short:"m" help:"Mood from 1 (terrible) to 5 (amazing)."`
	Decision    string   `short:"d" help:"One decision for tomorrow."`
	Habit       []string `short:"H" help:"Completed habit. Repeat for several."`
	Date        string   `help:"Entry date (YYYY-MM-DD). Defaults to today."`
	Emoji       string   `help:"Mood emoji. Defaults to the mood's emoji."`
	Interactive bool     `short:"i" help:"Fill in the entry with a form."`
}

func (c *EntryAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}

	sub := sess.Subscription()
	today := stats.TodaysEntry(sess.Journal.List(), sess.Clock)
	date := c.Date
	if date == "" {
		date = sess.Clock.Today()
	}
	if date == sess.Clock.Today() && !subscription.AllowsNewEntryToday(sub, today) {
		fmt.Printf("You already reflected today. Edit it with 'lifemap entry edit %s', or upgrade to Pro for multiple daily entries.\n", today.ID)
		return nil
	}
	// The monthly quota only counts entries dated in the current month.
	if sess.Clock.IsThisMonth(date) && !subscription.CanCreateEntry(sub, false) {
		fmt.Println(subscription.UpgradePrompt(sub))
		return nil
	}

	var draft models.EntryDraft
	if c.Interactive {
		fm := tui.NewEntryFormModel(date)
		if c.Mood != 0 {
			fm.Mood = c.Mood
		}
		fm.Decision = c.Decision
		if err := tui.NewEntryForm(fm).Run(); err != nil {
			return fmt.Errorf("entry form cancelled: %w", err)
		}
		draft = fm.Draft()
	} else {
		if c.Mood == 0 {
			return fmt.Errorf("--mood is required (or use -i for the form)")
		}
		draft = models.EntryDraft{
			Date:      date,
			Mood:      c.Mood,
			MoodEmoji: c.Emoji,
			Decision:  c.Decision,
			Habits:    habitSet(c.Habit),
		}
		draft.Normalize()
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	e, err := sess.Journal.Create(ctx.Background(), draft)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	fmt.Printf("✓ Saved reflection for %s %s\n", e.Date, e.MoodEmoji)
	if remaining := sess.Subscription().Remaining(); remaining <= 5 {
		fmt.Printf("  %d entries left this month\n", remaining)
	}

	ctx.PerformAutomaticBackup()
	return nil
}
