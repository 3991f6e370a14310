package entries

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/stats"
)

type EntryListCmd struct {
	Limit int  `short:"n" help:"Show at most this many entries (0 for all)." default:"20"`
	Week  bool `help:"Only entries from this week."`
	Month bool `help:"Only entries from this month."`
	JSON  bool `name:"json" help:"Print entries as JSON."`
}

func (c *EntryListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}

	entries := sess.Journal.List()
	switch {
	case c.Week:
		entries = stats.ThisWeekEntries(entries, sess.Clock)
	case c.Month:
		entries = stats.ThisMonthEntries(entries, sess.Clock)
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	if c.JSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No entries yet. Add one with 'lifemap entry add --mood 4'.")
		return nil
	}
	for _, e := range entries {
		printEntryLine(e)
	}
	return nil
}

type EntryShowCmd struct {
	ID string `arg:"" help:"ID (or unique prefix) of the entry."`
}

func (c *EntryShowCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	e, err := findEntry(sess, c.ID)
	if err != nil {
		return err
	}
	printEntry(e)
	return nil
}

type EntryTodayCmd struct{}

func (c *EntryTodayCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	entries := sess.Journal.List()
	today := stats.TodaysEntry(entries, sess.Clock)
	if today == nil {
		fmt.Println(stats.MotivationalMessage(entries))
		fmt.Println("No reflection yet today. Add one with 'lifemap entry add -i'.")
		return nil
	}
	printEntry(*today)
	return nil
}
