package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/stats"
)

// WatchCmd follows the change feed and prints the statistics after each change.
type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- sess.Journal.Watch(watchCtx) }()

	show := func() {
		entries := sess.Journal.List()
		d := stats.Compute(entries, sess.Clock)
		fmt.Printf("[%s] %d entries  avg %.1f %s  streak %d  this week %d  month %d/%d\n",
			sess.Clock.Now().Format("15:04:05"), d.TotalEntries, d.AverageMood, stats.MoodEmoji(d.AverageMood),
			d.Streak, d.ThisWeek, d.ThisMonth, sess.Subscription().MaxEntriesPerMonth)
	}

	fmt.Println("Watching for journal changes. Press Ctrl+C to stop.")
	show()
	for {
		select {
		case <-sess.Journal.Changes():
			show()
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}
