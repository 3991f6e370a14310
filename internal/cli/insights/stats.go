package insights

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/tui/components/report"
)

type StatsCmd struct {
	JSON bool `name:"json" help:"Print the statistics as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	entries := sess.Journal.List()
	dash := stats.Compute(entries, sess.Clock)

	if c.JSON {
		out, err := json.MarshalIndent(struct {
			stats.Dashboard
			Remaining int `json:"remaining_this_month"`
		}{dash, sess.Subscription().Remaining()}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(report.Dashboard(sess.Profile.DisplayName(), dash, sess.Subscription()))
	return nil
}
