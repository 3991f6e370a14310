package insights

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/narrator"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/tui/components/report"
)

type SummaryCmd struct {
	Local bool `help:"Skip the narrator and summarize locally."`
	JSON  bool `name:"json" help:"Print the summary as JSON."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}

	var n *narrator.Narrator
	switch {
	case c.Local:
	case !subscription.HasFeature(sess.Subscription(), subscription.FeatureAIInsights):
		fmt.Println("AI insights are a Pro feature. Showing your local summary.")
	default:
		n, err = ctx.Narrator()
		if err != nil {
			logger.Warn("Narrator unavailable", "error", err)
		}
	}

	summary, err := narrator.SummaryWithFallback(ctx.Background(), n, sess.Profile.ID, sess.Journal.List(), sess.Clock)
	if err != nil {
		fmt.Printf("Narrator failed (%v). Showing your local summary.\n", err)
	}

	if c.JSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(report.Summary(summary))
	return nil
}
