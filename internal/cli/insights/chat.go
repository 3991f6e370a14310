package insights

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/lifemap/internal/chat"
	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/subscription"
)

type ChatCmd struct {
	Message []string `arg:"" optional:"" help:"Message to send. Without one, starts a conversation on stdin."`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	if !subscription.HasFeature(sess.Subscription(), subscription.FeatureAIInsights) {
		fmt.Println(subscription.UpgradePrompt(sess.Subscription()))
		return nil
	}
	n, err := ctx.Narrator()
	if err != nil {
		return err
	}
	if n == nil {
		return errors.New("the narrator is off; enable it with 'lifemap settings set narrator_mode proxy'")
	}
	svc := chat.NewService(n)

	if len(c.Message) > 0 {
		reply := svc.Send(ctx.Background(), sess.Profile.ID, strings.Join(c.Message, " "))
		fmt.Println(reply.Text)
		return nil
	}

	fmt.Println("Chat with your coach. Type 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := ctx.Background().Err(); err != nil {
			return nil
		}
		reply := svc.Send(ctx.Background(), sess.Profile.ID, text)
		fmt.Printf("%s\n\n", reply.Text)
	}
}
