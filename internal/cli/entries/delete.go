package entries

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/storage"
)

type EntryDeleteCmd struct {
	ID  string `arg:"" help:"ID (or unique prefix) of the entry to delete."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	e, err := findEntry(sess, c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Printf("Delete the reflection for %s %s? [y/N]: ", e.Date, e.MoodEmoji)
		response, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := sess.Journal.Delete(ctx.Background(), e.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("entry not found: %s", c.ID)
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	fmt.Println("✓ Entry deleted")
	return nil
}
