package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpEntry    *DebugDumpEntryCmd    `cmd:"" help:"Dump an entry as JSON."`
	DumpProfile  *DebugDumpProfileCmd  `cmd:"" help:"Dump the signed-in profile as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpEntryCmd struct {
	ID string `arg:"" help:"ID of the entry to dump."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.CurrentProfile()
	if err != nil {
		return err
	}
	entry, err := ctx.Store.GetEntry(ctx.Background(), profile.ID, cmd.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry not found: %s", cmd.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	return printJSON(entry)
}

type DebugDumpProfileCmd struct{}

func (cmd *DebugDumpProfileCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.CurrentProfile()
	if err != nil {
		return err
	}
	return printJSON(profile)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}
