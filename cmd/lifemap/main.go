package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/cli/accounts"
	"github.com/julianstephens/lifemap/internal/cli/backups"
	"github.com/julianstephens/lifemap/internal/cli/entries"
	"github.com/julianstephens/lifemap/internal/cli/insights"
	"github.com/julianstephens/lifemap/internal/cli/settings"
	"github.com/julianstephens/lifemap/internal/cli/system"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/errors"
	"github.com/julianstephens/lifemap/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the keyring, LIFEMAP_DB_CONNECTION, or .pgpass instead." type:"string" env:"LIFEMAP_CONFIG" default:"${default_config}"`
	Debug   bool   `help:"Write debug logs."`

	Init     system.InitCmd     `cmd:"" help:"Initialize lifemap storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Serve    system.ServeCmd    `cmd:"" help:"Run the narrator proxy."`
	Inspect  system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Validate system.ValidateCmd `cmd:"" help:"Check journal entries for data problems."`

	Login   accounts.LoginCmd   `cmd:"" help:"Sign in, creating the profile on first use."`
	Logout  accounts.LogoutCmd  `cmd:"" help:"Sign out."`
	Profile accounts.ProfileCmd `cmd:"" help:"Show or change your profile and plan."`

	Entry struct {
		Add    entries.EntryAddCmd    `cmd:"" help:"Add a reflection."`
		Edit   entries.EntryEditCmd   `cmd:"" help:"Edit a reflection."`
		List   entries.EntryListCmd   `cmd:"" help:"List reflections, newest first." default:"1"`
		Show   entries.EntryShowCmd   `cmd:"" help:"Show one reflection."`
		Today  entries.EntryTodayCmd  `cmd:"" help:"Show today's reflection."`
		Delete entries.EntryDeleteCmd `cmd:"" help:"Delete a reflection."`
	} `cmd:"" help:"Manage journal entries."`

	Stats   insights.StatsCmd   `cmd:"" help:"Show journal statistics."`
	Summary insights.SummaryCmd `cmd:"" help:"Summarize this week."`
	Chat    insights.ChatCmd    `cmd:"" help:"Talk with your reflection coach."`
	Watch   insights.WatchCmd   `cmd:"" help:"Follow journal changes live."`

	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage application settings."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored secret."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// Commands that open the store themselves, or never need it.
var skipLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
	"serve":   true,
}

func main() {
	vars := kong.Vars{
		"version":        constants.Version,
		"default_config": constants.DefaultConfigPath,
	}
	for k, v := range system.ServeVars() {
		vars[k] = v
	}

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily reflection journal with mood, habit and streak tracking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		vars,
	)

	config := cli.ResolveConfig(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cli.ConfigDir(config)}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.NewProvider(config)
	if err != nil {
		errors.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := strings.Fields(kctx.Command())
	if len(command) > 0 && !skipLoad[command[0]] {
		if err := store.Load(); err != nil {
			stop()
			errors.Fatal(err)
		}
		defer store.Close()
	}

	appCtx := &cli.Context{Ctx: ctx, Store: store}
	if err := kctx.Run(appCtx); err != nil {
		stop()
		errors.Fatal(err)
	}
}
