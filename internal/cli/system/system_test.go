package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	ctx := &cli.Context{Ctx: context.Background(), Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func signIn(t *testing.T, ctx *cli.Context) models.Profile {
	t.Helper()
	profile, err := ctx.Accounts().SignIn(ctx.Background(), "test@example.com", "Test User")
	if err != nil {
		t.Fatalf("failed to sign in: %v", err)
	}
	if err := ctx.Store.SetSetting(constants.SettingCurrentUserID, profile.ID); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	return profile
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if err := (&InitCmd{}).Run(ctx); err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	profile := signIn(t, ctx)

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	if _, err := ctx.Store.GetProfile(ctx.Background(), profile.ID); err == nil {
		t.Error("expected profiles to be gone after forced init")
	}
}

func TestValidateCmd(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if err := (&ValidateCmd{}).Run(ctx); err == nil {
		t.Error("expected error when not logged in")
	}

	profile := signIn(t, ctx)
	if _, err := ctx.Store.AddEntry(ctx.Background(), profile.ID, models.EntryDraft{Date: "2024-01-02", Mood: 4, MoodEmoji: "😊", Habits: models.Habits{}}); err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}
	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Errorf("validate failed on clean data: %v", err)
	}
}

func TestDebugCmds(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("db-path failed: %v", err)
	}
	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("dump-settings failed: %v", err)
	}
	if err := (&DebugDumpProfileCmd{}).Run(ctx); err == nil {
		t.Error("expected dump-profile to fail when not logged in")
	}

	signIn(t, ctx)
	if err := (&DebugDumpProfileCmd{}).Run(ctx); err != nil {
		t.Errorf("dump-profile failed: %v", err)
	}
	if err := (&DebugDumpEntryCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected error for missing entry")
	}
}

func TestDoctorCmd(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if err := ctx.Store.SetSetting(constants.SettingNarratorMode, string(constants.NarratorOff)); err != nil {
		t.Fatalf("failed to set narrator mode: %v", err)
	}
	signIn(t, ctx)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a fresh database: %v", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail without a database")
	}
}
