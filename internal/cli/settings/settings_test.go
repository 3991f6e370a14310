package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{Ctx: context.Background(), Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestSettingsShowCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Errorf("settings show failed: %v", err)
	}
}

func TestSettingsSetCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		key, value string
	}{
		{"timezone", "Asia/Tokyo"},
		{"max-entries-per-month", "45"},
		{"narrator_mode", "off"},
		{"NARRATOR_TIMEOUT_SEC", "12"},
	}
	for _, tt := range tests {
		if err := (&SettingsSetCmd{Key: tt.key, Value: tt.value}).Run(ctx); err != nil {
			t.Fatalf("settings set %s failed: %v", tt.key, err)
		}
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "Asia/Tokyo" {
		t.Errorf("expected timezone Asia/Tokyo, got %s", settings.Timezone)
	}
	if settings.MaxEntriesPerMonth != 45 {
		t.Errorf("expected quota 45, got %d", settings.MaxEntriesPerMonth)
	}
	if settings.NarratorMode != constants.NarratorOff {
		t.Errorf("expected narrator off, got %s", settings.NarratorMode)
	}
	if settings.NarratorTimeoutSec != 12 {
		t.Errorf("expected timeout 12, got %d", settings.NarratorTimeoutSec)
	}
}

func TestSettingsSetCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	invalid := []SettingsSetCmd{
		{Key: "timezone", Value: "Mars/Olympus"},
		{Key: "max_entries_per_month", Value: "-1"},
		{Key: "narrator_mode", Value: "carrier-pigeon"},
		{Key: "favorite_color", Value: "blue"},
		{Key: "current_user_id", Value: "someone-else"},
	}
	for _, cmd := range invalid {
		if err := cmd.Run(ctx); err == nil {
			t.Errorf("expected error for %s=%s", cmd.Key, cmd.Value)
		}
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != constants.DefaultTimezone {
		t.Errorf("timezone changed to %s", settings.Timezone)
	}
}
