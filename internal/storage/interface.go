package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/lifemap/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
	SetSetting(key, value string) error

	// Profiles
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (models.Profile, error)

	// Journal entries, always scoped to one user
	ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	GetEntry(ctx context.Context, userID, id string) (models.JournalEntry, error)
	AddEntry(ctx context.Context, userID string, draft models.EntryDraft) (models.JournalEntry, error)
	UpdateEntry(ctx context.Context, userID, id string, patch models.EntryPatch) (models.JournalEntry, error)
	DeleteEntry(ctx context.Context, userID, id string) error

	// Subscribe delivers row changes for one user until ctx is done, then
	// closes the channel.
	Subscribe(ctx context.Context, userID string) (<-chan models.ChangeEvent, error)

	// Utils
	GetConfigPath() string
}
