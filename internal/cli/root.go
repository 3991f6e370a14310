package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/lifemap/internal/account"
	"github.com/julianstephens/lifemap/internal/backup"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/journal"
	"github.com/julianstephens/lifemap/internal/keyring"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/narrator"
	"github.com/julianstephens/lifemap/internal/storage"
	"github.com/julianstephens/lifemap/internal/storage/postgres"
	"github.com/julianstephens/lifemap/internal/storage/sqlite"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/utils"
)

// ErrNotLoggedIn is returned by commands that need a signed-in profile.
var ErrNotLoggedIn = errors.New("not logged in, run 'lifemap login <email>' first")

// ConnectionEnv overrides the configured database with a connection string.
const ConnectionEnv = "LIFEMAP_DB_CONNECTION"

type Context struct {
	Ctx   context.Context
	Store storage.Provider
}

// NewProvider picks the storage backend for a --config value. PostgreSQL
// connection strings with an embedded password are refused.
func NewProvider(config string) (storage.Provider, error) {
	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line. " +
					"Use 'lifemap keyring set db <conn>', the " + ConnectionEnv + " environment variable, or a .pgpass file")
			}
			return nil, err
		}
		return postgres.New(config), nil
	}
	return sqlite.NewStore(config), nil
}

// ResolveConfig returns the database to open. The environment and then the
// keyring replace the default SQLite path; an explicit --config always wins.
func ResolveConfig(config string) string {
	if config != constants.DefaultConfigPath {
		return expandHome(config)
	}
	if env := os.Getenv(ConnectionEnv); env != "" {
		return env
	}
	if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
		logger.Debug("Using connection string from keyring")
		return connStr
	}
	return expandHome(config)
}

func expandHome(path string) string {
	if postgres.IsConnString(path) || !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ConfigDir is where logs and the proxy lockfile live for a database.
func ConfigDir(config string) string {
	if postgres.IsConnString(config) || !strings.Contains(config, string(filepath.Separator)) {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, constants.AppName)
		}
	}
	return filepath.Dir(config)
}

// Background returns the command's context.
func (c *Context) Background() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Settings returns the stored settings with defaults applied.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// Clock returns a clock in the configured timezone.
func (c *Context) Clock() (utils.Clock, error) {
	settings, err := c.Settings()
	if err != nil {
		return utils.Clock{}, err
	}
	return utils.NewClock(settings.Timezone)
}

// Accounts returns the profile service over the store.
func (c *Context) Accounts() *account.Service {
	return account.NewService(c.Store)
}

// CurrentProfile returns the profile selected by `lifemap login`.
func (c *Context) CurrentProfile() (models.Profile, error) {
	settings, err := c.Settings()
	if err != nil {
		return models.Profile{}, err
	}
	if settings.CurrentUserID == "" {
		return models.Profile{}, ErrNotLoggedIn
	}
	profile, err := c.Accounts().Get(c.Background(), settings.CurrentUserID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, ErrNotLoggedIn
	}
	return profile, err
}

// Session is everything a journal command needs for the signed-in user.
type Session struct {
	Profile  models.Profile
	Settings models.Settings
	Clock    utils.Clock
	Journal  *journal.Store
}

// Subscription derives the gate state from the session's current entries.
func (s *Session) Subscription() models.Subscription {
	return subscription.Derive(&s.Profile, s.Journal.List(), s.Clock, subscription.PolicyFromSettings(s.Settings))
}

// Open signs the current profile into a journal store.
func (c *Context) Open() (*Session, error) {
	profile, err := c.CurrentProfile()
	if err != nil {
		return nil, err
	}
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	clock, err := utils.NewClock(settings.Timezone)
	if err != nil {
		return nil, err
	}
	store := journal.NewStore(c.Store)
	if err := store.SignIn(c.Background(), profile.ID); err != nil {
		return nil, err
	}
	return &Session{Profile: profile, Settings: settings, Clock: clock, Journal: store}, nil
}

// Narrator builds the configured narrator. It returns nil when the narrator is off.
func (c *Context) Narrator() (*narrator.Narrator, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return narrator.FromSettings(settings)
}

// PerformAutomaticBackup backs up a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
