package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/keyring"
	"github.com/julianstephens/lifemap/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" help:"Secret to store: db (connection string) or narrator (API key)."`
	Value  string `arg:"" help:"Value to store."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	if secret == keyring.ConnectionString {
		if !postgres.IsConnString(cmd.Value) && !strings.Contains(cmd.Value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	} else if strings.TrimSpace(cmd.Value) == "" {
		return errors.New("API key cannot be empty")
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", secret, err)
	}

	fmt.Printf("✓ %s stored successfully in OS keyring\n", secret)
	if secret == keyring.ConnectionString {
		fmt.Println("  You can now use lifemap without the --config flag")
	}
	return nil
}

// KeyringGetCmd shows a stored secret with the sensitive part masked
type KeyringGetCmd struct {
	Secret string `arg:"" help:"Secret to show: db or narrator."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'lifemap keyring set %s' to store one", secret, cmd.Secret)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", secret, err)
	}

	if secret == keyring.ConnectionString {
		fmt.Println(maskPassword(value))
	} else {
		fmt.Println(maskKey(value))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Secret string `arg:"" help:"Secret to delete: db or narrator."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret, err)
	}

	fmt.Printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	fmt.Println("✓ OS keyring is available")
	for _, secret := range keyring.Secrets {
		_, err := keyring.Get(secret)
		switch {
		case err == nil:
			fmt.Printf("✓ %s is stored in keyring\n", secret)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ No %s stored in keyring\n", secret)
		default:
			fmt.Printf("⚠ Failed to read %s: %v\n", secret, err)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}

// maskKey keeps the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
