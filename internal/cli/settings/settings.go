package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	fmt.Println("Current Settings:")
	fmt.Printf("  Timezone:              %s\n", settings.Timezone)
	fmt.Printf("  Max Entries / Month:   %d\n", settings.MaxEntriesPerMonth)
	if settings.CurrentUserID != "" {
		fmt.Printf("  Signed-in Profile:     %s\n", settings.CurrentUserID)
	}
	fmt.Println("\nNarrator Settings:")
	fmt.Printf("  Mode:                  %s\n", settings.NarratorMode)
	url := settings.NarratorURL
	if url == "" {
		url = "(discover local proxy)"
	}
	fmt.Printf("  Proxy URL:             %s\n", url)
	fmt.Printf("  API Base URL:          %s\n", settings.NarratorBaseURL)
	fmt.Printf("  Model:                 %s\n", settings.NarratorModel)
	fmt.Printf("  Timeout:               %ds\n", settings.NarratorTimeoutSec)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name, e.g. timezone or narrator_mode."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Key)), "-", "_")
	if key == constants.SettingCurrentUserID {
		return fmt.Errorf("%s is managed by 'lifemap login' and 'lifemap logout'", key)
	}
	if err := models.ValidateSetting(key, c.Value); err != nil {
		return fmt.Errorf("%w (settable keys: %s)", err, strings.Join(settableKeys(), ", "))
	}
	if err := ctx.Store.SetSetting(key, c.Value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	fmt.Printf("✓ %s = %s\n", key, c.Value)
	return nil
}

func settableKeys() []string {
	keys := make([]string, 0, len(models.SettingKeys))
	for _, k := range models.SettingKeys {
		if k != constants.SettingCurrentUserID {
			keys = append(keys, k)
		}
	}
	return keys
}
