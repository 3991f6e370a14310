package models

import (
	"fmt"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/utils"
)

// SettingKeys lists every key stored in the settings table.
var SettingKeys = []string{
	constants.SettingTimezone,
	constants.SettingCurrentUserID,
	constants.SettingMaxEntriesPerMonth,
	constants.SettingNarratorMode,
	constants.SettingNarratorURL,
	constants.SettingNarratorBaseURL,
	constants.SettingNarratorModel,
	constants.SettingNarratorTimeoutSec,
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingCurrentUserID:
			settings.CurrentUserID = value
		case constants.SettingMaxEntriesPerMonth:
			if value == "" {
				continue
			}
			if _, err := fmt.Sscanf(value, "%d", &settings.MaxEntriesPerMonth); err != nil {
				return Settings{}, fmt.Errorf("parsing max_entries_per_month: %w", err)
			}
		case constants.SettingNarratorMode:
			settings.NarratorMode = constants.NarratorMode(value)
		case constants.SettingNarratorURL:
			settings.NarratorURL = value
		case constants.SettingNarratorBaseURL:
			settings.NarratorBaseURL = value
		case constants.SettingNarratorModel:
			settings.NarratorModel = value
		case constants.SettingNarratorTimeoutSec:
			if value == "" {
				continue
			}
			if _, err := fmt.Sscanf(value, "%d", &settings.NarratorTimeoutSec); err != nil {
				return Settings{}, fmt.Errorf("parsing narrator_timeout_sec: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:           settings.Timezone,
		constants.SettingCurrentUserID:      settings.CurrentUserID,
		constants.SettingMaxEntriesPerMonth: fmt.Sprintf("%d", settings.MaxEntriesPerMonth),
		constants.SettingNarratorMode:       string(settings.NarratorMode),
		constants.SettingNarratorURL:        settings.NarratorURL,
		constants.SettingNarratorBaseURL:    settings.NarratorBaseURL,
		constants.SettingNarratorModel:      settings.NarratorModel,
		constants.SettingNarratorTimeoutSec: fmt.Sprintf("%d", settings.NarratorTimeoutSec),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.MaxEntriesPerMonth <= 0 {
		settings.MaxEntriesPerMonth = constants.DefaultMaxEntriesPerMonth
	}
	switch settings.NarratorMode {
	case constants.NarratorProxy, constants.NarratorOpenAI, constants.NarratorOff:
	default:
		settings.NarratorMode = constants.DefaultNarratorMode
	}
	if settings.NarratorBaseURL == "" {
		settings.NarratorBaseURL = constants.DefaultNarratorBaseURL
	}
	if settings.NarratorModel == "" {
		settings.NarratorModel = constants.DefaultNarratorModel
	}
	if settings.NarratorTimeoutSec <= 0 {
		settings.NarratorTimeoutSec = constants.DefaultNarratorTimeoutSec
	}
}

// ValidateSetting checks a single key/value pair before it is written.
func ValidateSetting(key, value string) error {
	switch key {
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("invalid timezone %q", value)
		}
		return nil
	case constants.SettingCurrentUserID, constants.SettingNarratorURL,
		constants.SettingNarratorBaseURL, constants.SettingNarratorModel:
		return nil
	case constants.SettingMaxEntriesPerMonth, constants.SettingNarratorTimeoutSec:
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		return nil
	case constants.SettingNarratorMode:
		switch constants.NarratorMode(value) {
		case constants.NarratorProxy, constants.NarratorOpenAI, constants.NarratorOff:
			return nil
		}
		return fmt.Errorf("narrator_mode must be one of proxy, openai, off; got %q", value)
	}
	return fmt.Errorf("unknown setting %q", key)
}
