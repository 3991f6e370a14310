package models

import (
	"testing"

	"github.com/julianstephens/lifemap/internal/constants"
)

func TestMapToSettings(t *testing.T) {
	data := map[string]string{
		constants.SettingTimezone:           "Europe/London",
		constants.SettingCurrentUserID:      "user-1",
		constants.SettingMaxEntriesPerMonth: "45",
		constants.SettingNarratorMode:       "openai",
		constants.SettingNarratorTimeoutSec: "",
		"unknown_key":                       "ignored",
	}
	s, err := MapToSettings(data)
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if s.Timezone != "Europe/London" || s.CurrentUserID != "user-1" || s.MaxEntriesPerMonth != 45 {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.NarratorMode != constants.NarratorOpenAI || s.NarratorTimeoutSec != 0 {
		t.Errorf("unexpected narrator settings %+v", s)
	}

	if _, err := MapToSettings(map[string]string{constants.SettingMaxEntriesPerMonth: "lots"}); err == nil {
		t.Error("MapToSettings() expected error for non-numeric quota")
	}
}

func TestSettingsRoundTripWithDefaults(t *testing.T) {
	s := Settings{NarratorMode: "bogus"}
	ApplyDefaultSettings(&s)

	if s.Timezone != constants.DefaultTimezone {
		t.Errorf("Timezone = %q", s.Timezone)
	}
	if s.MaxEntriesPerMonth != constants.DefaultMaxEntriesPerMonth {
		t.Errorf("MaxEntriesPerMonth = %d", s.MaxEntriesPerMonth)
	}
	if s.NarratorMode != constants.DefaultNarratorMode {
		t.Errorf("NarratorMode = %q", s.NarratorMode)
	}
	if s.NarratorTimeoutSec != constants.DefaultNarratorTimeoutSec {
		t.Errorf("NarratorTimeoutSec = %d", s.NarratorTimeoutSec)
	}

	back, err := MapToSettings(SettingsToMap(s))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if back != s {
		t.Errorf("round trip = %+v, want %+v", back, s)
	}
}

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{key: constants.SettingTimezone, value: "UTC"},
		{key: constants.SettingTimezone, value: "Nowhere/City", wantErr: true},
		{key: constants.SettingMaxEntriesPerMonth, value: "10"},
		{key: constants.SettingMaxEntriesPerMonth, value: "0", wantErr: true},
		{key: constants.SettingNarratorTimeoutSec, value: "abc", wantErr: true},
		{key: constants.SettingNarratorMode, value: "off"},
		{key: constants.SettingNarratorMode, value: "cloud", wantErr: true},
		{key: constants.SettingNarratorURL, value: "http://localhost:5000"},
		{key: "day_start", value: "08:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := ValidateSetting(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSetting(%s, %s) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
