package constants

const (
	// General Settings
	SettingTimezone           = "timezone"
	SettingCurrentUserID      = "current_user_id"
	SettingMaxEntriesPerMonth = "max_entries_per_month"

	// Narrator Settings
	SettingNarratorMode       = "narrator_mode"
	SettingNarratorURL        = "narrator_url"
	SettingNarratorBaseURL    = "narrator_base_url"
	SettingNarratorModel      = "narrator_model"
	SettingNarratorTimeoutSec = "narrator_timeout_sec"

	// Default Settings Values
	DefaultTimezone           = "Local" // Use system local timezone by default
	DefaultMaxEntriesPerMonth = 30
	DefaultNarratorMode       = NarratorProxy
	DefaultNarratorBaseURL    = "https://openrouter.ai/api/v1"
	DefaultNarratorModel      = "anthropic/claude-3-opus"
	DefaultNarratorTimeoutSec = 30
)
