package models

import "github.com/julianstephens/lifemap/internal/constants"

// Settings represents application-wide settings
type Settings struct {
	Timezone           string                 `json:"timezone"`              // IANA timezone name or "Local" for the system timezone
	CurrentUserID      string                 `json:"current_user_id"`       // profile selected by `login`
	MaxEntriesPerMonth int                    `json:"max_entries_per_month"` // monthly entry quota for every plan
	NarratorMode       constants.NarratorMode `json:"narrator_mode"`         // proxy, openai or off
	NarratorURL        string                 `json:"narrator_url"`          // proxy base URL; empty discovers the local proxy
	NarratorBaseURL    string                 `json:"narrator_base_url"`     // OpenAI-compatible API base URL
	NarratorModel      string                 `json:"narrator_model"`        // completion model name
	NarratorTimeoutSec int                    `json:"narrator_timeout_sec"`  // deadline for one narrator call
}
