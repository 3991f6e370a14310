package models

import "github.com/julianstephens/lifemap/internal/constants"

// Subscription is derived from the profile and entry list on demand. It is never stored.
type Subscription struct {
	Plan               constants.Plan `json:"plan"`
	EntriesThisWeek    int            `json:"entries_this_week"`
	EntriesThisMonth   int            `json:"entries_this_month"`
	MaxEntriesPerMonth int            `json:"max_entries_per_month"`
	CustomDomain       string         `json:"custom_domain,omitempty"`
}

// Remaining returns how many entries may still be created this month.
func (s Subscription) Remaining() int {
	if n := s.MaxEntriesPerMonth - s.EntriesThisMonth; n > 0 {
		return n
	}
	return 0
}
