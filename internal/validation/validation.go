// Package validation checks stored journal entries for data problems the
// storage layer does not prevent on its own.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID          ConflictType = "duplicate_id"
	ConflictInvalidDate          ConflictType = "invalid_date"
	ConflictMoodOutOfRange       ConflictType = "mood_out_of_range"
	ConflictMissingEmoji         ConflictType = "missing_emoji"
	ConflictFutureEntry          ConflictType = "future_entry"
	ConflictMultipleDaily        ConflictType = "multiple_daily_entries"
	ConflictQuotaExceeded        ConflictType = "quota_exceeded"
	ConflictWrongOwner           ConflictType = "wrong_owner"
	ConflictUpdatedBeforeCreated ConflictType = "updated_before_created"
)

// Severe reports whether the conflict means the data is unusable, as opposed
// to a plan rule that was bypassed.
func (t ConflictType) Severe() bool {
	switch t {
	case ConflictMultipleDaily, ConflictQuotaExceeded, ConflictMissingEmoji:
		return false
	}
	return true
}

// Conflict represents one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string
	EntryIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasSevere reports whether any conflict is severe.
func (vr *ValidationResult) HasSevere() bool {
	for _, c := range vr.Conflicts {
		if c.Type.Severe() {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks one user's entries.
type Validator struct {
	clock  utils.Clock
	policy subscription.Policy
}

func New(clock utils.Clock, policy subscription.Policy) *Validator {
	return &Validator{clock: clock, policy: policy}
}

// ValidateEntries checks entries belonging to profile. Plan rules are judged
// against the profile's current plan.
func (v *Validator) ValidateEntries(profile *models.Profile, entries []models.JournalEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	today := v.clock.Today()

	seen := make(map[string]bool, len(entries))
	byDate := make(map[string][]string)
	for _, e := range entries {
		if seen[e.ID] {
			result.add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Duplicate entry ID: %s", e.ID),
				EntryIDs:    []string{e.ID},
			})
			continue
		}
		seen[e.ID] = true

		if profile != nil && e.UserID != "" && e.UserID != profile.ID {
			result.add(Conflict{
				Type:        ConflictWrongOwner,
				Description: fmt.Sprintf("Entry %s belongs to another user", e.ID),
				EntryIDs:    []string{e.ID},
			})
		}
		if !utils.ValidateDate(e.Date) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Entry %s has invalid date %q", e.ID, e.Date),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e.ID)

		if e.Mood < constants.MinMood || e.Mood > constants.MaxMood {
			result.add(Conflict{
				Type:        ConflictMoodOutOfRange,
				Description: fmt.Sprintf("Entry %s on %s has mood %d outside %d..%d", e.ID, e.Date, e.Mood, constants.MinMood, constants.MaxMood),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		}
		if strings.TrimSpace(e.MoodEmoji) == "" {
			result.add(Conflict{
				Type:        ConflictMissingEmoji,
				Description: fmt.Sprintf("Entry %s on %s has no mood emoji", e.ID, e.Date),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		}
		if e.Date > today {
			result.add(Conflict{
				Type:        ConflictFutureEntry,
				Description: fmt.Sprintf("Entry %s is dated %s, after today (%s)", e.ID, e.Date, today),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		}
		if !e.CreatedAt.IsZero() && !e.UpdatedAt.IsZero() && e.UpdatedAt.Before(e.CreatedAt) {
			result.add(Conflict{
				Type:        ConflictUpdatedBeforeCreated,
				Description: fmt.Sprintf("Entry %s was updated before it was created", e.ID),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		}
	}

	sub := subscription.Derive(profile, entries, v.clock, v.policy)
	if !subscription.HasFeature(sub, subscription.FeatureMultipleDailyEntries) {
		dates := make([]string, 0, len(byDate))
		for d, ids := range byDate {
			if len(ids) > 1 {
				dates = append(dates, d)
			}
		}
		sort.Strings(dates)
		for _, d := range dates {
			result.add(Conflict{
				Type:        ConflictMultipleDaily,
				Description: fmt.Sprintf("%d entries on %s, but the %s plan allows one per day", len(byDate[d]), d, sub.Plan),
				Date:        d,
				EntryIDs:    byDate[d],
			})
		}
	}
	if sub.EntriesThisMonth > sub.MaxEntriesPerMonth {
		result.add(Conflict{
			Type:        ConflictQuotaExceeded,
			Description: fmt.Sprintf("%d entries this month exceed the quota of %d", sub.EntriesThisMonth, sub.MaxEntriesPerMonth),
		})
	}

	return result
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}
