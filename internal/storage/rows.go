package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
)

// EntryColumns is the column list read by ScanEntry.
const EntryColumns = "id, user_id, date, mood, mood_emoji, decision, habits, created_at, updated_at"

// ProfileColumns is the column list read by ScanProfile.
const ProfileColumns = "id, email, full_name, avatar_url, subscription_plan, custom_domain, created_at, updated_at"

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// FormatTimestamp renders t in the stored timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses a stored timestamp. Any RFC 3339 value is accepted.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// ScanEntry reads one journal_entries row selected with EntryColumns.
func ScanEntry(row Scanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var created, updated string
	if err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Mood, &e.MoodEmoji, &e.Decision, &e.Habits, &created, &updated); err != nil {
		return models.JournalEntry{}, err
	}
	var err error
	if e.CreatedAt, err = ParseTimestamp(created); err != nil {
		return models.JournalEntry{}, err
	}
	if e.UpdatedAt, err = ParseTimestamp(updated); err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}

// ScanProfile reads one profiles row selected with ProfileColumns.
func ScanProfile(row Scanner) (models.Profile, error) {
	var p models.Profile
	var plan, created, updated string
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &plan, &p.CustomDomain, &created, &updated); err != nil {
		return models.Profile{}, err
	}
	p.SubscriptionPlan = constants.Plan(plan)
	var err error
	if p.CreatedAt, err = ParseTimestamp(created); err != nil {
		return models.Profile{}, err
	}
	if p.UpdatedAt, err = ParseTimestamp(updated); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// NewEntry builds the row for a validated draft.
func NewEntry(id, userID string, draft models.EntryDraft, now time.Time) models.JournalEntry {
	draft.Normalize()
	now = now.UTC().Truncate(time.Microsecond)
	return models.JournalEntry{
		ID:        id,
		UserID:    userID,
		Date:      draft.Date,
		Mood:      draft.Mood,
		MoodEmoji: draft.MoodEmoji,
		Decision:  draft.Decision,
		Habits:    draft.Habits.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
