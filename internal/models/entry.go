package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/lifemap/internal/constants"
)

// MoodOption describes one point of the 1..5 mood scale.
type MoodOption struct {
	Value int
	Emoji string
	Label string
}

// MoodScale lists the mood options from worst to best.
var MoodScale = []MoodOption{
	{Value: 1, Emoji: "😞", Label: "Terrible"},
	{Value: 2, Emoji: "😔", Label: "Bad"},
	{Value: 3, Emoji: "😐", Label: "Okay"},
	{Value: 4, Emoji: "😊", Label: "Good"},
	{Value: 5, Emoji: "😄", Label: "Amazing"},
}

// DefaultMoodEmoji returns the glyph recorded for a mood when none is supplied.
func DefaultMoodEmoji(mood int) string {
	for _, opt := range MoodScale {
		if opt.Value == mood {
			return opt.Emoji
		}
	}
	return ""
}

// MoodLabel returns the word for a mood value, or an empty string when out of range.
func MoodLabel(mood int) string {
	for _, opt := range MoodScale {
		if opt.Value == mood {
			return opt.Label
		}
	}
	return ""
}

// Habits maps a habit name to whether it was completed.
type Habits map[string]bool

// UnmarshalJSON accepts any JSON value. Non-object values decode to an empty set
// and object values are coerced by truthiness.
func (h *Habits) UnmarshalJSON(data []byte) error {
	*h = DecodeHabits(data)
	return nil
}

// DecodeHabits parses a raw JSON habit blob without ever failing.
func DecodeHabits(data []byte) Habits {
	out := Habits{}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return out
	}
	for name, v := range raw {
		out[name] = truthy(v)
	}
	return out
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// Completed returns the names of completed habits in alphabetical order.
func (h Habits) Completed() []string {
	var names []string
	for name, done := range h {
		if done {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the habit set.
func (h Habits) Clone() Habits {
	out := make(Habits, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Scan implements sql.Scanner for habits stored as JSON text or jsonb.
func (h *Habits) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*h = Habits{}
	case []byte:
		*h = DecodeHabits(v)
	case string:
		*h = DecodeHabits([]byte(v))
	default:
		return fmt.Errorf("unsupported habits column type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (h Habits) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]bool(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JournalEntry is one daily reflection.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD, local calendar day
	Mood      int       `json:"mood"`
	MoodEmoji string    `json:"mood_emoji"`
	Decision  string    `json:"decision"`
	Habits    Habits    `json:"habits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no mutable state with e.
func (e JournalEntry) Clone() JournalEntry {
	e.Habits = e.Habits.Clone()
	return e
}

// EntryDraft is the input for creating an entry.
type EntryDraft struct {
	Date      string
	Mood      int
	MoodEmoji string
	Decision  string
	Habits    Habits
}

// Validate checks the draft's date format and mood range.
func (d EntryDraft) Validate() error {
	if err := validateDate(d.Date); err != nil {
		return err
	}
	return validateMood(d.Mood)
}

// Normalize fills the emoji and habit set when missing and trims the decision text.
func (d *EntryDraft) Normalize() {
	if d.MoodEmoji == "" {
		d.MoodEmoji = DefaultMoodEmoji(d.Mood)
	}
	if d.Habits == nil {
		d.Habits = Habits{}
	}
	d.Decision = strings.TrimSpace(d.Decision)
}

// EntryPatch is a partial update. Nil fields are left unchanged.
type EntryPatch struct {
	Date      *string
	Mood      *int
	MoodEmoji *string
	Decision  *string
	Habits    Habits
}

// Validate checks the fields present in the patch.
func (p EntryPatch) Validate() error {
	if p.Date != nil {
		if err := validateDate(*p.Date); err != nil {
			return err
		}
	}
	if p.Mood != nil {
		if err := validateMood(*p.Mood); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Date == nil && p.Mood == nil && p.MoodEmoji == nil && p.Decision == nil && p.Habits == nil
}

// ApplyTo returns e with the patch applied. A mood change without an explicit
// emoji re-derives the emoji.
func (p EntryPatch) ApplyTo(e JournalEntry) JournalEntry {
	e = e.Clone()
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
		if p.MoodEmoji == nil {
			e.MoodEmoji = DefaultMoodEmoji(e.Mood)
		}
	}
	if p.MoodEmoji != nil {
		e.MoodEmoji = *p.MoodEmoji
	}
	if p.Decision != nil {
		e.Decision = strings.TrimSpace(*p.Decision)
	}
	if p.Habits != nil {
		e.Habits = p.Habits.Clone()
	}
	return e
}

func validateDate(day string) error {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", day)
	}
	return nil
}

func validateMood(mood int) error {
	if mood < constants.MinMood || mood > constants.MaxMood {
		return fmt.Errorf("mood must be between %d and %d, got %d", constants.MinMood, constants.MaxMood, mood)
	}
	return nil
}
