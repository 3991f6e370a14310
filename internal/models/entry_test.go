package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestDecodeHabits(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Habits
	}{
		{name: "null", raw: `null`, want: Habits{}},
		{name: "string", raw: `"Exercise"`, want: Habits{}},
		{name: "number", raw: `42`, want: Habits{}},
		{name: "array", raw: `["Exercise", "Reading"]`, want: Habits{}},
		{name: "malformed", raw: `{"Exercise": tru`, want: Habits{}},
		{name: "booleans", raw: `{"Exercise": true, "Reading": false}`, want: Habits{"Exercise": true, "Reading": false}},
		{
			name: "coerced by truthiness",
			raw:  `{"a": 1, "b": 0, "c": "yes", "d": "", "e": null, "f": {}, "g": []}`,
			want: Habits{"a": true, "b": false, "c": true, "d": false, "e": false, "f": true, "g": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeHabits([]byte(tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeHabits(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestJournalEntryUnmarshalTolerantHabits(t *testing.T) {
	raw := `{"id":"e1","user_id":"u1","date":"2024-06-01","mood":4,"mood_emoji":"😊","decision":"walk",
		"habits":"not-an-object","created_at":"2024-06-01T10:00:00Z","updated_at":"2024-06-01T10:00:00Z"}`
	var e JournalEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if e.Habits == nil || len(e.Habits) != 0 {
		t.Errorf("Habits = %v, want empty non-nil set", e.Habits)
	}
	if e.Mood != 4 || e.Date != "2024-06-01" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestHabitsScanAndValue(t *testing.T) {
	var h Habits
	if err := h.Scan([]byte(`{"Reading": true}`)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !h["Reading"] {
		t.Errorf("Scan() = %v", h)
	}
	if err := h.Scan(nil); err != nil || len(h) != 0 {
		t.Errorf("Scan(nil) = %v, %v", h, err)
	}
	if err := h.Scan(12); err == nil {
		t.Error("Scan(int) expected error")
	}

	v, err := Habits(nil).Value()
	if err != nil || v != "{}" {
		t.Errorf("Value() of nil = %v, %v", v, err)
	}
	v, err = Habits{"Exercise": true}.Value()
	if err != nil || v != `{"Exercise":true}` {
		t.Errorf("Value() = %v, %v", v, err)
	}
}

func TestHabitsCompleted(t *testing.T) {
	h := Habits{"Reading": true, "Exercise": true, "Gratitude": false}
	want := []string{"Exercise", "Reading"}
	if got := h.Completed(); !reflect.DeepEqual(got, want) {
		t.Errorf("Completed() = %v, want %v", got, want)
	}
}

func TestEntryDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   EntryDraft
		wantErr bool
	}{
		{name: "valid", draft: EntryDraft{Date: "2024-06-01", Mood: 3}, wantErr: false},
		{name: "mood too low", draft: EntryDraft{Date: "2024-06-01", Mood: 0}, wantErr: true},
		{name: "mood too high", draft: EntryDraft{Date: "2024-06-01", Mood: 6}, wantErr: true},
		{name: "bad date", draft: EntryDraft{Date: "06/01/2024", Mood: 3}, wantErr: true},
		{name: "empty date", draft: EntryDraft{Mood: 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryDraftNormalize(t *testing.T) {
	d := EntryDraft{Date: "2024-06-01", Mood: 5, Decision: "  call mom  "}
	d.Normalize()
	if d.MoodEmoji != "😄" {
		t.Errorf("MoodEmoji = %q", d.MoodEmoji)
	}
	if d.Habits == nil {
		t.Error("Habits should be initialized")
	}
	if d.Decision != "call mom" {
		t.Errorf("Decision = %q", d.Decision)
	}

	kept := EntryDraft{Date: "2024-06-01", Mood: 5, MoodEmoji: "🌞"}
	kept.Normalize()
	if kept.MoodEmoji != "🌞" {
		t.Errorf("explicit emoji overwritten: %q", kept.MoodEmoji)
	}
}

func TestEntryPatchApplyTo(t *testing.T) {
	base := JournalEntry{
		ID:        "e1",
		UserID:    "u1",
		Date:      "2024-06-01",
		Mood:      2,
		MoodEmoji: "😔",
		Decision:  "rest",
		Habits:    Habits{"Reading": true},
		CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	mood := 4
	decision := " run "
	patch := EntryPatch{Mood: &mood, Decision: &decision}
	got := patch.ApplyTo(base)

	if got.Mood != 4 || got.MoodEmoji != "😊" {
		t.Errorf("mood/emoji = %d %q", got.Mood, got.MoodEmoji)
	}
	if got.Decision != "run" {
		t.Errorf("Decision = %q", got.Decision)
	}
	if got.ID != "e1" || got.UserID != "u1" || !got.CreatedAt.Equal(base.CreatedAt) {
		t.Errorf("identity fields changed: %+v", got)
	}

	got.Habits["Exercise"] = true
	if base.Habits["Exercise"] {
		t.Error("ApplyTo() shares the habit map with the original")
	}

	if !(EntryPatch{}).IsEmpty() {
		t.Error("IsEmpty() = false for zero patch")
	}
	bad := 9
	if err := (EntryPatch{Mood: &bad}).Validate(); err == nil {
		t.Error("Validate() accepted mood 9")
	}
}

func TestMoodScale(t *testing.T) {
	for mood := 1; mood <= 5; mood++ {
		if DefaultMoodEmoji(mood) == "" || MoodLabel(mood) == "" {
			t.Errorf("mood %d has no emoji or label", mood)
		}
	}
	if DefaultMoodEmoji(0) != "" || MoodLabel(6) != "" {
		t.Error("out of range mood should have no emoji or label")
	}
}

func TestChangeEventEntryID(t *testing.T) {
	ins := ChangeEvent{Type: ChangeInsert, New: &JournalEntry{ID: "a"}}
	del := ChangeEvent{Type: ChangeDelete, Old: &JournalEntry{ID: "b"}}
	if ins.EntryID() != "a" || del.EntryID() != "b" || (ChangeEvent{}).EntryID() != "" {
		t.Error("EntryID() returned the wrong id")
	}
}
