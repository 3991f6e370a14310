package models

// ChangeType is the kind of row change carried by the feed.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	// ChangeResync means events may have been lost and the list should be re-read.
	ChangeResync ChangeType = "RESYNC"
)

// ChangeEvent is a journal_entries row change. New is set for inserts and
// updates, Old for deletes.
type ChangeEvent struct {
	Type   ChangeType    `json:"type"`
	UserID string        `json:"user_id"`
	New    *JournalEntry `json:"new,omitempty"`
	Old    *JournalEntry `json:"old,omitempty"`
}

// EntryID returns the id of the affected row.
func (c ChangeEvent) EntryID() string {
	if c.New != nil {
		return c.New.ID
	}
	if c.Old != nil {
		return c.Old.ID
	}
	return ""
}
