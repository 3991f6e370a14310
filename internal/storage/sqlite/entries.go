package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/storage"
)

func (s *Store) ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+storage.EntryColumns+`
		FROM journal_entries
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		e, err := storage.ScanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, userID, id string) (models.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+storage.EntryColumns+" FROM journal_entries WHERE id = ? AND user_id = ?", id, userID)
	e, err := storage.ScanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JournalEntry{}, fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}
	return e, err
}

func (s *Store) AddEntry(ctx context.Context, userID string, draft models.EntryDraft) (models.JournalEntry, error) {
	if err := draft.Validate(); err != nil {
		return models.JournalEntry{}, err
	}
	e := storage.NewEntry(uuid.New().String(), userID, draft, time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (`+storage.EntryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, e.Mood, e.MoodEmoji, e.Decision, e.Habits,
		storage.FormatTimestamp(e.CreatedAt), storage.FormatTimestamp(e.UpdatedAt))
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to add entry: %w", err)
	}

	created := e.Clone()
	s.hub.Publish(models.ChangeEvent{Type: models.ChangeInsert, UserID: userID, New: &created})
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, userID, id string, patch models.EntryPatch) (models.JournalEntry, error) {
	if err := patch.Validate(); err != nil {
		return models.JournalEntry{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.JournalEntry{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+storage.EntryColumns+" FROM journal_entries WHERE id = ? AND user_id = ?", id, userID)
	current, err := storage.ScanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JournalEntry{}, fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.JournalEntry{}, err
	}

	e := patch.ApplyTo(current)
	e.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err = tx.ExecContext(ctx, `
		UPDATE journal_entries
		SET date = ?, mood = ?, mood_emoji = ?, decision = ?, habits = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		e.Date, e.Mood, e.MoodEmoji, e.Decision, e.Habits, storage.FormatTimestamp(e.UpdatedAt), id, userID)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to update entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.JournalEntry{}, err
	}

	updated := e.Clone()
	s.hub.Publish(models.ChangeEvent{Type: models.ChangeUpdate, UserID: userID, New: &updated})
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, userID, id string) error {
	old, err := s.GetEntry(ctx, userID, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}

	s.hub.Publish(models.ChangeEvent{Type: models.ChangeDelete, UserID: userID, Old: &old})
	return nil
}
