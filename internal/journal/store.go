// Package journal keeps the signed-in user's entries in memory and merges
// change-feed events into them.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/models"
)

// ErrNotSignedIn is returned by operations that need a user.
var ErrNotSignedIn = errors.New("not signed in")

// Repository is the persistence the store reads and writes through.
// storage.Provider satisfies it.
type Repository interface {
	ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	AddEntry(ctx context.Context, userID string, draft models.EntryDraft) (models.JournalEntry, error)
	UpdateEntry(ctx context.Context, userID, id string, patch models.EntryPatch) (models.JournalEntry, error)
	DeleteEntry(ctx context.Context, userID, id string) error
	Subscribe(ctx context.Context, userID string) (<-chan models.ChangeEvent, error)
}

// Store holds one user's entries, most recent first. It is safe for
// concurrent use.
type Store struct {
	repo Repository

	mu      sync.RWMutex
	userID  string
	entries []models.JournalEntry

	changes chan struct{}
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:    repo,
		changes: make(chan struct{}, 1),
	}
}

// SignIn loads userID's entries, replacing any previous user's list.
func (s *Store) SignIn(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	s.mu.Lock()
	s.userID = userID
	s.entries = cloneAll(entries)
	sortEntries(s.entries)
	s.mu.Unlock()

	s.notify()
	return nil
}

// SignOut clears the user and the list.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.userID = ""
	s.entries = nil
	s.mu.Unlock()

	s.notify()
}

// UserID returns the signed-in user, or "".
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Refresh re-reads the list from the repository.
func (s *Store) Refresh(ctx context.Context) error {
	userID := s.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	return s.SignIn(ctx, userID)
}

// List returns a copy of the entries, most recent first.
func (s *Store) List() []models.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.entries)
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.JournalEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i].Clone(), true
	}
	return models.JournalEntry{}, false
}

func (s *Store) Create(ctx context.Context, draft models.EntryDraft) (models.JournalEntry, error) {
	userID := s.UserID()
	if userID == "" {
		return models.JournalEntry{}, ErrNotSignedIn
	}
	e, err := s.repo.AddEntry(ctx, userID, draft)
	if err != nil {
		return models.JournalEntry{}, err
	}
	s.upsert(userID, e)
	return e, nil
}

func (s *Store) Update(ctx context.Context, id string, patch models.EntryPatch) (models.JournalEntry, error) {
	userID := s.UserID()
	if userID == "" {
		return models.JournalEntry{}, ErrNotSignedIn
	}
	e, err := s.repo.UpdateEntry(ctx, userID, id, patch)
	if err != nil {
		return models.JournalEntry{}, err
	}
	s.upsert(userID, e)
	return e, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	userID := s.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	if err := s.repo.DeleteEntry(ctx, userID, id); err != nil {
		return err
	}
	s.remove(userID, id)
	return nil
}

// Apply merges one change event. Events for other users are ignored.
// It reports whether a resync was requested.
func (s *Store) Apply(ev models.ChangeEvent) (resync bool) {
	switch ev.Type {
	case models.ChangeInsert, models.ChangeUpdate:
		if ev.New != nil {
			s.upsert(ev.UserID, *ev.New)
		}
	case models.ChangeDelete:
		s.remove(ev.UserID, ev.EntryID())
	case models.ChangeResync:
		return ev.UserID == s.UserID()
	}
	return false
}

// Watch subscribes to the change feed and applies events until ctx is done
// or the feed closes.
func (s *Store) Watch(ctx context.Context) error {
	userID := s.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	feed, err := s.repo.Subscribe(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	log := logger.With("user", userID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-feed:
			if !ok {
				return ctx.Err()
			}
			log.Debug("Applying change", "type", ev.Type, "entry", ev.EntryID())
			if s.Apply(ev) {
				if err := s.Refresh(ctx); err != nil {
					log.Warn("Resync failed", "error", err)
				}
			}
		}
	}
}

// Changes signals after the list changes. Signals are coalesced.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *Store) upsert(userID string, e models.JournalEntry) {
	s.mu.Lock()
	if userID != s.userID || e.UserID != s.userID {
		s.mu.Unlock()
		return
	}
	if i := s.indexOf(e.ID); i >= 0 {
		s.entries[i] = e.Clone()
	} else {
		s.entries = append(s.entries, e.Clone())
	}
	sortEntries(s.entries)
	s.mu.Unlock()

	s.notify()
}

func (s *Store) remove(userID, id string) {
	s.mu.Lock()
	if userID != s.userID {
		s.mu.Unlock()
		return
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.mu.Unlock()

	s.notify()
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func sortEntries(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
}

func cloneAll(entries []models.JournalEntry) []models.JournalEntry {
	out := make([]models.JournalEntry, len(entries))
	for i := range entries {
		out[i] = entries[i].Clone()
	}
	return out
}
