package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifemap/internal/models"
)

type fakeRepo struct {
	mu      sync.Mutex
	entries map[string][]models.JournalEntry
	feed    chan models.ChangeEvent
	lists   int
	nextID  int
	failAdd error
	now     time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries: map[string][]models.JournalEntry{},
		feed:    make(chan models.ChangeEvent, 8),
		now:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) ListEntries(_ context.Context, userID string) ([]models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return append([]models.JournalEntry(nil), r.entries[userID]...), nil
}

func (r *fakeRepo) AddEntry(_ context.Context, userID string, draft models.EntryDraft) (models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return models.JournalEntry{}, r.failAdd
	}
	draft.Normalize()
	r.nextID++
	r.now = r.now.Add(time.Hour)
	e := models.JournalEntry{
		ID:        fmt.Sprintf("e%d", r.nextID),
		UserID:    userID,
		Date:      draft.Date,
		Mood:      draft.Mood,
		MoodEmoji: draft.MoodEmoji,
		Habits:    draft.Habits,
		CreatedAt: r.now,
		UpdatedAt: r.now,
	}
	r.entries[userID] = append(r.entries[userID], e)
	return e, nil
}

func (r *fakeRepo) UpdateEntry(_ context.Context, userID, id string, patch models.EntryPatch) (models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries[userID] {
		if e.ID == id {
			r.entries[userID][i] = patch.ApplyTo(e)
			return r.entries[userID][i], nil
		}
	}
	return models.JournalEntry{}, errors.New("entry not found")
}

func (r *fakeRepo) DeleteEntry(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.entries[userID]
	for i, e := range list {
		if e.ID == id {
			r.entries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return errors.New("entry not found")
}

func (r *fakeRepo) Subscribe(_ context.Context, _ string) (<-chan models.ChangeEvent, error) {
	return r.feed, nil
}

func stamped(id, userID string, hour int) models.JournalEntry {
	return models.JournalEntry{
		ID:        id,
		UserID:    userID,
		Date:      "2024-06-01",
		Mood:      3,
		Habits:    models.Habits{},
		CreatedAt: time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC),
	}
}

func TestStore_RequiresSignIn(t *testing.T) {
	s := NewStore(newFakeRepo())
	ctx := context.Background()

	_, err := s.Create(ctx, models.EntryDraft{Date: "2024-06-01", Mood: 3})
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.ErrorIs(t, s.Refresh(ctx), ErrNotSignedIn)
	assert.ErrorIs(t, s.Watch(ctx), ErrNotSignedIn)
	assert.ErrorIs(t, s.SignIn(ctx, ""), ErrNotSignedIn)
	assert.Empty(t, s.List())
}

func TestStore_SignInSortsMostRecentFirst(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["u1"] = []models.JournalEntry{stamped("a", "u1", 8), stamped("b", "u1", 12), stamped("c", "u1", 10)}
	s := NewStore(repo)

	require.NoError(t, s.SignIn(context.Background(), "u1"))

	var ids []string
	for _, e := range s.List() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestStore_CreateUpdateDelete(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo)
	ctx := context.Background()
	require.NoError(t, s.SignIn(ctx, "u1"))

	first, err := s.Create(ctx, models.EntryDraft{Date: "2024-06-01", Mood: 3})
	require.NoError(t, err)
	second, err := s.Create(ctx, models.EntryDraft{Date: "2024-06-02", Mood: 4})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	mood := 5
	updated, err := s.Update(ctx, first.ID, models.EntryPatch{Mood: &mood})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Mood)
	got, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, 5, got.Mood)

	require.NoError(t, s.Delete(ctx, first.ID))
	_, ok = s.Get(first.ID)
	assert.False(t, ok)
	assert.Len(t, s.List(), 1)
}

func TestStore_CreateErrorIsReturnedVerbatim(t *testing.T) {
	repo := newFakeRepo()
	repo.failAdd = errors.New("quota exceeded")
	s := NewStore(repo)
	ctx := context.Background()
	require.NoError(t, s.SignIn(ctx, "u1"))

	_, err := s.Create(ctx, models.EntryDraft{Date: "2024-06-01", Mood: 3})
	assert.Equal(t, repo.failAdd, err)
	assert.Empty(t, s.List())
}

func TestStore_ApplyMergesById(t *testing.T) {
	s := NewStore(newFakeRepo())
	require.NoError(t, s.SignIn(context.Background(), "u1"))

	e := stamped("x", "u1", 9)
	s.Apply(models.ChangeEvent{Type: models.ChangeInsert, UserID: "u1", New: &e})
	s.Apply(models.ChangeEvent{Type: models.ChangeInsert, UserID: "u1", New: &e})
	assert.Len(t, s.List(), 1, "duplicate insert must not duplicate")

	e.Mood = 1
	s.Apply(models.ChangeEvent{Type: models.ChangeUpdate, UserID: "u1", New: &e})
	got, _ := s.Get("x")
	assert.Equal(t, 1, got.Mood)

	other := stamped("y", "u2", 9)
	s.Apply(models.ChangeEvent{Type: models.ChangeInsert, UserID: "u2", New: &other})
	assert.Len(t, s.List(), 1, "other users' events are ignored")

	s.Apply(models.ChangeEvent{Type: models.ChangeDelete, UserID: "u1", Old: &e})
	assert.Empty(t, s.List())

	assert.True(t, s.Apply(models.ChangeEvent{Type: models.ChangeResync, UserID: "u1"}))
	assert.False(t, s.Apply(models.ChangeEvent{Type: models.ChangeResync, UserID: "u2"}))
}

func TestStore_ListIsACopy(t *testing.T) {
	repo := newFakeRepo()
	e := stamped("a", "u1", 8)
	e.Habits = models.Habits{"Exercise": true}
	repo.entries["u1"] = []models.JournalEntry{e}
	s := NewStore(repo)
	require.NoError(t, s.SignIn(context.Background(), "u1"))

	list := s.List()
	list[0].Mood = 1
	list[0].Habits["Exercise"] = false

	got, _ := s.Get("a")
	assert.Equal(t, 3, got.Mood)
	assert.True(t, got.Habits["Exercise"])
}

func TestStore_SignOutClears(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["u1"] = []models.JournalEntry{stamped("a", "u1", 8)}
	s := NewStore(repo)
	require.NoError(t, s.SignIn(context.Background(), "u1"))

	s.SignOut()
	assert.Empty(t, s.List())
	assert.Equal(t, "", s.UserID())

	e := stamped("b", "u1", 9)
	s.Apply(models.ChangeEvent{Type: models.ChangeInsert, UserID: "u1", New: &e})
	assert.Empty(t, s.List(), "events after sign-out are ignored")
}

func TestStore_WatchAppliesEventsAndResyncs(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.SignIn(ctx, "u1"))
	<-s.Changes()

	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	e := stamped("w", "u1", 9)
	repo.feed <- models.ChangeEvent{Type: models.ChangeInsert, UserID: "u1", New: &e}

	select {
	case <-s.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
	_, ok := s.Get("w")
	assert.True(t, ok)

	repo.mu.Lock()
	repo.entries["u1"] = []models.JournalEntry{stamped("r", "u1", 7)}
	before := repo.lists
	repo.mu.Unlock()

	repo.feed <- models.ChangeEvent{Type: models.ChangeResync, UserID: "u1"}
	require.Eventually(t, func() bool {
		_, ok := s.Get("r")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	assert.Greater(t, repo.lists, before)
	repo.mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
