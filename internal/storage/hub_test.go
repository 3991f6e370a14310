package storage

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/lifemap/internal/models"
)

func recv(t *testing.T, ch <-chan models.ChangeEvent) models.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return models.ChangeEvent{}
}

func TestHubDeliversInOrderPerUser(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := h.Subscribe(ctx, "alice")
	bob := h.Subscribe(ctx, "bob")

	h.Publish(models.ChangeEvent{Type: models.ChangeInsert, UserID: "alice", New: &models.JournalEntry{ID: "1"}})
	h.Publish(models.ChangeEvent{Type: models.ChangeInsert, UserID: "bob", New: &models.JournalEntry{ID: "2"}})
	h.Publish(models.ChangeEvent{Type: models.ChangeDelete, UserID: "alice", Old: &models.JournalEntry{ID: "1"}})

	if ev := recv(t, alice); ev.Type != models.ChangeInsert || ev.EntryID() != "1" {
		t.Errorf("first alice event = %+v", ev)
	}
	if ev := recv(t, alice); ev.Type != models.ChangeDelete {
		t.Errorf("second alice event = %+v", ev)
	}
	if ev := recv(t, bob); ev.EntryID() != "2" {
		t.Errorf("bob event = %+v", ev)
	}
	select {
	case ev := <-bob:
		t.Errorf("bob received another user's event: %+v", ev)
	default:
	}
}

func TestHubClosesOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	ch := h.Subscribe(ctx, "alice")
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d after cancel, want 0", h.Len())
	}

	// Publishing after unsubscribe must not panic.
	h.Publish(models.ChangeEvent{Type: models.ChangeInsert, UserID: "alice"})
}

func TestHubSlowSubscriberDoesNotBlockPastCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	h.Subscribe(ctx, "alice")

	done := make(chan struct{})
	go func() {
		// Overfill the buffer; the publisher blocks until cancel.
		for i := 0; i < 200; i++ {
			h.Publish(models.ChangeEvent{Type: models.ChangeUpdate, UserID: "alice"})
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher still blocked after subscriber cancelled")
	}
}
