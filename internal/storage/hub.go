package storage

import (
	"context"
	"sync"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
)

// Hub fans change events out to in-process subscribers. It backs the change
// feed for stores without a server-side notification channel.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	ctx    context.Context
	userID string
	ch     chan models.ChangeEvent
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a subscriber for one user's events. The returned channel
// is closed once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, userID string) <-chan models.ChangeEvent {
	sub := &subscriber{
		ctx:    ctx,
		userID: userID,
		ch:     make(chan models.ChangeEvent, constants.FeedBufferSize),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// Publish delivers the event to every subscriber of the event's user in order.
// A slow subscriber blocks the publisher only until its own context ends.
func (h *Hub) Publish(ev models.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if sub.userID != ev.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		case <-sub.ctx.Done():
		}
	}
}

// Len returns the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
