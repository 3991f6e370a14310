package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/models"
)

// Subscribe listens on the journal_entries channel and forwards changes
// for userID. A RESYNC event is sent after every reconnect.
func (s *Store) Subscribe(ctx context.Context, userID string) (<-chan models.ChangeEvent, error) {
	listener := pq.NewListener(s.connStr, constants.ListenerMinReconn, constants.ListenerMaxReconn,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventConnectionAttemptFailed:
				logger.Warn("Change feed connection attempt failed", "error", err)
			case pq.ListenerEventDisconnected:
				logger.Warn("Change feed disconnected", "error", err)
			case pq.ListenerEventReconnected:
				logger.Info("Change feed reconnected")
			}
		})
	if err := listener.Listen(constants.EntriesChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", constants.EntriesChannel, err)
	}

	out := make(chan models.ChangeEvent, constants.FeedBufferSize)
	go func() {
		defer close(out)
		defer listener.Close()

		ticker := time.NewTicker(constants.FeedPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				ev, ok := decodeNotification(n, userID)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ticker.C:
				go func() {
					if err := listener.Ping(); err != nil {
						logger.Debug("Change feed ping failed", "error", err)
					}
				}()
			}
		}
	}()

	return out, nil
}

// decodeNotification turns a NOTIFY payload into a change event for userID.
// A nil notification means the connection was re-established.
func decodeNotification(n *pq.Notification, userID string) (models.ChangeEvent, bool) {
	if n == nil {
		return models.ChangeEvent{Type: models.ChangeResync, UserID: userID}, true
	}
	var ev models.ChangeEvent
	if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
		logger.Warn("Dropping malformed change notification", "error", err)
		return models.ChangeEvent{}, false
	}
	if ev.UserID != userID {
		return models.ChangeEvent{}, false
	}
	switch ev.Type {
	case models.ChangeInsert, models.ChangeUpdate, models.ChangeDelete, models.ChangeResync:
		return ev, true
	default:
		logger.Warn("Dropping unknown change notification", "type", ev.Type)
		return models.ChangeEvent{}, false
	}
}
