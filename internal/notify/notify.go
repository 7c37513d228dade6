// Package notify writes notification rows and announces them on the
// event bus. Everything here is fire-and-forget: failures are logged
// and swallowed so the caller's primary operation is never affected.
package notify

import (
	"context"
	"log"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/events"
	"github.com/beratcankara/inoflow/internal/models"
)

var bus events.Bus

// Init wires the event bus used for realtime delivery. Safe to leave
// uninitialized in tests that only care about the rows.
func Init(b events.Bus) {
	bus = b
}

// Send inserts the notification and publishes it to the receiver's
// connected clients.
func Send(ctx context.Context, n models.Notification) {
	if database.DB == nil {
		return
	}
	if n.Status == "" {
		n.Status = models.NotifUnread
	}

	if err := database.DB.Create(&n).Error; err != nil {
		log.Printf("failed to create %s notification for %s: %v", n.Type, n.ReceiverID, err)
		return
	}

	Publish(ctx, events.Event{
		Table:   "notifications",
		Action:  "created",
		RowID:   n.ID,
		TaskID:  n.TaskID,
		UserIDs: []string{n.ReceiverID},
	})
}

// Publish puts an event on the bus, if one is wired. Best-effort.
func Publish(ctx context.Context, ev events.Event) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, ev); err != nil {
		log.Printf("failed to publish %s/%s event: %v", ev.Table, ev.Action, err)
	}
}
