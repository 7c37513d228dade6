// Package events is the change feed between the write path and the
// realtime layer: every qualifying mutation publishes an Event keyed by
// table and row, and connected sessions receive the ones addressed to
// them. The write path never depends on delivery.
package events

import "context"

type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	RowID  string `json:"row_id"`
	TaskID string `json:"task_id,omitempty"`

	// UserIDs are the users this event concerns; the realtime hub fans
	// the event out to their connections only.
	UserIDs []string `json:"user_ids,omitempty"`
}

type Handler func(Event)

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(h Handler)
	Close() error
}
