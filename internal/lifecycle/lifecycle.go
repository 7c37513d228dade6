// Package lifecycle implements the task status transition rules: which
// timestamps a transition stamps, how duration is derived and which
// notification a change produces. The transition graph itself is
// deliberately permissive: any status may move to any status.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/beratcankara/inoflow/internal/models"
)

// Label returns the board column name shown to users for a status.
func Label(s models.TaskStatus) string {
	switch s {
	case models.StatusNotStarted:
		return "Open"
	case models.StatusNewStarted:
		return "Ready to Start"
	case models.StatusInProgress:
		return "In Development"
	case models.StatusInTesting:
		return "In Testing"
	case models.StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Change describes the field writes a status transition produces.
type Change struct {
	From models.TaskStatus
	To   models.TaskStatus

	StartedAt   *time.Time
	CompletedAt *time.Time
	Duration    *int64
}

// Apply computes the writes for moving task to the given status at now.
// started_at is stamped only on the first entry into IN_PROGRESS and
// completed_at/duration only on the first entry into COMPLETED; once
// set they are never touched again, so re-entering a status is a no-op
// beyond the status column itself.
func Apply(task *models.Task, to models.TaskStatus, now time.Time) Change {
	ch := Change{From: task.Status, To: to}

	if to == models.StatusInProgress && task.StartedAt == nil {
		t := now
		ch.StartedAt = &t
	}

	if to == models.StatusCompleted && task.CompletedAt == nil {
		t := now
		ch.CompletedAt = &t
		if task.StartedAt != nil {
			d := int64(now.Sub(*task.StartedAt) / time.Second)
			if d < 0 {
				d = 0
			}
			ch.Duration = &d
		}
	}

	return ch
}

// Updates returns the column map for a gorm Updates call.
func (c Change) Updates() map[string]any {
	m := map[string]any{"status": c.To}
	if c.StartedAt != nil {
		m["started_at"] = *c.StartedAt
	}
	if c.CompletedAt != nil {
		m["completed_at"] = *c.CompletedAt
	}
	if c.Duration != nil {
		m["duration"] = *c.Duration
	}
	return m
}

// Notification builds the notification a status change owes the task's
// creator. ok is false when the actor is the creator, since nobody needs
// to be told about their own change.
func Notification(task *models.Task, ch Change, actorID string) (models.Notification, bool) {
	if task.CreatedBy == actorID {
		return models.Notification{}, false
	}

	assignee := task.AssignedUser.Name
	if assignee == "" {
		assignee = "The assignee"
	}

	n := models.Notification{
		TaskID:     task.ID,
		SenderID:   actorID,
		ReceiverID: task.CreatedBy,
		Status:     models.NotifUnread,
	}

	if ch.To == models.StatusCompleted {
		n.Type = models.NotifTaskCompleted
		n.Title = "Task Completed"
		n.Message = fmt.Sprintf("%s completed %q.", assignee, task.Title)
	} else {
		n.Type = models.NotifTaskStatusChanged
		n.Title = "Task Status Changed"
		n.Message = fmt.Sprintf("%s moved %q from %s to %s.",
			assignee, task.Title, Label(ch.From), Label(ch.To))
	}

	return n, true
}
