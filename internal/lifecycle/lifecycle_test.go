package lifecycle

import (
	"testing"
	"time"

	"github.com/beratcankara/inoflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Open", Label(models.StatusNotStarted))
	assert.Equal(t, "Ready to Start", Label(models.StatusNewStarted))
	assert.Equal(t, "In Development", Label(models.StatusInProgress))
	assert.Equal(t, "In Testing", Label(models.StatusInTesting))
	assert.Equal(t, "Completed", Label(models.StatusCompleted))
	// Unknown values fall through verbatim.
	assert.Equal(t, "WEIRD", Label(models.TaskStatus("WEIRD")))
}

func TestApplyStampsStartedAtOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := &models.Task{Status: models.StatusNotStarted}

	ch := Apply(task, models.StatusInProgress, now)
	require.NotNil(t, ch.StartedAt)
	assert.Equal(t, now, *ch.StartedAt)
	assert.Nil(t, ch.CompletedAt)
	assert.Nil(t, ch.Duration)

	// Leaving and re-entering IN_PROGRESS must not move the stamp.
	task.Status = models.StatusInTesting
	task.StartedAt = ch.StartedAt
	later := now.Add(2 * time.Hour)
	ch2 := Apply(task, models.StatusInProgress, later)
	assert.Nil(t, ch2.StartedAt)
}

func TestApplyCompletion(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	done := start.Add(90 * time.Second)
	task := &models.Task{Status: models.StatusInProgress, StartedAt: &start}

	ch := Apply(task, models.StatusCompleted, done)
	require.NotNil(t, ch.CompletedAt)
	require.NotNil(t, ch.Duration)
	assert.Equal(t, int64(90), *ch.Duration)

	// Re-completing a completed task writes nothing but the status.
	task.CompletedAt = ch.CompletedAt
	task.Duration = ch.Duration
	ch2 := Apply(task, models.StatusCompleted, done.Add(time.Hour))
	assert.Nil(t, ch2.CompletedAt)
	assert.Nil(t, ch2.Duration)
	assert.Equal(t, map[string]any{"status": models.StatusCompleted}, ch2.Updates())
}

func TestApplyDurationFloorsAndClamps(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Sub-second remainders are floored.
	task := &models.Task{Status: models.StatusInProgress, StartedAt: &start}
	ch := Apply(task, models.StatusCompleted, start.Add(90*time.Second+900*time.Millisecond))
	require.NotNil(t, ch.Duration)
	assert.Equal(t, int64(90), *ch.Duration)

	// Completion at the exact start instant is zero.
	task = &models.Task{Status: models.StatusInProgress, StartedAt: &start}
	ch = Apply(task, models.StatusCompleted, start)
	require.NotNil(t, ch.Duration)
	assert.Equal(t, int64(0), *ch.Duration)

	// A clock that moved backwards clamps to zero rather than going negative.
	task = &models.Task{Status: models.StatusInProgress, StartedAt: &start}
	ch = Apply(task, models.StatusCompleted, start.Add(-time.Minute))
	require.NotNil(t, ch.Duration)
	assert.Equal(t, int64(0), *ch.Duration)
}

func TestApplyCompletionWithoutStart(t *testing.T) {
	// A task completed straight from OPEN has no start, so no duration.
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := &models.Task{Status: models.StatusNotStarted}

	ch := Apply(task, models.StatusCompleted, now)
	require.NotNil(t, ch.CompletedAt)
	assert.Nil(t, ch.Duration)
}

func TestUpdates(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := &models.Task{Status: models.StatusNotStarted}

	ch := Apply(task, models.StatusInProgress, now)
	m := ch.Updates()
	assert.Equal(t, models.StatusInProgress, m["status"])
	assert.Equal(t, now, m["started_at"])
	_, hasCompleted := m["completed_at"]
	assert.False(t, hasCompleted)
}

func TestNotification(t *testing.T) {
	task := &models.Task{
		Title:     "Deploy integration",
		CreatedBy: "creator",
		AssignedUser: models.User{
			Name: "Mert",
		},
	}
	task.ID = "task-1"

	t.Run("actor is creator, nothing to say", func(t *testing.T) {
		ch := Change{From: models.StatusInProgress, To: models.StatusInTesting}
		_, ok := Notification(task, ch, "creator")
		assert.False(t, ok)
	})

	t.Run("completion", func(t *testing.T) {
		ch := Change{From: models.StatusInTesting, To: models.StatusCompleted}
		n, ok := Notification(task, ch, "worker")
		require.True(t, ok)
		assert.Equal(t, models.NotifTaskCompleted, n.Type)
		assert.Equal(t, "Task Completed", n.Title)
		assert.Equal(t, `Mert completed "Deploy integration".`, n.Message)
		assert.Equal(t, "creator", n.ReceiverID)
		assert.Equal(t, "worker", n.SenderID)
		assert.Equal(t, models.NotifUnread, n.Status)
	})

	t.Run("plain move uses board labels", func(t *testing.T) {
		ch := Change{From: models.StatusNotStarted, To: models.StatusInProgress}
		n, ok := Notification(task, ch, "worker")
		require.True(t, ok)
		assert.Equal(t, models.NotifTaskStatusChanged, n.Type)
		assert.Equal(t, `Mert moved "Deploy integration" from Open to In Development.`, n.Message)
	})

	t.Run("missing assignee name falls back", func(t *testing.T) {
		bare := &models.Task{Title: "Orphan", CreatedBy: "creator"}
		ch := Change{From: models.StatusNotStarted, To: models.StatusInTesting}
		n, ok := Notification(bare, ch, "worker")
		require.True(t, ok)
		assert.Contains(t, n.Message, "The assignee moved")
	})
}
