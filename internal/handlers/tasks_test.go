package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	worker2 := createUser(t, "Worker2", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)

	payload := func(assignedTo string) gin.H {
		return gin.H{
			"title":       "Integrate payroll API",
			"description": "phase one",
			"client_id":   system.ClientID,
			"system_id":   system.ID,
			"assigned_to": assignedTo,
		}
	}

	t.Run("missing fields", func(t *testing.T) {
		cookies := login(t, r, assigner)
		w := do(t, r, http.MethodPost, "/tasks", gin.H{"title": "x"}, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("worker cannot assign to someone else", func(t *testing.T) {
		cookies := login(t, r, worker)
		w := do(t, r, http.MethodPost, "/tasks", payload(worker2.ID), cookies)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("worker self-assign notifies nobody", func(t *testing.T) {
		cookies := login(t, r, worker)
		w := do(t, r, http.MethodPost, "/tasks", payload(worker.ID), cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		created := decode[models.Task](t, w)
		assert.Equal(t, models.StatusNotStarted, created.Status)
		assert.Equal(t, models.PriorityMedium, created.Priority)
		assert.Equal(t, worker.ID, created.CreatedBy)
		assert.Empty(t, notificationsFor(t, worker.ID))
	})

	t.Run("assigning to another user notifies exactly once", func(t *testing.T) {
		cookies := login(t, r, assigner)
		w := do(t, r, http.MethodPost, "/tasks", payload(worker2.ID), cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := notificationsFor(t, worker2.ID)
		require.Len(t, got, 1)
		assert.Equal(t, models.NotifTaskAssigned, got[0].Type)
		assert.Equal(t, assigner.ID, got[0].SenderID)
		assert.Equal(t, models.NotifUnread, got[0].Status)
		assert.Contains(t, got[0].Message, "Assigner assigned you")
	})

	t.Run("unknown assignee", func(t *testing.T) {
		cookies := login(t, r, assigner)
		w := do(t, r, http.MethodPost, "/tasks", payload("00000000-0000-0000-0000-000000000000"), cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad deadline and priority", func(t *testing.T) {
		cookies := login(t, r, assigner)

		p := payload(worker.ID)
		p["deadline"] = "next tuesday"
		w := do(t, r, http.MethodPost, "/tasks", p, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		p = payload(worker.ID)
		p["priority"] = "URGENT"
		w = do(t, r, http.MethodPost, "/tasks", p, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// The whole permission matrix through GET/PATCH/DELETE on one task:
// assigned to a worker, created by an assigner, with an uninvolved
// worker and an uninvolved assigner looking on.
func TestTaskAccessMatrix(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	worker2 := createUser(t, "Worker2", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)
	assigner2 := createUser(t, "Assigner2", models.RoleAssigner)
	admin := createUser(t, "Admin", models.RoleAdmin)

	task := seedTask(t, system, worker, assigner)
	path := "/tasks/" + task.ID

	tests := []struct {
		name               string
		user               models.User
		view, edit, delete int
	}{
		{"assigned worker", worker, http.StatusOK, http.StatusOK, http.StatusForbidden},
		{"creator assigner", assigner, http.StatusOK, http.StatusOK, http.StatusOK},
		{"uninvolved worker", worker2, http.StatusForbidden, http.StatusForbidden, http.StatusForbidden},
		{"uninvolved assigner views worker tasks only", assigner2, http.StatusOK, http.StatusForbidden, http.StatusForbidden},
		{"admin", admin, http.StatusOK, http.StatusOK, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := login(t, r, tt.user)

			w := do(t, r, http.MethodGet, path, nil, cookies)
			assert.Equal(t, tt.view, w.Code, "view")

			w = do(t, r, http.MethodPatch, path, gin.H{"description": "touched"}, cookies)
			assert.Equal(t, tt.edit, w.Code, "edit")

			// Delete runs last and only the admin case actually deletes,
			// because the creator case would take the task with it.
			if tt.user.ID != assigner.ID {
				w = do(t, r, http.MethodDelete, path, nil, cookies)
				assert.Equal(t, tt.delete, w.Code, "delete")
			}
		})
	}
}

func TestUpdateTaskReassign(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	worker2 := createUser(t, "Worker2", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)
	task := seedTask(t, system, worker, assigner)

	cookies := login(t, r, assigner)
	w := do(t, r, http.MethodPatch, "/tasks/"+task.ID, gin.H{"assigned_to": worker2.ID}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[models.Task](t, w)
	assert.Equal(t, worker2.ID, updated.AssignedTo)

	got := notificationsFor(t, worker2.ID)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotifTaskAssigned, got[0].Type)

	// The previous assignee is not notified about losing the task.
	assert.Empty(t, notificationsFor(t, worker.ID))
}

func TestDeleteTaskCascades(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)
	task := seedTask(t, system, worker, assigner)

	require.NoError(t, database.DB.Create(&models.Subtask{TaskID: task.ID, Title: "part one"}).Error)
	require.NoError(t, database.DB.Create(&models.Note{TaskID: task.ID, Content: "<p>hi</p>", CreatedBy: assigner.ID}).Error)

	cookies := login(t, r, assigner)
	w := do(t, r, http.MethodDelete, "/tasks/"+task.ID, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tasks, subtasks, notes int64
	database.DB.Model(&models.Task{}).Where("id = ?", task.ID).Count(&tasks)
	database.DB.Model(&models.Subtask{}).Where("task_id = ?", task.ID).Count(&subtasks)
	database.DB.Model(&models.Note{}).Where("task_id = ?", task.ID).Count(&notes)
	assert.Zero(t, tasks)
	assert.Zero(t, subtasks)
	assert.Zero(t, notes)

	w = do(t, r, http.MethodGet, "/tasks/"+task.ID, nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTasksScoping(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	worker2 := createUser(t, "Worker2", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)
	admin := createUser(t, "Admin", models.RoleAdmin)

	mine := seedTask(t, system, worker, assigner)
	other := seedTask(t, system, worker2, assigner)
	foreign := seedTask(t, system, assigner, admin)

	ids := func(items []models.Task) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}

	t.Run("worker sees only their assignments", func(t *testing.T) {
		cookies := login(t, r, worker)
		w := do(t, r, http.MethodGet, "/tasks", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{mine.ID}, ids(decode[[]models.Task](t, w)))
	})

	t.Run("assigner sees assigned or created", func(t *testing.T) {
		cookies := login(t, r, assigner)
		w := do(t, r, http.MethodGet, "/tasks", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{mine.ID, other.ID, foreign.ID}, ids(decode[[]models.Task](t, w)))
	})

	t.Run("admin sees everything", func(t *testing.T) {
		cookies := login(t, r, admin)
		w := do(t, r, http.MethodGet, "/tasks", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]models.Task](t, w), 3)
	})

	t.Run("explicit assignee filter lifts the worker narrowing", func(t *testing.T) {
		cookies := login(t, r, worker)
		w := do(t, r, http.MethodGet, "/tasks?assigned_to="+worker2.ID, nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{other.ID}, ids(decode[[]models.Task](t, w)))
	})

	t.Run("created_by filter", func(t *testing.T) {
		cookies := login(t, r, admin)
		w := do(t, r, http.MethodGet, "/tasks?created_by="+admin.ID, nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{foreign.ID}, ids(decode[[]models.Task](t, w)))
	})

	t.Run("list responses are uncacheable", func(t *testing.T) {
		cookies := login(t, r, admin)
		w := do(t, r, http.MethodGet, "/tasks", nil, cookies)
		assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	})
}

func TestDashboardWindow(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	admin := createUser(t, "Admin", models.RoleAdmin)

	complete := func(task models.Task, when time.Time) {
		require.NoError(t, database.DB.Model(&task).Updates(map[string]any{
			"status":       models.StatusCompleted,
			"completed_at": when,
		}).Error)
	}

	fresh := seedTask(t, system, worker, admin)
	complete(fresh, time.Now().AddDate(0, 0, -6))

	stale := seedTask(t, system, worker, admin)
	complete(stale, time.Now().AddDate(0, 0, -8))

	// Old but never completed tasks stay on the board forever.
	open := seedTask(t, system, worker, admin)

	cookies := login(t, r, admin)
	w := do(t, r, http.MethodGet, "/tasks?dashboard=true", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	items := decode[[]models.Task](t, w)
	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.ID
	}
	assert.ElementsMatch(t, []string{fresh.ID, open.ID}, got)
}

func TestListTasksCounts(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	admin := createUser(t, "Admin", models.RoleAdmin)
	task := seedTask(t, system, worker, admin)

	require.NoError(t, database.DB.Create(&models.Subtask{TaskID: task.ID, Title: "a", Completed: true}).Error)
	require.NoError(t, database.DB.Create(&models.Subtask{TaskID: task.ID, Title: "b"}).Error)
	require.NoError(t, database.DB.Create(&models.Note{TaskID: task.ID, Content: "<p>x</p>", CreatedBy: admin.ID}).Error)

	cookies := login(t, r, admin)
	w := do(t, r, http.MethodGet, "/tasks", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	type listItem struct {
		ID                    string `json:"id"`
		SubtaskCount          int64  `json:"subtask_count"`
		CompletedSubtaskCount int64  `json:"completed_subtask_count"`
		NoteCount             int64  `json:"note_count"`
	}
	items := decode[[]listItem](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, task.ID, items[0].ID)
	assert.Equal(t, int64(2), items[0].SubtaskCount)
	assert.Equal(t, int64(1), items[0].CompletedSubtaskCount)
	assert.Equal(t, int64(1), items[0].NoteCount)
}
