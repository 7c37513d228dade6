package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mention(userID string) string {
	return fmt.Sprintf(`<span data-mention-id="%s">@user</span>`, userID)
}

func TestNotes(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)
	task := seedTask(t, system, worker, assigner)
	cookies := login(t, r, worker)

	base := "/tasks/" + task.ID + "/notes"

	w := do(t, r, http.MethodPost, base, gin.H{"content": "<p>deployed to staging</p>"}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	note := decode[models.Note](t, w)
	assert.Equal(t, worker.ID, note.CreatedBy)
	assert.Equal(t, worker.Name, note.Author.Name)

	t.Run("empty content", func(t *testing.T) {
		w := do(t, r, http.MethodPost, base, gin.H{"content": ""}, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update without noteId", func(t *testing.T) {
		w := do(t, r, http.MethodPatch, base, gin.H{"content": "<p>x</p>"}, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := do(t, r, http.MethodPatch, base+"?noteId="+note.ID, gin.H{"content": "<p>edited</p>"}, cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "<p>edited</p>", decode[models.Note](t, w).Content)
	})

	t.Run("unknown noteId", func(t *testing.T) {
		w := do(t, r, http.MethodPatch, base+"?noteId=00000000-0000-0000-0000-000000000000",
			gin.H{"content": "<p>x</p>"}, cookies)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := do(t, r, http.MethodDelete, base+"?noteId="+note.ID, nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		database.DB.Model(&models.Note{}).Where("id = ?", note.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestNoteMentions(t *testing.T) {
	r := setup(t)
	_, system := seedProject(t)
	worker := createUser(t, "Worker", models.RoleWorker)
	assigner := createUser(t, "Assigner", models.RoleAssigner)
	admin := createUser(t, "Admin", models.RoleAdmin)
	task := seedTask(t, system, worker, assigner)
	cookies := login(t, r, worker)

	base := "/tasks/" + task.ID + "/notes"

	t.Run("mentioned users are notified", func(t *testing.T) {
		content := "<p>needs review " + mention(assigner.ID) + " " + mention(admin.ID) + "</p>"
		w := do(t, r, http.MethodPost, base, gin.H{"content": content}, cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		for _, uid := range []string{assigner.ID, admin.ID} {
			got := notificationsFor(t, uid)
			require.Len(t, got, 1)
			assert.Equal(t, models.NotifTaskComment, got[0].Type)
			assert.Equal(t, "You Were Mentioned", got[0].Title)
			assert.Contains(t, got[0].Message, "Worker mentioned you")
		}
	})

	t.Run("self-mention is ignored", func(t *testing.T) {
		w := do(t, r, http.MethodPost, base, gin.H{"content": mention(worker.ID)}, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, notificationsFor(t, worker.ID))
	})

	t.Run("editing re-runs mention detection", func(t *testing.T) {
		w := do(t, r, http.MethodPost, base, gin.H{"content": "<p>plain</p>"}, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		note := decode[models.Note](t, w)

		w = do(t, r, http.MethodPatch, base+"?noteId="+note.ID, gin.H{"content": mention(admin.ID)}, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, notificationsFor(t, admin.ID), 2)
	})
}
