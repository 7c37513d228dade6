package handlers_test

import (
	"net/http"
	"testing"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClients(t *testing.T) {
	r := setup(t)
	admin := createUser(t, "Admin", models.RoleAdmin)
	cookies := login(t, r, admin)

	w := do(t, r, http.MethodPost, "/clients", gin.H{"name": "Acme GmbH", "description": "retail"}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	client := decode[models.Client](t, w)

	t.Run("name required", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/clients", gin.H{"description": "x"}, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update by body id", func(t *testing.T) {
		w := do(t, r, http.MethodPatch, "/clients", gin.H{"id": client.ID, "name": "Acme AG"}, cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stored models.Client
		require.NoError(t, database.DB.First(&stored, "id = ?", client.ID).Error)
		assert.Equal(t, "Acme AG", stored.Name)
	})

	t.Run("delete refuses while systems exist", func(t *testing.T) {
		system := models.System{ClientID: client.ID, Name: "ERP"}
		require.NoError(t, database.DB.Create(&system).Error)

		w := do(t, r, http.MethodDelete, "/clients?id="+client.ID, nil, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		require.NoError(t, database.DB.Delete(&system).Error)
		w = do(t, r, http.MethodDelete, "/clients?id="+client.ID, nil, cookies)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete unknown client", func(t *testing.T) {
		w := do(t, r, http.MethodDelete, "/clients?id=00000000-0000-0000-0000-000000000000", nil, cookies)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSystems(t *testing.T) {
	r := setup(t)
	admin := createUser(t, "Admin", models.RoleAdmin)
	worker := createUser(t, "Worker", models.RoleWorker)
	cookies := login(t, r, admin)

	client := models.Client{Name: "Acme GmbH"}
	require.NoError(t, database.DB.Create(&client).Error)

	w := do(t, r, http.MethodPost, "/systems", gin.H{"name": "ERP", "client_id": client.ID}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	system := decode[models.System](t, w)
	assert.Equal(t, client.ID, system.ClientID)

	t.Run("unknown client rejected", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/systems",
			gin.H{"name": "CRM", "client_id": "00000000-0000-0000-0000-000000000000"}, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list filters by client", func(t *testing.T) {
		other := models.Client{Name: "Beta AG"}
		require.NoError(t, database.DB.Create(&other).Error)
		require.NoError(t, database.DB.Create(&models.System{ClientID: other.ID, Name: "Portal"}).Error)

		w := do(t, r, http.MethodGet, "/systems?clientId="+client.ID, nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		systems := decode[[]models.System](t, w)
		require.Len(t, systems, 1)
		assert.Equal(t, "ERP", systems[0].Name)
	})

	t.Run("delete refuses while tasks exist", func(t *testing.T) {
		task := seedTask(t, system, worker, admin)

		w := do(t, r, http.MethodDelete, "/systems?id="+system.ID, nil, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		require.NoError(t, database.DB.Delete(&models.Task{}, "id = ?", task.ID).Error)
		w = do(t, r, http.MethodDelete, "/systems?id="+system.ID, nil, cookies)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
