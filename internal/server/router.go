package server

import (
	"net/http"

	"github.com/beratcankara/inoflow/internal/config"
	"github.com/beratcankara/inoflow/internal/handlers"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inoflow_session", store))

	// AUTH
	r.POST("/auth/login", handlers.Login)
	r.POST("/auth/logout", handlers.Logout)

	// WEBHOOK HOOKS: shared secret, no session
	hooks := r.Group("/hooks", middleware.RequireWebhookSecret(cfg.WebhookSecret))
	hooks.POST("/subtasks", handlers.HookSubtasks)
	hooks.POST("/summary", handlers.HookSummary)

	// ATTACHMENT BYTES: public by unguessable key
	r.GET("/files/*key", handlers.ServeFile)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/auth/me", handlers.Me)
	auth.POST("/auth/change-password", handlers.ChangePassword)

	// TASKS
	auth.GET("/tasks", middleware.NoStore(), handlers.ListTasks)
	auth.POST("/tasks", handlers.CreateTask)
	auth.GET("/tasks/:id", handlers.GetTask)
	auth.PATCH("/tasks/:id", handlers.UpdateTask)
	auth.DELETE("/tasks/:id", handlers.DeleteTask)
	auth.PATCH("/tasks/:id/status", handlers.ChangeTaskStatus)
	auth.GET("/tasks/:id/status-logs", handlers.ListStatusLogs)

	// SUBTASKS
	auth.GET("/tasks/:id/subtasks", handlers.ListSubtasks)
	auth.POST("/tasks/:id/subtasks", handlers.CreateSubtask)
	auth.PATCH("/tasks/:id/subtasks/:subtaskId", handlers.UpdateSubtask)
	auth.DELETE("/tasks/:id/subtasks/:subtaskId", handlers.DeleteSubtask)

	// NOTES (?noteId= selects the note for PATCH/DELETE)
	auth.GET("/tasks/:id/notes", handlers.ListNotes)
	auth.POST("/tasks/:id/notes", handlers.CreateNote)
	auth.PATCH("/tasks/:id/notes", handlers.UpdateNote)
	auth.DELETE("/tasks/:id/notes", handlers.DeleteNote)

	// ATTACHMENTS
	auth.GET("/tasks/:id/attachments", middleware.NoStore(), handlers.ListAttachments)
	auth.DELETE("/tasks/:id/attachments", handlers.DeleteAttachment)
	auth.POST("/tasks/attachments/upload", handlers.UploadAttachments)

	// CLIENTS / SYSTEMS
	auth.GET("/clients", handlers.ListClients)
	auth.POST("/clients", handlers.CreateClient)
	auth.PATCH("/clients", handlers.UpdateClient)
	auth.DELETE("/clients", handlers.DeleteClient)

	auth.GET("/systems", handlers.ListSystems)
	auth.POST("/systems", handlers.CreateSystem)
	auth.PATCH("/systems", handlers.UpdateSystem)
	auth.DELETE("/systems", handlers.DeleteSystem)

	// USERS: only admins create accounts
	auth.GET("/users", handlers.ListUsers)
	auth.POST("/users",
		middleware.RequireRole(models.RoleAdmin),
		handlers.CreateUser,
	)
	auth.GET("/users/:id", handlers.GetUser)

	// NOTIFICATIONS
	auth.GET("/notifications", middleware.NoStore(), handlers.ListNotifications)
	auth.POST("/notifications", handlers.CreateNotification)
	auth.PATCH("/notifications/mark-all-read", handlers.MarkAllNotificationsRead)

	// AUTOMATION DISPATCH
	auth.POST("/ai/dispatch", handlers.Dispatch)

	// REALTIME
	auth.GET("/ws", handlers.Subscribe)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
