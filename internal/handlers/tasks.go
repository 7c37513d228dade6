package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/beratcankara/inoflow/internal/access"
	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/events"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"
	"github.com/beratcankara/inoflow/internal/notify"

	"github.com/gin-gonic/gin"
)

type taskListItem struct {
	models.Task
	SubtaskCount          int64 `json:"subtask_count"`
	CompletedSubtaskCount int64 `json:"completed_subtask_count"`
	NoteCount             int64 `json:"note_count"`
}

// ListTasks returns the tasks the caller may see, narrowed by role and
// the optional assigned_to/created_by filters. Dashboard mode lifts the
// assigner narrowing and hides tasks completed more than a week ago.
func ListTasks(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	dashboard := c.Query("dashboard") == "true"
	assignedTo := c.Query("assigned_to")
	createdBy := c.Query("created_by")

	q := database.DB.Model(&models.Task{}).
		Preload("Client").
		Preload("System").
		Preload("AssignedUser").
		Preload("Creator")

	if assignedTo != "" {
		q = q.Where("assigned_to = ?", assignedTo)
	}
	if createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}

	q = access.ScopeList(q, ctx, dashboard, assignedTo != "")

	if dashboard {
		weekAgo := time.Now().AddDate(0, 0, -7)
		q = q.Where("status <> ? OR completed_at >= ?", models.StatusCompleted, weekAgo)
	}

	var tasks []models.Task
	if err := q.Order("created_at desc").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	items := make([]taskListItem, len(tasks))
	ids := make([]string, len(tasks))
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		items[i] = taskListItem{Task: t}
		ids[i] = t.ID
		index[t.ID] = i
	}

	if len(ids) > 0 {
		type countRow struct {
			TaskID    string
			Total     int64
			Completed int64
		}
		var rows []countRow
		err := database.DB.Model(&models.Subtask{}).
			Select("task_id, count(*) as total, sum(case when completed then 1 else 0 end) as completed").
			Where("task_id IN ?", ids).
			Group("task_id").
			Scan(&rows).Error
		if err == nil {
			for _, r := range rows {
				if i, ok := index[r.TaskID]; ok {
					items[i].SubtaskCount = r.Total
					items[i].CompletedSubtaskCount = r.Completed
				}
			}
		}

		type noteRow struct {
			TaskID string
			Total  int64
		}
		var noteRows []noteRow
		err = database.DB.Model(&models.Note{}).
			Select("task_id, count(*) as total").
			Where("task_id IN ?", ids).
			Group("task_id").
			Scan(&noteRows).Error
		if err == nil {
			for _, r := range noteRows {
				if i, ok := index[r.TaskID]; ok {
					items[i].NoteCount = r.Total
				}
			}
		}
	}

	c.JSON(http.StatusOK, items)
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ClientID    string  `json:"client_id"`
	SystemID    string  `json:"system_id"`
	AssignedTo  string  `json:"assigned_to"`
	Deadline    *string `json:"deadline"`
	Priority    string  `json:"priority"`
}

func CreateTask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Title == "" || req.ClientID == "" || req.SystemID == "" || req.AssignedTo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, client_id, system_id and assigned_to are required"})
		return
	}

	// Workers may only open tasks for themselves.
	if ctx.Role == models.RoleWorker && req.AssignedTo != ctx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "workers can only assign tasks to themselves"})
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.TaskPriority(req.Priority)
		if !models.ValidPriority(priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		t, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline"})
			return
		}
		deadline = &t
	}

	var assignee models.User
	if err := database.DB.First(&assignee, "id = ?", req.AssignedTo).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee not found"})
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusNotStarted,
		Priority:    priority,
		Deadline:    deadline,
		ClientID:    req.ClientID,
		SystemID:    req.SystemID,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   ctx.UserID,
	}

	if err := database.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	// Tell the assignee, unless the creator assigned themself.
	if task.AssignedTo != ctx.UserID {
		notify.Send(c.Request.Context(), models.Notification{
			TaskID:     task.ID,
			SenderID:   ctx.UserID,
			ReceiverID: task.AssignedTo,
			Type:       models.NotifTaskAssigned,
			Title:      "New Task Assigned",
			Message:    fmt.Sprintf("%s assigned you %q.", ctx.Name, task.Title),
		})
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "tasks",
		Action:  "created",
		RowID:   task.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	created, ok := getTask(c, task.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, created)
}

func GetTask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	task, ok := getTask(c, c.Param("id"))
	if !ok {
		return
	}

	if !access.CanView(ctx, task, lookupRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	c.JSON(http.StatusOK, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ClientID    *string `json:"client_id"`
	SystemID    *string `json:"system_id"`
	AssignedTo  *string `json:"assigned_to"`
	Deadline    *string `json:"deadline"`
	Priority    *string `json:"priority"`
}

// UpdateTask edits non-status fields. Status changes go through
// ChangeTaskStatus only.
func UpdateTask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	task, ok := getTask(c, c.Param("id"))
	if !ok {
		return
	}

	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ClientID != nil {
		updates["client_id"] = *req.ClientID
	}
	if req.SystemID != nil {
		updates["system_id"] = *req.SystemID
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		if !models.ValidPriority(p) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		updates["priority"] = p
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			updates["deadline"] = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.Deadline)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline"})
				return
			}
			updates["deadline"] = t
		}
	}

	reassignedTo := ""
	if req.AssignedTo != nil && *req.AssignedTo != task.AssignedTo {
		var assignee models.User
		if err := database.DB.First(&assignee, "id = ?", *req.AssignedTo).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "assignee not found"})
			return
		}
		updates["assigned_to"] = *req.AssignedTo
		reassignedTo = *req.AssignedTo
	}

	if len(updates) > 0 {
		if err := database.DB.Model(task).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
			return
		}
	}

	if reassignedTo != "" && reassignedTo != ctx.UserID {
		notify.Send(c.Request.Context(), models.Notification{
			TaskID:     task.ID,
			SenderID:   ctx.UserID,
			ReceiverID: reassignedTo,
			Type:       models.NotifTaskAssigned,
			Title:      "New Task Assigned",
			Message:    fmt.Sprintf("%s assigned you %q.", ctx.Name, task.Title),
		})
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "tasks",
		Action:  "updated",
		RowID:   task.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	updated, ok := getTask(c, task.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTask removes a task and its children. Attachment objects are
// deleted from storage best-effort after the rows are gone; an orphaned
// object is preferable to a failed delete.
func DeleteTask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	task, ok := getTask(c, c.Param("id"))
	if !ok {
		return
	}

	if !access.CanDelete(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var attachments []models.Attachment
	database.DB.Where("task_id = ?", task.ID).Find(&attachments)

	if err := database.DB.Select("Subtasks", "Notes", "Attachments", "StatusLogs", "Notifications").
		Delete(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	if Store != nil {
		for _, a := range attachments {
			_ = Store.Delete(c.Request.Context(), a.StoragePath)
		}
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "tasks",
		Action:  "deleted",
		RowID:   task.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}
