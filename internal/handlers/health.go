package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/models"
)

// HealthHandler reports server and subsystem status.
type HealthHandler struct {
	queue interface{ IsAsync() bool }
}

func NewHealthHandler(queue interface{ IsAsync() bool }) *HealthHandler {
	return &HealthHandler{queue: queue}
}

// CheckHealth returns the health status of the server and its subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	queueMode := "sync"
	if h.queue != nil && h.queue.IsAsync() {
		queueMode = "async (Redis)"
	}

	var openTasks int64
	models.GetDB().Model(&models.Task{}).
		Where("deleted_at IS NULL AND status <> ?", models.TaskStatusDone).
		Count(&openTasks)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "teamtrack",
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
			"open_tasks": openTasks,
		},
	})
}
