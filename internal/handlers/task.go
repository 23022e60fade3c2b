package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/middleware"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService       *services.TaskService
	assignmentService *services.AssignmentService
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{
		taskService:       services.NewTaskService(db),
		assignmentService: services.NewAssignmentService(db),
	}
}

// List returns a project's live tasks
// GET /api/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	tasks, err := h.taskService.List(c.Request.Context(), actor, projectID)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, tasks)
}

// Get returns a single task with its comments and assignments
// GET /api/projects/:id/tasks/:taskId
func (h *TaskHandler) Get(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	task, err := h.taskService.Get(c.Request.Context(), actor, projectID, taskID)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, task)
}

// Create adds a task to a project. Organizer only.
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	task, err := h.taskService.Create(c.Request.Context(), actor, projectID, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, task)
}

// Update edits a task's fields. Organizer only.
// PUT /api/projects/:id/tasks/:taskId
func (h *TaskHandler) Update(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	var req services.EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	task, err := h.taskService.Edit(c.Request.Context(), actor, projectID, taskID, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, task)
}

// ChangeStatus moves a task between statuses. Any active member.
// PUT /api/projects/:id/tasks/:taskId/status
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	var req services.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	task, err := h.taskService.ChangeStatus(c.Request.Context(), actor, projectID, taskID, req.Status)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, task)
}

// Delete soft-deletes a task. Organizer only.
// DELETE /api/projects/:id/tasks/:taskId
func (h *TaskHandler) Delete(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.taskService.Delete(c.Request.Context(), actor, projectID, taskID); err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "task deleted"})
}

// Assign attaches an active member to the task. Organizer only.
// POST /api/projects/:id/tasks/:taskId/assignments
func (h *TaskHandler) Assign(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	var req services.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	assignment, err := h.assignmentService.Assign(c.Request.Context(), actor, projectID, taskID, req.UserID)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, assignment)
}

// Unassign removes a user's assignment from the task. Organizer only.
// DELETE /api/projects/:id/tasks/:taskId/assignments/:userId
func (h *TaskHandler) Unassign(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.assignmentService.Unassign(c.Request.Context(), actor, projectID, taskID, userID); err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "assignment removed"})
}

// Assignable lists active members not yet assigned to the task
// GET /api/projects/:id/tasks/:taskId/assignable
func (h *TaskHandler) Assignable(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	users, err := h.assignmentService.UnassignedEligibleMembers(c.Request.Context(), actor, projectID, taskID)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, users)
}
