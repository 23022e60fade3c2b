package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/middleware"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/pkg/response"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{commentService: services.NewCommentService(db)}
}

// Create posts a comment on a task. Any active member of the task's project.
// POST /api/tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	comment, err := h.commentService.Create(c.Request.Context(), actor, taskID, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, comment)
}

// Get returns one comment by id
// GET /api/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), id)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, comment)
}

// Update edits a comment. Author or admin.
// PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	comment, err := h.commentService.Edit(c.Request.Context(), actor, id, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, comment)
}

// Delete removes a comment. Author or admin.
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.commentService.Delete(c.Request.Context(), actor, id); err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "comment deleted"})
}
