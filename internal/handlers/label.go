package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/middleware"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/pkg/response"
	"gorm.io/gorm"
)

type LabelHandler struct {
	labelService *services.LabelService
}

func NewLabelHandler(db *gorm.DB) *LabelHandler {
	return &LabelHandler{labelService: services.NewLabelService(db)}
}

// List returns a project's labels
// GET /api/projects/:id/labels
func (h *LabelHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	labels, err := h.labelService.List(c.Request.Context(), actor, projectID)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, labels)
}

// Create adds a label to a project
// POST /api/projects/:id/labels
func (h *LabelHandler) Create(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	var req services.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	label, err := h.labelService.Create(c.Request.Context(), actor, projectID, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, label)
}

// Delete removes a label from a project
// DELETE /api/projects/:id/labels/:labelId
func (h *LabelHandler) Delete(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	labelID, ok := parseID(c, "labelId")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.labelService.Delete(c.Request.Context(), actor, projectID, labelID); err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "label deleted"})
}
