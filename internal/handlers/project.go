package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/middleware"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{projectService: services.NewProjectService(db)}
}

// List returns the actor's projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	projects, err := h.projectService.List(c.Request.Context(), actor)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, projects)
}

// Get returns a single project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	project, err := h.projectService.Get(c.Request.Context(), actor, id)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, project)
}

// Create creates a project; the actor becomes its organizer
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	project, err := h.projectService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, project)
}

// Update changes project name/summary
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	project, err := h.projectService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, project)
}

// Delete soft-deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.projectService.Delete(c.Request.Context(), actor, id); err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "project deleted"})
}

// parseID reads a positive integer route parameter, writing a 400 response
// on failure.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
