package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/middleware"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/pkg/response"
	"gorm.io/gorm"
)

type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(db *gorm.DB, queue services.NotificationQueue) *MemberHandler {
	return &MemberHandler{membershipService: services.NewMembershipService(db, queue)}
}

// List returns a project's memberships
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	members, err := h.membershipService.List(c.Request.Context(), actor, projectID)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, members)
}

// Add directly enrolls an existing user as an active member
// POST /api/projects/:id/members
func (h *MemberHandler) Add(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	membership, err := h.membershipService.Add(c.Request.Context(), actor, projectID, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, membership)
}

// Invite creates a pending membership and queues an invite notification
// POST /api/projects/:id/invitations
func (h *MemberHandler) Invite(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.GetActor(c)

	membership, err := h.membershipService.Invite(c.Request.Context(), actor, projectID, &req)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Created(c, membership)
}

// Accept activates the actor's own pending membership
// POST /api/memberships/:id/accept
func (h *MemberHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	membership, err := h.membershipService.Accept(c.Request.Context(), actor, id)
	if err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, membership)
}

// End terminates a membership (the member leaving, or the organizer removing)
// DELETE /api/memberships/:id
func (h *MemberHandler) End(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.membershipService.End(c.Request.Context(), actor, id); err != nil {
		domainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "membership ended"})
}
