package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/pkg/response"
)

// domainError translates a domain error into the unified response envelope.
// The services layer knows nothing about HTTP; this is the single place the
// taxonomy meets status codes.
func domainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.Error(c, response.NewNotFound(err.Error()))
	case errors.Is(err, services.ErrDuplicateMembership),
		errors.Is(err, services.ErrAlreadyAssigned),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidState):
		response.Error(c, response.NewConflict(err.Error()))
	case errors.Is(err, services.ErrNotEligible):
		response.Error(c, response.NewUnprocessable(err.Error()))
	case errors.Is(err, services.ErrUnauthorized):
		response.Error(c, response.NewForbidden(err.Error()))
	case errors.Is(err, services.ErrInvalidArgument):
		response.Error(c, response.NewBadRequest(err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(c, response.NewUnauthorized(err.Error()))
	default:
		response.Error(c, err)
	}
}
