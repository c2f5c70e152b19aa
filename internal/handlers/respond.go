package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apierrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/services"
)

// respondServiceError maps service-level errors onto the API error
// envelope. NotFound sentinels are checked before permission ones, so
// a missing resource is never reported as a denial.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		apierrors.UnprocessableEntity(c, "Validation failed", []services.ValidationError{*validationErr})
		return
	}

	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCollaboratorNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrCollaboratorExists),
		errors.Is(err, services.ErrOwnerAsCollaborator):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInactiveUser):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.BadRequest(c, err.Error())
	default:
		logrus.WithError(err).Error("unexpected service error")
		apierrors.InternalError(c, "")
	}
}
