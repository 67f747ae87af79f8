package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-tracker/internal/service"
)

const (
	msgUnauthorized = "unauthorized"
	msgTaskNotFound = "task not found"
	msgInternal     = "internal server error"
)

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondError maps service errors onto the public error shape. Unknown
// errors are logged and reported without detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(c, http.StatusBadRequest, service.ValidationMessage(err))
	case errors.Is(err, service.ErrUserAlreadyExists):
		writeError(c, http.StatusBadRequest, service.ErrUserAlreadyExists.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(c, http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, service.ErrExportUnavailable):
		writeError(c, http.StatusServiceUnavailable, service.ErrExportUnavailable.Error())
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		writeError(c, http.StatusInternalServerError, msgInternal)
	}
}
