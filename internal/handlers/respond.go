package handlers

import (
	"errors"
	"log"
	"net/http"

	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds onto HTTP statuses. Unclassified
// errors are logged and answered with a generic message so internal
// detail never reaches the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "Internal server error"
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}
