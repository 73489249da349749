package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dalab21/emotunes/internal/clients"
	"github.com/Dalab21/emotunes/internal/services"
)

// respondError maps the service error taxonomy to HTTP status codes. Remote
// service failures surface the upstream status without retrying.
func respondError(c *gin.Context, err error) {
	var svcErr *clients.ServiceError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrCameraUnavailable),
		errors.Is(err, services.ErrImageDecode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateUser),
		errors.Is(err, services.ErrCaptureInProgress),
		errors.Is(err, services.ErrAlreadyPremium):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &svcErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": svcErr.Error(), "upstream_status": svcErr.Status})
	case errors.Is(err, clients.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
