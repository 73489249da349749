package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dalab21/emotunes/internal/clients"
	"github.com/Dalab21/emotunes/internal/services"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: bad input", services.ErrValidation), http.StatusBadRequest},
		{"camera unavailable", services.ErrCameraUnavailable, http.StatusBadRequest},
		{"image decode", services.ErrImageDecode, http.StatusBadRequest},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not found", fmt.Errorf("%w: user 9", services.ErrNotFound), http.StatusNotFound},
		{"duplicate user", services.ErrDuplicateUser, http.StatusConflict},
		{"capture in progress", services.ErrCaptureInProgress, http.StatusConflict},
		{"already premium", services.ErrAlreadyPremium, http.StatusConflict},
		{"upstream failure", &clients.ServiceError{Service: "classifier", Status: 500, Message: "boom"}, http.StatusBadGateway},
		{"service unavailable", fmt.Errorf("classifier: %w: dial refused", clients.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("respondError(%v) status = %d, want %d", tt.err, w.Code, tt.status)
			}
		})
	}
}
