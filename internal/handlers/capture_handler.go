package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dalab21/emotunes/internal/services"
)

// maxCaptureBytes bounds uploaded capture frames.
const maxCaptureBytes = 10 << 20

type CaptureHandler struct {
	pipeline *services.PipelineService
}

func NewCaptureHandler(pipeline *services.PipelineService) *CaptureHandler {
	return &CaptureHandler{pipeline: pipeline}
}

// Capture runs the full pipeline for one uploaded frame: classify the
// emotion, fetch the mood playlist, enrich it, archive it.
func (h *CaptureHandler) Capture(c *gin.Context) {
	userID := c.GetUint("userID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, fmt.Errorf("%w: missing multipart field \"file\"", services.ErrCameraUnavailable))
		return
	}
	if fileHeader.Size > maxCaptureBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Capture frame too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", services.ErrCameraUnavailable, err))
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(io.LimitReader(file, maxCaptureBytes))
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", services.ErrCameraUnavailable, err))
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), userID, imageBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
