package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Dalab21/emotunes/internal/config"
)

// ClassifierClient posts a captured image to the remote emotion
// classification endpoint and returns the predicted label.
type ClassifierClient struct {
	url        string
	httpClient *http.Client
}

func NewClassifierClient(cfg *config.Config) *ClassifierClient {
	timeout := cfg.ClassifierTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClassifierClient{
		url:        cfg.ClassifierURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Classify uploads the image as multipart field "file" and decodes the
// {"emotion": ...} reply. It never retries.
func (c *ClassifierClient) Classify(ctx context.Context, image []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "capture.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create classifier request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier: %w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ServiceError{Service: "classifier", Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	var result struct {
		Emotion string `json:"emotion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if result.Emotion == "" {
		return "", fmt.Errorf("classifier response carried no emotion label")
	}
	return result.Emotion, nil
}
