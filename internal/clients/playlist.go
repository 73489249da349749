package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/models"
)

// PlaylistClient fetches mood-tagged song lists from the playlist service.
type PlaylistClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPlaylistClient(cfg *config.Config) *PlaylistClient {
	timeout := cfg.PlaylistAPITimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PlaylistClient{
		baseURL:    strings.TrimRight(cfg.PlaylistAPIURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchByEmotion requests the raw entries for an emotion label.
func (c *PlaylistClient) FetchByEmotion(ctx context.Context, emotion string) ([]models.PlaylistEntry, error) {
	endpoint := fmt.Sprintf("%s/songs/emotions/%s", c.baseURL, url.PathEscape(emotion))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("playlist service: %w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ServiceError{Service: "playlist service", Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	var entries []models.PlaylistEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode playlist response: %w", err)
	}
	return entries, nil
}
