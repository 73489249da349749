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
	"sync"
	"time"

	"github.com/Dalab21/emotunes/internal/config"
)

// SpotifyClient talks to the Spotify Web API with client-credentials
// authentication. The access token is cached until shortly before expiry.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiURL       string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// TrackMatch is the result of a catalog search for (song, artist).
type TrackMatch struct {
	URI        string
	PreviewURL *string
}

// TrackInfo is the detail needed to back the preview player.
type TrackInfo struct {
	Name        string
	Artist      string
	Album       string
	CoverURL    string
	PreviewURL  *string
	ExternalURL string
}

func NewSpotifyClient(cfg *config.Config) *SpotifyClient {
	return &SpotifyClient{
		clientID:     cfg.SpotifyClientID,
		clientSecret: cfg.SpotifyClientSecret,
		tokenURL:     cfg.SpotifyTokenURL,
		apiURL:       strings.TrimRight(cfg.SpotifyAPIURL, "/"),
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// token returns a valid access token, requesting a fresh one when the cached
// token is missing or about to expire.
func (c *SpotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify token endpoint: %w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ServiceError{Service: "spotify token endpoint", Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("spotify token response carried no access token")
	}

	c.accessToken = result.AccessToken
	// Renew a little early so in-flight requests never race expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - 30*time.Second)
	return c.accessToken, nil
}

func (c *SpotifyClient) get(ctx context.Context, endpoint string, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create spotify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify: %w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ServiceError{Service: "spotify", Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode spotify response: %w", err)
	}
	return nil
}

// SearchTrack looks up a playable reference for (song, artist). A miss
// returns (nil, nil); only transport or API failures are errors.
func (c *SpotifyClient) SearchTrack(ctx context.Context, song, artist string) (*TrackMatch, error) {
	query := fmt.Sprintf("track:%s artist:%s", song, artist)
	endpoint := fmt.Sprintf("%s/search?q=%s&type=track&limit=1", c.apiURL, url.QueryEscape(query))

	var result struct {
		Tracks struct {
			Items []struct {
				URI        string  `json:"uri"`
				PreviewURL *string `json:"preview_url"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	if len(result.Tracks.Items) == 0 {
		return nil, nil
	}
	item := result.Tracks.Items[0]
	return &TrackMatch{URI: item.URI, PreviewURL: item.PreviewURL}, nil
}

// GetTrack resolves a Spotify URI (spotify:track:<id>) or bare track ID to
// the details needed by the player screen.
func (c *SpotifyClient) GetTrack(ctx context.Context, uri string) (*TrackInfo, error) {
	id := uri
	if idx := strings.LastIndex(uri, ":"); idx >= 0 {
		id = uri[idx+1:]
	}
	if id == "" {
		return nil, fmt.Errorf("invalid spotify track uri %q", uri)
	}
	endpoint := fmt.Sprintf("%s/tracks/%s", c.apiURL, url.PathEscape(id))

	var result struct {
		Name    string `json:"name"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Album struct {
			Name   string `json:"name"`
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
		} `json:"album"`
		PreviewURL   *string `json:"preview_url"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	info := &TrackInfo{
		Name:        result.Name,
		Album:       result.Album.Name,
		PreviewURL:  result.PreviewURL,
		ExternalURL: result.ExternalURLs.Spotify,
	}
	if len(result.Artists) > 0 {
		info.Artist = result.Artists[0].Name
	}
	if len(result.Album.Images) > 0 {
		info.CoverURL = result.Album.Images[0].URL
	}
	return info, nil
}
