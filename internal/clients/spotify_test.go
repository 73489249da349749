package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Dalab21/emotunes/internal/config"
)

// newTestSpotify wires a client against a token server and an API server.
func newTestSpotify(t *testing.T, apiHandler http.HandlerFunc) (*SpotifyClient, *int32) {
	t.Helper()

	var tokenCalls int32
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)

		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Error("token request missing client-credentials basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse token form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type %q", r.PostForm.Get("grant_type"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "expires_in": 3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		apiHandler(w, r)
	}))
	t.Cleanup(apiServer.Close)

	client := NewSpotifyClient(&config.Config{
		SpotifyClientID:     "client-id",
		SpotifyClientSecret: "client-secret",
		SpotifyTokenURL:     tokenServer.URL,
		SpotifyAPIURL:       apiServer.URL,
	})
	return client, &tokenCalls
}

func TestSearchTrackFound(t *testing.T) {
	client, _ := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("q") != "track:Sinnerman artist:Nina Simone" {
			t.Errorf("unexpected query %q", query.Get("q"))
		}
		if query.Get("type") != "track" || query.Get("limit") != "1" {
			t.Errorf("unexpected search parameters: %v", query)
		}

		w.Write([]byte(`{
			"tracks": {
				"items": [
					{"uri": "spotify:track:abc123", "preview_url": "https://p.scdn.co/mp3-preview/abc123"}
				]
			}
		}`))
	})

	match, err := client.SearchTrack(context.Background(), "Sinnerman", "Nina Simone")
	if err != nil {
		t.Fatalf("SearchTrack returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.URI != "spotify:track:abc123" {
		t.Errorf("unexpected URI %q", match.URI)
	}
	if match.PreviewURL == nil || *match.PreviewURL != "https://p.scdn.co/mp3-preview/abc123" {
		t.Error("expected preview URL to be carried over")
	}
}

func TestSearchTrackMiss(t *testing.T) {
	client, _ := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tracks": {"items": []}}`))
	})

	match, err := client.SearchTrack(context.Background(), "Untitled", "Unknown Artist")
	if err != nil {
		t.Fatalf("a catalog miss must not be an error, got: %v", err)
	}
	if match != nil {
		t.Errorf("expected nil match, got %+v", match)
	}
}

func TestTokenIsCached(t *testing.T) {
	client, tokenCalls := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tracks": {"items": []}}`))
	})

	for i := 0; i < 3; i++ {
		if _, err := client.SearchTrack(context.Background(), "song", "artist"); err != nil {
			t.Fatalf("SearchTrack returned error: %v", err)
		}
	}

	if got := atomic.LoadInt32(tokenCalls); got != 1 {
		t.Errorf("expected 1 token request across 3 searches, got %d", got)
	}
}

func TestGetTrack(t *testing.T) {
	client, _ := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks/abc123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"name": "Sinnerman",
			"artists": [{"name": "Nina Simone"}],
			"album": {
				"name": "Pastel Blues",
				"images": [{"url": "https://covers.example.com/pastel-blues.jpg"}]
			},
			"preview_url": null,
			"external_urls": {"spotify": "https://open.spotify.com/track/abc123"}
		}`))
	})

	info, err := client.GetTrack(context.Background(), "spotify:track:abc123")
	if err != nil {
		t.Fatalf("GetTrack returned error: %v", err)
	}
	if info.Name != "Sinnerman" || info.Artist != "Nina Simone" || info.Album != "Pastel Blues" {
		t.Errorf("track details not decoded correctly: %+v", info)
	}
	if info.CoverURL != "https://covers.example.com/pastel-blues.jpg" {
		t.Errorf("unexpected cover %q", info.CoverURL)
	}
	if info.PreviewURL != nil {
		t.Error("expected nil preview URL for a track without a preview")
	}
	if info.ExternalURL != "https://open.spotify.com/track/abc123" {
		t.Errorf("unexpected external URL %q", info.ExternalURL)
	}
}

func TestGetTrackInvalidURI(t *testing.T) {
	client, _ := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := client.GetTrack(context.Background(), "spotify:track:"); err == nil {
		t.Error("expected an error for an empty track id")
	}
}
