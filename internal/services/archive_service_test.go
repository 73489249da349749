package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dalab21/emotunes/internal/models"
)

func newTestArchive(t *testing.T) *ArchiveService {
	t.Helper()
	return &ArchiveService{dir: t.TempDir(), now: time.Now}
}

func sampleTracks() []models.Track {
	uri := "spotify:track:abc123"
	preview := "https://p.scdn.co/mp3-preview/abc123"
	return []models.Track{
		{
			Artist:          "Nina Simone",
			Album:           "Pastel Blues",
			Song:            "Sinnerman",
			Genre:           "jazz",
			Cover:           "https://covers.example.com/pastel-blues.jpg",
			PublicationDate: "1965-10-01",
			SpotifyURI:      &uri,
			PreviewURL:      &preview,
		},
		{
			Artist:          "Unknown Artist",
			Album:           "Demo",
			Song:            "Untitled",
			Genre:           "other",
			Cover:           "",
			PublicationDate: "2020-01-01",
		},
	}
}

func TestArchiveSaveAndLoad(t *testing.T) {
	archive := newTestArchive(t)
	archive.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	filename, err := archive.Save("playlist", sampleTracks())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filename != "playlist_2026-03-14_15-09-26.json" {
		t.Errorf("unexpected filename %q", filename)
	}

	tracks, err := archive.Load(filename)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Song != "Sinnerman" {
		t.Errorf("expected first track Sinnerman, got %q", tracks[0].Song)
	}
	if tracks[0].SpotifyURI == nil || *tracks[0].SpotifyURI != "spotify:track:abc123" {
		t.Error("expected enriched track to keep its Spotify URI")
	}
	if tracks[1].SpotifyURI != nil || tracks[1].PreviewURL != nil {
		t.Error("expected unmatched track to keep nil enrichment fields")
	}
}

func TestArchiveLoadRejectsBadFilenames(t *testing.T) {
	archive := newTestArchive(t)

	for _, filename := range []string{"../escape.json", "playlist.txt", "sub/dir.json"} {
		if _, err := archive.Load(filename); !errors.Is(err, ErrValidation) {
			t.Errorf("Load(%q) error = %v, want ErrValidation", filename, err)
		}
	}
}

func TestArchiveLoadMissingFile(t *testing.T) {
	archive := newTestArchive(t)

	if _, err := archive.Load("playlist_2026-01-01_00-00-00.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArchiveLoadCorruptFile(t *testing.T) {
	archive := newTestArchive(t)

	path := filepath.Join(archive.dir, "playlist_2026-01-01_00-00-00.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, err := archive.Load("playlist_2026-01-01_00-00-00.json"); !errors.Is(err, ErrCorruptArchive) {
		t.Errorf("expected ErrCorruptArchive, got %v", err)
	}
}

func TestArchiveLoadLatest(t *testing.T) {
	archive := newTestArchive(t)

	_, _, ok, err := archive.LoadLatest("playlist")
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no archive in an empty directory")
	}

	saveAt := func(ts time.Time, tracks []models.Track) string {
		archive.now = func() time.Time { return ts }
		filename, err := archive.Save("playlist", tracks)
		if err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		// Pin mtime so ordering does not depend on write timing.
		if err := os.Chtimes(filepath.Join(archive.dir, filename), ts, ts); err != nil {
			t.Fatalf("failed to set mtime: %v", err)
		}
		return filename
	}

	older := sampleTracks()[:1]
	newer := sampleTracks()

	saveAt(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), older)
	newest := saveAt(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), newer)

	tracks, filename, ok, err := archive.LoadLatest("playlist")
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected an archive to be found")
	}
	if filename != newest {
		t.Errorf("expected latest file %q, got %q", newest, filename)
	}
	if len(tracks) != 2 {
		t.Errorf("expected the newer playlist's 2 tracks, got %d", len(tracks))
	}
}

func TestArchiveLoadLatestIgnoresOtherPrefixes(t *testing.T) {
	archive := newTestArchive(t)
	archive.now = func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}

	if _, err := archive.Save("other", sampleTracks()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	_, _, ok, err := archive.LoadLatest("playlist")
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	if ok {
		t.Error("expected no match for a different name prefix")
	}
}

func TestArchiveListAllNewestFirst(t *testing.T) {
	archive := newTestArchive(t)

	timestamps := []time.Time{
		time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	for _, ts := range timestamps {
		archive.now = func() time.Time { return ts }
		filename, err := archive.Save("playlist", sampleTracks())
		if err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		if err := os.Chtimes(filepath.Join(archive.dir, filename), ts, ts); err != nil {
			t.Fatalf("failed to set mtime: %v", err)
		}
	}

	entries, err := archive.ListAll()
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Errorf("entries not sorted newest first: %v", entries)
		}
	}
	if entries[0].Filename != "playlist_2026-03-14_12-00-00.json" {
		t.Errorf("expected newest entry first, got %q", entries[0].Filename)
	}
}
