package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Dalab21/emotunes/internal/config"
)

func TestGeneratePlaylistPDF(t *testing.T) {
	service := NewExportService(&config.Config{})

	pdf, err := service.GeneratePlaylistPDF("playlist_2026-03-14_12-00-00.json", sampleTracks())
	if err != nil {
		t.Fatalf("GeneratePlaylistPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
}

func TestGeneratePlaylistPDFEmpty(t *testing.T) {
	service := NewExportService(&config.Config{})

	pdf, err := service.GeneratePlaylistPDF("playlist_2026-03-14_12-00-00.json", nil)
	if err != nil {
		t.Fatalf("GeneratePlaylistPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("expected a non-empty PDF even for an empty playlist")
	}
}

func TestGenerateTrackQR(t *testing.T) {
	service := NewExportService(&config.Config{})

	png, err := service.GenerateTrackQR("spotify:track:abc123")
	if err != nil {
		t.Fatalf("GenerateTrackQR returned error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output does not look like a PNG")
	}
}

func TestGenerateTrackQRInvalidURI(t *testing.T) {
	service := NewExportService(&config.Config{})

	if _, err := service.GenerateTrackQR("spotify:track:"); !errors.Is(err, ErrValidation) {
		t.Errorf("GenerateTrackQR() error = %v, want ErrValidation", err)
	}
}
