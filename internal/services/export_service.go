package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/models"
)

// ExportService renders archived playlists as PDFs and share links as QR
// codes.
type ExportService struct {
	cfg *config.Config
}

func NewExportService(cfg *config.Config) *ExportService {
	return &ExportService{cfg: cfg}
}

// GeneratePlaylistPDF renders one archived playlist as a simple A4 PDF.
func (s *ExportService) GeneratePlaylistPDF(filename string, tracks []models.Track) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "EmoTunes Playlist")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, strings.TrimSuffix(filename, ".json"))
	pdf.Ln(10)

	for i, track := range tracks {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, fmt.Sprintf("%d. %s", i+1, track.Song))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		line := fmt.Sprintf("%s - %s (%s)", track.Artist, track.Album, track.PublicationDate)
		if track.Genre != "" {
			line += " - " + track.Genre
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
		if track.SpotifyURI != nil {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, *track.SpotifyURI, "", "L", false)
		}
		pdf.Ln(3)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to render playlist PDF: %w", err)
	}
	return out.Bytes(), nil
}

// GenerateTrackQR encodes the public Spotify link for a track URI as a QR
// PNG.
func (s *ExportService) GenerateTrackQR(uri string) ([]byte, error) {
	id := uri
	if idx := strings.LastIndex(uri, ":"); idx >= 0 {
		id = uri[idx+1:]
	}
	if id == "" {
		return nil, fmt.Errorf("%w: invalid spotify track uri %q", ErrValidation, uri)
	}

	link := fmt.Sprintf("https://open.spotify.com/track/%s", id)
	png, err := qrcode.Encode(link, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	return png, nil
}
