package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dalab21/emotunes/internal/clients"
	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/services"
)

type PlaylistHandler struct {
	archive       *services.ArchiveService
	cache         *services.PlaylistCache
	exportService *services.ExportService
	spotify       *clients.SpotifyClient
	cfg           *config.Config
}

func NewPlaylistHandler(archive *services.ArchiveService, cache *services.PlaylistCache, exportService *services.ExportService, spotify *clients.SpotifyClient, cfg *config.Config) *PlaylistHandler {
	return &PlaylistHandler{
		archive:       archive,
		cache:         cache,
		exportService: exportService,
		spotify:       spotify,
		cfg:           cfg,
	}
}

// ListPlaylists returns the archived playlist history, newest first
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	entries, err := h.archive.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(entries),
		"playlists": entries,
	})
}

// GetLatestPlaylist returns the most recent playlist: the caller's cached
// one when present, otherwise the newest archive file.
func (h *PlaylistHandler) GetLatestPlaylist(c *gin.Context) {
	userID := c.GetUint("userID")

	if playlist, ok := h.cache.GetLatest(c.Request.Context(), userID); ok {
		c.JSON(http.StatusOK, gin.H{"source": "cache", "playlist": playlist})
		return
	}

	tracks, filename, ok, err := h.archive.LoadLatest(h.cfg.ArchivePrefix)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No playlist archived yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":   "archive",
		"filename": filename,
		"tracks":   tracks,
	})
}

// GetPlaylist returns one archived playlist by filename
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	filename := c.Param("filename")

	tracks, err := h.archive.Load(filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": filename,
		"tracks":   tracks,
	})
}

// ExportPlaylistPDF renders one archived playlist as a PDF download
func (h *PlaylistHandler) ExportPlaylistPDF(c *gin.Context) {
	filename := c.Param("filename")

	tracks, err := h.archive.Load(filename)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.exportService.GeneratePlaylistPDF(filename, tracks)
	if err != nil {
		respondError(c, err)
		return
	}

	pdfName := strings.TrimSuffix(filename, ".json") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+pdfName+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetTrackInfo resolves a Spotify URI to the details the player needs
func (h *PlaylistHandler) GetTrackInfo(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing uri query parameter"})
		return
	}

	info, err := h.spotify.GetTrack(c.Request.Context(), uri)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         info.Name,
		"artist":       info.Artist,
		"album":        info.Album,
		"cover":        info.CoverURL,
		"preview_url":  info.PreviewURL,
		"external_url": info.ExternalURL,
	})
}

// GetTrackQR returns a QR PNG linking to the track on Spotify
func (h *PlaylistHandler) GetTrackQR(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing uri query parameter"})
		return
	}

	png, err := h.exportService.GenerateTrackQR(uri)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
