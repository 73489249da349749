package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dalab21/emotunes/internal/clients"
	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/models"
)

// PipelineState is one stop on the linear capture state machine.
type PipelineState string

const (
	StateIdle             PipelineState = "idle"
	StateCapturing        PipelineState = "capturing"
	StateClassifying      PipelineState = "classifying"
	StateFetchingPlaylist PipelineState = "fetching_playlist"
	StateEnriching        PipelineState = "enriching"
	StateArchiving        PipelineState = "archiving"
	StateDone             PipelineState = "done"
	StateFailed           PipelineState = "failed"
)

// StateChange is one typed transition of a capture run. Failed transitions
// carry the reason.
type StateChange struct {
	RunID  uuid.UUID     `json:"run_id"`
	From   PipelineState `json:"from"`
	To     PipelineState `json:"to"`
	At     time.Time     `json:"at"`
	Reason string        `json:"reason,omitempty"`
}

// CaptureResult is the outcome of one completed capture event.
type CaptureResult struct {
	RunID       uuid.UUID        `json:"run_id"`
	Emotion     string           `json:"emotion"`
	Filename    string           `json:"filename"`
	Playlist    *models.Playlist `json:"playlist"`
	Transitions []StateChange    `json:"transitions"`
}

// EmotionClassifier labels a captured image.
type EmotionClassifier interface {
	Classify(ctx context.Context, image []byte) (string, error)
}

// PlaylistFetcher returns the raw entries for an emotion label.
type PlaylistFetcher interface {
	FetchByEmotion(ctx context.Context, emotion string) ([]models.PlaylistEntry, error)
}

// TrackCatalog looks up a playable reference for (song, artist).
type TrackCatalog interface {
	SearchTrack(ctx context.Context, song, artist string) (*clients.TrackMatch, error)
}

// PipelineService orchestrates one capture event: image -> label -> raw
// playlist -> enriched playlist -> archive file. Steps run strictly in
// sequence; a failed run is terminal and a new capture starts from Idle.
type PipelineService struct {
	classifier EmotionClassifier
	fetcher    PlaylistFetcher
	catalog    TrackCatalog
	archive    *ArchiveService
	cache      *PlaylistCache
	prefix     string

	events chan<- StateChange

	mu       sync.Mutex
	inFlight map[uint]struct{}
}

func NewPipelineService(classifier EmotionClassifier, fetcher PlaylistFetcher, catalog TrackCatalog, archive *ArchiveService, cache *PlaylistCache, prefix string) *PipelineService {
	return &PipelineService{
		classifier: classifier,
		fetcher:    fetcher,
		catalog:    catalog,
		archive:    archive,
		cache:      cache,
		prefix:     prefix,
		inFlight:   make(map[uint]struct{}),
	}
}

// AttachEvents wires an observer channel for state transitions. Sends are
// non-blocking; a slow consumer drops events rather than stalling a run.
func (s *PipelineService) AttachEvents(ch chan<- StateChange) {
	s.events = ch
}

type captureRun struct {
	id          uuid.UUID
	state       PipelineState
	transitions []StateChange
	service     *PipelineService
}

func (r *captureRun) to(next PipelineState, reason string) {
	change := StateChange{
		RunID:  r.id,
		From:   r.state,
		To:     next,
		At:     time.Now(),
		Reason: reason,
	}
	r.state = next
	r.transitions = append(r.transitions, change)

	if r.service.events != nil {
		select {
		case r.service.events <- change:
		default:
		}
	}
}

func (r *captureRun) fail(err error) error {
	r.to(StateFailed, err.Error())
	return err
}

// Run executes the full pipeline for one captured image. One capture per
// user may be active at a time; re-invocation after Done or Failed starts a
// fresh run.
func (s *PipelineService) Run(ctx context.Context, userID uint, imageBytes []byte) (*CaptureResult, error) {
	s.mu.Lock()
	if _, busy := s.inFlight[userID]; busy {
		s.mu.Unlock()
		return nil, ErrCaptureInProgress
	}
	s.inFlight[userID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, userID)
		s.mu.Unlock()
	}()

	run := &captureRun{id: uuid.New(), state: StateIdle, service: s}

	// Capturing: the frame must exist and decode as an image.
	run.to(StateCapturing, "")
	if len(imageBytes) == 0 {
		return nil, run.fail(ErrCameraUnavailable)
	}
	if _, _, err := image.Decode(bytes.NewReader(imageBytes)); err != nil {
		return nil, run.fail(fmt.Errorf("%w: %v", ErrImageDecode, err))
	}

	// Classifying
	run.to(StateClassifying, "")
	emotion, err := s.classifier.Classify(ctx, imageBytes)
	if err != nil {
		return nil, run.fail(err)
	}
	logger.Info("emotion classified", logger.String("run_id", run.id.String()), logger.String("emotion", emotion))

	// FetchingPlaylist: only this step's failure aborts the run; per-track
	// enrichment misses below do not.
	run.to(StateFetchingPlaylist, "")
	entries, err := s.fetcher.FetchByEmotion(ctx, emotion)
	if err != nil {
		return nil, run.fail(err)
	}

	// Enriching: sequential catalog lookups, one per entry.
	run.to(StateEnriching, "")
	tracks := make([]models.Track, 0, len(entries))
	for _, entry := range entries {
		track := models.Track{
			Artist:          entry.Artist,
			Album:           entry.Album,
			Song:            entry.Song,
			Genre:           entry.Genre,
			Cover:           entry.Cover,
			PublicationDate: entry.PublicationDate,
		}

		match, err := s.catalog.SearchTrack(ctx, entry.Song, entry.Artist)
		if err != nil {
			logger.Warn("catalog lookup failed, keeping track without enrichment",
				logger.String("song", entry.Song), logger.String("artist", entry.Artist), logger.ErrorField(err))
		} else if match != nil {
			uri := match.URI
			track.SpotifyURI = &uri
			track.PreviewURL = match.PreviewURL
		}
		tracks = append(tracks, track)
	}

	playlist := &models.Playlist{
		Emotion:   emotion,
		CreatedAt: time.Now(),
		Tracks:    tracks,
	}

	// Archiving
	run.to(StateArchiving, "")
	filename, err := s.archive.Save(s.prefix, tracks)
	if err != nil {
		return nil, run.fail(err)
	}

	if s.cache != nil {
		s.cache.SetLatest(ctx, userID, playlist)
	}

	run.to(StateDone, "")
	logger.Info("capture pipeline finished",
		logger.String("run_id", run.id.String()),
		logger.String("emotion", emotion),
		logger.String("filename", filename),
		logger.Int("tracks", len(tracks)))

	return &CaptureResult{
		RunID:       run.id,
		Emotion:     emotion,
		Filename:    filename,
		Playlist:    playlist,
		Transitions: run.transitions,
	}, nil
}
