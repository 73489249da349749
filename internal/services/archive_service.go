package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/models"
)

// archiveTimeFormat is the single canonical naming scheme:
// {name}_{yyyy-mm-dd_HH-MM-SS}.json. Same-second saves overwrite.
const archiveTimeFormat = "2006-01-02_15-04-05"

// ArchiveService persists playlist snapshots as one JSON file each and
// looks them up again by filename prefix and modification time.
type ArchiveService struct {
	dir string
	now func() time.Time
}

// ArchiveEntry describes one stored playlist file for history browsing.
type ArchiveEntry struct {
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

func NewArchiveService(cfg *config.Config) (*ArchiveService, error) {
	if err := os.MkdirAll(cfg.ArchiveDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create archive directory: %v", ErrStorage, err)
	}
	return &ArchiveService{dir: cfg.ArchiveDir, now: time.Now}, nil
}

// Save writes the track array under a timestamp-derived name and returns the
// filename. Write failures are not retried.
func (s *ArchiveService) Save(name string, tracks []models.Track) (string, error) {
	filename := fmt.Sprintf("%s_%s.json", name, s.now().Format(archiveTimeFormat))
	path := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(tracks, "", "    ")
	if err != nil {
		return "", fmt.Errorf("%w: failed to serialize playlist: %v", ErrStorage, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", ErrStorage, filename, err)
	}

	logger.Info("playlist archived", logger.String("filename", filename), logger.Int("tracks", len(tracks)))
	return filename, nil
}

// LoadLatest returns the newest archive matching the name prefix, by
// filesystem modification time. The boolean is false when nothing matches.
func (s *ArchiveService) LoadLatest(name string) ([]models.Track, string, bool, error) {
	matches, err := s.matching(name)
	if err != nil {
		return nil, "", false, err
	}
	if len(matches) == 0 {
		return nil, "", false, nil
	}

	latest := matches[0]
	tracks, err := s.Load(latest.Filename)
	if err != nil {
		return nil, "", false, err
	}
	return tracks, latest.Filename, true, nil
}

// Load reads one archive file by its exact filename.
func (s *ArchiveService) Load(filename string) ([]models.Track, error) {
	// Filenames come from clients; refuse anything that is not a bare
	// .json name inside the archive directory.
	if filename != filepath.Base(filename) || !strings.HasSuffix(filename, ".json") {
		return nil, fmt.Errorf("%w: invalid archive filename %q", ErrValidation, filename)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: archive %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrStorage, filename, err)
	}

	var tracks []models.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, filename, err)
	}
	return tracks, nil
}

// ListAll returns every archived playlist, newest first. The listing is a
// snapshot of the directory at call time.
func (s *ArchiveService) ListAll() ([]ArchiveEntry, error) {
	return s.matching("")
}

func (s *ArchiveService) matching(name string) ([]ArchiveEntry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read archive directory: %v", ErrStorage, err)
	}

	prefix := ""
	if name != "" {
		prefix = name + "_"
	}

	var entries []ArchiveEntry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(de.Name(), prefix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, ArchiveEntry{Filename: de.Name(), CreatedAt: info.ModTime()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
