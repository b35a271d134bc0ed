package leaderboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"batnav/internal/game"
)

// DefaultFile is the store file used when no path is configured.
const DefaultFile = "batnav_charts.json"

var ErrCorruptStore = errors.New("leaderboard store is corrupt")

// Store loads and saves a whole leaderboard.
type Store interface {
	Load() Leaderboard
	Save(lb Leaderboard) error
}

// FileStore keeps the leaderboard in a single indented JSON file.
type FileStore struct {
	path string
	log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path, log: log}
}

func (s *FileStore) Path() string { return s.path }

// Read loads the file strictly: a missing file is an empty leaderboard, unreadable or
// malformed content is ErrCorruptStore.
func (s *FileStore) Read() (Leaderboard, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Leaderboard{}, nil
	}
	if err != nil {
		return Leaderboard{}, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Leaderboard{}, nil
	}
	var lb Leaderboard
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lb); err != nil {
		return Leaderboard{}, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if err := validate(lb); err != nil {
		return Leaderboard{}, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if lb == nil {
		lb = Leaderboard{}
	}
	return lb, nil
}

// validate rejects well-formed JSON that does not hold a ranking: keys must be playable
// grid sizes and every entry needs a name, a positive shot count and a percentage.
func validate(lb Leaderboard) error {
	for key, list := range lb {
		size, err := strconv.Atoi(key)
		if err != nil || size < game.MinSize || size > game.MaxSize {
			return fmt.Errorf("bad grid size key %q", key)
		}
		for i, e := range list {
			switch {
			case e.Name == "":
				return fmt.Errorf("size %s entry %d: missing name", key, i)
			case e.Shots <= 0:
				return fmt.Errorf("size %s entry %d: shots %d", key, i, e.Shots)
			case e.Accuracy < 0 || e.Accuracy > 100:
				return fmt.Errorf("size %s entry %d: accuracy %.1f", key, i, e.Accuracy)
			}
		}
	}
	return nil
}

// Load never fails: a corrupt store is replaced by an empty leaderboard.
func (s *FileStore) Load() Leaderboard {
	lb, err := s.Read()
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("starting from an empty leaderboard")
	}
	return lb
}

// Save writes the leaderboard next to its final location and renames it into place.
func (s *FileStore) Save(lb Leaderboard) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), ".charts-*.json")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(lb); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.log.Debug().Str("path", s.path).Int("sizes", len(lb)).Msg("leaderboard saved")
	return nil
}
