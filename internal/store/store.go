package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"courtside/internal/sportspress"

	"github.com/rs/zerolog/log"
)

// Store reads and writes the durable state document. Saves go through a
// temporary file in the same directory followed by a rename, so a crash
// mid write never corrupts the last good state. When the configured path
// is not writable the store falls back to a directory under the system
// temp dir, warning once
type Store struct {
	mtx      sync.Mutex
	path     string
	fallback string
	warned   bool
}

func NewStore(path string) *Store {
	return &Store{
		path:     path,
		fallback: filepath.Join(os.TempDir(), "courtside", filepath.Base(path)),
	}
}

// Path returns where the state is currently being written
func (store *Store) Path() string {
	store.mtx.Lock()
	defer store.mtx.Unlock()
	return store.path
}

// Load reads the state file. A missing or unparsable file yields the
// default empty state, never an error: first runs and corrupted files
// both start from scratch
func (store *Store) Load() State {

	store.mtx.Lock()
	defer store.mtx.Unlock()

	for _, path := range []string{store.path, store.fallback} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var state State
		if err := json.Unmarshal(data, &state); err != nil {
			log.Error().Msg(fmt.Sprintf("State file %s is not parsable, starting from default state: %v", path, err))
			break
		}
		normalize(&state)
		log.Info().Msg(fmt.Sprintf("Loaded state from %s (%d processed games)", path, len(state.ProcessedGames)))
		return state
	}

	log.Info().Msg("No existing state found, using default state")
	return DefaultState()
}

// Save writes the state atomically. On failure the previous state file
// is untouched and the error is returned so the caller can discard its
// in-memory changes
func (store *Store) Save(state *State) error {

	store.mtx.Lock()
	defer store.mtx.Unlock()

	state.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}

	if err := writeAtomic(store.path, data); err == nil {
		log.Debug().Msg(fmt.Sprintf("State saved to %s", store.path))
		return nil
	} else if !store.warned {
		log.Warn().Msg(fmt.Sprintf("State path %s is not writable (%v), falling back to %s", store.path, err, store.fallback))
		store.warned = true
	}

	if err := writeAtomic(store.fallback, data); err != nil {
		return fmt.Errorf("could not save state to %s nor %s: %w", store.path, store.fallback, err)
	}
	store.path = store.fallback
	return nil
}

func writeAtomic(path string, data []byte) error {

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	// Flush before the rename, the replace must be all or nothing
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Old state files may predate some containers
func normalize(state *State) {
	if state.Records == nil {
		state.Records = map[string]Record{}
	}
	if state.Milestones == nil {
		state.Milestones = map[sportspress.PlayerId]map[string]int{}
	}
	if state.LastTotals == nil {
		state.LastTotals = map[sportspress.PlayerId]map[string]float64{}
	}
	if state.Channels == nil {
		state.Channels = map[string]string{}
	}
}
