// Package state persists every symbol's trading state to a single JSON
// file so a restart resumes mid-position instead of re-entering.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/quantfold/gohat/logger"
	"github.com/quantfold/gohat/strategy"
)

type fileFormat struct {
	States      map[string]strategy.TradingState `json:"states"`
	LastUpdated time.Time                        `json:"last_updated"`
}

// Store is a JSON-file-backed map of symbol key to trading state. Safe
// for concurrent use by one engine goroutine per key.
type Store struct {
	mu     sync.Mutex
	path   string
	log    logger.Logger
	states map[string]strategy.TradingState
	now    func() time.Time
}

// Open loads the state file. A missing file starts fresh. A corrupted
// file is renamed aside with a timestamp suffix and the run starts fresh
// rather than trading on half-parsed state.
func Open(path string, log logger.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		log:    log,
		states: make(map[string]strategy.TradingState),
		now:    time.Now,
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%s", path, s.now().Format("20060102T150405"))
		if renameErr := os.Rename(path, backup); renameErr != nil {
			return nil, fmt.Errorf("state file corrupt and backup failed: %v: %w", err, renameErr)
		}
		log.Warn("state_file_corrupt",
			logger.String("path", path),
			logger.String("backup", backup),
			logger.Err(err),
		)
		return s, nil
	}
	if f.States != nil {
		s.states = f.States
	}
	return s, nil
}

// Get returns the persisted state for a key, if any.
func (s *Store) Get(key string) (strategy.TradingState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	return st, ok
}

// Keys lists every persisted symbol key.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.states))
	for k := range s.states {
		out = append(out, k)
	}
	return out
}

// Persist records the snapshot for a key and rewrites the file. The
// write goes through a temp file and rename so a crash mid-write never
// leaves a truncated state file.
func (s *Store) Persist(key string, st *strategy.TradingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = *st
	return s.save()
}

func (s *Store) save() error {
	f := fileFormat{States: s.states, LastUpdated: s.now()}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
