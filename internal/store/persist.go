// ABOUTME: Debounced, atomic JSON persistence for the document store
// ABOUTME: Implements schedule/flush, write-then-rename, and corrupt-file quarantine

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// unmarshalState decodes a persisted store file.
func unmarshalState(raw []byte, state *fileState) error {
	return json.Unmarshal(raw, state)
}

// quarantine copies the unreadable store file to a timestamped sibling so
// nothing is lost before reseeding. The broken bytes are preserved
// verbatim for manual recovery.
func quarantine(path string, raw []byte, now time.Time) (string, error) {
	qpath := fmt.Sprintf("%s.corrupt.%s", path, now.UTC().Format("2006-01-02T15-04-05"))
	if err := os.WriteFile(qpath, raw, 0644); err != nil {
		return "", fmt.Errorf("writing quarantine file: %w", err)
	}
	return qpath, nil
}

// load applies a parsed file state to the in-memory graph, substituting
// defaults for anything a hand-edited or older file leaves out.
func (s *Store) load(state fileState) {
	s.data = state.Data
	if s.data.Products == nil {
		s.data.Products = []Product{}
	}
	if s.data.Drinks == nil {
		s.data.Drinks = []Drink{}
	}
	if s.data.Extras == nil {
		s.data.Extras = []Extra{}
	}
	if s.data.Waiters == nil {
		s.data.Waiters = []Waiter{}
	}
	if s.data.Admins == nil {
		s.data.Admins = []Admin{}
	}
	if s.data.Tickets == nil {
		s.data.Tickets = []*Ticket{}
	}

	s.ids = state.IDCounters
	if state.LegacyNextIDs != nil && s.ids == (idCounters{}) {
		s.ids = *state.LegacyNextIDs
	}

	if state.Settings != nil {
		s.settings = *state.Settings
		if s.settings.RestaurantName == "" {
			s.settings.RestaurantName = defaultSettings().RestaurantName
		}
	} else {
		s.settings = defaultSettings()
	}
}

// snapshotState builds the persisted shape. Callers must hold s.mu.
func (s *Store) snapshotState() fileState {
	settings := s.settings
	return fileState{
		Data:       s.data,
		IDCounters: s.ids,
		Settings:   &settings,
	}
}

// scheduleSave marks the state dirty, drops the analytics caches, and
// re-arms the debounce timer; bursts of mutations collapse into one disk
// write. Callers must hold s.mu.
func (s *Store) scheduleSave() {
	s.dirty = true
	s.gen++
	s.dashboardCache = nil
	s.adminCache = nil

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		// A failed background flush must not surface to the caller that
		// triggered it; the in-memory state is still correct and a later
		// flush may succeed.
		if err := s.Flush(); err != nil {
			s.logger.Error("background flush failed", "error", err)
		}
	})
}

// Flush serializes the store to a temporary sibling file and atomically
// renames it over the real path, so the file on disk is always either the
// old complete state or the new complete state. It no-ops when the state
// is clean and the file already exists.
func (s *Store) Flush() error {
	// Flushes share one temp path, so two may never run the write+rename
	// concurrently: a stalled write racing the next debounce timer, or
	// Close racing an already-fired timer, would truncate each other's
	// temp file and could publish a torn state. flushMu serializes the
	// disk side without blocking mutations on s.mu.
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		if _, err := os.Stat(s.path); err == nil {
			s.mu.Unlock()
			return nil
		}
	}
	gen := s.gen
	payload, err := json.MarshalIndent(s.snapshotState(), "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	// The disk write runs outside the lock: a stalled filesystem blocks
	// this flush, not future mutations.
	tmp := s.path + ".tmp"
	if err := writeFileSync(tmp, payload); err != nil {
		return fmt.Errorf("writing temp store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}

	s.mu.Lock()
	// Mutations that landed while writing keep the dirty flag set.
	if s.gen == gen {
		s.dirty = false
	}
	s.mu.Unlock()

	s.logger.Debug("store flushed to disk", "path", s.path)
	return nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
