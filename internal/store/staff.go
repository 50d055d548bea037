// ABOUTME: Waiter CRUD and PIN login for the document store
// ABOUTME: PINs are hashed before storage and never leave the store

package store

import (
	"fmt"
	"strings"

	"github.com/elsabor/comanda/internal/pin"
)

func validateWaiterName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: waiter name is required", ErrValidation)
	}
	return nil
}

// Waiters returns all waiters sorted by name, with PIN hashes stripped.
func (s *Store) Waiters() []Waiter {
	s.mu.RLock()
	out := make([]Waiter, 0, len(s.data.Waiters))
	for _, w := range s.data.Waiters {
		out = append(out, Waiter{ID: w.ID, Name: w.Name})
	}
	s.mu.RUnlock()

	sortedByName(out, func(w Waiter) string { return w.Name })
	return out
}

// AddWaiter validates and stores a new waiter, returning the id. The PIN
// is optional and defaults to DefaultPIN; either way only the hash is
// stored.
func (s *Store) AddWaiter(w Waiter) (int64, error) {
	if err := validateWaiterName(w.Name); err != nil {
		return 0, err
	}

	p := w.PIN
	if p == "" {
		p = DefaultPIN
	}
	hash, err := pin.Hash(p)
	if err != nil {
		return 0, fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w.ID = s.ids.Waiters
	s.ids.Waiters++
	w.Name = strings.TrimSpace(w.Name)
	w.PIN = hash
	s.data.Waiters = append(s.data.Waiters, w)
	s.scheduleSave()
	return w.ID, nil
}

// UpdateWaiter replaces the waiter's name and, when a PIN is supplied,
// re-hashes it. An empty PIN keeps the existing hash.
func (s *Store) UpdateWaiter(id int64, w Waiter) error {
	if err := validateWaiterName(w.Name); err != nil {
		return err
	}

	hash := ""
	if w.PIN != "" {
		h, err := pin.Hash(w.PIN)
		if err != nil {
			return fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Waiters {
		if s.data.Waiters[i].ID != id {
			continue
		}
		if hash == "" {
			hash = s.data.Waiters[i].PIN
		}
		s.data.Waiters[i] = Waiter{
			ID:   id,
			Name: strings.TrimSpace(w.Name),
			PIN:  hash,
		}
		s.scheduleSave()
		return nil
	}
	return fmt.Errorf("waiter %d: %w", id, ErrNotFound)
}

// DeleteWaiter removes the waiter with the given id.
func (s *Store) DeleteWaiter(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Waiters {
		if s.data.Waiters[i].ID == id {
			s.data.Waiters = append(s.data.Waiters[:i], s.data.Waiters[i+1:]...)
			s.scheduleSave()
			return nil
		}
	}
	return fmt.Errorf("waiter %d: %w", id, ErrNotFound)
}

// ValidateWaiterPIN checks a waiter's PIN and returns the waiter's public
// identity on success. A missing waiter and a wrong PIN both report
// ErrIncorrectPIN; the distinction is only logged.
func (s *Store) ValidateWaiterPIN(id int64, p string) (Waiter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.data.Waiters {
		if w.ID != id {
			continue
		}
		if pin.Verify(p, w.PIN) {
			return Waiter{ID: w.ID, Name: w.Name}, nil
		}
		return Waiter{}, ErrIncorrectPIN
	}

	s.logger.Debug("PIN check for unknown waiter", "waiter_id", id)
	return Waiter{}, ErrIncorrectPIN
}
