// ABOUTME: Administrator CRUD and PIN login for the document store
// ABOUTME: Enforces the never-empty-admins invariant on delete

package store

import (
	"fmt"
	"strings"

	"github.com/elsabor/comanda/internal/pin"
)

// Admins returns all administrators sorted by name, with PIN hashes
// stripped.
func (s *Store) Admins() []Admin {
	s.mu.RLock()
	out := make([]Admin, 0, len(s.data.Admins))
	for _, a := range s.data.Admins {
		out = append(out, Admin{ID: a.ID, Name: a.Name, IsPrimary: a.IsPrimary})
	}
	s.mu.RUnlock()

	sortedByName(out, func(a Admin) string { return a.Name })
	return out
}

// AddAdmin validates and stores a new administrator. Unlike waiters, the
// PIN is required.
func (s *Store) AddAdmin(a Admin) (int64, error) {
	if strings.TrimSpace(a.Name) == "" {
		return 0, fmt.Errorf("%w: administrator name is required", ErrValidation)
	}
	if a.PIN == "" {
		return 0, fmt.Errorf("%w: administrator PIN is required", ErrValidation)
	}
	hash, err := pin.Hash(a.PIN)
	if err != nil {
		return 0, fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.ids.Admins
	s.ids.Admins++
	a.Name = strings.TrimSpace(a.Name)
	a.PIN = hash
	s.data.Admins = append(s.data.Admins, a)
	s.scheduleSave()
	return a.ID, nil
}

// UpdateAdmin replaces the administrator's name and primary flag; a
// supplied PIN is re-hashed, an empty one keeps the existing hash.
func (s *Store) UpdateAdmin(id int64, a Admin) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: administrator name is required", ErrValidation)
	}

	hash := ""
	if a.PIN != "" {
		h, err := pin.Hash(a.PIN)
		if err != nil {
			return fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Admins {
		if s.data.Admins[i].ID != id {
			continue
		}
		if hash == "" {
			hash = s.data.Admins[i].PIN
		}
		s.data.Admins[i] = Admin{
			ID:        id,
			Name:      strings.TrimSpace(a.Name),
			PIN:       hash,
			IsPrimary: a.IsPrimary,
		}
		s.scheduleSave()
		return nil
	}
	return fmt.Errorf("administrator %d: %w", id, ErrNotFound)
}

// DeleteAdmin removes an administrator. The collection must never be
// emptied: with one member left the delete is rejected whatever id is
// targeted, so the size check runs before the lookup.
func (s *Store) DeleteAdmin(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data.Admins) <= 1 {
		return ErrLastAdmin
	}

	for i := range s.data.Admins {
		if s.data.Admins[i].ID == id {
			s.data.Admins = append(s.data.Admins[:i], s.data.Admins[i+1:]...)
			s.scheduleSave()
			return nil
		}
	}
	return fmt.Errorf("administrator %d: %w", id, ErrNotFound)
}

// ValidateAdminPIN checks the PIN against every administrator and returns
// the first match. There is no lockout; the back office sits on a trusted
// LAN and the PIN is a convenience lock, not a perimeter.
func (s *Store) ValidateAdminPIN(p string) (Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.data.Admins {
		if pin.Verify(p, a.PIN) {
			return Admin{ID: a.ID, Name: a.Name, IsPrimary: a.IsPrimary}, nil
		}
	}
	return Admin{}, ErrIncorrectPIN
}
