// ABOUTME: Settings accessors for the document store
// ABOUTME: Partial updates overlay onto the current record

package store

import (
	"fmt"
	"strings"
)

// Settings returns the current settings record.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges the non-nil fields of the patch onto the current
// record and returns the result. Blanking the restaurant name is rejected.
func (s *Store) UpdateSettings(p SettingsPatch) (Settings, error) {
	if p.RestaurantName != nil && strings.TrimSpace(*p.RestaurantName) == "" {
		return Settings{}, fmt.Errorf("%w: restaurant name is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.RestaurantName != nil {
		s.settings.RestaurantName = strings.TrimSpace(*p.RestaurantName)
	}
	if p.Address != nil {
		s.settings.Address = *p.Address
	}
	if p.Contact != nil {
		s.settings.Contact = *p.Contact
	}
	if p.ThankYouMessage != nil {
		s.settings.ThankYouMessage = *p.ThankYouMessage
	}
	if p.FooterMessage != nil {
		s.settings.FooterMessage = *p.FooterMessage
	}
	if p.TipEnabled != nil {
		s.settings.TipEnabled = *p.TipEnabled
	}

	s.scheduleSave()
	return s.settings, nil
}
