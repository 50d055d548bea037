// ABOUTME: Seed dataset and load-time migration for the document store
// ABOUTME: Upgrades single-admin legacy files and hashes plaintext PINs

package store

import (
	"fmt"

	"github.com/elsabor/comanda/internal/pin"
)

// defaultSettings returns the settings record a fresh installation starts
// with.
func defaultSettings() Settings {
	return Settings{
		RestaurantName:  "TAQUERÍA EL SABOR",
		Address:         "Dirección no configurada",
		ThankYouMessage: "¡Gracias por su preferencia!",
		TipEnabled:      true,
	}
}

// seed fills an empty store with the sample menu and one primary
// administrator using the default PIN.
func (s *Store) seed() error {
	adminHash, err := pin.Hash(DefaultPIN)
	if err != nil {
		return fmt.Errorf("hashing default admin PIN: %w", err)
	}

	s.data = collections{
		Products: []Product{
			{ID: 1, Name: "Taco de Asada", Price: 25, Description: "Con cebolla y cilantro"},
			{ID: 2, Name: "Taco de Pastor", Price: 22, Description: "Con piña"},
			{ID: 3, Name: "Taco de Carnitas", Price: 23},
			{ID: 4, Name: "Quesadilla", Price: 35, Description: "Queso Oaxaca"},
		},
		Drinks: []Drink{
			{ID: 1, Name: "Agua de Horchata", Price: 18, Size: "Vaso grande"},
			{ID: 2, Name: "Agua de Jamaica", Price: 18, Size: "Vaso grande"},
			{ID: 3, Name: "Refresco", Price: 20, Size: "600ml"},
			{ID: 4, Name: "Cerveza", Price: 35},
		},
		Extras: []Extra{
			{ID: 1, Name: "Guacamole", Price: 15},
			{ID: 2, Name: "Queso Extra", Price: 10},
			{ID: 3, Name: "Orden de Frijoles", Price: 12},
		},
		Waiters: []Waiter{},
		Admins: []Admin{
			{ID: 1, Name: "Administrador", PIN: adminHash, IsPrimary: true},
		},
		Tickets: []*Ticket{},
	}
	s.ids = idCounters{
		Products: 5,
		Drinks:   5,
		Extras:   4,
		Waiters:  1,
		Admins:   2,
		Tickets:  1,
	}
	s.settings = defaultSettings()
	return nil
}

// migrate runs on every load. It is a one-way structural upgrade: a file
// without an administrator collection gets one synthesized from the legacy
// single-admin PIN field, and any plaintext PIN is hashed in place.
// Reports whether the in-memory state changed.
func (s *Store) migrate(state fileState) (bool, error) {
	changed := false

	if len(s.data.Admins) == 0 {
		hash := ""
		if state.LegacyAdminPIN != "" {
			h, _, err := pin.ParseCredential(state.LegacyAdminPIN).Ensure()
			if err != nil {
				// A mangled legacy PIN must not brick the back office.
				s.logger.Warn("legacy admin PIN unusable, falling back to default", "error", err)
			} else {
				hash = h
			}
		}
		if hash == "" {
			h, err := pin.Hash(DefaultPIN)
			if err != nil {
				return false, fmt.Errorf("hashing default admin PIN: %w", err)
			}
			hash = h
		}

		id := s.ids.Admins
		if id < 1 {
			id = 1
		}
		s.data.Admins = append(s.data.Admins, Admin{
			ID:        id,
			Name:      "Administrador",
			PIN:       hash,
			IsPrimary: true,
		})
		s.ids.Admins = id + 1
		changed = true
	}

	for i := range s.data.Admins {
		a := &s.data.Admins[i]
		if pin.IsHashed(a.PIN) {
			continue
		}
		hash, _, err := pin.ParseCredential(a.PIN).Ensure()
		if err != nil || a.PIN == "" {
			s.logger.Warn("admin PIN unusable, resetting to default", "admin_id", a.ID)
			hash, err = pin.Hash(DefaultPIN)
			if err != nil {
				return false, fmt.Errorf("hashing default admin PIN: %w", err)
			}
		}
		a.PIN = hash
		changed = true
	}

	for i := range s.data.Waiters {
		w := &s.data.Waiters[i]
		if pin.IsHashed(w.PIN) {
			continue
		}
		cred := pin.ParseCredential(w.PIN)
		hash, _, err := cred.Ensure()
		if err != nil || w.PIN == "" {
			s.logger.Warn("waiter PIN unusable, resetting to default", "waiter_id", w.ID)
			hash, err = pin.Hash(DefaultPIN)
			if err != nil {
				return false, fmt.Errorf("hashing default waiter PIN: %w", err)
			}
		}
		w.PIN = hash
		changed = true
	}

	if s.fixCounters() {
		changed = true
	}

	return changed, nil
}

// fixCounters raises any id counter that lags behind an existing id, which
// protects id uniqueness against hand-edited or partially restored files.
func (s *Store) fixCounters() bool {
	changed := false
	bump := func(counter *int64, maxID int64) {
		if *counter < 1 {
			*counter = 1
			changed = true
		}
		if *counter <= maxID {
			*counter = maxID + 1
			changed = true
		}
	}

	var maxProduct, maxDrink, maxExtra, maxWaiter, maxAdmin, maxTicket int64
	for _, p := range s.data.Products {
		maxProduct = max(maxProduct, p.ID)
	}
	for _, d := range s.data.Drinks {
		maxDrink = max(maxDrink, d.ID)
	}
	for _, e := range s.data.Extras {
		maxExtra = max(maxExtra, e.ID)
	}
	for _, w := range s.data.Waiters {
		maxWaiter = max(maxWaiter, w.ID)
	}
	for _, a := range s.data.Admins {
		maxAdmin = max(maxAdmin, a.ID)
	}
	for _, t := range s.data.Tickets {
		maxTicket = max(maxTicket, t.ID)
	}

	bump(&s.ids.Products, maxProduct)
	bump(&s.ids.Drinks, maxDrink)
	bump(&s.ids.Extras, maxExtra)
	bump(&s.ids.Waiters, maxWaiter)
	bump(&s.ids.Admins, maxAdmin)
	bump(&s.ids.Tickets, maxTicket)

	return changed
}
