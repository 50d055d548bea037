// ABOUTME: Validated CRUD for the catalog kinds: products, drinks, extras
// ABOUTME: Listings are locale-collated so accented names sort next to their base letters

package store

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortedByName sorts in place with Spanish collation, so "Árbol" lands by
// "Agua" instead of after "Zanahoria".
func sortedByName[T any](items []T, name func(T) string) {
	coll := collate.New(language.Spanish)
	sort.SliceStable(items, func(i, j int) bool {
		return coll.CompareString(name(items[i]), name(items[j])) < 0
	})
}

// Products returns all products sorted by name.
func (s *Store) Products() []Product {
	s.mu.RLock()
	out := make([]Product, len(s.data.Products))
	copy(out, s.data.Products)
	s.mu.RUnlock()

	sortedByName(out, func(p Product) string { return p.Name })
	return out
}

// AddProduct validates and stores a new product, returning its id.
func (s *Store) AddProduct(p Product) (int64, error) {
	if err := validateEntity(p.Name, p.Price); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.ids.Products
	s.ids.Products++
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	s.data.Products = append(s.data.Products, p)
	s.scheduleSave()
	return p.ID, nil
}

// UpdateProduct replaces every mutable field of the product with the given
// id. The id itself is immutable.
func (s *Store) UpdateProduct(id int64, p Product) error {
	if err := validateEntity(p.Name, p.Price); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Products {
		if s.data.Products[i].ID != id {
			continue
		}
		s.data.Products[i] = Product{
			ID:          id,
			Name:        strings.TrimSpace(p.Name),
			Price:       p.Price,
			Description: strings.TrimSpace(p.Description),
		}
		s.scheduleSave()
		return nil
	}
	return fmt.Errorf("product %d: %w", id, ErrNotFound)
}

// DeleteProduct removes the product with the given id.
func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Products {
		if s.data.Products[i].ID == id {
			s.data.Products = append(s.data.Products[:i], s.data.Products[i+1:]...)
			s.scheduleSave()
			return nil
		}
	}
	return fmt.Errorf("product %d: %w", id, ErrNotFound)
}

// Drinks returns all drinks sorted by name.
func (s *Store) Drinks() []Drink {
	s.mu.RLock()
	out := make([]Drink, len(s.data.Drinks))
	copy(out, s.data.Drinks)
	s.mu.RUnlock()

	sortedByName(out, func(d Drink) string { return d.Name })
	return out
}

// AddDrink validates and stores a new drink, returning its id.
func (s *Store) AddDrink(d Drink) (int64, error) {
	if err := validateEntity(d.Name, d.Price); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.ids.Drinks
	s.ids.Drinks++
	d.Name = strings.TrimSpace(d.Name)
	d.Size = strings.TrimSpace(d.Size)
	s.data.Drinks = append(s.data.Drinks, d)
	s.scheduleSave()
	return d.ID, nil
}

// UpdateDrink replaces every mutable field of the drink with the given id.
func (s *Store) UpdateDrink(id int64, d Drink) error {
	if err := validateEntity(d.Name, d.Price); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Drinks {
		if s.data.Drinks[i].ID != id {
			continue
		}
		s.data.Drinks[i] = Drink{
			ID:    id,
			Name:  strings.TrimSpace(d.Name),
			Price: d.Price,
			Size:  strings.TrimSpace(d.Size),
		}
		s.scheduleSave()
		return nil
	}
	return fmt.Errorf("drink %d: %w", id, ErrNotFound)
}

// DeleteDrink removes the drink with the given id.
func (s *Store) DeleteDrink(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Drinks {
		if s.data.Drinks[i].ID == id {
			s.data.Drinks = append(s.data.Drinks[:i], s.data.Drinks[i+1:]...)
			s.scheduleSave()
			return nil
		}
	}
	return fmt.Errorf("drink %d: %w", id, ErrNotFound)
}

// Extras returns all extras sorted by name.
func (s *Store) Extras() []Extra {
	s.mu.RLock()
	out := make([]Extra, len(s.data.Extras))
	copy(out, s.data.Extras)
	s.mu.RUnlock()

	sortedByName(out, func(e Extra) string { return e.Name })
	return out
}

// AddExtra validates and stores a new extra, returning its id.
func (s *Store) AddExtra(e Extra) (int64, error) {
	if err := validateEntity(e.Name, e.Price); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.ids.Extras
	s.ids.Extras++
	e.Name = strings.TrimSpace(e.Name)
	s.data.Extras = append(s.data.Extras, e)
	s.scheduleSave()
	return e.ID, nil
}

// UpdateExtra replaces every mutable field of the extra with the given id.
func (s *Store) UpdateExtra(id int64, e Extra) error {
	if err := validateEntity(e.Name, e.Price); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Extras {
		if s.data.Extras[i].ID != id {
			continue
		}
		s.data.Extras[i] = Extra{
			ID:    id,
			Name:  strings.TrimSpace(e.Name),
			Price: e.Price,
		}
		s.scheduleSave()
		return nil
	}
	return fmt.Errorf("extra %d: %w", id, ErrNotFound)
}

// DeleteExtra removes the extra with the given id.
func (s *Store) DeleteExtra(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Extras {
		if s.data.Extras[i].ID == id {
			s.data.Extras = append(s.data.Extras[:i], s.data.Extras[i+1:]...)
			s.scheduleSave()
			return nil
		}
	}
	return fmt.Errorf("extra %d: %w", id, ErrNotFound)
}
