// ABOUTME: Ticket lifecycle: save/merge, item rounds, delivery, status changes, queries
// ABOUTME: Keeps the one-open-ticket-per-table and derived-total invariants

package store

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

func validStatus(st TicketStatus) bool {
	switch st {
	case StatusOpen, StatusClosed, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: ticket needs at least one item", ErrValidation)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: item name is required", ErrValidation)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: item price must be non-negative", ErrValidation)
		}
	}
	return nil
}

// cloneTicket returns a deep copy safe to hand to callers.
func cloneTicket(t *Ticket) Ticket {
	out := *t
	out.Items = make([]LineItem, len(t.Items))
	copy(out.Items, t.Items)
	return out
}

// findTicket returns the ticket with the given id. Callers must hold s.mu.
func (s *Store) findTicket(id int64) *Ticket {
	for _, t := range s.data.Tickets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Ticket returns a copy of the ticket with the given id.
func (s *Store) Ticket(id int64) (Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.findTicket(id)
	if t == nil {
		return Ticket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	return cloneTicket(t), nil
}

// SaveTicket stores a new order. A table with a ticket still open does not
// get a second one: the items are appended to the existing ticket, the
// total recomputed, and the waiter attribution moves to the caller. The
// merged or created ticket is returned.
func (s *Store) SaveTicket(in TicketInput) (Ticket, error) {
	if in.TableNumber <= 0 {
		return Ticket{}, fmt.Errorf("%w: table number must be positive", ErrValidation)
	}
	if err := validateItems(in.Items); err != nil {
		return Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var waiter *Waiter
	for i := range s.data.Waiters {
		if s.data.Waiters[i].ID == in.WaiterID {
			waiter = &s.data.Waiters[i]
			break
		}
	}
	if waiter == nil {
		return Ticket{}, fmt.Errorf("%w: unknown waiter %d", ErrValidation, in.WaiterID)
	}

	now := s.now()
	items := make([]LineItem, len(in.Items))
	copy(items, in.Items)

	for _, t := range s.data.Tickets {
		if t.TableNumber != in.TableNumber || t.Status != StatusOpen {
			continue
		}
		t.Items = append(t.Items, items...)
		t.Total = itemsTotal(t.Items)
		t.WaiterID = waiter.ID
		t.WaiterName = waiter.Name
		if in.Note != "" {
			t.Note = in.Note
		}
		t.CreatedAt = now
		s.scheduleSave()
		return cloneTicket(t), nil
	}

	t := &Ticket{
		ID:          s.ids.Tickets,
		TableNumber: in.TableNumber,
		WaiterID:    waiter.ID,
		WaiterName:  waiter.Name,
		Items:       items,
		Total:       itemsTotal(items),
		Status:      StatusOpen,
		Note:        in.Note,
		CreatedAt:   now,
	}
	s.ids.Tickets++
	s.data.Tickets = append(s.data.Tickets, t)
	s.scheduleSave()
	return cloneTicket(t), nil
}

// AddItems appends a new round to a ticket. Everything already on the
// ticket is marked delivered first: asking for more implies the previous
// round reached the table.
func (s *Store) AddItems(ticketID int64, items []LineItem) (Ticket, error) {
	if err := validateItems(items); err != nil {
		return Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	if t == nil {
		return Ticket{}, fmt.Errorf("ticket %d: %w", ticketID, ErrNotFound)
	}

	for i := range t.Items {
		t.Items[i].Delivered = true
	}

	now := s.now()
	for _, it := range items {
		it.Delivered = false
		it.AddedAt = &now
		t.Items = append(t.Items, it)
	}
	t.Total = itemsTotal(t.Items)

	s.scheduleSave()
	return cloneTicket(t), nil
}

// MarkItemDelivered flags a single line item as served.
func (s *Store) MarkItemDelivered(ticketID int64, index int) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	if t == nil {
		return Ticket{}, fmt.Errorf("ticket %d: %w", ticketID, ErrNotFound)
	}
	if index < 0 || index >= len(t.Items) {
		return Ticket{}, fmt.Errorf("ticket %d item %d: %w", ticketID, index, ErrNotFound)
	}

	t.Items[index].Delivered = true
	s.scheduleSave()
	return cloneTicket(t), nil
}

// CloseTicket completes a ticket: status closed, closing time stamped, and
// every item marked delivered.
func (s *Store) CloseTicket(ticketID int64) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	if t == nil {
		return Ticket{}, fmt.Errorf("ticket %d: %w", ticketID, ErrNotFound)
	}

	now := s.now()
	t.Status = StatusClosed
	t.ClosedAt = &now
	for i := range t.Items {
		t.Items[i].Delivered = true
	}

	s.scheduleSave()
	return cloneTicket(t), nil
}

// UpdateTicketStatus moves a ticket to the given state; "paid" stamps the
// payment time.
func (s *Store) UpdateTicketStatus(ticketID int64, status TicketStatus) (Ticket, error) {
	if !validStatus(status) {
		return Ticket{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	if t == nil {
		return Ticket{}, fmt.Errorf("ticket %d: %w", ticketID, ErrNotFound)
	}

	t.Status = status
	if status == StatusPaid {
		now := s.now()
		t.PaidAt = &now
	}

	s.scheduleSave()
	return cloneTicket(t), nil
}

func sortNewestFirst(out []Ticket) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}

// OpenTickets returns every open ticket, newest first.
func (s *Store) OpenTickets() []Ticket {
	s.mu.RLock()
	out := make([]Ticket, 0)
	for _, t := range s.data.Tickets {
		if t.Status == StatusOpen {
			out = append(out, cloneTicket(t))
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// AllTickets returns the ticket history newest first. A positive limit
// selects a page window; limit <= 0 returns everything. Total always
// carries the full history size.
func (s *Store) AllTickets(limit, offset int) TicketPage {
	s.mu.RLock()
	out := make([]Ticket, 0, len(s.data.Tickets))
	for _, t := range s.data.Tickets {
		out = append(out, cloneTicket(t))
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	total := len(out)

	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		if offset > total {
			offset = total
		}
		end := offset + limit
		if end > total {
			end = total
		}
		out = out[offset:end]
	}
	return TicketPage{Tickets: out, Total: total}
}

// TicketsByWaiter returns every ticket attributed to the waiter, newest
// first.
func (s *Store) TicketsByWaiter(waiterID int64) []Ticket {
	s.mu.RLock()
	out := make([]Ticket, 0)
	for _, t := range s.data.Tickets {
		if t.WaiterID == waiterID {
			out = append(out, cloneTicket(t))
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// dayWindow returns the inclusive local-time bounds of the given day; a
// zero day means today.
func (s *Store) dayWindow(day time.Time) (time.Time, time.Time) {
	if day.IsZero() {
		day = s.now()
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// TicketsForDay returns every ticket whose activity date falls inside the
// given day's full 24h window, newest first.
func (s *Store) TicketsForDay(day time.Time) []Ticket {
	start, end := s.dayWindow(day)

	s.mu.RLock()
	out := make([]Ticket, 0)
	for _, t := range s.data.Tickets {
		if !t.CreatedAt.Before(start) && !t.CreatedAt.After(end) {
			out = append(out, cloneTicket(t))
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// categoryOf resolves a line item's category, inferring missing tags by
// name against the live drink and extra collections with the product
// category as fallback. The by-name lookup goes stale when catalog entries
// are renamed; that is long-standing behavior the historical data depends
// on. Callers must hold s.mu.
func (s *Store) categoryOf(it LineItem) Category {
	if it.Category != "" {
		return it.Category
	}
	for _, d := range s.data.Drinks {
		if d.Name == it.Name {
			return CategoryDrink
		}
	}
	for _, e := range s.data.Extras {
		if e.Name == it.Name {
			return CategoryExtra
		}
	}
	return CategoryProduct
}
