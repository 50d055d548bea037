// ABOUTME: Store type, entity models, and sentinel errors for the POS document store
// ABOUTME: Owns the in-memory object graph persisted to a single JSON file

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"time"
)

// Sentinel errors for the store API. Mutating operations wrap ErrValidation
// with field-level detail, so errors.Is works on every returned error.
var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("invalid input")

	// ErrLastAdmin is returned when a delete would leave the administrator
	// collection empty.
	ErrLastAdmin = errors.New("cannot delete the last administrator")

	// ErrIncorrectPIN is returned for any failed PIN check. A missing staff
	// member and a wrong PIN both surface this error, so callers cannot
	// enumerate ids.
	ErrIncorrectPIN = errors.New("incorrect PIN")
)

// DefaultPIN is assigned to waiters created without an explicit PIN and to
// the administrator synthesized during migration of legacy data.
const DefaultPIN = "1234"

// DefaultDebounce is the delay between a mutation and the disk write.
const DefaultDebounce = 2 * time.Second

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen      TicketStatus = "open"
	StatusClosed    TicketStatus = "closed"
	StatusPaid      TicketStatus = "paid"
	StatusCancelled TicketStatus = "cancelled"
)

// Category classifies a ticket line item for analytics.
type Category string

const (
	CategoryProduct Category = "products"
	CategoryDrink   Category = "drinks"
	CategoryExtra   Category = "extras"
)

// Product is a food item on the menu.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Drink is a beverage on the menu.
type Drink struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Size  string  `json:"size,omitempty"`
}

// Extra is a side or add-on on the menu.
type Extra struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Waiter is a staff member who opens tickets. PIN holds the bcrypt hash and
// is stripped from every listing the store hands out.
type Waiter struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	PIN  string `json:"pin,omitempty"`
}

// Admin is a staff member with access to the back office.
type Admin struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PIN       string `json:"pin,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// Settings is the single mutable restaurant configuration record.
type Settings struct {
	RestaurantName  string `json:"restaurantName"`
	Address         string `json:"address,omitempty"`
	Contact         string `json:"contact,omitempty"`
	ThankYouMessage string `json:"thankYouMessage,omitempty"`
	FooterMessage   string `json:"footerMessage,omitempty"`
	TipEnabled      bool   `json:"enableTip"`
}

// SettingsPatch is a partial settings update; nil fields keep their current
// value.
type SettingsPatch struct {
	RestaurantName  *string `json:"restaurantName"`
	Address         *string `json:"address"`
	Contact         *string `json:"contact"`
	ThankYouMessage *string `json:"thankYouMessage"`
	FooterMessage   *string `json:"footerMessage"`
	TipEnabled      *bool   `json:"enableTip"`
}

// LineItem is one line on a ticket. Category may be empty on legacy data,
// in which case it is inferred by name at read time.
type LineItem struct {
	Name      string     `json:"name"`
	UnitPrice float64    `json:"unitPrice"`
	Quantity  int        `json:"quantity"`
	Category  Category   `json:"category,omitempty"`
	Delivered bool       `json:"delivered"`
	AddedAt   *time.Time `json:"addedAt,omitempty"`
}

// Ticket is an open or settled customer order tied to a table and a waiter.
// WaiterID/WaiterName are a snapshot of whoever last touched the ticket.
// CreatedAt moves forward when new items are merged into an open ticket; it
// is the ticket's last-activity date and drives sorting and day filtering,
// matching the legacy data this store migrates.
type Ticket struct {
	ID          int64        `json:"id"`
	TableNumber int          `json:"tableNumber"`
	WaiterID    int64        `json:"waiterId"`
	WaiterName  string       `json:"waiterName"`
	Items       []LineItem   `json:"items"`
	Total       float64      `json:"total"`
	Status      TicketStatus `json:"status"`
	Note        string       `json:"note,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	ClosedAt    *time.Time   `json:"closedAt,omitempty"`
	PaidAt      *time.Time   `json:"paidAt,omitempty"`
}

// TicketInput is the payload for SaveTicket.
type TicketInput struct {
	TableNumber int        `json:"tableNumber"`
	WaiterID    int64      `json:"waiterId"`
	Items       []LineItem `json:"items"`
	Note        string     `json:"note,omitempty"`
}

// TicketPage is a window into the ticket history.
type TicketPage struct {
	Tickets []Ticket `json:"tickets"`
	Total   int      `json:"total"`
}

// collections is every entity collection the store owns.
type collections struct {
	Products []Product `json:"products"`
	Drinks   []Drink   `json:"drinks"`
	Extras   []Extra   `json:"extras"`
	Waiters  []Waiter  `json:"waiters"`
	Admins   []Admin   `json:"admins"`
	Tickets  []*Ticket `json:"tickets"`
}

// idCounters holds the next id per entity kind.
type idCounters struct {
	Products int64 `json:"products"`
	Drinks   int64 `json:"drinks"`
	Extras   int64 `json:"extras"`
	Waiters  int64 `json:"waiters"`
	Admins   int64 `json:"admins"`
	Tickets  int64 `json:"tickets"`
}

// fileState is the persisted shape of the store. The legacy fields are read
// during migration and never written back: nextIds was the counters key of
// the first file revision, adminPin its single-admin credential.
type fileState struct {
	Data       collections `json:"data"`
	IDCounters idCounters  `json:"idCounters"`
	Settings   *Settings   `json:"settings,omitempty"`

	LegacyNextIDs  *idCounters `json:"nextIds,omitempty"`
	LegacyAdminPIN string      `json:"adminPin,omitempty"`
}

// Options configures Open.
type Options struct {
	// Debounce overrides the 2s write-coalescing window. Mainly for tests.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Store owns the whole mutable POS state graph: catalog, staff, tickets,
// settings, id counters, the analytics cache, and the debounced persistence
// machinery. Construct it once with Open and pass the handle around; there
// is no ambient global.
type Store struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	data     collections
	ids      idCounters
	settings Settings

	dirty   bool
	gen     uint64
	timer   *time.Timer
	flushMu sync.Mutex

	dashboardCache  *DashboardStats
	adminCache      *AdminStats
	statsRecomputes int
}

// Open loads the store file at path, or seeds a fresh dataset when the file
// is missing. An unparsable file is copied to a timestamped quarantine
// sibling before reseeding, so no data is ever silently discarded. After
// loading, a synchronous flush guarantees the file reflects memory.
func Open(path string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "store")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	s := &Store{
		path:     path,
		debounce: debounce,
		logger:   logger,
		now:      time.Now,
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seeding store: %w", err)
		}
		s.dirty = true
		logger.Info("no store file found, seeded sample data", "path", path)
	case err != nil:
		return nil, fmt.Errorf("reading store file: %w", err)
	default:
		var state fileState
		if jerr := unmarshalState(raw, &state); jerr != nil {
			qpath, qerr := quarantine(path, raw, s.now())
			if qerr != nil {
				// Reseeding would flush over the only copy of the
				// unreadable file. Without a quarantine, refuse to open.
				logger.Error("store file corrupt and quarantine failed", "error", jerr, "quarantine_error", qerr)
				return nil, fmt.Errorf("store file corrupt (%v) and quarantine failed: %w", jerr, qerr)
			}
			logger.Error("store file corrupt, quarantined", "error", jerr, "quarantine", qpath)
			if err := s.seed(); err != nil {
				return nil, fmt.Errorf("seeding store: %w", err)
			}
			s.dirty = true
		} else {
			s.load(state)
			changed, merr := s.migrate(state)
			if merr != nil {
				return nil, fmt.Errorf("migrating store: %w", merr)
			}
			if changed {
				s.dirty = true
				logger.Info("store migration applied", "path", path)
			}
		}
	}

	// The file must always reflect the in-memory state at startup.
	if err := s.Flush(); err != nil {
		return nil, fmt.Errorf("initial flush: %w", err)
	}
	return s, nil
}

// Close cancels any pending debounced write and drains the dirty flag with
// a final synchronous flush. Call it before process exit or the last
// debounce window of mutations is lost.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.Flush()
}

// validateEntity checks the fields shared by every catalog kind.
func validateEntity(name string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}
	return nil
}

// round2 keeps monetary values consistent at two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func itemsTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return round2(sum)
}
