// ABOUTME: SQLite export of the store for backups and outside analysis
// ABOUTME: One table per collection, ticket items as a JSON column

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/elsabor/comanda/internal/store"
)

const schema = `
CREATE TABLE products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	description TEXT
);
CREATE TABLE drinks (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	size TEXT
);
CREATE TABLE extras (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL NOT NULL
);
CREATE TABLE waiters (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE admins (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	is_primary INTEGER NOT NULL
);
CREATE TABLE tickets (
	id INTEGER PRIMARY KEY,
	table_number INTEGER NOT NULL,
	waiter_id INTEGER NOT NULL,
	waiter_name TEXT NOT NULL,
	items TEXT NOT NULL,
	total REAL NOT NULL,
	status TEXT NOT NULL,
	note TEXT,
	created_at TEXT NOT NULL,
	closed_at TEXT,
	paid_at TEXT
);
CREATE TABLE settings (
	restaurant_name TEXT NOT NULL,
	address TEXT,
	contact TEXT,
	thank_you_message TEXT,
	footer_message TEXT,
	tip_enabled INTEGER NOT NULL
);
`

// Export dumps the whole store into a fresh SQLite file at path. Ticket
// line items land as a JSON column, the shape downstream tooling already
// reads. PIN hashes are deliberately left out: a backup handed to an
// accountant must not carry credentials.
func Export(ctx context.Context, st *store.Store, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default().With("component", "export")
	}

	// Refuse to clobber an existing file; backups should be append-only
	// history, not silent overwrites.
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("export target %s already exists", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("creating export database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating export schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting export transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range st.Products() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO products (id, name, price, description) VALUES (?, ?, ?, ?)",
			p.ID, p.Name, p.Price, p.Description); err != nil {
			return fmt.Errorf("exporting product %d: %w", p.ID, err)
		}
	}
	for _, d := range st.Drinks() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO drinks (id, name, price, size) VALUES (?, ?, ?, ?)",
			d.ID, d.Name, d.Price, d.Size); err != nil {
			return fmt.Errorf("exporting drink %d: %w", d.ID, err)
		}
	}
	for _, e := range st.Extras() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO extras (id, name, price) VALUES (?, ?, ?)",
			e.ID, e.Name, e.Price); err != nil {
			return fmt.Errorf("exporting extra %d: %w", e.ID, err)
		}
	}
	for _, w := range st.Waiters() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO waiters (id, name) VALUES (?, ?)",
			w.ID, w.Name); err != nil {
			return fmt.Errorf("exporting waiter %d: %w", w.ID, err)
		}
	}
	for _, a := range st.Admins() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO admins (id, name, is_primary) VALUES (?, ?, ?)",
			a.ID, a.Name, a.IsPrimary); err != nil {
			return fmt.Errorf("exporting admin %d: %w", a.ID, err)
		}
	}

	page := st.AllTickets(0, 0)
	for _, t := range page.Tickets {
		items, err := json.Marshal(t.Items)
		if err != nil {
			return fmt.Errorf("encoding items of ticket %d: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tickets
			 (id, table_number, waiter_id, waiter_name, items, total, status, note, created_at, closed_at, paid_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.TableNumber, t.WaiterID, t.WaiterName, string(items), t.Total,
			string(t.Status), t.Note, t.CreatedAt.Format(time.RFC3339Nano),
			timePtr(t.ClosedAt), timePtr(t.PaidAt)); err != nil {
			return fmt.Errorf("exporting ticket %d: %w", t.ID, err)
		}
	}

	settings := st.Settings()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings
		 (restaurant_name, address, contact, thank_you_message, footer_message, tip_enabled)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		settings.RestaurantName, settings.Address, settings.Contact,
		settings.ThankYouMessage, settings.FooterMessage, settings.TipEnabled); err != nil {
		return fmt.Errorf("exporting settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}

	logger.Info("store exported",
		"path", path,
		"tickets", len(page.Tickets),
		"products", len(st.Products()))
	return nil
}

// timePtr renders an optional timestamp as RFC 3339 or SQL NULL.
func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
