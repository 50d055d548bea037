// ABOUTME: Ticket lifecycle tests: save/merge, rounds, delivery, status, queries
// ABOUTME: Checks the one-open-ticket-per-table and derived-total invariants

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTestWaiter(t *testing.T, st *Store, name string) int64 {
	t.Helper()
	id, err := st.AddWaiter(Waiter{Name: name, PIN: "5678"})
	require.NoError(t, err)
	return id
}

func tacoItems() []LineItem {
	return []LineItem{
		{Name: "Taco de Asada", UnitPrice: 25, Quantity: 3, Category: CategoryProduct},
		{Name: "Agua de Horchata", UnitPrice: 18, Quantity: 2, Category: CategoryDrink},
	}
}

func TestSaveTicket_CreatesOpenTicket(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	tk, err := st.SaveTicket(TicketInput{TableNumber: 4, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	assert.Equal(t, int64(1), tk.ID)
	assert.Equal(t, StatusOpen, tk.Status)
	assert.Equal(t, "Pedro", tk.WaiterName)
	assert.Equal(t, 111.0, tk.Total) // 3*25 + 2*18
	assert.False(t, tk.CreatedAt.IsZero())
}

func TestSaveTicket_Validation(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	_, err := st.SaveTicket(TicketInput{TableNumber: 0, WaiterID: wid, Items: tacoItems()})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = st.SaveTicket(TicketInput{TableNumber: 1, WaiterID: wid})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = st.SaveTicket(TicketInput{TableNumber: 1, WaiterID: wid, Items: []LineItem{{Name: "Taco", UnitPrice: 25, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = st.SaveTicket(TicketInput{TableNumber: 1, WaiterID: 999, Items: tacoItems()})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveTicket_MergesIntoOpenTable(t *testing.T) {
	st := setupEmptyStore(t)
	pedro := addTestWaiter(t, st, "Pedro")
	maria := addTestWaiter(t, st, "María")

	first, err := st.SaveTicket(TicketInput{TableNumber: 7, WaiterID: pedro, Items: tacoItems()})
	require.NoError(t, err)

	merged, err := st.SaveTicket(TicketInput{
		TableNumber: 7,
		WaiterID:    maria,
		Items:       []LineItem{{Name: "Guacamole", UnitPrice: 15, Quantity: 1, Category: CategoryExtra}},
		Note:        "sin picante",
	})
	require.NoError(t, err)

	// Same ticket, combined items, recomputed total, new attribution.
	assert.Equal(t, first.ID, merged.ID)
	assert.Len(t, merged.Items, 3)
	assert.Equal(t, 126.0, merged.Total)
	assert.Equal(t, "María", merged.WaiterName)
	assert.Equal(t, "sin picante", merged.Note)

	require.Len(t, st.OpenTickets(), 1)
}

func TestSaveTicket_ClosedTableGetsNewTicket(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	first, err := st.SaveTicket(TicketInput{TableNumber: 7, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)
	_, err = st.CloseTicket(first.ID)
	require.NoError(t, err)

	second, err := st.SaveTicket(TicketInput{TableNumber: 7, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAddItems_MarksPreviousRoundDelivered(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	tk, err := st.SaveTicket(TicketInput{TableNumber: 2, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	tk, err = st.AddItems(tk.ID, []LineItem{{Name: "Cerveza", UnitPrice: 35, Quantity: 2, Category: CategoryDrink}})
	require.NoError(t, err)

	require.Len(t, tk.Items, 3)
	assert.True(t, tk.Items[0].Delivered)
	assert.True(t, tk.Items[1].Delivered)
	assert.False(t, tk.Items[2].Delivered)
	assert.NotNil(t, tk.Items[2].AddedAt)
	assert.Equal(t, 181.0, tk.Total)

	_, err = st.AddItems(999, tacoItems())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkItemDelivered(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	tk, err := st.SaveTicket(TicketInput{TableNumber: 2, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	tk, err = st.MarkItemDelivered(tk.ID, 1)
	require.NoError(t, err)
	assert.False(t, tk.Items[0].Delivered)
	assert.True(t, tk.Items[1].Delivered)

	_, err = st.MarkItemDelivered(tk.ID, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.MarkItemDelivered(tk.ID, -1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.MarkItemDelivered(999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseTicket(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	tk, err := st.SaveTicket(TicketInput{TableNumber: 2, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	tk, err = st.CloseTicket(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, tk.Status)
	require.NotNil(t, tk.ClosedAt)
	for _, it := range tk.Items {
		assert.True(t, it.Delivered)
	}

	assert.Empty(t, st.OpenTickets())

	_, err = st.CloseTicket(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTicketStatus(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	tk, err := st.SaveTicket(TicketInput{TableNumber: 2, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	tk, err = st.UpdateTicketStatus(tk.ID, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, tk.Status)
	assert.NotNil(t, tk.PaidAt)

	_, err = st.UpdateTicketStatus(tk.ID, "weird")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = st.UpdateTicketStatus(999, StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllTickets_PagingNewestFirst(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		st.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		_, err := st.SaveTicket(TicketInput{TableNumber: i + 1, WaiterID: wid, Items: tacoItems()})
		require.NoError(t, err)
	}

	page := st.AllTickets(2, 0)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Tickets, 2)
	assert.Equal(t, int64(5), page.Tickets[0].ID)
	assert.Equal(t, int64(4), page.Tickets[1].ID)

	page = st.AllTickets(2, 4)
	require.Len(t, page.Tickets, 1)
	assert.Equal(t, int64(1), page.Tickets[0].ID)

	// Offset past the end is an empty page, not an error.
	page = st.AllTickets(2, 10)
	assert.Empty(t, page.Tickets)
	assert.Equal(t, 5, page.Total)

	// No limit returns everything.
	page = st.AllTickets(0, 0)
	assert.Len(t, page.Tickets, 5)
}

func TestTicketsByWaiter(t *testing.T) {
	st := setupEmptyStore(t)
	pedro := addTestWaiter(t, st, "Pedro")
	maria := addTestWaiter(t, st, "María")

	_, err := st.SaveTicket(TicketInput{TableNumber: 1, WaiterID: pedro, Items: tacoItems()})
	require.NoError(t, err)
	_, err = st.SaveTicket(TicketInput{TableNumber: 2, WaiterID: maria, Items: tacoItems()})
	require.NoError(t, err)

	assert.Len(t, st.TicketsByWaiter(pedro), 1)
	assert.Len(t, st.TicketsByWaiter(maria), 1)
	assert.Empty(t, st.TicketsByWaiter(999))
}

func TestTicketsForDay(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	st.now = func() time.Time { return day.Add(30 * time.Minute) } // just after midnight
	_, err := st.SaveTicket(TicketInput{TableNumber: 1, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	st.now = func() time.Time { return day.Add(24*time.Hour - time.Second) } // just before next midnight
	_, err = st.SaveTicket(TicketInput{TableNumber: 2, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	st.now = func() time.Time { return day.Add(25 * time.Hour) } // next day
	_, err = st.SaveTicket(TicketInput{TableNumber: 3, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	assert.Len(t, st.TicketsForDay(day.Add(13*time.Hour)), 2)
	assert.Len(t, st.TicketsForDay(day.Add(25*time.Hour)), 1)
}

func TestTicket_ReturnedCopyIsDetached(t *testing.T) {
	st := setupEmptyStore(t)
	wid := addTestWaiter(t, st, "Pedro")

	tk, err := st.SaveTicket(TicketInput{TableNumber: 1, WaiterID: wid, Items: tacoItems()})
	require.NoError(t, err)

	// Mutating the returned value must not touch store state.
	tk.Items[0].Quantity = 100
	tk.Items[0].Delivered = true

	fresh := st.OpenTickets()[0]
	assert.Equal(t, 3, fresh.Items[0].Quantity)
	assert.False(t, fresh.Items[0].Delivered)
}
