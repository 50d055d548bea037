// ABOUTME: Sales report tests: waiter range reports and daily summaries
// ABOUTME: Reports must count paid tickets only

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payTicket saves a ticket and walks it to paid.
func payTicket(t *testing.T, st *Store, table int, waiterID int64, items []LineItem) Ticket {
	t.Helper()
	tk, err := st.SaveTicket(TicketInput{TableNumber: table, WaiterID: waiterID, Items: items})
	require.NoError(t, err)
	tk, err = st.UpdateTicketStatus(tk.ID, StatusPaid)
	require.NoError(t, err)
	return tk
}

func TestWaiterSalesReport(t *testing.T) {
	st := setupEmptyStore(t)
	pedro := addTestWaiter(t, st, "Pedro")
	maria := addTestWaiter(t, st, "María")

	day := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	st.now = func() time.Time { return day }

	payTicket(t, st, 1, pedro, []LineItem{{Name: "Taco de Asada", UnitPrice: 25, Quantity: 4}}) // 100
	payTicket(t, st, 2, pedro, []LineItem{{Name: "Quesadilla", UnitPrice: 35, Quantity: 2}})    // 70
	payTicket(t, st, 3, maria, []LineItem{{Name: "Cerveza", UnitPrice: 35, Quantity: 1}})

	// An open ticket never counts.
	_, err := st.SaveTicket(TicketInput{TableNumber: 4, WaiterID: pedro, Items: tacoItems()})
	require.NoError(t, err)

	report := st.WaiterSalesReport(pedro, time.Time{}, time.Time{})
	assert.Equal(t, "Pedro", report.WaiterName)
	assert.Equal(t, 170.0, report.TotalSales)
	assert.Equal(t, 2, report.TicketCount)
	assert.Equal(t, 85.0, report.AverageTicket)
	assert.Len(t, report.Tickets, 2)
}

func TestWaiterSalesReport_RangeBounds(t *testing.T) {
	st := setupEmptyStore(t)
	pedro := addTestWaiter(t, st, "Pedro")

	inDay := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	outDay := time.Date(2026, 3, 20, 14, 0, 0, 0, time.Local)

	st.now = func() time.Time { return inDay }
	payTicket(t, st, 1, pedro, []LineItem{{Name: "Taco", UnitPrice: 25, Quantity: 1}})

	st.now = func() time.Time { return outDay }
	payTicket(t, st, 2, pedro, []LineItem{{Name: "Taco", UnitPrice: 25, Quantity: 1}})

	report := st.WaiterSalesReport(pedro,
		inDay.Add(-time.Hour), inDay.Add(time.Hour))
	assert.Equal(t, 1, report.TicketCount)
	assert.Equal(t, 25.0, report.TotalSales)
}

func TestWaiterSalesReport_Empty(t *testing.T) {
	st := setupEmptyStore(t)

	report := st.WaiterSalesReport(42, time.Time{}, time.Time{})
	assert.Zero(t, report.TotalSales)
	assert.Zero(t, report.TicketCount)
	assert.Zero(t, report.AverageTicket)
	assert.Empty(t, report.WaiterName)
}

func TestDailySalesReport(t *testing.T) {
	st := setupEmptyStore(t)
	pedro := addTestWaiter(t, st, "Pedro")
	maria := addTestWaiter(t, st, "María")

	day := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	st.now = func() time.Time { return day }

	payTicket(t, st, 1, pedro, []LineItem{{Name: "Taco", UnitPrice: 25, Quantity: 4}})     // 100
	payTicket(t, st, 2, maria, []LineItem{{Name: "Cerveza", UnitPrice: 35, Quantity: 2}}) // 70

	// Closed but unpaid stays out of the money report.
	tk, err := st.SaveTicket(TicketInput{TableNumber: 3, WaiterID: pedro, Items: tacoItems()})
	require.NoError(t, err)
	_, err = st.CloseTicket(tk.ID)
	require.NoError(t, err)

	report := st.DailySalesReport(day)
	assert.Equal(t, 170.0, report.TotalSales)
	assert.Equal(t, 2, report.TicketCount)
	require.Len(t, report.ByWaiter, 2)
	assert.Equal(t, 100.0, report.ByWaiter[pedro].Total)
	assert.Equal(t, "Pedro", report.ByWaiter[pedro].WaiterName)
	assert.Equal(t, 1, report.ByWaiter[maria].Tickets)

	// Other days are empty.
	assert.Zero(t, st.DailySalesReport(day.AddDate(0, 0, 1)).TicketCount)
}
