// ABOUTME: Sales reporting over paid tickets: per-waiter ranges and whole-day summaries
// ABOUTME: Reports count collected revenue only, so the paid status is the filter

package store

import (
	"time"
)

// SalesReport summarizes a waiter's paid tickets over a date range.
type SalesReport struct {
	WaiterID      int64    `json:"waiterId"`
	WaiterName    string   `json:"waiterName"`
	TotalSales    float64  `json:"totalSales"`
	TicketCount   int      `json:"ticketCount"`
	AverageTicket float64  `json:"averageTicket"`
	Tickets       []Ticket `json:"tickets"`
}

// DailyWaiterSales is one waiter's slice of a daily report.
type DailyWaiterSales struct {
	WaiterName string  `json:"waiterName"`
	Total      float64 `json:"total"`
	Tickets    int     `json:"tickets"`
}

// DailyReport summarizes one day of paid tickets restaurant-wide.
type DailyReport struct {
	Date        time.Time                  `json:"date"`
	TotalSales  float64                    `json:"totalSales"`
	TicketCount int                        `json:"ticketCount"`
	ByWaiter    map[int64]DailyWaiterSales `json:"byWaiter"`
	Tickets     []Ticket                   `json:"tickets"`
}

// WaiterSalesReport filters the waiter's paid tickets inside the inclusive
// range and computes sum, count, and average. Zero bounds default to
// epoch-start and now.
func (s *Store) WaiterSalesReport(waiterID int64, from, to time.Time) SalesReport {
	if from.IsZero() {
		from = time.Unix(0, 0)
	}
	if to.IsZero() {
		to = s.now()
	}

	s.mu.RLock()
	matched := make([]Ticket, 0)
	for _, t := range s.data.Tickets {
		if t.WaiterID != waiterID || t.Status != StatusPaid {
			continue
		}
		if t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		matched = append(matched, cloneTicket(t))
	}
	s.mu.RUnlock()

	sortNewestFirst(matched)

	report := SalesReport{WaiterID: waiterID, Tickets: matched}
	for _, t := range matched {
		report.TotalSales += t.Total
	}
	report.TotalSales = round2(report.TotalSales)
	report.TicketCount = len(matched)
	if report.TicketCount > 0 {
		report.WaiterName = matched[0].WaiterName
		report.AverageTicket = round2(report.TotalSales / float64(report.TicketCount))
	}
	return report
}

// DailySalesReport summarizes the given day's paid tickets grouped by
// waiter. A zero day means today.
func (s *Store) DailySalesReport(day time.Time) DailyReport {
	start, end := s.dayWindow(day)

	s.mu.RLock()
	matched := make([]Ticket, 0)
	for _, t := range s.data.Tickets {
		if t.Status != StatusPaid {
			continue
		}
		if t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
			continue
		}
		matched = append(matched, cloneTicket(t))
	}
	s.mu.RUnlock()

	sortNewestFirst(matched)

	report := DailyReport{
		Date:     start,
		ByWaiter: make(map[int64]DailyWaiterSales),
		Tickets:  matched,
	}
	for _, t := range matched {
		report.TotalSales += t.Total
		ws := report.ByWaiter[t.WaiterID]
		ws.WaiterName = t.WaiterName
		ws.Total = round2(ws.Total + t.Total)
		ws.Tickets++
		report.ByWaiter[t.WaiterID] = ws
	}
	report.TotalSales = round2(report.TotalSales)
	report.TicketCount = len(matched)
	return report
}
