// ABOUTME: Cached dashboard and back-office analytics over completed tickets
// ABOUTME: Caches are nullable slots cleared synchronously by every mutation

package store

import (
	"sort"
)

// ItemCount is a sold-quantity ranking entry.
type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// WaiterRevenue aggregates a waiter's completed-ticket revenue.
type WaiterRevenue struct {
	Name    string  `json:"name"`
	Total   float64 `json:"total"`
	Tickets int     `json:"tickets"`
}

// DashboardStats feeds the waiter-facing dashboard.
type DashboardStats struct {
	TopProducts []ItemCount    `json:"topProducts"`
	TopDrinks   []ItemCount    `json:"topDrinks"`
	TopExtras   []ItemCount    `json:"topExtras"`
	BestWaiter  *WaiterRevenue `json:"bestWaiter"`
}

// DailyRevenue is one day of the 7-day sales series.
type DailyRevenue struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// AdminStats feeds the back-office analytics screen.
type AdminStats struct {
	SalesHistory    []DailyRevenue       `json:"salesHistory"`
	CategoryRevenue map[Category]float64 `json:"categoryRevenue"`
	TopProducts     []ItemCount          `json:"topProducts"`
	TopDrinks       []ItemCount          `json:"topDrinks"`
	TopExtras       []ItemCount          `json:"topExtras"`
	WaiterStats     []WaiterRevenue      `json:"waiterStats"`
}

// completed reports whether a ticket counts for analytics. Paid and closed
// are both terminal "done" states; cancelled tickets never count.
func completed(t *Ticket) bool {
	return t.Status == StatusPaid || t.Status == StatusClosed
}

// DashboardStats returns the cached dashboard view, recomputing it only
// when a mutation has invalidated the slot since the last read.
func (s *Store) DashboardStats() DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dashboardCache != nil {
		return *s.dashboardCache
	}
	stats := s.computeDashboard()
	s.dashboardCache = &stats
	s.statsRecomputes++
	return stats
}

// AdminStats returns the cached back-office view, recomputing on demand
// after invalidation.
func (s *Store) AdminStats() AdminStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adminCache != nil {
		return *s.adminCache
	}
	stats := s.computeAdmin()
	s.adminCache = &stats
	s.statsRecomputes++
	return stats
}

// topN turns a name->quantity tally into a ranking, ties broken by name so
// the order is stable across recomputes.
func topN(counts map[string]int, n int) []ItemCount {
	out := make([]ItemCount, 0, len(counts))
	for name, qty := range counts {
		out = append(out, ItemCount{Name: name, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity == out[j].Quantity {
			return out[i].Name < out[j].Name
		}
		return out[i].Quantity > out[j].Quantity
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// computeDashboard scans completed tickets for the top-3 sellers per
// category and the best waiter by revenue. Callers must hold s.mu.
func (s *Store) computeDashboard() DashboardStats {
	counts := map[Category]map[string]int{
		CategoryProduct: {},
		CategoryDrink:   {},
		CategoryExtra:   {},
	}
	type acc struct {
		name    string
		total   float64
		tickets int
	}
	byWaiter := map[int64]*acc{}

	for _, t := range s.data.Tickets {
		if !completed(t) {
			continue
		}
		for _, it := range t.Items {
			counts[s.categoryOf(it)][it.Name] += it.Quantity
		}
		a := byWaiter[t.WaiterID]
		if a == nil {
			a = &acc{name: t.WaiterName}
			byWaiter[t.WaiterID] = a
		}
		a.total += t.Total
		a.tickets++
	}

	var best *WaiterRevenue
	for _, a := range byWaiter {
		if best == nil || a.total > best.Total || (a.total == best.Total && a.name < best.Name) {
			best = &WaiterRevenue{Name: a.name, Total: round2(a.total), Tickets: a.tickets}
		}
	}

	return DashboardStats{
		TopProducts: topN(counts[CategoryProduct], 3),
		TopDrinks:   topN(counts[CategoryDrink], 3),
		TopExtras:   topN(counts[CategoryExtra], 3),
		BestWaiter:  best,
	}
}

// computeAdmin scans completed tickets for the 7-day revenue series,
// category distribution, top-5 rankings, and per-waiter totals. Callers
// must hold s.mu.
func (s *Store) computeAdmin() AdminStats {
	now := s.now()

	// Zero-filled series for the last 7 local days, today included.
	series := make(map[string]float64, 7)
	for i := 0; i < 7; i++ {
		series[now.AddDate(0, 0, -i).Format("2006-01-02")] = 0
	}

	categoryRevenue := map[Category]float64{
		CategoryProduct: 0,
		CategoryDrink:   0,
		CategoryExtra:   0,
	}
	counts := map[Category]map[string]int{
		CategoryProduct: {},
		CategoryDrink:   {},
		CategoryExtra:   {},
	}
	revenueByWaiter := map[string]*WaiterRevenue{}

	for _, t := range s.data.Tickets {
		if !completed(t) {
			continue
		}

		day := t.CreatedAt.Format("2006-01-02")
		if _, ok := series[day]; ok {
			series[day] += t.Total
		}

		for _, it := range t.Items {
			cat := s.categoryOf(it)
			categoryRevenue[cat] += it.UnitPrice * float64(it.Quantity)
			counts[cat][it.Name] += it.Quantity
		}

		wr := revenueByWaiter[t.WaiterName]
		if wr == nil {
			wr = &WaiterRevenue{Name: t.WaiterName}
			revenueByWaiter[t.WaiterName] = wr
		}
		wr.Total += t.Total
		wr.Tickets++
	}

	history := make([]DailyRevenue, 0, len(series))
	for date, total := range series {
		history = append(history, DailyRevenue{Date: date, Total: round2(total)})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })

	for cat, total := range categoryRevenue {
		categoryRevenue[cat] = round2(total)
	}

	waiters := make([]WaiterRevenue, 0, len(revenueByWaiter))
	for _, wr := range revenueByWaiter {
		waiters = append(waiters, WaiterRevenue{Name: wr.Name, Total: round2(wr.Total), Tickets: wr.Tickets})
	}
	sort.Slice(waiters, func(i, j int) bool {
		if waiters[i].Total == waiters[j].Total {
			return waiters[i].Name < waiters[j].Name
		}
		return waiters[i].Total > waiters[j].Total
	})

	return AdminStats{
		SalesHistory:    history,
		CategoryRevenue: categoryRevenue,
		TopProducts:     topN(counts[CategoryProduct], 5),
		TopDrinks:       topN(counts[CategoryDrink], 5),
		TopExtras:       topN(counts[CategoryExtra], 5),
		WaiterStats:     waiters,
	}
}
