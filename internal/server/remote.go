// ABOUTME: LAN read facade: the handful of GET routes remote devices get
// ABOUTME: No mutation route is ever registered on this mux

package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/elsabor/comanda/internal/auth"
	"github.com/elsabor/comanda/internal/store"
)

// remoteAPI holds the handlers for the LAN listener.
type remoteAPI struct {
	store  *store.Store
	logger *slog.Logger
}

// RemoteHandler builds the read-only mux for the LAN listener. Safety is
// structural: mutation routes simply do not exist here, so a compromised
// kitchen display cannot alter state no matter what it sends. A nil
// verifier leaves the facade open (trusted-LAN mode); otherwise every
// /api route requires a bearer token.
func RemoteHandler(st *store.Store, logger *slog.Logger, verifier auth.TokenVerifier) http.Handler {
	api := &remoteAPI{store: st, logger: logger}

	guard := func(h http.Handler) http.Handler { return h }
	if verifier != nil {
		guard = auth.Middleware(verifier)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.handleHealth)
	mux.Handle("GET /api/tickets", guard(http.HandlerFunc(api.handleTickets)))
	mux.Handle("GET /api/tickets/open", guard(http.HandlerFunc(api.handleOpenTickets)))
	mux.Handle("GET /api/stats/dashboard", guard(http.HandlerFunc(api.handleDashboardStats)))
	mux.Handle("GET /api/stats/admin", guard(http.HandlerFunc(api.handleAdminStats)))
	mux.Handle("GET /api/products", guard(http.HandlerFunc(api.handleProducts)))
	mux.Handle("GET /api/waiters", guard(http.HandlerFunc(api.handleWaiters)))
	return mux
}

// handleHealth stays unauthenticated so devices can probe reachability
// before pairing.
func (api *remoteAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"status": "ok"})
}

func (api *remoteAPI) handleTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	page := api.store.AllTickets(limit, offset)
	writeOK(w, envelope{"tickets": page.Tickets, "total": page.Total})
}

func (api *remoteAPI) handleOpenTickets(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"tickets": api.store.OpenTickets()})
}

func (api *remoteAPI) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"stats": api.store.DashboardStats()})
}

func (api *remoteAPI) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"stats": api.store.AdminStats()})
}

func (api *remoteAPI) handleProducts(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"products": api.store.Products()})
}

func (api *remoteAPI) handleWaiters(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"waiters": api.store.Waiters()})
}
