// ABOUTME: Loopback API: full CRUD, logins, ticket lifecycle, reports, stats
// ABOUTME: One route per operation; every response is the success envelope

package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/elsabor/comanda/internal/store"
)

// localAPI holds the handlers for the loopback listener.
type localAPI struct {
	store  *store.Store
	logger *slog.Logger
}

// LocalHandler builds the full API mux for the loopback listener. It is
// unauthenticated by design: only processes on the same machine can reach
// it, and waiter/admin identity is established per-action via PIN login.
func LocalHandler(st *store.Store, logger *slog.Logger) http.Handler {
	api := &localAPI{store: st, logger: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", api.handleHealth)

	mux.HandleFunc("POST /api/login/waiter", api.handleWaiterLogin)
	mux.HandleFunc("POST /api/login/admin", api.handleAdminLogin)

	mux.HandleFunc("GET /api/products", api.handleListProducts)
	mux.HandleFunc("POST /api/products", api.handleAddProduct)
	mux.HandleFunc("PUT /api/products/{id}", api.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", api.handleDeleteProduct)

	mux.HandleFunc("GET /api/drinks", api.handleListDrinks)
	mux.HandleFunc("POST /api/drinks", api.handleAddDrink)
	mux.HandleFunc("PUT /api/drinks/{id}", api.handleUpdateDrink)
	mux.HandleFunc("DELETE /api/drinks/{id}", api.handleDeleteDrink)

	mux.HandleFunc("GET /api/extras", api.handleListExtras)
	mux.HandleFunc("POST /api/extras", api.handleAddExtra)
	mux.HandleFunc("PUT /api/extras/{id}", api.handleUpdateExtra)
	mux.HandleFunc("DELETE /api/extras/{id}", api.handleDeleteExtra)

	mux.HandleFunc("GET /api/waiters", api.handleListWaiters)
	mux.HandleFunc("POST /api/waiters", api.handleAddWaiter)
	mux.HandleFunc("PUT /api/waiters/{id}", api.handleUpdateWaiter)
	mux.HandleFunc("DELETE /api/waiters/{id}", api.handleDeleteWaiter)

	mux.HandleFunc("GET /api/admins", api.handleListAdmins)
	mux.HandleFunc("POST /api/admins", api.handleAddAdmin)
	mux.HandleFunc("PUT /api/admins/{id}", api.handleUpdateAdmin)
	mux.HandleFunc("DELETE /api/admins/{id}", api.handleDeleteAdmin)

	mux.HandleFunc("GET /api/settings", api.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", api.handleUpdateSettings)

	mux.HandleFunc("POST /api/tickets", api.handleSaveTicket)
	mux.HandleFunc("GET /api/tickets", api.handleListTickets)
	mux.HandleFunc("GET /api/tickets/open", api.handleOpenTickets)
	mux.HandleFunc("GET /api/tickets/day", api.handleTicketsForDay)
	mux.HandleFunc("GET /api/tickets/waiter/{id}", api.handleTicketsByWaiter)
	mux.HandleFunc("GET /api/tickets/{id}", api.handleGetTicket)
	mux.HandleFunc("POST /api/tickets/{id}/items", api.handleAddItems)
	mux.HandleFunc("POST /api/tickets/{id}/items/{index}/delivered", api.handleMarkDelivered)
	mux.HandleFunc("POST /api/tickets/{id}/close", api.handleCloseTicket)
	mux.HandleFunc("PUT /api/tickets/{id}/status", api.handleTicketStatus)

	mux.HandleFunc("GET /api/reports/waiter/{id}", api.handleWaiterReport)
	mux.HandleFunc("GET /api/reports/daily", api.handleDailyReport)

	mux.HandleFunc("GET /api/stats/dashboard", api.handleDashboardStats)
	mux.HandleFunc("GET /api/stats/admin", api.handleAdminStats)

	return mux
}

// pathID parses the {id} path segment, answering a 400 envelope on junk.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter in local time. A
// missing parameter returns the zero time, which the store reads as today.
func queryDate(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+" date, want YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func (api *localAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"status": "ok"})
}

// --- logins ---

func (api *localAPI) handleWaiterLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WaiterID int64  `json:"waiterId"`
		PIN      string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	waiter, err := api.store.ValidateWaiterPIN(req.WaiterID, req.PIN)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"waiter": waiter})
}

func (api *localAPI) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	admin, err := api.store.ValidateAdminPIN(req.PIN)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"admin": admin})
}

// --- catalog ---

func (api *localAPI) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"products": api.store.Products()})
}

func (api *localAPI) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var p store.Product
	if !decodeBody(w, r, &p) {
		return
	}
	id, err := api.store.AddProduct(p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"id": id})
}

func (api *localAPI) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p store.Product
	if !decodeBody(w, r, &p) {
		return
	}
	if err := api.store.UpdateProduct(id, p); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := api.store.DeleteProduct(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleListDrinks(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"drinks": api.store.Drinks()})
}

func (api *localAPI) handleAddDrink(w http.ResponseWriter, r *http.Request) {
	var d store.Drink
	if !decodeBody(w, r, &d) {
		return
	}
	id, err := api.store.AddDrink(d)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"id": id})
}

func (api *localAPI) handleUpdateDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var d store.Drink
	if !decodeBody(w, r, &d) {
		return
	}
	if err := api.store.UpdateDrink(id, d); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleDeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := api.store.DeleteDrink(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleListExtras(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"extras": api.store.Extras()})
}

func (api *localAPI) handleAddExtra(w http.ResponseWriter, r *http.Request) {
	var e store.Extra
	if !decodeBody(w, r, &e) {
		return
	}
	id, err := api.store.AddExtra(e)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"id": id})
}

func (api *localAPI) handleUpdateExtra(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var e store.Extra
	if !decodeBody(w, r, &e) {
		return
	}
	if err := api.store.UpdateExtra(id, e); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleDeleteExtra(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := api.store.DeleteExtra(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

// --- staff ---

func (api *localAPI) handleListWaiters(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"waiters": api.store.Waiters()})
}

func (api *localAPI) handleAddWaiter(w http.ResponseWriter, r *http.Request) {
	var wt store.Waiter
	if !decodeBody(w, r, &wt) {
		return
	}
	id, err := api.store.AddWaiter(wt)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"id": id})
}

func (api *localAPI) handleUpdateWaiter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var wt store.Waiter
	if !decodeBody(w, r, &wt) {
		return
	}
	if err := api.store.UpdateWaiter(id, wt); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleDeleteWaiter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := api.store.DeleteWaiter(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"admins": api.store.Admins()})
}

func (api *localAPI) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	var a store.Admin
	if !decodeBody(w, r, &a) {
		return
	}
	id, err := api.store.AddAdmin(a)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"id": id})
}

func (api *localAPI) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var a store.Admin
	if !decodeBody(w, r, &a) {
		return
	}
	if err := api.store.UpdateAdmin(id, a); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

func (api *localAPI) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := api.store.DeleteAdmin(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, nil)
}

// --- settings ---

func (api *localAPI) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"settings": api.store.Settings()})
}

func (api *localAPI) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch store.SettingsPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	settings, err := api.store.UpdateSettings(patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"settings": settings})
}

// --- tickets ---

func (api *localAPI) handleSaveTicket(w http.ResponseWriter, r *http.Request) {
	var in store.TicketInput
	if !decodeBody(w, r, &in) {
		return
	}
	ticket, err := api.store.SaveTicket(in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"ticket": ticket})
}

func (api *localAPI) handleListTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	page := api.store.AllTickets(limit, offset)
	writeOK(w, envelope{"tickets": page.Tickets, "total": page.Total})
}

func (api *localAPI) handleOpenTickets(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"tickets": api.store.OpenTickets()})
}

func (api *localAPI) handleTicketsForDay(w http.ResponseWriter, r *http.Request) {
	day, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	writeOK(w, envelope{"tickets": api.store.TicketsForDay(day)})
}

func (api *localAPI) handleTicketsByWaiter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeOK(w, envelope{"tickets": api.store.TicketsByWaiter(id)})
}

func (api *localAPI) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ticket, err := api.store.Ticket(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"ticket": ticket})
}

func (api *localAPI) handleAddItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Items []store.LineItem `json:"items"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	ticket, err := api.store.AddItems(id, req.Items)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"ticket": ticket})
}

func (api *localAPI) handleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	index, ok := pathID(w, r, "index")
	if !ok {
		return
	}
	ticket, err := api.store.MarkItemDelivered(id, int(index))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"ticket": ticket})
}

func (api *localAPI) handleCloseTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ticket, err := api.store.CloseTicket(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"ticket": ticket})
}

func (api *localAPI) handleTicketStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status store.TicketStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	ticket, err := api.store.UpdateTicketStatus(id, req.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeOK(w, envelope{"ticket": ticket})
}

// --- reports and stats ---

func (api *localAPI) handleWaiterReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}
	if !to.IsZero() {
		// Make the "to" date inclusive through end of day.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	writeOK(w, envelope{"report": api.store.WaiterSalesReport(id, from, to)})
}

func (api *localAPI) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	day, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	writeOK(w, envelope{"report": api.store.DailySalesReport(day)})
}

func (api *localAPI) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"stats": api.store.DashboardStats()})
}

func (api *localAPI) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"stats": api.store.AdminStats()})
}
