// ABOUTME: Typed HTTP client for the LAN read facade
// ABOUTME: Used by client-mode terminals; strictly read-only

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/elsabor/comanda/internal/auth"
	"github.com/elsabor/comanda/internal/config"
	"github.com/elsabor/comanda/internal/store"
)

// Client reads POS state from a serving terminal over the LAN facade. It
// holds no local store; every call is one GET.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
	logger  *slog.Logger
}

// New builds a client from the loaded config. When a shared secret is
// configured a device token is minted up front, named after the host so
// the server's access log shows which terminal is asking.
func New(cfg config.ClientConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default().With("component", "client")
	}

	base, err := url.Parse(cfg.ServerURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", cfg.ServerURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(base.String(), "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}

	if cfg.AuthSecret != "" {
		device, err := os.Hostname()
		if err != nil || device == "" {
			device = "comanda-client"
		}
		token, err := auth.NewJWTVerifier([]byte(cfg.AuthSecret)).Mint(device, auth.DefaultTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("minting device token: %w", err)
		}
		c.token = token
	}

	return c, nil
}

// get fetches path and decodes the envelope into out, which must embed the
// success and error fields.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	var probe struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	dec := json.NewDecoder(resp.Body)
	raw := json.RawMessage{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("decoding %s envelope: %w", path, err)
	}
	if !probe.Success {
		msg := probe.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("server rejected %s: %s (HTTP %d)", path, msg, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding %s payload: %w", path, err)
		}
	}
	return nil
}

// Health probes the facade; nil means reachable and serving.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}

// Tickets fetches a page of the ticket history.
func (c *Client) Tickets(ctx context.Context, limit, offset int) (store.TicketPage, error) {
	var out struct {
		Tickets []store.Ticket `json:"tickets"`
		Total   int            `json:"total"`
	}
	path := "/api/tickets"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	}
	if err := c.get(ctx, path, &out); err != nil {
		return store.TicketPage{}, err
	}
	return store.TicketPage{Tickets: out.Tickets, Total: out.Total}, nil
}

// OpenTickets fetches the currently open tickets.
func (c *Client) OpenTickets(ctx context.Context) ([]store.Ticket, error) {
	var out struct {
		Tickets []store.Ticket `json:"tickets"`
	}
	if err := c.get(ctx, "/api/tickets/open", &out); err != nil {
		return nil, err
	}
	return out.Tickets, nil
}

// DashboardStats fetches the dashboard rankings.
func (c *Client) DashboardStats(ctx context.Context) (store.DashboardStats, error) {
	var out struct {
		Stats store.DashboardStats `json:"stats"`
	}
	if err := c.get(ctx, "/api/stats/dashboard", &out); err != nil {
		return store.DashboardStats{}, err
	}
	return out.Stats, nil
}

// AdminStats fetches the back-office analytics.
func (c *Client) AdminStats(ctx context.Context) (store.AdminStats, error) {
	var out struct {
		Stats store.AdminStats `json:"stats"`
	}
	if err := c.get(ctx, "/api/stats/admin", &out); err != nil {
		return store.AdminStats{}, err
	}
	return out.Stats, nil
}

// Products fetches the menu's food items.
func (c *Client) Products(ctx context.Context) ([]store.Product, error) {
	var out struct {
		Products []store.Product `json:"products"`
	}
	if err := c.get(ctx, "/api/products", &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// Waiters fetches the waiter roster (PIN-free by construction).
func (c *Client) Waiters(ctx context.Context) ([]store.Waiter, error) {
	var out struct {
		Waiters []store.Waiter `json:"waiters"`
	}
	if err := c.get(ctx, "/api/waiters", &out); err != nil {
		return nil, err
	}
	return out.Waiters, nil
}
