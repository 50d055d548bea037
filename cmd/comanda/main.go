// ABOUTME: Entry point for the comanda POS terminal
// ABOUTME: Subcommands: serve, init, export, health, token, tickets

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/elsabor/comanda/internal/auth"
	"github.com/elsabor/comanda/internal/client"
	"github.com/elsabor/comanda/internal/config"
	"github.com/elsabor/comanda/internal/export"
	"github.com/elsabor/comanda/internal/server"
	"github.com/elsabor/comanda/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                          _
  ___ ___  _ __ ___   __ _ _ __   __| | __ _
 / __/ _ \| '_ ' _ \ / _' | '_ \ / _' |/ _' |
| (_| (_) | | | | | | (_| | | | | (_| | (_| |
 \___\___/|_| |_| |_|\__,_|_| |_|\__,_|\__,_|
`

// getConfigPath returns the path to the terminal config file.
// Priority: COMANDA_CONFIG env var > XDG_CONFIG_HOME/comanda/comanda.yaml > ~/.config/comanda/comanda.yaml
func getConfigPath() string {
	if envPath := os.Getenv("COMANDA_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "comanda.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "comanda", "comanda.yaml")
}

// getDataPath returns the directory where the store file lives by default.
// Priority: XDG_DATA_HOME/comanda > ~/.local/share/comanda
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "comanda")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: comanda <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                 Start the POS terminal server")
		fmt.Println("  init                  Create a new config file interactively")
		fmt.Println("  export [path]         Dump the store to a SQLite file")
		fmt.Println("  health                Check that the terminal is up")
		fmt.Println("  token --device NAME   Mint a LAN read token for a device")
		fmt.Println("  tickets               List open tickets from the serving terminal")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "export":
		err = runExport(ctx)
	case "health":
		err = runHealth(ctx)
	case "token":
		err = runToken()
	case "tickets":
		err = runTickets(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Client.Enabled {
		return fmt.Errorf("this terminal is configured as a client of %s; nothing to serve", cfg.Client.ServerURL)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Store:  %s\n", cfg.Store.Path)
	green.Print("    ▶ ")
	fmt.Printf("Local:  %s\n", cfg.Server.LocalAddr)
	if cfg.Server.LANEnabled {
		green.Print("    ▶ ")
		fmt.Printf("LAN:    ")
		cyan.Print(cfg.Server.LANAddr)
		if cfg.Server.AuthSecret != "" {
			yellow.Print(" [token auth]")
		} else {
			gray.Print(" (open)")
		}
		fmt.Println()
	}
	fmt.Println()

	logger.Info("starting comanda",
		"config", configPath,
		"store", cfg.Store.Path,
		"local_addr", cfg.Server.LocalAddr,
		"lan_enabled", cfg.Server.LANEnabled,
	)

	st, err := store.Open(cfg.Store.Path, store.Options{
		Debounce: cfg.Store.Debounce,
		Logger:   logger.With("component", "store"),
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	srv := server.New(st, cfg.Server, logger.With("component", "server"))
	runErr := srv.Run(ctx)

	// The last debounce window of mutations lives only in memory until
	// this flush.
	if err := st.Close(); err != nil {
		logger.Error("final store flush failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func runExport(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Client.Enabled {
		return fmt.Errorf("export runs on the serving terminal, not a client")
	}

	outPath := fmt.Sprintf("comanda-export-%s.db", time.Now().Format("2006-01-02"))
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	logger := setupLogger(cfg.Logging)

	st, err := store.Open(cfg.Store.Path, store.Options{
		Debounce: cfg.Store.Debounce,
		Logger:   logger.With("component", "store"),
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if err := export.Export(ctx, st, outPath, logger.With("component", "export")); err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("  ✓ Exported to %s\n", outPath)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Client.Enabled {
		c, err := client.New(cfg.Client, setupLogger(cfg.Logging))
		if err != nil {
			return err
		}
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Println("healthy")
		return nil
	}

	url := fmt.Sprintf("http://%s/healthz", cfg.Server.LocalAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// runToken mints a bearer token for a LAN device using the shared secret
// from the server config. Paste the output into the device's settings.
func runToken() error {
	var device string
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--device" || arg == "-d":
			if i+1 >= len(args) {
				return fmt.Errorf("--device requires a value")
			}
			device = args[i+1]
			i++
		case strings.HasPrefix(arg, "--device="):
			device = strings.TrimPrefix(arg, "--device=")
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			return fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	device = strings.TrimSpace(device)
	if device == "" {
		return fmt.Errorf("--device flag is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.AuthSecret == "" {
		return fmt.Errorf("server.auth_secret is not configured; the LAN facade is open and needs no token")
	}

	token, err := auth.NewJWTVerifier([]byte(cfg.Server.AuthSecret)).Mint(device, auth.DefaultTokenTTL)
	if err != nil {
		return fmt.Errorf("minting token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func runTickets(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	clientCfg := cfg.Client
	if !clientCfg.Enabled {
		// On the serving terminal, read our own facade through loopback.
		clientCfg = config.ClientConfig{
			ServerURL: "http://" + cfg.Server.LocalAddr,
			Timeout:   config.DefaultTimeout,
		}
	}

	c, err := client.New(clientCfg, setupLogger(cfg.Logging))
	if err != nil {
		return err
	}

	tickets, err := c.OpenTickets(ctx)
	if err != nil {
		return err
	}

	if len(tickets) == 0 {
		fmt.Println("no open tickets")
		return nil
	}

	cyan := color.New(color.FgCyan)
	for _, t := range tickets {
		cyan.Printf("#%d", t.ID)
		fmt.Printf("  mesa %d  %s  $%.2f  (%d items)\n",
			t.TableNumber, t.WaiterName, t.Total, len(t.Items))
	}
	return nil
}
