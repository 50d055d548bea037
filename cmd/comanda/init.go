// ABOUTME: Interactive config generation for a new terminal
// ABOUTME: Writes comanda.yaml for server mode or client mode

package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("comanda configuration setup")
	fmt.Println("===========================")
	fmt.Println()

	defaultConfigPath := getConfigPath()
	defaultDataPath := getDataPath()
	defaultStorePath := filepath.Join(defaultDataPath, "restaurante.json")

	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Terminal Mode ---")
	modeAnswer := prompt(reader, "Is this the serving terminal (yes) or a client display (no)?", "yes")
	serverMode := isYes(modeAnswer)

	var cfg strings.Builder
	cfg.WriteString("# comanda configuration\n")
	cfg.WriteString("# Generated by comanda init\n\n")

	if serverMode {
		fmt.Println("\n--- Store Configuration ---")
		storePath := prompt(reader, "Store file path", defaultStorePath)
		debounce := prompt(reader, "Save debounce", "2s")

		fmt.Println("\n--- Server Configuration ---")
		localAddr := prompt(reader, "Local API address", "127.0.0.1:4780")
		lanAnswer := prompt(reader, "Enable the LAN read API?", "no")
		lanEnabled := isYes(lanAnswer)

		var lanAddr, authSecret string
		if lanEnabled {
			lanAddr = prompt(reader, "LAN API address", "0.0.0.0:4781")
			if isYes(prompt(reader, "Require device tokens on the LAN API?", "yes")) {
				secretBytes := make([]byte, 32)
				if _, err := rand.Read(secretBytes); err != nil {
					return fmt.Errorf("generating auth secret: %w", err)
				}
				authSecret = base64.StdEncoding.EncodeToString(secretBytes)
			}
		}

		cfg.WriteString("store:\n")
		cfg.WriteString(fmt.Sprintf("  path: \"%s\"\n", storePath))
		cfg.WriteString(fmt.Sprintf("  debounce: \"%s\"\n", debounce))
		cfg.WriteString("\n")

		cfg.WriteString("server:\n")
		cfg.WriteString(fmt.Sprintf("  local_addr: \"%s\"\n", localAddr))
		cfg.WriteString(fmt.Sprintf("  lan_enabled: %t\n", lanEnabled))
		if lanEnabled {
			cfg.WriteString(fmt.Sprintf("  lan_addr: \"%s\"\n", lanAddr))
			if authSecret != "" {
				cfg.WriteString(fmt.Sprintf("  auth_secret: \"%s\"\n", authSecret))
			}
		}
		cfg.WriteString("\n")

		// Make sure the store directory exists before first serve.
		if err := os.MkdirAll(filepath.Dir(storePath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	} else {
		fmt.Println("\n--- Client Configuration ---")
		serverURL := prompt(reader, "Serving terminal URL", "http://192.168.1.10:4781")
		authSecret := prompt(reader, "Shared auth secret (leave empty if the facade is open)", "")
		timeout := prompt(reader, "Request timeout", "5s")

		cfg.WriteString("client:\n")
		cfg.WriteString("  enabled: true\n")
		cfg.WriteString(fmt.Sprintf("  server_url: \"%s\"\n", serverURL))
		if authSecret != "" {
			cfg.WriteString(fmt.Sprintf("  auth_secret: \"%s\"\n", authSecret))
		}
		cfg.WriteString(fmt.Sprintf("  timeout: \"%s\"\n", timeout))
		cfg.WriteString("\n")
	}

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	if serverMode {
		fmt.Println("\nTo start the terminal:")
		fmt.Println("  comanda serve")
	} else {
		fmt.Println("\nTo check the connection:")
		fmt.Println("  comanda health")
	}

	return nil
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
