// ABOUTME: Package documentation for comanda configuration
// ABOUTME: Describes the YAML layout and expansion rules

// Package config loads the comanda YAML configuration file.
//
// The file has four sections: store (JSON store path and debounce window),
// server (loopback API and LAN facade listeners), client (client-mode peer
// address), and logging. ${VAR} references are expanded from the
// environment before parsing, and duration fields accept Go duration
// strings such as "2s" or "500ms".
package config
