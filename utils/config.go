// File: utils/config.go
package utils

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// Config holds all configurable server parameters.
type Config struct {
	// Network
	Port        string `json:"port"`        // Listening port, overridable with PORT
	BindAddress string `json:"bindAddress"` // Interface to bind, all interfaces by default

	// Rooms
	MaxRooms int `json:"maxRooms"` // Upper bound on concurrently live rooms

	// Connections
	ReadTimeout  time.Duration `json:"readTimeout"`  // Idle time after which a silent client is dropped, 0 disables
	WriteTimeout time.Duration `json:"writeTimeout"` // Deadline for a single outbound frame

	// Actors
	AskTimeout      time.Duration `json:"askTimeout"`      // Wait for Ask replies (room listing)
	ShutdownTimeout time.Duration `json:"shutdownTimeout"` // Grace period for actors on shutdown

	// Logging
	LogLevel  string `json:"logLevel"`  // zerolog level name
	LogPretty bool   `json:"logPretty"` // Human readable console output
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		Port:        "3000",
		BindAddress: "0.0.0.0",

		MaxRooms: 500,

		ReadTimeout:  0, // silence is normal between turns
		WriteTimeout: 10 * time.Second,

		AskTimeout:      2 * time.Second,
		ShutdownTimeout: 5 * time.Second,

		LogLevel:  "info",
		LogPretty: false,
	}
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindAddress, c.Port)
}

// LoadConfigFromEnv starts from DefaultConfig and applies environment overrides.
func LoadConfigFromEnv() (Config, error) {
	return loadConfig(DefaultConfig(), os.LookupEnv)
}

func loadConfig(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return cfg, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = v
	}
	if v, ok := lookup("BIND_ADDRESS"); ok && v != "" {
		cfg.BindAddress = v
	}
	if v, ok := lookup("MAX_ROOMS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid MAX_ROOMS %q: must be a positive integer", v)
		}
		cfg.MaxRooms = n
	}

	durations := []struct {
		key       string
		dst       *time.Duration
		allowZero bool
	}{
		{"READ_TIMEOUT", &cfg.ReadTimeout, true},
		{"WRITE_TIMEOUT", &cfg.WriteTimeout, false},
		{"ASK_TIMEOUT", &cfg.AskTimeout, false},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout, false},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 || (parsed == 0 && !d.allowZero) {
			return cfg, fmt.Errorf("invalid %s %q: must be a positive duration", d.key, v)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("LOG_PRETTY"); ok && v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_PRETTY %q: %w", v, err)
		}
		cfg.LogPretty = pretty
	}
	return cfg, nil
}
