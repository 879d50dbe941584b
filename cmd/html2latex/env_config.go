package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-html2latex/internal/config"
	"github.com/alnah/go-html2latex/internal/hints"
)

// envPrefix is shared by every recognized environment variable.
const envPrefix = "HTML2LATEX_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath  string // HTML2LATEX_CONFIG: config file path
	DatabaseURL string // HTML2LATEX_DB_URL: PostgreSQL URL

	// Tier 2 - I/O
	DatabaseQuery string // HTML2LATEX_DB_QUERY: fragment query
	OutputDir     string // HTML2LATEX_OUTPUT_DIR: default output directory
	Encoding      string // HTML2LATEX_ENCODING: input charset label
	Workers       int    // HTML2LATEX_WORKERS: parallel workers
}

// knownEnvVars lists valid HTML2LATEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"HTML2LATEX_CONFIG": true,
	hints.DatabaseURLEnv: true,
	// Tier 2 - I/O
	"HTML2LATEX_DB_QUERY":   true,
	"HTML2LATEX_OUTPUT_DIR": true,
	"HTML2LATEX_ENCODING":   true,
	"HTML2LATEX_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized HTML2LATEX_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath:  os.Getenv("HTML2LATEX_CONFIG"),
		DatabaseURL: os.Getenv(hints.DatabaseURLEnv),
		// Tier 2
		DatabaseQuery: os.Getenv("HTML2LATEX_DB_QUERY"),
		OutputDir:     os.Getenv("HTML2LATEX_OUTPUT_DIR"),
		Encoding:      os.Getenv("HTML2LATEX_ENCODING"),
	}

	// Parse int for workers
	if workers := os.Getenv("HTML2LATEX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized HTML2LATEX_* variables.
// Helps catch typos like HTML2LATEX_DB_ULR instead of HTML2LATEX_DB_URL.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Database
	if env.DatabaseURL != "" && cfg.Database.URL == "" {
		cfg.Database.URL = env.DatabaseURL
	}

	// Tier 2 - I/O
	if env.DatabaseQuery != "" && cfg.Database.Query == "" {
		cfg.Database.Query = env.DatabaseQuery
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Encoding != "" && cfg.Input.Encoding == "" {
		cfg.Input.Encoding = env.Encoding
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
