package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-htmlfont/internal/config"
)

// envPrefix is the prefix of all htmlfont environment variables.
const envPrefix = "HTMLFONT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath string        // HTMLFONT_CONFIG: config file name or path
	Font       string        // HTMLFONT_FONT: catalog label
	FontValue  string        // HTMLFONT_FONT_VALUE: raw CSS font-family
	FontSize   int           // HTMLFONT_SIZE: base font size in px
	TableWidth int           // HTMLFONT_WIDTH: table width in px
	Viewport   int           // HTMLFONT_VIEWPORT: viewport width in px
	OutputDir  string        // HTMLFONT_OUTPUT_DIR: default output directory
	Addr       string        // HTMLFONT_ADDR: preview server address
	Timeout    time.Duration // HTMLFONT_TIMEOUT: snapshot timeout
	Workers    int           // HTMLFONT_WORKERS: parallel workers
}

// knownEnvVars lists valid HTMLFONT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTMLFONT_CONFIG":     true,
	"HTMLFONT_FONT":       true,
	"HTMLFONT_FONT_VALUE": true,
	"HTMLFONT_SIZE":       true,
	"HTMLFONT_WIDTH":      true,
	"HTMLFONT_VIEWPORT":   true,
	"HTMLFONT_OUTPUT_DIR": true,
	"HTMLFONT_ADDR":       true,
	"HTMLFONT_TIMEOUT":    true,
	"HTMLFONT_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("HTMLFONT_CONFIG"),
		Font:       os.Getenv("HTMLFONT_FONT"),
		FontValue:  os.Getenv("HTMLFONT_FONT_VALUE"),
		OutputDir:  os.Getenv("HTMLFONT_OUTPUT_DIR"),
		Addr:       os.Getenv("HTMLFONT_ADDR"),
		FontSize:   envPositiveInt("HTMLFONT_SIZE"),
		TableWidth: envPositiveInt("HTMLFONT_WIDTH"),
		Viewport:   envPositiveInt("HTMLFONT_VIEWPORT"),
		Workers:    envPositiveInt("HTMLFONT_WORKERS"),
	}

	if timeout := os.Getenv("HTMLFONT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// envPositiveInt returns the variable as a positive int, or 0.
func envPositiveInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized HTMLFONT_* variables.
// Helps catch typos like HTMLFONT_FONTSIZE instead of HTMLFONT_SIZE.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeStyleFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Font != "" && cfg.Style.Font == "" {
		cfg.Style.Font = env.Font
	}
	if env.FontValue != "" && cfg.Style.FontValue == "" {
		cfg.Style.FontValue = env.FontValue
	}
	if env.FontSize != 0 && cfg.Style.FontSize == 0 {
		cfg.Style.FontSize = env.FontSize
	}
	if env.TableWidth != 0 && cfg.Style.TableWidth == 0 {
		cfg.Style.TableWidth = env.TableWidth
	}
	if env.Viewport != 0 && cfg.Viewport.Width == 0 {
		cfg.Viewport.Width = env.Viewport
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Addr != "" && cfg.Serve.Addr == "" {
		cfg.Serve.Addr = env.Addr
	}
	if env.Timeout > 0 && cfg.Snapshot.Timeout == "" {
		cfg.Snapshot.Timeout = env.Timeout.String()
	}
}
