// Package config loads htmlfont settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/codec"
	"github.com/alnah/go-htmlfont/internal/cssvalue"
	"github.com/alnah/go-htmlfont/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory under the user config dir searched for configs.
const AppDir = "go-htmlfont"

// Field length limits.
const (
	MaxFontLabelLength = 100
	MaxFontValueLength = 500 // Raw CSS font-family list
	MaxPathLength      = 4096
	MaxAddrLength      = 255
)

// Snapshot formats.
const (
	SnapshotPNG = "png"
	SnapshotPDF = "pdf"
)

// Config holds all configuration for htmlfont commands.
type Config struct {
	Style    StyleConfig    `yaml:"style" toml:"style"`
	Viewport ViewportConfig `yaml:"viewport" toml:"viewport"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Serve    ServeConfig    `yaml:"serve" toml:"serve"`
	Snapshot SnapshotConfig `yaml:"snapshot" toml:"snapshot"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
}

// StyleConfig holds the typography applied to documents.
type StyleConfig struct {
	Font       string `yaml:"font" toml:"font"`             // Catalog label, e.g. "Georgia"
	FontValue  string `yaml:"fontValue" toml:"fontValue"`   // Raw CSS font-family, wins over Font
	FontSize   int    `yaml:"fontSize" toml:"fontSize"`     // px, 0 = default (16)
	TableWidth int    `yaml:"tableWidth" toml:"tableWidth"` // px, 0 = derived from viewport
}

// ViewportConfig describes the simulated display width.
type ViewportConfig struct {
	Width int `yaml:"width" toml:"width"` // CSS px, 0 = default (1200)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Empty = next to the source
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr" toml:"addr"` // Empty = 127.0.0.1:8080
}

// SnapshotConfig configures headless rendering.
type SnapshotConfig struct {
	Format   string `yaml:"format" toml:"format"`     // "png" (default) or "pdf"
	Timeout  string `yaml:"timeout" toml:"timeout"`   // Go duration, e.g. "45s"
	FullPage bool   `yaml:"fullPage" toml:"fullPage"` // Capture below the fold
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" toml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and numeric bounds.
// Called by LoadConfig; also usable on a Config built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("style.font", c.Style.Font, MaxFontLabelLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.fontValue", c.Style.FontValue, MaxFontValueLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}

	if c.Style.FontValue != "" {
		if err := cssvalue.Check(c.Style.FontValue); err != nil {
			return fmt.Errorf("%w: style.fontValue: %v", ErrInvalidValue, err)
		}
	}
	if c.Viewport.Width != 0 {
		if err := htmlfont.ValidateViewport(c.Viewport.Width); err != nil {
			return fmt.Errorf("viewport.width: %w", err)
		}
	}
	if err := c.StyleParams().Validate(c.ViewportWidth()); err != nil {
		return fmt.Errorf("style: %w", err)
	}

	switch strings.ToLower(c.Snapshot.Format) {
	case "", SnapshotPNG, SnapshotPDF:
	default:
		return fmt.Errorf("%w: snapshot.format %q (must be png or pdf)", ErrInvalidValue, c.Snapshot.Format)
	}
	if c.Snapshot.Timeout != "" {
		d, err := time.ParseDuration(c.Snapshot.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: snapshot.timeout %q (must be a positive duration)", ErrInvalidValue, c.Snapshot.Timeout)
		}
	}

	return nil
}

// ViewportWidth returns the configured viewport or the default.
func (c *Config) ViewportWidth() int {
	if c.Viewport.Width > 0 {
		return c.Viewport.Width
	}
	return htmlfont.DefaultViewportWidth
}

// StyleParams returns the configured sizes, with the library defaults for
// unset fields. The font is left empty; callers resolve it against a catalog.
func (c *Config) StyleParams() htmlfont.StyleParams {
	p := htmlfont.DefaultStyleParams(htmlfont.FontOption{}, c.ViewportWidth())
	if c.Style.FontSize != 0 {
		p.FontSizePx = c.Style.FontSize
	}
	if c.Style.TableWidth != 0 {
		p.TableWidthPx = c.Style.TableWidth
	}
	return p
}

// SnapshotTimeout returns the parsed snapshot timeout, or 0 when unset.
func (c *Config) SnapshotTimeout() time.Duration {
	d, err := time.ParseDuration(c.Snapshot.Timeout)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where every value falls back to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := codec.FormatFor(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := codec.UnmarshalStrict(format, data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then the user config directory.
func SearchPaths(name string) []string {
	paths := make([]string, 0, len(codec.Extensions)*2)
	for _, ext := range codec.Extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range codec.Extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing candidate from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
