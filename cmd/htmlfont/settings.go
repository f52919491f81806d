package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/config"
	"github.com/alnah/go-htmlfont/internal/cssvalue"
	"github.com/alnah/go-htmlfont/internal/fileutil"
	"github.com/alnah/go-htmlfont/internal/hints"
	"github.com/alnah/go-htmlfont/internal/logging"
)

// customFontLabel names a raw --font-value whose first family cannot be read.
const customFontLabel = "Custom"

// resolveConfig builds the effective configuration.
// Priority: CLI flags > env vars > config file > env.Config defaults.
func resolveConfig(common commonFlags, style styleFlags, env *Environment) (*config.Config, *envConfig, error) {
	envCfg := loadEnvConfig()

	cfg := config.DefaultConfig()
	if env.Config != nil {
		base := *env.Config
		cfg = &base
	}

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeStyleFlags(style, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, envCfg, nil
}

// mergeStyleFlags merges typography flags into config. CLI values override
// config values; a --font label also drops a configured raw font value.
func mergeStyleFlags(f styleFlags, cfg *config.Config) {
	if f.font != "" {
		cfg.Style.Font = f.font
		if f.fontValue == "" {
			cfg.Style.FontValue = ""
		}
	}
	if f.fontValue != "" {
		cfg.Style.FontValue = f.fontValue
	}
	if f.size != 0 {
		cfg.Style.FontSize = f.size
	}
	if f.width != 0 {
		cfg.Style.TableWidth = f.width
	}
	if f.viewport != 0 {
		cfg.Viewport.Width = f.viewport
	}
}

// buildSession creates a session carrying the configured typography.
func buildSession(cfg *config.Config) (*htmlfont.Session, error) {
	s := htmlfont.NewSession(cfg.ViewportWidth())

	switch {
	case cfg.Style.FontValue != "":
		label := cfg.Style.Font
		if label == "" {
			label = cssvalue.Primary(cfg.Style.FontValue)
		}
		if label == "" {
			label = customFontLabel
		}
		s.SetFontValue(label, cfg.Style.FontValue)
	case cfg.Style.Font != "":
		if err := s.SelectFont(cfg.Style.Font); err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForFontNotFound(s.Catalog().Labels()))
		}
	}

	p := cfg.StyleParams()
	s.SetFontSize(p.FontSizePx)
	s.SetTableWidth(p.TableWidthPx)
	return s, nil
}

// newLogger creates the command logger honoring --quiet and --verbose.
func newLogger(common commonFlags, env *Environment) *log.Logger {
	return logging.New(env.Stderr, logging.LevelFor(common.quiet, common.verbose))
}

// readDocumentFile loads an HTML document from disk.
func readDocumentFile(path string) (htmlfont.Document, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return htmlfont.Document{}, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	defer f.Close()

	doc, err := htmlfont.ReadDocument(f, filepath.Base(path), mediaTypeFor(path))
	if errors.Is(err, htmlfont.ErrInvalidFileType) {
		return htmlfont.Document{}, fmt.Errorf("%s: %w%s", path, err, hints.ForInvalidFileType())
	}
	if err != nil {
		return htmlfont.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// mediaTypeFor returns the media type a browser file picker reports for path.
// Parameters are dropped so a charset from the system table cannot override
// the document's own declaration.
func mediaTypeFor(path string) string {
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(path)))
	if err != nil {
		return ""
	}
	return mediaType
}

// isHTMLInput reports whether path is accepted as an HTML document.
func isHTMLInput(path string) bool {
	return htmlfont.ValidateHTMLFile(filepath.Base(path), mediaTypeFor(path)) == nil
}

// resolveOutputDir returns the --output flag, else the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
