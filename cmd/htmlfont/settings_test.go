package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/config"
)

// Notes:
// - Precedence is CLI flags > HTMLFONT_* > config file > defaults.
// - Tests that touch the environment are not parallel.

func TestResolveConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "report.yaml", "style:\n  font: Georgia\n  fontSize: 14\nviewport:\n  width: 1000\n")

	t.Setenv("HTMLFONT_SIZE", "18")
	t.Setenv("HTMLFONT_WIDTH", "700")

	env := newTestEnv()
	cfg, _, err := resolveConfig(commonFlags{config: cfgPath}, styleFlags{size: 20}, env.Environment)
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}

	if cfg.Style.Font != "Georgia" {
		t.Errorf("Font = %q, want config value Georgia", cfg.Style.Font)
	}
	if cfg.Style.FontSize != 20 {
		t.Errorf("FontSize = %d, want flag value 20", cfg.Style.FontSize)
	}
	if cfg.Style.TableWidth != 700 {
		t.Errorf("TableWidth = %d, want env value 700", cfg.Style.TableWidth)
	}
	if cfg.Viewport.Width != 1000 {
		t.Errorf("Viewport = %d, want config value 1000", cfg.Viewport.Width)
	}
}

func TestResolveConfig_EnvConfigName(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "env.toml", "[style]\nfont = \"Verdana\"\n")
	t.Setenv("HTMLFONT_CONFIG", cfgPath)

	cfg, _, err := resolveConfig(commonFlags{}, styleFlags{}, newTestEnv().Environment)
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Style.Font != "Verdana" {
		t.Errorf("Font = %q, want Verdana", cfg.Style.Font)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "style:\n  unknown: 1\n")

	tests := []struct {
		name     string
		common   commonFlags
		style    styleFlags
		wantErr  error
		wantHint bool
	}{
		{"missing name", commonFlags{config: "does-not-exist-anywhere"}, styleFlags{}, config.ErrConfigNotFound, true},
		{"missing path", commonFlags{config: filepath.Join(dir, "nope.yaml")}, styleFlags{}, config.ErrConfigNotFound, false},
		{"strict parse", commonFlags{config: bad}, styleFlags{}, config.ErrConfigParse, false},
		{"size flag out of range", commonFlags{}, styleFlags{size: 99}, htmlfont.ErrInvalidFontSize, false},
		{"width above viewport", commonFlags{}, styleFlags{width: 900, viewport: 800}, htmlfont.ErrInvalidTableWidth, false},
		{"unsafe font value", commonFlags{}, styleFlags{fontValue: "Arial; color: red"}, config.ErrInvalidValue, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := resolveConfig(tt.common, tt.style, newTestEnv().Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got := strings.Contains(err.Error(), "hint:"); got != tt.wantHint {
				t.Errorf("hint present = %v, want %v: %v", got, tt.wantHint, err)
			}
		})
	}
}

func TestMergeStyleFlags(t *testing.T) {
	t.Parallel()

	t.Run("font label drops configured value", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Style.FontValue = "Inter, sans-serif"
		mergeStyleFlags(styleFlags{font: "Georgia"}, cfg)
		if cfg.Style.Font != "Georgia" || cfg.Style.FontValue != "" {
			t.Errorf("style = %+v", cfg.Style)
		}
	})

	t.Run("label and value together", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeStyleFlags(styleFlags{font: "Brand", fontValue: "Brand Sans, sans-serif"}, cfg)
		if cfg.Style.Font != "Brand" || cfg.Style.FontValue != "Brand Sans, sans-serif" {
			t.Errorf("style = %+v", cfg.Style)
		}
	})

	t.Run("zero flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Style.FontSize = 12
		cfg.Viewport.Width = 900
		mergeStyleFlags(styleFlags{}, cfg)
		if cfg.Style.FontSize != 12 || cfg.Viewport.Width != 900 {
			t.Errorf("config overwritten: %+v", cfg)
		}
	})
}

func TestBuildSession(t *testing.T) {
	t.Parallel()

	georgia, _ := htmlfont.DefaultCatalog().Find("Georgia")

	tests := []struct {
		name      string
		style     config.StyleConfig
		viewport  int
		wantLabel string
		wantValue string
		wantSize  int
		wantWidth int
	}{
		{"defaults", config.StyleConfig{}, 0, "Arial", "", htmlfont.DefaultFontSize, 800},
		{"catalog font", config.StyleConfig{Font: "Georgia", FontSize: 20, TableWidth: 600}, 0, "Georgia", georgia.Value, 20, 600},
		{"raw value", config.StyleConfig{FontValue: "Inter, sans-serif"}, 0, "Inter", "Inter, sans-serif", htmlfont.DefaultFontSize, 800},
		{"labelled raw value", config.StyleConfig{Font: "Brand", FontValue: "Brand, serif"}, 0, "Brand", "Brand, serif", htmlfont.DefaultFontSize, 800},
		{"small viewport", config.StyleConfig{}, 500, "Arial", "", htmlfont.DefaultFontSize, 460},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Style: tt.style, Viewport: config.ViewportConfig{Width: tt.viewport}}
			s, err := buildSession(cfg)
			if err != nil {
				t.Fatalf("buildSession() error = %v", err)
			}
			p := s.Params()
			if p.Font.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", p.Font.Label, tt.wantLabel)
			}
			if tt.wantValue != "" && p.Font.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", p.Font.Value, tt.wantValue)
			}
			if p.FontSizePx != tt.wantSize || p.TableWidthPx != tt.wantWidth {
				t.Errorf("size/width = %d/%d, want %d/%d", p.FontSizePx, p.TableWidthPx, tt.wantSize, tt.wantWidth)
			}
		})
	}
}

func TestBuildSession_UnknownFont(t *testing.T) {
	t.Parallel()

	_, err := buildSession(&config.Config{Style: config.StyleConfig{Font: "Papyrus"}})
	if !errors.Is(err, htmlfont.ErrFontNotFound) {
		t.Fatalf("error = %v, want ErrFontNotFound", err)
	}
	if !strings.Contains(err.Error(), "Arial") {
		t.Errorf("hint should list available fonts: %v", err)
	}
}

func TestReadDocumentFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	upper := writeFile(t, dir, "REPORT.HTML", reportHTML)
	// 0xE9 is é in windows-1252.
	latin := writeFile(t, dir, "LATIN.HTM", "<head><meta charset=\"windows-1252\"></head><p>Caf\xe9</p>")
	txt := writeFile(t, dir, "notes.txt", reportHTML)

	doc, err := readDocumentFile(upper)
	if err != nil {
		t.Fatalf("readDocumentFile(REPORT.HTML) error = %v", err)
	}
	if doc.Name != "REPORT.HTML" || doc.Content != reportHTML {
		t.Errorf("document = %+v", doc)
	}

	doc, err = readDocumentFile(latin)
	if err != nil {
		t.Fatalf("readDocumentFile(LATIN.HTM) error = %v", err)
	}
	if doc.Charset != "windows-1252" || !strings.Contains(doc.Content, "Café") {
		t.Errorf("charset = %q, content = %q; the extension type must not override <meta>", doc.Charset, doc.Content)
	}

	if _, err := readDocumentFile(txt); !errors.Is(err, htmlfont.ErrInvalidFileType) {
		t.Errorf("readDocumentFile(notes.txt) error = %v, want ErrInvalidFileType", err)
	}
}
