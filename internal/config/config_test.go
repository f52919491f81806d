package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	htmlfont "github.com/alnah/go-htmlfont"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.ViewportWidth() != htmlfont.DefaultViewportWidth {
		t.Errorf("ViewportWidth() = %d, want %d", cfg.ViewportWidth(), htmlfont.DefaultViewportWidth)
	}
	if cfg.SnapshotTimeout() != 0 {
		t.Errorf("SnapshotTimeout() = %v, want 0", cfg.SnapshotTimeout())
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		max     int
		wantErr bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateFieldLength("style.font", tt.value, tt.max)
			if tt.wantErr != (err != nil) {
				t.Fatalf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error = %v, want ErrFieldTooLong", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "full valid config",
			cfg: Config{
				Style:    StyleConfig{Font: "Georgia", FontSize: 18, TableWidth: 600},
				Viewport: ViewportConfig{Width: 1024},
				Snapshot: SnapshotConfig{Format: "PDF", Timeout: "45s"},
			},
		},
		{
			name:    "font label too long",
			cfg:     Config{Style: StyleConfig{Font: strings.Repeat("a", MaxFontLabelLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "font value too long",
			cfg:     Config{Style: StyleConfig{FontValue: strings.Repeat("a", MaxFontValueLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "font size below minimum",
			cfg:     Config{Style: StyleConfig{FontSize: 7}},
			wantErr: htmlfont.ErrInvalidFontSize,
		},
		{
			name:    "font size above maximum",
			cfg:     Config{Style: StyleConfig{FontSize: 73}},
			wantErr: htmlfont.ErrInvalidFontSize,
		},
		{
			name:    "table width below minimum",
			cfg:     Config{Style: StyleConfig{TableWidth: 99}},
			wantErr: htmlfont.ErrInvalidTableWidth,
		},
		{
			name:    "table width wider than viewport",
			cfg:     Config{Style: StyleConfig{TableWidth: 900}, Viewport: ViewportConfig{Width: 800}},
			wantErr: htmlfont.ErrInvalidTableWidth,
		},
		{
			name:    "negative viewport",
			cfg:     Config{Viewport: ViewportConfig{Width: -5}},
			wantErr: htmlfont.ErrInvalidViewport,
		},
		{
			name:    "font value closing the declaration",
			cfg:     Config{Style: StyleConfig{FontValue: "Arial; color: red"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown snapshot format",
			cfg:     Config{Snapshot: SnapshotConfig{Format: "gif"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad snapshot timeout",
			cfg:     Config{Snapshot: SnapshotConfig{Timeout: "soon"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "non-positive snapshot timeout",
			cfg:     Config{Snapshot: SnapshotConfig{Timeout: "0s"}},
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_StyleParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       Config
		wantSize  int
		wantWidth int
	}{
		{"defaults", Config{}, htmlfont.DefaultFontSize, htmlfont.DefaultTableWidth},
		{"narrow viewport default width", Config{Viewport: ViewportConfig{Width: 500}}, htmlfont.DefaultFontSize, 460},
		{"explicit sizes", Config{Style: StyleConfig{FontSize: 20, TableWidth: 640}}, 20, 640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := tt.cfg.StyleParams()
			if p.FontSizePx != tt.wantSize || p.TableWidthPx != tt.wantWidth {
				t.Errorf("StyleParams() = %dpx / %dpx, want %dpx / %dpx", p.FontSizePx, p.TableWidthPx, tt.wantSize, tt.wantWidth)
			}
			if err := p.Validate(tt.cfg.ViewportWidth()); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestConfig_SnapshotTimeout(t *testing.T) {
	t.Parallel()

	cfg := Config{Snapshot: SnapshotConfig{Timeout: "1m30s"}}
	if got := cfg.SnapshotTimeout(); got != 90*time.Second {
		t.Errorf("SnapshotTimeout() = %v, want 1m30s", got)
	}
}

func TestLoadConfig_FilePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml",
			file: "report.yaml",
			content: `style:
  font: Verdana
  fontSize: 14
  tableWidth: 640
viewport:
  width: 1024
serve:
  addr: 127.0.0.1:9000
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Style.Font != "Verdana" || cfg.Style.FontSize != 14 || cfg.Style.TableWidth != 640 {
					t.Errorf("Style = %+v", cfg.Style)
				}
				if cfg.ViewportWidth() != 1024 {
					t.Errorf("ViewportWidth() = %d, want 1024", cfg.ViewportWidth())
				}
				if cfg.Serve.Addr != "127.0.0.1:9000" {
					t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
				}
			},
		},
		{
			name: "toml",
			file: "report.toml",
			content: `[style]
fontValue = "'Fira Code', monospace"
fontSize = 12

[snapshot]
format = "pdf"
timeout = "10s"
fullPage = true
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Style.FontValue != "'Fira Code', monospace" {
					t.Errorf("Style.FontValue = %q", cfg.Style.FontValue)
				}
				if cfg.Snapshot.Format != SnapshotPDF || !cfg.Snapshot.FullPage {
					t.Errorf("Snapshot = %+v", cfg.Snapshot)
				}
				if cfg.SnapshotTimeout() != 10*time.Second {
					t.Errorf("SnapshotTimeout() = %v", cfg.SnapshotTimeout())
				}
			},
		},
		{
			name:    "yaml unknown field",
			file:    "typo.yaml",
			content: "style:\n  fontsize: 14\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "toml unknown field",
			file:    "typo.toml",
			content: "[style]\nfontsize = 14\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "invalid bounds",
			file:    "bounds.yaml",
			content: "style:\n  fontSize: 200\n",
			wantErr: htmlfont.ErrInvalidFontSize,
		},
		{
			name:    "unsupported extension",
			file:    "report.json",
			content: "{}",
			wantErr: ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadConfig(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := LoadConfig(missing); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing) error = %v, want ErrConfigNotFound", err)
	}
}

// NOTE: changes the working directory and cannot run in parallel.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile("team.toml", []byte("[style]\nfont = \"Georgia\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("team")
	if err != nil {
		t.Fatalf("LoadConfig(name) error = %v", err)
	}
	if cfg.Style.Font != "Georgia" {
		t.Errorf("Style.Font = %q, want Georgia", cfg.Style.Font)
	}

	// .yaml is searched before .toml
	if err := os.WriteFile("team.yaml", []byte("style:\n  font: Verdana\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig("team")
	if err != nil {
		t.Fatalf("LoadConfig(name) error = %v", err)
	}
	if cfg.Style.Font != "Verdana" {
		t.Errorf("Style.Font = %q, want Verdana (yaml precedence)", cfg.Style.Font)
	}

	_, err = LoadConfig("absent")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("LoadConfig(absent) error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Errorf("error %q should list tried paths", err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("report")
	if len(paths) < 3 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	want := []string{"report.yaml", "report.yml", "report.toml"}
	for i, w := range want {
		if paths[i] != w {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], w)
		}
	}
	for _, p := range paths[3:] {
		if !strings.Contains(p, AppDir) {
			t.Errorf("user path %q does not contain %q", p, AppDir)
		}
	}
}
