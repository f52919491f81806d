package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-htmlfont/internal/config"
	"github.com/alnah/go-htmlfont/internal/render"
	"github.com/alnah/go-htmlfont/internal/tui"
)

const reportHTML = `<html><head><title>Quarterly</title></head><body><table class="gt_table" id="t1"><tr><td>1</td></tr></table></body></html>`

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes
// ---------------------------------------------------------------------------

// stubFonts is a FontSource with fixed results.
type stubFonts struct {
	supported bool
	families  []string
	err       error
}

func (f stubFonts) Supported(context.Context) bool { return f.supported }

func (f stubFonts) List(context.Context) ([]string, error) { return f.families, f.err }

// mockRenderer records calls instead of driving a browser.
type mockRenderer struct {
	mu       sync.Mutex
	timeout  time.Duration
	calls    int
	closed   bool
	err      error
	width    float64
	lastHTML string
	lastOpts render.Options
}

func (m *mockRenderer) record(html string, opts *render.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastHTML = html
	if opts != nil {
		m.lastOpts = *opts
	}
	return m.err
}

func (m *mockRenderer) Screenshot(_ context.Context, html string, opts *render.Options) ([]byte, error) {
	if err := m.record(html, opts); err != nil {
		return nil, err
	}
	return []byte("\x89PNG mock"), nil
}

func (m *mockRenderer) PDF(_ context.Context, html string, opts *render.Options) ([]byte, error) {
	if err := m.record(html, opts); err != nil {
		return nil, err
	}
	return []byte("%PDF-1.7 mock"), nil
}

func (m *mockRenderer) MeasureTable(_ context.Context, html string, opts *render.Options) (float64, error) {
	if err := m.record(html, opts); err != nil {
		return 0, err
	}
	return m.width, nil
}

func (m *mockRenderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// rendererFactory hands out mock renderers and remembers them.
type rendererFactory struct {
	mu        sync.Mutex
	err       error
	width     float64
	renderers []*mockRenderer
}

func (f *rendererFactory) create(timeout time.Duration) render.Renderer {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &mockRenderer{timeout: timeout, err: f.err, width: f.width}
	f.renderers = append(f.renderers, r)
	return r
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	browsers *rendererFactory
}

func newTestEnv() *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	browsers := &rendererFactory{width: 800}
	return &testEnv{
		Environment: &Environment{
			Stdout:      stdout,
			Stderr:      stderr,
			Config:      config.DefaultConfig(),
			Fonts:       stubFonts{supported: true, families: []string{"Inter", "Roboto"}},
			NewRenderer: browsers.create,
			RunEditor: func(m tui.Model) (tui.Model, error) {
				return m, nil
			},
			IsTerminal: func(io.Writer) bool { return false },
		},
		stdout:   stdout,
		stderr:   stderr,
		browsers: browsers,
	}
}

// writeFile creates dir/name with content, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
