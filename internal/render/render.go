// Package render renders HTML documents in headless Chrome via go-rod.
// It produces the snapshot images and PDFs used to check a styled document
// outside the preview server. Rod downloads a managed Chromium on first run
// when no browser is found.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-htmlfont/internal/fileutil"
	"github.com/alnah/go-htmlfont/internal/process"
)

// Sentinel errors for rendering.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("screenshot capture failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrMeasure        = errors.New("table measurement failed")
	ErrClosed         = errors.New("renderer is closed")
)

// Defaults for page setup.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1200
	DefaultViewportHeight = 800
)

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// measureTableJS returns the rendered width of the first .gt_table, or -1.
const measureTableJS = `() => {
  const t = document.querySelector('.gt_table');
  return t ? t.getBoundingClientRect().width : -1;
}`

// Options configures a render.
type Options struct {
	ViewportWidth  int  // CSS pixels, 0 = DefaultViewportWidth
	ViewportHeight int  // CSS pixels, 0 = DefaultViewportHeight
	FullPage       bool // Capture the whole document, not only the viewport
}

func (o *Options) viewport() (int, int) {
	w, h := DefaultViewportWidth, DefaultViewportHeight
	if o != nil && o.ViewportWidth > 0 {
		w = o.ViewportWidth
	}
	if o != nil && o.ViewportHeight > 0 {
		h = o.ViewportHeight
	}
	return w, h
}

// Renderer turns an HTML string into an image, a PDF, or a measurement.
type Renderer interface {
	Screenshot(ctx context.Context, htmlContent string, opts *Options) ([]byte, error)
	PDF(ctx context.Context, htmlContent string, opts *Options) ([]byte, error)
	MeasureTable(ctx context.Context, htmlContent string, opts *Options) (float64, error)
	Close() error
}

// Compile-time interface check.
var _ Renderer = (*RodRenderer)(nil)

// RodRenderer implements Renderer with a lazily launched headless Chrome.
// It is safe for concurrent use; pages are independent.
type RodRenderer struct {
	timeout  time.Duration
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	closed   bool
}

// NewRodRenderer creates a renderer. A non-positive timeout uses DefaultTimeout.
func NewRodRenderer(timeout time.Duration) *RodRenderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close releases browser resources. Safe to call more than once.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Screenshot renders htmlContent and returns a PNG image.
func (r *RodRenderer) Screenshot(ctx context.Context, htmlContent string, opts *Options) ([]byte, error) {
	var png []byte
	err := r.withPage(ctx, htmlContent, opts, func(page *rod.Page) error {
		fullPage := opts != nil && opts.FullPage
		data, err := page.Screenshot(fullPage, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrScreenshot, err)
		}
		png = data
		return nil
	})
	return png, err
}

// PDF renders htmlContent to a US Letter PDF with 0.5 inch margins.
func (r *RodRenderer) PDF(ctx context.Context, htmlContent string, opts *Options) ([]byte, error) {
	var pdf []byte
	err := r.withPage(ctx, htmlContent, opts, func(page *rod.Page) error {
		reader, err := page.PDF(&proto.PagePrintToPDF{
			PaperWidth:      floatPtr(paperWidthInches),
			PaperHeight:     floatPtr(paperHeightInches),
			MarginTop:       floatPtr(marginInches),
			MarginBottom:    floatPtr(marginInches),
			MarginLeft:      floatPtr(marginInches),
			MarginRight:     floatPtr(marginInches),
			PrintBackground: true,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
		}
		pdf = data
		return nil
	})
	return pdf, err
}

// MeasureTable renders htmlContent and returns the width in CSS pixels of the
// first .gt_table element, or -1 when the document has none.
func (r *RodRenderer) MeasureTable(ctx context.Context, htmlContent string, opts *Options) (float64, error) {
	width := -1.0
	err := r.withPage(ctx, htmlContent, opts, func(page *rod.Page) error {
		res, err := page.Eval(measureTableJS)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMeasure, err)
		}
		width = res.Value.Num()
		return nil
	})
	return width, err
}

// withPage loads htmlContent from a temp file into a new page sized to the
// viewport, waits for load, and runs fn.
func (r *RodRenderer) withPage(ctx context.Context, htmlContent string, opts *Options, fn func(*rod.Page) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	width, height := opts.viewport()
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	tp := page.Context(ctx).Timeout(timeout)
	defer tp.CancelTimeout()

	if err := tp.Navigate("file://" + tmpPath); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := tp.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(tp)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
