package htmlfont

import (
	"context"
	"fmt"
	"sync"
)

// Session owns the state of one editing session: the loaded document, the
// font catalog, the style parameters, and the viewport the table width is
// bounded by. The rendered document is never stored; Rendered recomputes it.
//
// A Session is safe for concurrent use. Every operation except
// LoadSystemFonts is synchronous and non-blocking.
type Session struct {
	mu       sync.Mutex
	doc      *Document
	catalog  Catalog
	params   StyleParams
	viewport int
	measured bool
	loading  bool
}

// NewSession creates a session with the built-in catalog and default parameters.
// A non-positive viewport width falls back to DefaultViewportWidth.
func NewSession(viewportWidth int) *Session {
	return NewSessionWithCatalog(DefaultCatalog(), viewportWidth)
}

// NewSessionWithCatalog creates a session starting from the given catalog.
// An empty catalog falls back to the built-in one.
func NewSessionWithCatalog(catalog Catalog, viewportWidth int) *Session {
	if viewportWidth <= 0 {
		viewportWidth = DefaultViewportWidth
	}
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	s := &Session{catalog: catalog, viewport: viewportWidth}
	s.params = s.defaultParams()
	return s
}

// defaultParams must be called with mu held.
func (s *Session) defaultParams() StyleParams {
	first, _ := s.catalog.First()
	return DefaultStyleParams(first, s.viewport)
}

// Load replaces the current document. Parameters are kept.
func (s *Session) Load(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &doc
}

// Document returns the loaded document.
func (s *Session) Document() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return Document{}, false
	}
	return *s.doc, true
}

// HasDocument reports whether a document is loaded.
func (s *Session) HasDocument() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc != nil
}

// Catalog returns a copy of the active catalog.
func (s *Session) Catalog() Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(Catalog(nil), s.catalog...)
}

// Params returns the current style parameters.
func (s *Session) Params() StyleParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Viewport returns the current viewport width.
func (s *Session) Viewport() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// MaxTableWidth returns the current upper bound for the table width.
func (s *Session) MaxTableWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MaxTableWidth(s.viewport)
}

// SelectFont makes the catalog entry with the given label active.
func (s *Session) SelectFont(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	font, ok := s.catalog.Find(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrFontNotFound, label)
	}
	s.params.Font = font
	return nil
}

// SetFontValue uses a raw CSS font-family value that is not in the catalog.
func (s *Session) SetFontValue(label, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Font = FontOption{Label: label, Value: value}
}

// SetFontSize sets the base font size, clamped to [MinFontSize, MaxFontSize].
// Returns the applied value.
func (s *Session) SetFontSize(px int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.FontSizePx = ClampFontSize(px)
	return s.params.FontSizePx
}

// SetTableWidth sets the table width, clamped to the current viewport bound.
// Returns the applied value.
func (s *Session) SetTableWidth(px int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.TableWidthPx = ClampTableWidth(px, s.viewport)
	return s.params.TableWidthPx
}

// Resize records a new viewport width. The table width is narrowed if it no
// longer fits, and never widened. The first call reports the real viewport,
// so it also leaves the default gutter: the width becomes at most
// viewport-40. Non-positive widths are ignored.
func (s *Session) Resize(viewportWidth int) {
	if viewportWidth <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = viewportWidth
	upper := MaxTableWidth(viewportWidth)
	if !s.measured {
		s.measured = true
		upper = max(min(upper, viewportWidth-tableWidthGutter), MinTableWidth)
	}
	if s.params.TableWidthPx > upper {
		s.params.TableWidthPx = upper
	}
}

// Rendered returns the loaded document with the current styles applied,
// or an empty string when no document is loaded.
func (s *Session) Rendered() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return Render(*s.doc, s.params)
}

// Download returns the filename and content to save.
// ok is false when there is nothing to save.
func (s *Session) Download() (name, content string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", "", false
	}
	content = Render(*s.doc, s.params)
	if content == "" {
		return "", "", false
	}
	return s.doc.DownloadName(), content, true
}

// Export returns the filename and the rendered document encoded in the
// charset it was read in, ready to be written out.
func (s *Session) Export() (name string, data []byte, err error) {
	s.mu.Lock()
	doc, params := s.doc, s.params
	s.mu.Unlock()

	if doc == nil {
		return "", nil, ErrNoDocument
	}
	content := Render(*doc, params)
	if content == "" {
		return "", nil, ErrNoDocument
	}
	data, err = doc.Encode(content)
	if err != nil {
		return "", nil, err
	}
	return doc.DownloadName(), data, nil
}

// Reset drops the document and restores default parameters, using the first
// entry of the current catalog.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.params = s.defaultParams()
}

// LoadingFonts reports whether a system font load is in progress.
func (s *Session) LoadingFonts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LoadSystemFonts replaces the catalog with the fonts installed on the host
// and selects the first one. On any failure the catalog and selection are
// left untouched. Only one load may be in flight at a time.
func (s *Session) LoadSystemFonts(ctx context.Context, src FontSource) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrFontsLoading
	}
	s.loading = true
	s.mu.Unlock()

	catalog, err := fetchLocalCatalog(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return err
	}
	s.catalog = catalog
	s.params.Font = catalog[0]
	return nil
}

// fetchLocalCatalog queries src without holding the session lock.
func fetchLocalCatalog(ctx context.Context, src FontSource) (Catalog, error) {
	if src == nil || !src.Supported(ctx) {
		return nil, ErrFontsUnsupported
	}

	families, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontsUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontsUnavailable, err)
	}

	catalog := LocalCatalog(families)
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: no font families found", ErrFontsUnavailable)
	}
	return catalog, nil
}
