// Package preview serves a local web page for adjusting a document's
// typography and previewing the result before downloading it.
//
// Each browser gets its own htmlfont.Session, keyed by a random cookie.
// The preview itself is served with a Content-Security-Policy sandbox that
// keeps allow-same-origin and allow-scripts, so the document renders as it
// would in its own tab. Its scripts run on the server's origin and can read
// the control page and call its endpoints: only preview trusted documents.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/assets"
	"github.com/alnah/go-htmlfont/internal/logging"
)

// Sentinel errors for the preview server.
var (
	ErrTemplate = errors.New("failed to load page template")
	ErrStyle    = errors.New("failed to load page stylesheet")
)

// Server defaults.
const (
	DefaultAddr       = "127.0.0.1:8080"
	CookieName        = "htmlfont_session"
	SandboxPolicy     = "allow-same-origin allow-scripts allow-forms"
	fontLoadTimeout   = 30 * time.Second
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	uploadMemory      = 1 << 20
	// uploadOverhead leaves room for multipart framing above the document cap.
	uploadOverhead = 1 << 20
)

// Options configures a Server.
type Options struct {
	// NewSession creates the state for a new browser. Nil uses
	// htmlfont.NewSession(htmlfont.DefaultViewportWidth).
	NewSession func() *htmlfont.Session
	// Fonts enumerates installed fonts. Nil disables system fonts.
	Fonts htmlfont.FontSource
	// Assets supplies the page template and stylesheet. Nil uses embedded assets.
	Assets assets.Loader
	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server is the preview HTTP handler.
type Server struct {
	router chi.Router
	store  *store
	fonts  htmlfont.FontSource
	page   *template.Template
	css    string
	logger *log.Logger
}

// New creates a Server and parses its assets.
func New(opts Options) (*Server, error) {
	if opts.NewSession == nil {
		opts.NewSession = func() *htmlfont.Session {
			return htmlfont.NewSession(htmlfont.DefaultViewportWidth)
		}
	}
	if opts.Assets == nil {
		opts.Assets = assets.Embedded()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	tmplText, err := opts.Assets.Load(assets.Template, assets.IndexTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	page, err := template.New(assets.IndexTemplateName).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	css, err := opts.Assets.Load(assets.Style, assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStyle, err)
	}

	s := &Server{
		store:  newStore(opts.NewSession),
		fonts:  opts.Fonts,
		page:   page,
		css:    css,
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// routes wires handlers and middleware.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/static/ui.css", s.handleStyle)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Get("/preview", s.handlePreview)
		r.Get("/download", s.handleDownload)
		r.Get("/api/state", s.handleState)
		r.Get("/api/fonts", s.handleFonts)

		r.Post("/upload", s.handleUpload)
		r.Post("/params", s.handleParams)
		r.Post("/fonts/system", s.handleSystemFonts)
		r.Post("/resize", s.handleResize)
		r.Post("/reset", s.handleReset)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. ready, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	if addr == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// requestLogger logs each request at debug level, and server errors at warn.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), s.logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn(r.Method+" "+r.URL.Path, fields...)
			return
		}
		s.logger.Debug(r.Method+" "+r.URL.Path, fields...)
	})
}

type entryKey struct{}

// withSession attaches the caller's session entry, creating one and setting
// the cookie when the request carries no valid ID.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e *entry
		if c, err := r.Cookie(CookieName); err == nil {
			e = s.store.get(c.Value)
		}
		if e == nil {
			var id string
			id, e = s.store.add()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			s.logger.Debug("session created", "sessions", s.store.len())
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), entryKey{}, e)))
	})
}

// entryFrom returns the entry attached by withSession.
func entryFrom(r *http.Request) *entry {
	return r.Context().Value(entryKey{}).(*entry)
}
