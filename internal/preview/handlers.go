package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/logging"
)

// User-facing messages.
const (
	msgInvalidFile    = "Please upload a valid HTML file."
	msgTooLarge       = "The file is larger than 5MB."
	msgNoFile         = "Choose a file to upload."
	msgFontsNoSupport = "Listing installed fonts is not supported on this machine."
	msgFontsFailed    = "Could not load system fonts. Using the built-in list."
	msgFontsBusy      = "System fonts are already loading."
	msgBadNumber      = "Font size and table width must be whole numbers."
)

// pageData feeds the index template.
type pageData struct {
	Flash          string
	HasDocument    bool
	DocName        string
	DownloadName   string
	Groups         []htmlfont.FontGroup
	Selected       string
	FontSize       int
	TableWidth     int
	MinFontSize    int
	MaxFontSize    int
	FontSizeStep   int
	MinTableWidth  int
	MaxTableWidth  int
	TableWidthStep int
	LoadingFonts   bool
	Sandbox        string
	MaxUploadMB    int
}

// stateResponse is the JSON view of a session.
type stateResponse struct {
	Document      string              `json:"document,omitempty"`
	DownloadName  string              `json:"downloadName,omitempty"`
	Font          htmlfont.FontOption `json:"font"`
	FontSize      int                 `json:"fontSize"`
	TableWidth    int                 `json:"tableWidth"`
	Viewport      int                 `json:"viewport"`
	MaxTableWidth int                 `json:"maxTableWidth"`
	LoadingFonts  bool                `json:"loadingFonts"`
}

func (s *Server) handleStyle(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(s.css))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	sess := e.session
	params := sess.Params()

	data := pageData{
		Flash:          e.takeFlash(),
		Groups:         sess.Catalog().Groups(),
		Selected:       params.Font.Label,
		FontSize:       params.FontSizePx,
		TableWidth:     params.TableWidthPx,
		MinFontSize:    htmlfont.MinFontSize,
		MaxFontSize:    htmlfont.MaxFontSize,
		FontSizeStep:   htmlfont.FontSizeStep,
		MinTableWidth:  htmlfont.MinTableWidth,
		MaxTableWidth:  sess.MaxTableWidth(),
		TableWidthStep: htmlfont.TableWidthStep,
		LoadingFonts:   sess.LoadingFonts(),
		Sandbox:        SandboxPolicy,
		MaxUploadMB:    htmlfont.MaxDocumentSize >> 20,
	}
	if doc, ok := sess.Document(); ok {
		data.HasDocument = true
		data.DocName = doc.Name
		data.DownloadName = doc.DownloadName()
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		logging.FromContext(r.Context()).Error("rendering page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	r.Body = http.MaxBytesReader(w, r.Body, htmlfont.MaxDocumentSize+uploadOverhead)

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			e.setFlash(msgTooLarge)
		} else {
			e.setFlash(msgNoFile)
		}
		s.redirectHome(w, r)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		e.setFlash(msgNoFile)
		s.redirectHome(w, r)
		return
	}
	defer file.Close()

	doc, err := htmlfont.ReadDocument(file, header.Filename, header.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, htmlfont.ErrInvalidFileType):
		e.setFlash(msgInvalidFile)
	case errors.Is(err, htmlfont.ErrDocumentTooLarge):
		e.setFlash(msgTooLarge)
	case err != nil:
		logging.FromContext(r.Context()).Warn("upload failed", "file", header.Filename, "err", err)
		e.setFlash(err.Error())
	default:
		e.session.Load(doc)
		logging.FromContext(r.Context()).Info("document loaded", "file", doc.Name, "bytes", len(doc.Content))
	}
	s.redirectHome(w, r)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	if label := r.PostFormValue("font"); label != "" {
		if err := e.session.SelectFont(label); err != nil {
			e.setFlash(err.Error())
		}
	}
	if v := r.PostFormValue("size"); v != "" {
		px, err := strconv.Atoi(v)
		if err != nil {
			e.setFlash(msgBadNumber)
		} else {
			e.session.SetFontSize(px)
		}
	}
	if v := r.PostFormValue("width"); v != "" {
		px, err := strconv.Atoi(v)
		if err != nil {
			e.setFlash(msgBadNumber)
		} else {
			e.session.SetTableWidth(px)
		}
	}
	s.redirectHome(w, r)
}

func (s *Server) handleSystemFonts(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	logger := logging.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), fontLoadTimeout)
	defer cancel()

	err := e.session.LoadSystemFonts(ctx, s.fonts)
	switch {
	case err == nil:
		logger.Info("system fonts loaded", "count", e.session.Catalog().Len())
	case errors.Is(err, htmlfont.ErrFontsUnsupported):
		e.setFlash(msgFontsNoSupport)
	case errors.Is(err, htmlfont.ErrFontsLoading):
		e.setFlash(msgFontsBusy)
	default:
		logger.Warn("loading system fonts", "err", err)
		e.setFlash(msgFontsFailed)
	}
	s.redirectHome(w, r)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(r.PostFormValue("width"))
	if err != nil || width <= 0 {
		http.Error(w, "width must be a positive integer", http.StatusBadRequest)
		return
	}
	entryFrom(r).session.Resize(width)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	entryFrom(r).session.Reset()
	s.redirectHome(w, r)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rendered := entryFrom(r).session.Rendered()
	if rendered == "" {
		http.Error(w, htmlfont.ErrNoDocument.Error(), http.StatusNotFound)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", "sandbox "+SandboxPolicy)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(rendered))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, data, err := entryFrom(r).session.Export()
	switch {
	case errors.Is(err, htmlfont.ErrNoDocument):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		logging.FromContext(r.Context()).Error("encoding download", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", htmlfont.MIMEType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
	logging.FromContext(r.Context()).Info("document downloaded", "file", name)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := entryFrom(r).session
	params := sess.Params()
	resp := stateResponse{
		Font:          params.Font,
		FontSize:      params.FontSizePx,
		TableWidth:    params.TableWidthPx,
		Viewport:      sess.Viewport(),
		MaxTableWidth: sess.MaxTableWidth(),
		LoadingFonts:  sess.LoadingFonts(),
	}
	if doc, ok := sess.Document(); ok {
		resp.Document = doc.Name
		resp.DownloadName = doc.DownloadName()
	}
	writeJSON(w, r, resp)
}

func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, entryFrom(r).session.Catalog())
}

// redirectHome sends the browser back to the control page.
func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(r.Context()).Error("encoding JSON", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
