package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/assets"
)

const sampleHTML = `<html><head><title>Report</title></head><body><table class="gt_table"><tr><td>1</td></tr></table></body></html>`

// stubFonts is a FontSource with fixed results.
type stubFonts struct {
	supported bool
	families  []string
	err       error
}

func (f stubFonts) Supported(context.Context) bool { return f.supported }

func (f stubFonts) List(context.Context) ([]string, error) { return f.families, f.err }

// client is a browser-like test client with its own cookie jar.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T, opts Options) (*Server, *client) {
	t.Helper()

	srv, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return srv, &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		c.t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(c.t, resp)
}

func (c *client) postForm(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.base+path, form)
	if err != nil {
		c.t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(c.t, resp)
}

func (c *client) upload(name, contentType string, content []byte) (*http.Response, string) {
	c.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		c.t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		c.t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		c.t.Fatal(err)
	}

	resp, err := c.http.Post(c.base+"/upload", mw.FormDataContentType(), &body)
	if err != nil {
		c.t.Fatalf("POST /upload: %v", err)
	}
	return resp, readBody(c.t, resp)
}

func (c *client) state() stateResponse {
	c.t.Helper()
	_, body := c.get("/api/state")
	var st stateResponse
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		c.t.Fatalf("decoding state %q: %v", body, err)
	}
	return st
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestIndex_NoDocument(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})

	resp, body := c.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `action="/upload"`) {
		t.Error("upload form missing without a document")
	}
	if strings.Contains(body, `src="/preview"`) {
		t.Error("preview shown without a document")
	}

	u, _ := url.Parse(c.base)
	if cookies := c.http.Jar.Cookies(u); len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Errorf("cookies = %v, want one %s cookie", cookies, CookieName)
	}
}

func TestStyle(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	resp, body := c.get("/static/ui.css")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, ".preview iframe") {
		t.Error("stylesheet content unexpected")
	}
}

// assetMap serves fixed assets keyed by "<kind>/<name>".
type assetMap map[string]string

func (m assetMap) Load(kind assets.Kind, name string) (string, error) {
	if v, ok := m[kind.String()+"/"+name]; ok {
		return v, nil
	}
	return "", assets.ErrNotFound
}

func TestNew_Assets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loader  assets.Loader
		wantErr error
	}{
		{"missing template", assetMap{"style/ui": "body{}"}, ErrTemplate},
		{"broken template", assetMap{"template/index": "{{ .Nope", "style/ui": "body{}"}, ErrTemplate},
		{"missing style", assetMap{"template/index": "<p>ok</p>"}, ErrStyle},
		{"themed", assets.Layers{assetMap{"style/ui": "body{color:red}"}, assets.Embedded()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, err := New(Options{Assets: tt.loader})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && srv.css != "body{color:red}" {
				t.Errorf("css = %q, want theme override", srv.css)
			}
		})
	}
}

func TestUploadPreviewDownload(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})

	resp, body := c.upload("report.html", "text/html", []byte(sampleHTML))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status after upload = %d", resp.StatusCode)
	}
	for _, want := range []string{`src="/preview"`, `sandbox="` + SandboxPolicy + `"`, "font-modified-report.html", "<option value=\"Arial\" selected>"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	resp, preview := c.get("/preview")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Security-Policy"); got != "sandbox "+SandboxPolicy {
		t.Errorf("CSP = %q", got)
	}
	arial, _ := htmlfont.DefaultCatalog().First()
	want := htmlfont.InjectStyles(sampleHTML, arial.Value, htmlfont.DefaultFontSize, htmlfont.DefaultTableWidth)
	if preview != want {
		t.Errorf("preview differs from InjectStyles output")
	}

	resp, download := c.get("/download")
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename=font-modified-report.html` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/html" {
		t.Errorf("Content-Type = %q, want text/html", got)
	}
	if download != want {
		t.Error("download differs from preview")
	}
}

func TestDownload_KeepsCharset(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})

	// 0xE9 is é in windows-1252.
	raw := "<html><head><meta charset=\"windows-1252\"></head><body>Caf\xe9</body></html>"
	c.upload("latin.html", "text/html", []byte(raw))

	_, preview := c.get("/preview")
	if !strings.Contains(preview, "Café") {
		t.Errorf("preview = %q, want UTF-8 text", preview)
	}

	arial, _ := htmlfont.DefaultCatalog().First()
	idx := strings.Index(raw, "</head>")
	want := raw[:idx] + htmlfont.BuildStyleBlock(arial.Value, htmlfont.DefaultFontSize, htmlfont.DefaultTableWidth) + "\n" + raw[idx:]
	if _, download := c.get("/download"); download != want {
		t.Errorf("download = %q, want %q", download, want)
	}
}

func TestUpload_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		file        string
		contentType string
		content     []byte
		wantFlash   string
	}{
		{"wrong type", "notes.txt", "text/plain", []byte("hello"), msgInvalidFile},
		{"too large", "big.html", "text/html", bytes.Repeat([]byte("a"), htmlfont.MaxDocumentSize+1), msgTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, c := newTestServer(t, Options{})
			_, body := c.upload(tt.file, tt.contentType, tt.content)
			if !strings.Contains(body, tt.wantFlash) {
				t.Errorf("page does not show %q", tt.wantFlash)
			}
			if c.state().Document != "" {
				t.Error("document loaded despite rejection")
			}

			// Flash is shown once.
			if _, again := c.get("/"); strings.Contains(again, tt.wantFlash) {
				t.Error("flash message repeated")
			}
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	_, body := c.postForm("/upload", url.Values{"file": {"x"}})
	if !strings.Contains(body, msgNoFile) {
		t.Errorf("page does not show %q", msgNoFile)
	}
}

func TestPreview_NoDocument(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	for _, path := range []string{"/preview", "/download"} {
		if resp, _ := c.get(path); resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestParams(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	c.upload("report.htm", "", []byte(sampleHTML))

	c.postForm("/params", url.Values{"font": {"Georgia"}, "size": {"200"}, "width": {"50"}})

	st := c.state()
	if st.Font.Label != "Georgia" {
		t.Errorf("font = %q, want Georgia", st.Font.Label)
	}
	if st.FontSize != htmlfont.MaxFontSize {
		t.Errorf("fontSize = %d, want clamp to %d", st.FontSize, htmlfont.MaxFontSize)
	}
	if st.TableWidth != htmlfont.MinTableWidth {
		t.Errorf("tableWidth = %d, want clamp to %d", st.TableWidth, htmlfont.MinTableWidth)
	}

	georgia, _ := htmlfont.DefaultCatalog().Find("Georgia")
	_, preview := c.get("/preview")
	if !strings.Contains(preview, "font-family: "+georgia.Value+" !important;") {
		t.Error("preview does not use the selected font")
	}

	_, body := c.postForm("/params", url.Values{"font": {"Papyrus"}})
	if !strings.Contains(body, "font not found") {
		t.Error("unknown font not reported")
	}
	_, body = c.postForm("/params", url.Values{"size": {"big"}})
	if !strings.Contains(body, msgBadNumber) {
		t.Error("non-numeric size not reported")
	}
}

func TestResize(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	c.postForm("/params", url.Values{"width": {"800"}})

	resp, _ := c.postForm("/resize", url.Values{"width": {"500"}})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	// The page's first report leaves the 40px gutter of the default width.
	st := c.state()
	if st.Viewport != 500 || st.MaxTableWidth != 500 || st.TableWidth != 460 {
		t.Errorf("after first report: %+v", st)
	}

	c.postForm("/params", url.Values{"width": {"500"}})
	c.postForm("/resize", url.Values{"width": {"480"}})
	if st := c.state(); st.TableWidth != 480 || st.MaxTableWidth != 480 {
		t.Errorf("after narrowing: %+v", st)
	}

	c.postForm("/resize", url.Values{"width": {"1400"}})
	if st := c.state(); st.TableWidth != 480 || st.MaxTableWidth != 1400 {
		t.Errorf("after widening: %+v (width must not grow)", st)
	}

	if resp, _ := c.postForm("/resize", url.Values{"width": {"-3"}}); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative width status = %d, want 400", resp.StatusCode)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	c.upload("report.html", "text/html", []byte(sampleHTML))
	c.postForm("/params", url.Values{"font": {"Verdana"}, "size": {"20"}})

	_, body := c.postForm("/reset", nil)
	if !strings.Contains(body, `action="/upload"`) {
		t.Error("reset did not return to the upload form")
	}
	st := c.state()
	if st.Document != "" || st.Font.Label != "Arial" || st.FontSize != htmlfont.DefaultFontSize {
		t.Errorf("state after reset = %+v", st)
	}
}

func TestSystemFonts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fonts     htmlfont.FontSource
		wantFlash string
		wantFirst string
	}{
		{"nil source", nil, msgFontsNoSupport, "Arial"},
		{"unsupported", stubFonts{}, msgFontsNoSupport, "Arial"},
		{"list error", stubFonts{supported: true, err: errors.New("denied")}, msgFontsFailed, "Arial"},
		{"success", stubFonts{supported: true, families: []string{"Zapfino", "Avenir", "Zapfino"}}, "", "Avenir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, c := newTestServer(t, Options{Fonts: tt.fonts})
			_, body := c.postForm("/fonts/system", nil)
			if tt.wantFlash != "" && !strings.Contains(body, tt.wantFlash) {
				t.Errorf("page does not show %q", tt.wantFlash)
			}
			if got := c.state().Font.Label; got != tt.wantFirst {
				t.Errorf("selected font = %q, want %q", got, tt.wantFirst)
			}
		})
	}
}

func TestFontsAPI(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{})
	_, body := c.get("/api/fonts")

	var cat []htmlfont.FontOption
	if err := json.Unmarshal([]byte(body), &cat); err != nil {
		t.Fatalf("decoding %q: %v", body, err)
	}
	if len(cat) != htmlfont.DefaultCatalog().Len() {
		t.Errorf("catalog has %d entries, want %d", len(cat), htmlfont.DefaultCatalog().Len())
	}
}

func TestSessions_Isolated(t *testing.T) {
	t.Parallel()

	srv, a := newTestServer(t, Options{})
	a.upload("a.html", "text/html", []byte(sampleHTML))

	jar, _ := cookiejar.New(nil)
	b := &client{t: t, base: a.base, http: &http.Client{Jar: jar}}

	if b.state().Document != "" {
		t.Error("second browser sees the first browser's document")
	}
	if a.state().Document != "a.html" {
		t.Error("first browser lost its document")
	}
	if n := srv.store.len(); n != 2 {
		t.Errorf("sessions = %d, want 2", n)
	}
}

func TestNewSessionFactory(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t, Options{NewSession: func() *htmlfont.Session {
		s := htmlfont.NewSession(900)
		s.Load(htmlfont.Document{Name: "preloaded.html", Content: sampleHTML})
		return s
	}})

	st := c.state()
	if st.Document != "preloaded.html" || st.Viewport != 900 {
		t.Errorf("state = %+v", st)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	t.Parallel()

	srv, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a })
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String() + "/static/ui.css")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
