package htmlfont

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// MIMEType is the media type of accepted and produced documents.
const MIMEType = "text/html"

// DownloadPrefix is prepended to the original filename of a saved document.
const DownloadPrefix = "font-modified-"

// MaxDocumentSize limits accepted documents to 5 MiB.
const MaxDocumentSize = 5 << 20

const utf8Charset = "utf-8"

var utf8BOM = []byte("\xef\xbb\xbf")

// Document is an uploaded HTML file. It is never modified after loading.
type Document struct {
	Name    string // Original filename, only used to derive the download name
	Content string // HTML text, decoded to UTF-8
	// Charset is the encoding the file was decoded from. Empty means UTF-8.
	Charset string
	// BOM records a UTF-8 byte order mark stripped from the file.
	BOM bool
}

// DownloadName returns the filename for the modified document.
func (d Document) DownloadName() string {
	return DownloadName(d.Name)
}

// DownloadName returns "font-modified-<name>".
func DownloadName(name string) string {
	return DownloadPrefix + name
}

// ValidateHTMLFile accepts files whose media type is text/html or whose name
// ends with .html or .htm. Media type parameters such as charset are ignored.
func ValidateHTMLFile(name, mimeType string) error {
	if isHTMLMediaType(mimeType) || strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidFileType, name)
}

// isHTMLMediaType reports whether mimeType parses to text/html.
func isHTMLMediaType(mimeType string) bool {
	if mimeType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	return mediaType == MIMEType
}

// ReadDocument validates and reads an HTML file fully into memory as text.
// Non UTF-8 content is decoded the way a browser would pick the charset:
// byte order mark, then the charset in mimeType, then a <meta> prescan.
func ReadDocument(r io.Reader, name, mimeType string) (Document, error) {
	if err := ValidateHTMLFile(name, mimeType); err != nil {
		return Document{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}
	if len(data) > MaxDocumentSize {
		return Document{}, fmt.Errorf("%w: %s (max %d bytes)", ErrDocumentTooLarge, name, MaxDocumentSize)
	}

	doc, err := decodeHTML(data, mimeType)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}
	doc.Name = name
	return doc, nil
}

// decodeHTML converts data to UTF-8, dropping a leading UTF-8 BOM, and
// records what Encode needs to restore the original bytes.
func decodeHTML(data []byte, mimeType string) (Document, error) {
	if len(data) == 0 {
		return Document{}, nil
	}

	enc, name, _ := charset.DetermineEncoding(data, mimeType)
	doc := Document{Charset: name}
	if name == utf8Charset {
		enc = unicode.UTF8BOM
		doc.BOM = bytes.HasPrefix(data, utf8BOM)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return Document{}, err
	}
	doc.Content = string(decoded)
	return doc, nil
}

// Encode converts html, usually the output of Render, back to the charset
// the document was read in, so the saved file still matches its own
// charset declaration. Everything decoded from the file round-trips; runes
// the charset cannot represent can only come from the style block, and are
// written there as CSS escapes.
func (d Document) Encode(html string) ([]byte, error) {
	if d.Charset == "" || d.Charset == utf8Charset {
		if d.BOM {
			return append(bytes.Clone(utf8BOM), html...), nil
		}
		return []byte(html), nil
	}

	enc, _ := charset.Lookup(d.Charset)
	if enc == nil {
		return nil, fmt.Errorf("%w: unknown charset %q", ErrDocumentEncode, d.Charset)
	}
	out, err := enc.NewEncoder().Bytes([]byte(html))
	if err != nil {
		out, err = enc.NewEncoder().Bytes([]byte(cssEscapeUnsupported(enc, html)))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentEncode, d.Charset, err)
	}
	return out, nil
}

// cssEscapeUnsupported replaces runes enc cannot represent with CSS escapes.
func cssEscapeUnsupported(enc encoding.Encoding, s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= utf8.RuneSelf {
			if _, err := enc.NewEncoder().String(string(r)); err != nil {
				fmt.Fprintf(&b, "\\%x ", r)
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
