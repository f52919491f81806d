// Package htmlinfo reports the parts of an HTML document that decide how a
// style override lands: where the block goes, which tables it targets, and
// which existing rules may still compete with it.
package htmlinfo

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	htmlfont "github.com/alnah/go-htmlfont"
)

// injectedMarker identifies a style block written by htmlfont.
const injectedMarker = "/* Specific overrides for ." + htmlfont.TableClass + " as requested */"

// Precompiled selectors.
var (
	selTitle       = cascadia.MustCompile("head > title")
	selTables      = cascadia.MustCompile("table." + htmlfont.TableClass)
	selStyles      = cascadia.MustCompile("style")
	selStylesheets = cascadia.MustCompile("link[rel][href]")
	selInlineStyle = cascadia.MustCompile("[style]")
	selMetaCharset = cascadia.MustCompile("meta[charset]")
	selMetaHTTP    = cascadia.MustCompile("meta[http-equiv][content]")
)

// Report summarizes a document.
type Report struct {
	Title       string
	Charset     string
	Insertion   htmlfont.InsertionPoint
	Tables      int      // Elements matching table.gt_table
	TableIDs    []string // id attributes of those tables, when set
	StyleBlocks int      // <style> elements
	Injected    int      // <style> elements previously written by htmlfont
	Stylesheets []string // External stylesheet hrefs
	// InlineImportant counts elements whose style attribute sets a font or
	// width with !important; those declarations beat the injected block.
	InlineImportant int
}

// Inspect parses content and builds a Report.
func Inspect(content string) (*Report, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	r := &Report{
		Insertion: htmlfont.LocateInsertion(content),
		Title:     strings.TrimSpace(doc.FindMatcher(selTitle).First().Text()),
		Charset:   charsetOf(doc),
	}

	tables := doc.FindMatcher(selTables)
	r.Tables = tables.Length()
	tables.Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			r.TableIDs = append(r.TableIDs, id)
		}
	})

	styles := doc.FindMatcher(selStyles)
	r.StyleBlocks = styles.Length()
	styles.Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(s.Text(), injectedMarker) {
			r.Injected++
		}
	})

	doc.FindMatcher(selStylesheets).Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if hasToken(rel, "stylesheet") {
			href, _ := s.Attr("href")
			r.Stylesheets = append(r.Stylesheets, href)
		}
	})

	doc.FindMatcher(selInlineStyle).Each(func(_ int, s *goquery.Selection) {
		if style, _ := s.Attr("style"); hasImportantOverride(style) {
			r.InlineImportant++
		}
	})

	return r, nil
}

// Warnings lists conditions under which the override may not fully apply.
func (r *Report) Warnings() []string {
	var w []string
	if r.Tables == 0 {
		w = append(w, fmt.Sprintf("no table.%s found; width override has no target", htmlfont.TableClass))
	}
	if r.Injected > 0 {
		w = append(w, fmt.Sprintf("document already contains %d htmlfont style block(s); applying again adds another", r.Injected))
	}
	if len(r.Stylesheets) > 0 {
		w = append(w, fmt.Sprintf("%d external stylesheet(s) are not modified", len(r.Stylesheets)))
	}
	if r.InlineImportant > 0 {
		w = append(w, fmt.Sprintf("%d element(s) use inline !important font or width rules", r.InlineImportant))
	}
	if r.Insertion == htmlfont.InsertPrepend {
		w = append(w, "no </head> or <body> tag; style block will be prepended")
	}
	return w
}

// charsetOf returns the declared charset, or "".
func charsetOf(doc *goquery.Document) string {
	if cs, ok := doc.FindMatcher(selMetaCharset).First().Attr("charset"); ok {
		return strings.ToLower(strings.TrimSpace(cs))
	}
	var content string
	doc.FindMatcher(selMetaHTTP).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if equiv, _ := s.Attr("http-equiv"); strings.EqualFold(equiv, "content-type") {
			content, _ = s.Attr("content")
			return false
		}
		return true
	})
	for _, part := range strings.Split(content, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && strings.EqualFold(strings.TrimSpace(k), "charset") {
			return strings.ToLower(strings.Trim(strings.TrimSpace(v), `"'`))
		}
	}
	return ""
}

// hasImportantOverride reports whether an inline style declares font-* or
// width with !important.
func hasImportantOverride(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop != "width" && prop != "font" && !strings.HasPrefix(prop, "font-") {
			continue
		}
		if strings.Contains(strings.ToLower(value), "!important") {
			return true
		}
	}
	return false
}

// hasToken reports whether the space-separated list contains tok, ignoring case.
func hasToken(list, tok string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, tok) {
			return true
		}
	}
	return false
}
