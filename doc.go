// Package htmlfont overrides the typography of HTML reports.
//
// # Quick Start
//
// Inject a font, a base font size and a table width into a document:
//
//	out := htmlfont.InjectStyles(html, `Georgia, serif`, 14, 600)
//
// InjectStyles is pure: it never fails, keeps no state, and returns the same
// output for the same input. Empty input yields empty output.
//
// # Style Block
//
// The injected <style> block sets, with !important:
//
//  1. font-size on html and body
//  2. font-family on body and all of its descendants
//  3. font-size again on .gt_table and its th, td and tr descendants, since
//     descendant selectors in the document's own stylesheet can otherwise win
//  4. width on .gt_table, centered with auto left and right margins
//
// # Insertion Point
//
// The block goes right before the first </head>. Without one, it goes right
// after the opening <body> tag, attributes preserved. Otherwise it is
// prepended. Tag matching is case-insensitive. Injecting twice appends a
// second block, which wins by coming later.
//
// # Sessions
//
// Session holds the state an editor needs: the uploaded Document, the font
// Catalog, the StyleParams and the viewport bounding the table width:
//
//	s := htmlfont.NewSession(1280)
//	doc, err := htmlfont.ReadDocument(f, "report.html", "text/html")
//	if err != nil {
//	    return err
//	}
//	s.Load(doc)
//	s.SetFontSize(18)
//	name, content, _ := s.Download() // "font-modified-report.html"
//
// Installed fonts can replace the built-in catalog through a FontSource.
// A failed load leaves the catalog and the selection unchanged.
package htmlfont
