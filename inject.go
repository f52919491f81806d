package htmlfont

import "fmt"

// TableClass is the class of the report table the width and size overrides target.
const TableClass = "gt_table"

// styleBlockFormat is the injected style block.
// Arguments: 1=font-family value, 2=font size in px, 3=table width in px.
// The layout, including trailing spaces, matches documents produced by earlier
// releases of the tool, so diffs against those stay empty.
const styleBlockFormat = "<style>\n" +
	"      html, body {\n" +
	"        font-size: %[2]dpx !important;\n" +
	"      }\n" +
	"      body, body * {\n" +
	"        font-family: %[1]s !important;\n" +
	"      }\n" +
	"      \n" +
	"      /* Specific overrides for .gt_table as requested */\n" +
	"      .gt_table, \n" +
	"      .gt_table th, \n" +
	"      .gt_table td,\n" +
	"      .gt_table tr {\n" +
	"        font-size: %[2]dpx !important;\n" +
	"      }\n" +
	"      \n" +
	"      .gt_table {\n" +
	"        width: %[3]dpx !important;\n" +
	"        margin-left: auto !important;\n" +
	"        margin-right: auto !important;\n" +
	"      }\n" +
	"    </style>"

// InsertionPoint identifies where InjectStyles places the style block.
type InsertionPoint int

const (
	// InsertNone means the document is empty and nothing is inserted.
	InsertNone InsertionPoint = iota
	// InsertBeforeHeadClose places the block right before the first </head>.
	InsertBeforeHeadClose
	// InsertAfterBodyOpen places the block right after the first <body ...> tag.
	InsertAfterBodyOpen
	// InsertPrepend places the block at the start of the document.
	InsertPrepend
)

// String returns a short human label for the insertion point.
func (p InsertionPoint) String() string {
	switch p {
	case InsertBeforeHeadClose:
		return "before </head>"
	case InsertAfterBodyOpen:
		return "after <body>"
	case InsertPrepend:
		return "prepend"
	default:
		return "none"
	}
}

// BuildStyleBlock returns the <style> block applying the given typography.
// The font value is used verbatim. Sizes are not bounds-checked.
func BuildStyleBlock(font string, sizePx, widthPx int) string {
	return fmt.Sprintf(styleBlockFormat, font, sizePx, widthPx)
}

// InjectStyles returns a copy of html with the typography style block inserted.
// Tries before </head> first, then after the opening <body> tag, then prepends.
// Tag matching is ASCII case-insensitive. Empty input yields an empty string.
// The function never fails: malformed markup falls through to the next strategy.
func InjectStyles(html, font string, sizePx, widthPx int) string {
	point, pos := locateInsertion(html)
	if point == InsertNone {
		return ""
	}

	styleBlock := BuildStyleBlock(font, sizePx, widthPx)

	switch point {
	case InsertBeforeHeadClose:
		return html[:pos] + styleBlock + "\n" + html[pos:]
	case InsertAfterBodyOpen:
		return html[:pos] + "\n" + styleBlock + html[pos:]
	default:
		return styleBlock + "\n" + html
	}
}

// Render applies params to the document content.
func Render(doc Document, p StyleParams) string {
	return InjectStyles(doc.Content, p.Font.Value, p.FontSizePx, p.TableWidthPx)
}

// LocateInsertion reports which strategy InjectStyles uses for html.
func LocateInsertion(html string) InsertionPoint {
	point, _ := locateInsertion(html)
	return point
}

// locateInsertion returns the strategy and the byte offset to insert at.
func locateInsertion(html string) (InsertionPoint, int) {
	if html == "" {
		return InsertNone, 0
	}

	if idx := indexFold(html, "</head>"); idx != -1 {
		return InsertBeforeHeadClose, idx
	}

	// A <body without a closing '>' cannot take an insertion after it.
	if idx := indexFold(html, "<body"); idx != -1 {
		if closeIdx := indexByteFrom(html, '>', idx); closeIdx != -1 {
			return InsertAfterBodyOpen, closeIdx + 1
		}
	}

	return InsertPrepend, 0
}

// indexFold returns the index of the first ASCII case-insensitive match of
// lowerSubstr in s, or -1. lowerSubstr must be lowercase ASCII.
// Offsets refer to s itself, unlike strings.ToLower which may change lengths.
func indexFold(s, lowerSubstr string) int {
	n := len(lowerSubstr)
	for i := 0; i+n <= len(s); i++ {
		j := 0
		for ; j < n; j++ {
			c := s[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != lowerSubstr[j] {
				break
			}
		}
		if j == n {
			return i
		}
	}
	return -1
}

// indexByteFrom returns the index of the first c at or after from, or -1.
func indexByteFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
