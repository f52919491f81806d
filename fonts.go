package htmlfont

import (
	"context"
	"sort"
	"strings"
)

// Font categories of the built-in catalog.
const (
	CategorySansSerif = "sans-serif"
	CategorySerif     = "serif"
	CategoryMonospace = "monospace"
	CategoryCursive   = "cursive"

	// CategoryLocal groups fonts enumerated from the host.
	CategoryLocal = "System / Local"

	// categoryOther groups entries without a category.
	categoryOther = "Other"
)

// FontOption is a selectable font: a display label and a CSS font-family value.
type FontOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

// FontGroup is a titled run of catalog entries sharing a category.
type FontGroup struct {
	Title string
	Fonts []FontOption
}

// Catalog is the ordered list of selectable fonts.
type Catalog []FontOption

// defaultFonts is the built-in catalog with fallback chains.
var defaultFonts = Catalog{
	{Label: "Arial", Value: `Arial, "Helvetica Neue", Helvetica, sans-serif`, Category: CategorySansSerif},
	{Label: "Verdana", Value: `Verdana, Geneva, Tahoma, sans-serif`, Category: CategorySansSerif},
	{Label: "Helvetica", Value: `Helvetica, Arial, sans-serif`, Category: CategorySansSerif},
	{Label: "Tahoma", Value: `Tahoma, Verdana, Segoe, sans-serif`, Category: CategorySansSerif},
	{Label: "Trebuchet MS", Value: `"Trebuchet MS", "Lucida Sans Unicode", "Lucida Grande", "Lucida Sans", Arial, sans-serif`, Category: CategorySansSerif},
	{Label: "Impact", Value: `Impact, Haettenschweiler, "Arial Narrow Bold", sans-serif`, Category: CategorySansSerif},
	{Label: "System UI", Value: `system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Oxygen, Ubuntu, Cantarell, "Open Sans", "Helvetica Neue", sans-serif`, Category: CategorySansSerif},

	{Label: "Times New Roman", Value: `"Times New Roman", Times, Baskerville, Georgia, serif`, Category: CategorySerif},
	{Label: "Georgia", Value: `Georgia, Times, "Times New Roman", serif`, Category: CategorySerif},
	{Label: "Garamond", Value: `Garamond, Baskerville, "Baskerville Old Face", "Hoefler Text", "Times New Roman", serif`, Category: CategorySerif},
	{Label: "Palatino", Value: `Palatino, "Palatino Linotype", "Book Antiqua", serif`, Category: CategorySerif},

	{Label: "Courier New", Value: `"Courier New", Courier, "Lucida Sans Typewriter", "Lucida Typewriter", monospace`, Category: CategoryMonospace},
	{Label: "Consolas", Value: `Consolas, monaco, monospace`, Category: CategoryMonospace},
	{Label: "Lucida Console", Value: `"Lucida Console", "Lucida Sans Typewriter", monaco, "Bitstream Vera Sans Mono", monospace`, Category: CategoryMonospace},

	{Label: "Comic Sans MS", Value: `"Comic Sans MS", "Comic Sans", cursive`, Category: CategoryCursive},
}

// DefaultCatalog returns a copy of the built-in catalog.
func DefaultCatalog() Catalog {
	return append(Catalog(nil), defaultFonts...)
}

// Len returns the number of entries.
func (c Catalog) Len() int { return len(c) }

// First returns the first entry, or false when the catalog is empty.
func (c Catalog) First() (FontOption, bool) {
	if len(c) == 0 {
		return FontOption{}, false
	}
	return c[0], true
}

// Find returns the entry with the given label.
func (c Catalog) Find(label string) (FontOption, bool) {
	for _, f := range c {
		if f.Label == label {
			return f, true
		}
	}
	return FontOption{}, false
}

// Labels returns the entry labels in catalog order.
func (c Catalog) Labels() []string {
	labels := make([]string, len(c))
	for i, f := range c {
		labels[i] = f.Label
	}
	return labels
}

// Groups returns entries grouped by category, in order of first appearance.
// Entries without a category go to "Other". Titles are capitalized.
func (c Catalog) Groups() []FontGroup {
	var groups []FontGroup
	index := make(map[string]int)

	for _, f := range c {
		cat := f.Category
		if cat == "" {
			cat = categoryOther
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, FontGroup{Title: capitalize(cat)})
		}
		groups[i].Fonts = append(groups[i].Fonts, f)
	}

	return groups
}

// capitalize upper-cases the first ASCII letter of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if 'a' <= c && c <= 'z' {
		return string(c-('a'-'A')) + s[1:]
	}
	return s
}

// FontSource enumerates fonts installed on the host.
// Enumeration is optional: callers check Supported before List.
type FontSource interface {
	// Supported reports whether the host can enumerate installed fonts.
	Supported(ctx context.Context) bool

	// List returns the family names of installed fonts, possibly with duplicates.
	List(ctx context.Context) ([]string, error)
}

// LocalCatalog builds a catalog from installed font families.
// Families are deduplicated (first occurrence wins), each gets a sans-serif
// fallback, and the result is sorted by label.
func LocalCatalog(families []string) Catalog {
	seen := make(map[string]bool, len(families))
	catalog := make(Catalog, 0, len(families))

	for _, family := range families {
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		catalog = append(catalog, FontOption{
			Label:    family,
			Value:    `"` + family + `", sans-serif`,
			Category: CategoryLocal,
		})
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		a, b := strings.ToLower(catalog[i].Label), strings.ToLower(catalog[j].Label)
		if a != b {
			return a < b
		}
		return catalog[i].Label < catalog[j].Label
	})

	return catalog
}
