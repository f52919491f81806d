package assets

import (
	"embed"
	"fmt"
	"strings"
)

// Names of the built-in assets.
const (
	DefaultStyleName  = "ui"
	IndexTemplateName = "index"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// Kind selects the directory and extension of an asset.
type Kind int

const (
	Style Kind = iota
	Template
)

func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "style"
}

// path returns the slash-separated location of name within a source.
func (k Kind) path(name string) string {
	if k == Template {
		return "templates/" + name + ".html"
	}
	return "styles/" + name + ".css"
}

// ValidateName checks that name is a bare file stem: no separators, no
// dots, no NUL. This rules out traversal and extension tricks alike.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
