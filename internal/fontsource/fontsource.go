// Package fontsource lists the font families installed on the host.
//
// Font files are located with go-findfont (platform font directories plus
// XDG and user directories) and family names are read from each file's
// OpenType name table.
package fontsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"

	htmlfont "github.com/alnah/go-htmlfont"
)

// Sentinel errors for font enumeration.
var (
	ErrNoFontFiles = errors.New("no font files found")
	ErrNoFamilies  = errors.New("no readable font families")
)

// maxFontFileSize skips oversized files such as CJK collections.
const maxFontFileSize = 64 << 20

// fontExtensions are the file types parsed for family names.
var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// Source implements htmlfont.FontSource over the local font directories.
type Source struct {
	listFiles func() []string
	readFile  func(string) ([]byte, error)
	workers   int
}

// Compile-time interface check.
var _ htmlfont.FontSource = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithFiles replaces font discovery with a fixed list of paths.
func WithFiles(paths ...string) Option {
	return func(s *Source) {
		s.listFiles = func() []string { return paths }
	}
}

// WithWorkers bounds concurrent file parsing. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a Source scanning the system font directories.
func New(opts ...Option) *Source {
	s := &Source{
		listFiles: findfont.List,
		readFile:  os.ReadFile,
		workers:   max(1, runtime.GOMAXPROCS(0)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Supported reports whether any font file can be found.
func (s *Source) Supported(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	return len(s.fontFiles()) > 0
}

// List returns the family names of all parseable font files, deduplicated
// and in discovery order. Unreadable files are skipped.
func (s *Source) List(ctx context.Context) ([]string, error) {
	files := s.fontFiles()
	if len(files) == 0 {
		return nil, ErrNoFontFiles
	}

	perFile := make([][]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = s.familiesIn(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var families []string
	seen := make(map[string]bool)
	for _, names := range perFile {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				families = append(families, name)
			}
		}
	}
	if len(families) == 0 {
		return nil, fmt.Errorf("%w: scanned %d files", ErrNoFamilies, len(files))
	}
	return families, nil
}

// fontFiles returns discovered paths with a known font extension.
func (s *Source) fontFiles() []string {
	var out []string
	for _, p := range s.listFiles() {
		if fontExtensions[strings.ToLower(filepath.Ext(p))] {
			out = append(out, p)
		}
	}
	return out
}

// familiesIn returns the family names in one file, or nil if unreadable.
func (s *Source) familiesIn(path string) []string {
	data, err := s.readFile(path)
	if err != nil || len(data) == 0 || len(data) > maxFontFileSize {
		return nil
	}
	families, err := ParseFamilies(data)
	if err != nil {
		return nil
	}
	return families
}

var bufPool = sync.Pool{New: func() any { return new(sfnt.Buffer) }}

// ParseFamilies returns the family name of every font in a TrueType,
// OpenType or collection file. The typographic family (name ID 16) is
// preferred over the legacy family (name ID 1), which groups weights such
// as "Noto Sans Light" under "Noto Sans".
func ParseFamilies(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, ErrNoFamilies
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	buf := bufPool.Get().(*sfnt.Buffer)
	defer bufPool.Put(buf)

	var families []string
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if name := familyName(f, buf); name != "" {
			families = append(families, name)
		}
	}
	if len(families) == 0 {
		return nil, ErrNoFamilies
	}
	return families, nil
}

func familyName(f *sfnt.Font, buf *sfnt.Buffer) string {
	for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily} {
		name, err := f.Name(buf, id)
		if err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	return ""
}
