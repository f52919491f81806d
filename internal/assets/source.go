package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Loader reads preview UI assets by kind and name.
type Loader interface {
	Load(kind Kind, name string) (string, error)
}

// Source is a Loader over one fs.FS.
type Source struct {
	fsys   fs.FS
	origin string
}

// Embedded returns the assets compiled into the binary.
func Embedded() *Source {
	return &Source{fsys: builtin, origin: "embedded"}
}

// Dir returns a Source reading from a theme directory. The directory is
// opened once as an os.Root and stays open for the life of the process.
func Dir(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &Source{fsys: root.FS(), origin: path}, nil
}

// Origin names where the source reads from.
func (s *Source) Origin() string { return s.origin }

// Load returns the content of the named asset.
func (s *Source) Load(kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.fsys, kind.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s %q in %s", ErrNotFound, kind, name, s.origin)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

// Layers tries each loader in order. Only ErrNotFound falls through;
// read and validation errors surface as they are.
type Layers []Loader

// Load returns the asset from the first layer that has it.
func (l Layers) Load(kind Kind, name string) (string, error) {
	err := fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	for _, loader := range l {
		var content string
		content, err = loader.Load(kind, name)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", err
}

// NewResolver returns the loader the preview server uses: the theme
// directory first when basePath is set, then the embedded assets.
func NewResolver(basePath string) (Loader, error) {
	if basePath == "" {
		return Embedded(), nil
	}
	dir, err := Dir(basePath)
	if err != nil {
		return nil, err
	}
	return Layers{dir, Embedded()}, nil
}

// Compile-time interface checks.
var (
	_ Loader = (*Source)(nil)
	_ Loader = Layers(nil)
)
