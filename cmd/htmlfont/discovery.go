package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/hints"
)

// maxWorkers caps the --workers flag.
const maxWorkers = 32

// FileJob represents a single file to process.
type FileJob struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds the HTML files under inputPath. Outputs of earlier
// runs (font-modified-*) are skipped when walking a directory.
// ext replaces the output extension when non-empty (e.g. ".png").
func discoverFiles(inputPath, outputDir, ext string) ([]FileJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	if !info.IsDir() {
		if !isHTMLInput(inputPath) {
			return nil, fmt.Errorf("%s: %w%s", inputPath, htmlfont.ErrInvalidFileType, hints.ForInvalidFileType())
		}
		out := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileJob{{InputPath: inputPath, OutputPath: out}}, nil
	}

	var files []FileJob
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !isHTMLInput(path) || strings.HasPrefix(d.Name(), htmlfont.DownloadPrefix) {
			return nil
		}
		out := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileJob{InputPath: path, OutputPath: out})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the output path for an input file.
// Without outputDir the result sits next to the input; with a base input
// directory the relative layout is mirrored under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	name := htmlfont.Document{Name: filepath.Base(inputPath)}.DownloadName()
	if ext != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), name)
		}
	}
	return filepath.Join(outputDir, name)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}
