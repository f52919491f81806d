package main

import (
	"errors"
	"os"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/assets"
	"github.com/alnah/go-htmlfont/internal/config"
	"github.com/alnah/go-htmlfont/internal/preview"
	"github.com/alnah/go-htmlfont/internal/render"
)

// Exit codes for the htmlfont CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, render.ErrBrowserConnect) ||
		errors.Is(err, render.ErrPageCreate) ||
		errors.Is(err, render.ErrPageLoad) ||
		errors.Is(err, render.ErrScreenshot) ||
		errors.Is(err, render.ErrPDFGeneration) ||
		errors.Is(err, render.ErrMeasure) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, htmlfont.ErrDocumentRead) ||
		errors.Is(err, htmlfont.ErrDocumentTooLarge) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, htmlfont.ErrInvalidFileType) ||
		errors.Is(err, htmlfont.ErrFontNotFound) ||
		errors.Is(err, htmlfont.ErrInvalidFontSize) ||
		errors.Is(err, htmlfont.ErrInvalidTableWidth) ||
		errors.Is(err, htmlfont.ErrInvalidViewport) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, preview.ErrTemplate) ||
		errors.Is(err, preview.ErrStyle) {
		return ExitUsage
	}

	return ExitGeneral
}
