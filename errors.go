package htmlfont

import "errors"

// Sentinel errors for library operations.
var (
	// Acquisition errors.
	ErrInvalidFileType  = errors.New("please upload a valid HTML file")
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")
	ErrDocumentRead     = errors.New("failed to read document")
	ErrDocumentEncode   = errors.New("cannot encode document in its charset")

	// Session errors.
	ErrNoDocument   = errors.New("no document loaded")
	ErrFontNotFound = errors.New("font not found in catalog")

	// Font catalog errors.
	ErrFontsUnsupported = errors.New("installed font enumeration is not supported on this host")
	ErrFontsUnavailable = errors.New("could not load system fonts")
	ErrFontsLoading     = errors.New("system fonts are already loading")

	// Parameter validation errors.
	ErrInvalidFontSize   = errors.New("invalid font size")
	ErrInvalidTableWidth = errors.New("invalid table width")
	ErrInvalidViewport   = errors.New("invalid viewport width")
)
