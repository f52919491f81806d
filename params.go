package htmlfont

import "fmt"

// Font size bounds in pixels.
const (
	MinFontSize     = 8
	MaxFontSize     = 72
	DefaultFontSize = 16
	FontSizeStep    = 1
)

// Table width bounds in pixels. The upper bound is the viewport width.
const (
	MinTableWidth     = 100
	DefaultTableWidth = 800
	TableWidthStep    = 10

	// tableWidthGutter keeps the default table narrower than small viewports.
	tableWidthGutter = 40
)

// DefaultViewportWidth is used when the host does not report a viewport.
const DefaultViewportWidth = 1200

// StyleParams holds the typography applied to a document.
type StyleParams struct {
	Font         FontOption
	FontSizePx   int
	TableWidthPx int
}

// DefaultStyleParams returns the starting parameters for a viewport:
// the given font, 16px, and min(800, viewport-40) px, kept within the width bounds.
func DefaultStyleParams(font FontOption, viewportWidth int) StyleParams {
	return StyleParams{
		Font:         font,
		FontSizePx:   DefaultFontSize,
		TableWidthPx: ClampTableWidth(min(DefaultTableWidth, viewportWidth-tableWidthGutter), viewportWidth),
	}
}

// Validate checks that the sizes are within bounds for the viewport.
func (p StyleParams) Validate(viewportWidth int) error {
	if err := ValidateFontSize(p.FontSizePx); err != nil {
		return err
	}
	return ValidateTableWidth(p.TableWidthPx, viewportWidth)
}

// ValidateFontSize checks that px is within [MinFontSize, MaxFontSize].
func ValidateFontSize(px int) error {
	if px < MinFontSize || px > MaxFontSize {
		return fmt.Errorf("%w: %dpx (must be between %d and %d)", ErrInvalidFontSize, px, MinFontSize, MaxFontSize)
	}
	return nil
}

// ValidateTableWidth checks that px is within [MinTableWidth, MaxTableWidth(viewport)].
func ValidateTableWidth(px, viewportWidth int) error {
	upper := MaxTableWidth(viewportWidth)
	if px < MinTableWidth || px > upper {
		return fmt.Errorf("%w: %dpx (must be between %d and %d)", ErrInvalidTableWidth, px, MinTableWidth, upper)
	}
	return nil
}

// ValidateViewport checks that the viewport width is positive.
func ValidateViewport(viewportWidth int) error {
	if viewportWidth <= 0 {
		return fmt.Errorf("%w: %dpx", ErrInvalidViewport, viewportWidth)
	}
	return nil
}

// ClampFontSize bounds px to [MinFontSize, MaxFontSize].
func ClampFontSize(px int) int {
	return max(MinFontSize, min(px, MaxFontSize))
}

// MaxTableWidth returns the table width upper bound for a viewport.
// Viewports narrower than MinTableWidth still allow MinTableWidth.
func MaxTableWidth(viewportWidth int) int {
	return max(viewportWidth, MinTableWidth)
}

// ClampTableWidth bounds px to [MinTableWidth, MaxTableWidth(viewport)].
func ClampTableWidth(px, viewportWidth int) int {
	return max(MinTableWidth, min(px, MaxTableWidth(viewportWidth)))
}
