package branding

// Built-in defaults. The style resolver falls back to these for any field
// left unset inside a configured section, and for whole absent sections.
var (
	DefaultBodyFontName = "Calibri"
	DefaultBodySizePt   = 11.0
	DefaultBodyColor    = Color{0x00, 0x00, 0x00}

	// Accent color used by all heading levels.
	DefaultHeadingFontName = "Calibri"
	DefaultHeadingColor    = Color{0x2F, 0x54, 0x96}

	DefaultCodeFontName   = "Courier New"
	DefaultCodeSizePt     = 10.0
	DefaultCodeBackground = Color{0xF5, 0xF5, 0xF5}

	DefaultLinkColor     = Color{0x05, 0x63, 0xC1}
	DefaultLinkUnderline = true

	// US Letter with one inch margins.
	DefaultPageWidthIn  = 8.5
	DefaultPageHeightIn = 11.0
	DefaultMarginIn     = 1.0

	DefaultZoneFontSizePt = 9.0
	DefaultLogoWidthIn    = 0.5

	DefaultPageNumberPosition = PositionRight
)

// HeadingDefaults carries the built-in style for one heading level.
type HeadingDefaults struct {
	SizePt        float64
	Bold          bool
	Italic        bool
	SpaceBeforePt float64
	SpaceAfterPt  float64
}

var headingDefaults = [6]HeadingDefaults{
	{SizePt: 24, Bold: true, SpaceBeforePt: 18, SpaceAfterPt: 12},
	{SizePt: 20, Bold: true, SpaceBeforePt: 16, SpaceAfterPt: 10},
	{SizePt: 16, Bold: true, SpaceBeforePt: 14, SpaceAfterPt: 8},
	{SizePt: 14, Bold: true, SpaceBeforePt: 12, SpaceAfterPt: 6},
	{SizePt: 12, Bold: true, SpaceBeforePt: 10, SpaceAfterPt: 4},
	{SizePt: 11, Bold: true, Italic: true, SpaceBeforePt: 8, SpaceAfterPt: 4},
}

// HeadingDefault returns the built-in style for a heading level (1-6).
// The boolean reports whether the level is in range.
func HeadingDefault(level int) (HeadingDefaults, bool) {
	if level < 1 || level > 6 {
		return HeadingDefaults{}, false
	}
	return headingDefaults[level-1], true
}
