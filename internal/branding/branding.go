// Package branding holds the document styling configuration: fonts,
// colors, page geometry and header/footer zones. Every field is optional;
// absent fields resolve to the built-in defaults at style resolution time.
package branding

// Position names one of the three header/footer zones.
type Position string

const (
	PositionLeft   Position = "left"
	PositionCenter Position = "center"
	PositionRight  Position = "right"
)

// FontConfig describes a font for body or code text.
type FontConfig struct {
	Name   *string
	Size   *float64 // points
	Color  *Color
	Bold   *bool
	Italic *bool
}

// HeadingConfig describes one heading level.
type HeadingConfig struct {
	FontName    *string
	FontSize    *float64 // points
	Color       *Color
	Bold        *bool
	Italic      *bool
	SpaceBefore *float64 // points
	SpaceAfter  *float64 // points
}

// PageConfig describes page geometry in inches.
type PageConfig struct {
	Width        *float64
	Height       *float64
	MarginTop    *float64
	MarginBottom *float64
	MarginLeft   *float64
	MarginRight  *float64
}

// HeaderFooterConfig describes one header or footer line. Text is the
// center zone; LeftText and RightText fill the outer zones.
type HeaderFooterConfig struct {
	Text      *string
	LeftText  *string
	RightText *string
	FontName  *string
	FontSize  *float64 // points
	Color     *Color

	IncludePageNumber  *bool
	PageNumberPosition *Position

	LogoPath     *string  // local file, trusted
	LogoURL      *string  // remote, fetched under policy
	LogoPosition *Position
	LogoWidth    *float64 // inches
}

// Config is a validated branding configuration. It is constructed once per
// conversion and treated as read-only afterwards. Section pointers are nil
// when the section was absent from the input.
type Config struct {
	Title   string
	Author  string
	Company string

	Page     *PageConfig
	BodyFont *FontConfig

	// Headings[0] is heading1 ... Headings[5] is heading6.
	Headings [6]*HeadingConfig

	CodeFont       *FontConfig
	CodeBackground *Color

	LinkColor     *Color
	LinkUnderline *bool

	Header *HeaderFooterConfig
	Footer *HeaderFooterConfig
}

// Heading returns the configured section for a heading level, or nil.
// Level must be 1 through 6; callers guard the range.
func (c Config) Heading(level int) *HeadingConfig {
	if level < 1 || level > 6 {
		return nil
	}
	return c.Headings[level-1]
}

// Merge overlays overrides onto base section by section. The merge unit is
// the whole sub-object: a section present in overrides replaces the base
// section wholesale, and its absent fields later fall back to the built-in
// defaults, not to the base's values. This is a documented contract.
func Merge(base, overrides Config) Config {
	out := base

	if overrides.Title != "" {
		out.Title = overrides.Title
	}
	if overrides.Author != "" {
		out.Author = overrides.Author
	}
	if overrides.Company != "" {
		out.Company = overrides.Company
	}

	if overrides.Page != nil {
		out.Page = overrides.Page
	}
	if overrides.BodyFont != nil {
		out.BodyFont = overrides.BodyFont
	}
	for i := range overrides.Headings {
		if overrides.Headings[i] != nil {
			out.Headings[i] = overrides.Headings[i]
		}
	}
	if overrides.CodeFont != nil {
		out.CodeFont = overrides.CodeFont
	}
	if overrides.CodeBackground != nil {
		out.CodeBackground = overrides.CodeBackground
	}
	if overrides.LinkColor != nil {
		out.LinkColor = overrides.LinkColor
	}
	if overrides.LinkUnderline != nil {
		out.LinkUnderline = overrides.LinkUnderline
	}
	if overrides.Header != nil {
		out.Header = overrides.Header
	}
	if overrides.Footer != nil {
		out.Footer = overrides.Footer
	}
	return out
}
