// Package style materializes concrete text and page styles from a branding
// configuration, falling back field by field to the built-in defaults. It
// also resolves header/footer zones, including logo images, for which it
// wraps the remote image fetcher.
package style

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/docx"
	"github.com/inkwelldocs/md2docx/internal/imagefetch"
)

// ErrHeadingLevel marks a heading level outside 1-6. A well-formed tree
// never produces one; the generator treats it as an internal inconsistency.
var ErrHeadingLevel = errors.New("heading level out of range")

// TextStyle is a fully resolved run style.
type TextStyle struct {
	FontName  string
	SizePt    float64
	Color     *branding.Color // nil means inherit the format default
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool
}

// HeadingStyle adds paragraph spacing to a text style.
type HeadingStyle struct {
	TextStyle
	SpaceBeforePt float64
	SpaceAfterPt  float64
}

// PageStyle is the resolved page geometry in inches.
type PageStyle struct {
	WidthIn        float64
	HeightIn       float64
	MarginTopIn    float64
	MarginBottomIn float64
	MarginLeftIn   float64
	MarginRightIn  float64
}

// Logo is an embeddable image payload for a header or footer zone.
type Logo struct {
	Data        []byte
	ContentType string
	WidthIn     float64
}

// Zones is the resolved content of one header or footer line: three
// independent text zones joined by tab stops, an optional page-number
// field position and an optional logo.
type Zones struct {
	Left   string
	Center string
	Right  string
	Font   TextStyle

	// PageNumber is the zone receiving the PAGE field, or "" for none.
	PageNumber branding.Position

	Logo         *Logo
	LogoPosition branding.Position
}

// Resolver answers style queries for one conversion run. Resolved styles
// are ephemeral; nothing is cached across runs.
type Resolver struct {
	cfg   branding.Config
	fetch *imagefetch.Fetcher
	log   *slog.Logger
}

func NewResolver(cfg branding.Config, fetch *imagefetch.Fetcher, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{cfg: cfg, fetch: fetch, log: log}
}

func orStr(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}

func orFloat(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func orBool(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// Body resolves the body text style.
func (r *Resolver) Body() TextStyle {
	f := r.cfg.BodyFont
	st := TextStyle{
		FontName: branding.DefaultBodyFontName,
		SizePt:   branding.DefaultBodySizePt,
		Color:    &branding.DefaultBodyColor,
	}
	if f == nil {
		return st
	}
	st.FontName = orStr(f.Name, st.FontName)
	st.SizePt = orFloat(f.Size, st.SizePt)
	if f.Color != nil {
		st.Color = f.Color
	}
	st.Bold = orBool(f.Bold, false)
	st.Italic = orBool(f.Italic, false)
	return st
}

// Code resolves the code text style and the block background shading.
func (r *Resolver) Code() (TextStyle, branding.Color) {
	st := TextStyle{
		FontName: branding.DefaultCodeFontName,
		SizePt:   branding.DefaultCodeSizePt,
	}
	if f := r.cfg.CodeFont; f != nil {
		st.FontName = orStr(f.Name, st.FontName)
		st.SizePt = orFloat(f.Size, st.SizePt)
		if f.Color != nil {
			st.Color = f.Color
		}
	}
	bg := branding.DefaultCodeBackground
	if r.cfg.CodeBackground != nil {
		bg = *r.cfg.CodeBackground
	}
	return st, bg
}

// Link resolves the hyperlink run style on top of the body style.
func (r *Resolver) Link() TextStyle {
	st := r.Body()
	color := branding.DefaultLinkColor
	if r.cfg.LinkColor != nil {
		color = *r.cfg.LinkColor
	}
	st.Color = &color
	st.Underline = orBool(r.cfg.LinkUnderline, branding.DefaultLinkUnderline)
	return st
}

// Heading resolves the style for a heading level 1-6. Fields absent from
// the configured section fall back to the built-in defaults, never to
// another configuration source (section-level merge contract).
func (r *Resolver) Heading(level int) (HeadingStyle, error) {
	def, ok := branding.HeadingDefault(level)
	if !ok {
		return HeadingStyle{}, fmt.Errorf("%w: %d", ErrHeadingLevel, level)
	}
	st := HeadingStyle{
		TextStyle: TextStyle{
			FontName: branding.DefaultHeadingFontName,
			SizePt:   def.SizePt,
			Color:    &branding.DefaultHeadingColor,
			Bold:     def.Bold,
			Italic:   def.Italic,
		},
		SpaceBeforePt: def.SpaceBeforePt,
		SpaceAfterPt:  def.SpaceAfterPt,
	}
	h := r.cfg.Heading(level)
	if h == nil {
		return st, nil
	}
	st.FontName = orStr(h.FontName, st.FontName)
	st.SizePt = orFloat(h.FontSize, st.SizePt)
	if h.Color != nil {
		st.Color = h.Color
	}
	st.Bold = orBool(h.Bold, def.Bold)
	st.Italic = orBool(h.Italic, def.Italic)
	st.SpaceBeforePt = orFloat(h.SpaceBefore, def.SpaceBeforePt)
	st.SpaceAfterPt = orFloat(h.SpaceAfter, def.SpaceAfterPt)
	return st, nil
}

// Page resolves the page geometry.
func (r *Resolver) Page() PageStyle {
	ps := PageStyle{
		WidthIn:        branding.DefaultPageWidthIn,
		HeightIn:       branding.DefaultPageHeightIn,
		MarginTopIn:    branding.DefaultMarginIn,
		MarginBottomIn: branding.DefaultMarginIn,
		MarginLeftIn:   branding.DefaultMarginIn,
		MarginRightIn:  branding.DefaultMarginIn,
	}
	p := r.cfg.Page
	if p == nil {
		return ps
	}
	ps.WidthIn = orFloat(p.Width, ps.WidthIn)
	ps.HeightIn = orFloat(p.Height, ps.HeightIn)
	ps.MarginTopIn = orFloat(p.MarginTop, ps.MarginTopIn)
	ps.MarginBottomIn = orFloat(p.MarginBottom, ps.MarginBottomIn)
	ps.MarginLeftIn = orFloat(p.MarginLeft, ps.MarginLeftIn)
	ps.MarginRightIn = orFloat(p.MarginRight, ps.MarginRightIn)
	return ps
}

// Header resolves the header line, or nil when nothing is configured.
// Logo failures degrade to a warning; the zone renders without the logo.
func (r *Resolver) Header(ctx context.Context) (*Zones, []string) {
	return r.zones(ctx, r.cfg.Header, false)
}

// Footer resolves the footer line, or nil when nothing is configured.
func (r *Resolver) Footer(ctx context.Context) (*Zones, []string) {
	return r.zones(ctx, r.cfg.Footer, true)
}

func (r *Resolver) zones(ctx context.Context, hf *branding.HeaderFooterConfig, isFooter bool) (*Zones, []string) {
	if hf == nil {
		return nil, nil
	}

	z := &Zones{
		Left:   orStr(hf.LeftText, ""),
		Center: orStr(hf.Text, ""),
		Right:  orStr(hf.RightText, ""),
		Font: TextStyle{
			FontName: orStr(hf.FontName, branding.DefaultBodyFontName),
			SizePt:   orFloat(hf.FontSize, branding.DefaultZoneFontSizePt),
			Color:    hf.Color,
		},
	}

	if isFooter && orBool(hf.IncludePageNumber, false) {
		pos := branding.DefaultPageNumberPosition
		if hf.PageNumberPosition != nil {
			pos = *hf.PageNumberPosition
		}
		z.PageNumber = pos
	}

	var warnings []string
	logo, err := r.resolveLogo(ctx, hf)
	if err != nil {
		r.log.Warn("logo resolution failed", "error", err)
		warnings = append(warnings, fmt.Sprintf("logo: %v", err))
	} else if logo != nil {
		z.Logo = logo
		z.LogoPosition = branding.PositionLeft
		if hf.LogoPosition != nil {
			z.LogoPosition = *hf.LogoPosition
		}
	}

	if z.Left == "" && z.Center == "" && z.Right == "" && z.PageNumber == "" && z.Logo == nil {
		return nil, warnings
	}
	return z, warnings
}

// resolveLogo loads the zone logo. Local paths are trusted input and read
// without a size bound; remote URLs go through the policy-checked fetcher.
// Payloads in formats the document cannot embed (SVG in particular) are
// rejected so the caller degrades instead of packaging broken media.
func (r *Resolver) resolveLogo(ctx context.Context, hf *branding.HeaderFooterConfig) (*Logo, error) {
	width := orFloat(hf.LogoWidth, branding.DefaultLogoWidthIn)

	if path := orStr(hf.LogoPath, ""); path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied branding path
		if err != nil {
			return nil, fmt.Errorf("read logo %s: %w", path, err)
		}
		ct, err := docx.SniffImageType(data)
		if err != nil {
			return nil, fmt.Errorf("logo %s: %w", path, err)
		}
		return &Logo{Data: data, ContentType: ct, WidthIn: width}, nil
	}

	if url := orStr(hf.LogoURL, ""); url != "" {
		if r.fetch == nil {
			return nil, fmt.Errorf("remote logo %s: no fetcher configured", url)
		}
		img, err := r.fetch.Fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch logo: %w", err)
		}
		ct, err := docx.SniffImageType(img.Data)
		if err != nil {
			return nil, fmt.Errorf("logo %s: %w", url, err)
		}
		return &Logo{Data: img.Data, ContentType: ct, WidthIn: width}, nil
	}

	return nil, nil
}
