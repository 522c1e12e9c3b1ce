package branding

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// ValidationError reports a malformed branding field. The conversion is
// rejected before any generation work starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("branding: invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Raw input shapes. Colors stay untyped until parseColor normalizes them;
// unknown keys are ignored for forward compatibility.

type rawFont struct {
	Name   *string  `yaml:"name"`
	Size   *float64 `yaml:"size"`
	Color  any      `yaml:"color"`
	Bold   *bool    `yaml:"bold"`
	Italic *bool    `yaml:"italic"`
}

type rawHeading struct {
	FontName    *string  `yaml:"font_name"`
	FontSize    *float64 `yaml:"font_size"`
	Color       any      `yaml:"color"`
	Bold        *bool    `yaml:"bold"`
	Italic      *bool    `yaml:"italic"`
	SpaceBefore *float64 `yaml:"space_before"`
	SpaceAfter  *float64 `yaml:"space_after"`
}

type rawPage struct {
	Width        *float64 `yaml:"width"`
	Height       *float64 `yaml:"height"`
	MarginTop    *float64 `yaml:"margin_top"`
	MarginBottom *float64 `yaml:"margin_bottom"`
	MarginLeft   *float64 `yaml:"margin_left"`
	MarginRight  *float64 `yaml:"margin_right"`
}

type rawZone struct {
	Text      *string  `yaml:"text"`
	LeftText  *string  `yaml:"left_text"`
	RightText *string  `yaml:"right_text"`
	FontName  *string  `yaml:"font_name"`
	FontSize  *float64 `yaml:"font_size"`
	Color     any      `yaml:"color"`

	IncludePageNumber  *bool   `yaml:"include_page_number"`
	PageNumberPosition *string `yaml:"page_number_position"`

	LogoPath     *string  `yaml:"logo_path"`
	LogoURL      *string  `yaml:"logo_url"`
	LogoPosition *string  `yaml:"logo_position"`
	LogoWidth    *float64 `yaml:"logo_width"`
}

type rawConfig struct {
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Company string `yaml:"company"`

	Page     *rawPage `yaml:"page"`
	BodyFont *rawFont `yaml:"body_font"`

	Heading1 *rawHeading `yaml:"heading1"`
	Heading2 *rawHeading `yaml:"heading2"`
	Heading3 *rawHeading `yaml:"heading3"`
	Heading4 *rawHeading `yaml:"heading4"`
	Heading5 *rawHeading `yaml:"heading5"`
	Heading6 *rawHeading `yaml:"heading6"`

	CodeFont            *rawFont `yaml:"code_font"`
	CodeBackgroundColor any      `yaml:"code_background_color"`

	LinkColor     any   `yaml:"link_color"`
	LinkUnderline *bool `yaml:"link_underline"`

	Header *rawZone `yaml:"header"`
	Footer *rawZone `yaml:"footer"`
}

// Load decodes and validates a branding configuration. The input may be
// YAML or JSON; both parse with the same decoder. An empty input yields the
// zero Config, which resolves entirely to built-in defaults.
func Load(data []byte) (Config, error) {
	var raw rawConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, &ValidationError{Field: "(document)", Reason: err.Error()}
		}
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Config{
		Title:   raw.Title,
		Author:  raw.Author,
		Company: raw.Company,
	}

	var err error
	if cfg.Page, err = convertPage(raw.Page); err != nil {
		return Config{}, err
	}
	if cfg.BodyFont, err = convertFont(raw.BodyFont, "body_font"); err != nil {
		return Config{}, err
	}

	rawHeadings := [6]*rawHeading{raw.Heading1, raw.Heading2, raw.Heading3, raw.Heading4, raw.Heading5, raw.Heading6}
	for i, rh := range rawHeadings {
		if cfg.Headings[i], err = convertHeading(rh, fmt.Sprintf("heading%d", i+1)); err != nil {
			return Config{}, err
		}
	}

	if cfg.CodeFont, err = convertFont(raw.CodeFont, "code_font"); err != nil {
		return Config{}, err
	}
	if cfg.CodeBackground, err = convertColor(raw.CodeBackgroundColor, "code_background_color"); err != nil {
		return Config{}, err
	}
	if cfg.LinkColor, err = convertColor(raw.LinkColor, "link_color"); err != nil {
		return Config{}, err
	}
	cfg.LinkUnderline = raw.LinkUnderline

	if cfg.Header, err = convertZone(raw.Header, "header"); err != nil {
		return Config{}, err
	}
	if cfg.Footer, err = convertZone(raw.Footer, "footer"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func convertColor(raw any, field string) (*Color, error) {
	if raw == nil {
		return nil, nil
	}
	c, err := parseColor(raw)
	if err != nil {
		return nil, invalid(field, "%v", err)
	}
	return &c, nil
}

func requirePositive(v *float64, field string) error {
	if v != nil && *v <= 0 {
		return invalid(field, "must be positive, got %v", *v)
	}
	return nil
}

func convertPage(raw *rawPage) (*PageConfig, error) {
	if raw == nil {
		return nil, nil
	}
	fields := map[string]*float64{
		"page.width":         raw.Width,
		"page.height":        raw.Height,
		"page.margin_top":    raw.MarginTop,
		"page.margin_bottom": raw.MarginBottom,
		"page.margin_left":   raw.MarginLeft,
		"page.margin_right":  raw.MarginRight,
	}
	for field, v := range fields {
		if err := requirePositive(v, field); err != nil {
			return nil, err
		}
	}
	return &PageConfig{
		Width:        raw.Width,
		Height:       raw.Height,
		MarginTop:    raw.MarginTop,
		MarginBottom: raw.MarginBottom,
		MarginLeft:   raw.MarginLeft,
		MarginRight:  raw.MarginRight,
	}, nil
}

func convertFont(raw *rawFont, field string) (*FontConfig, error) {
	if raw == nil {
		return nil, nil
	}
	if err := requirePositive(raw.Size, field+".size"); err != nil {
		return nil, err
	}
	color, err := convertColor(raw.Color, field+".color")
	if err != nil {
		return nil, err
	}
	return &FontConfig{
		Name:   raw.Name,
		Size:   raw.Size,
		Color:  color,
		Bold:   raw.Bold,
		Italic: raw.Italic,
	}, nil
}

func convertHeading(raw *rawHeading, field string) (*HeadingConfig, error) {
	if raw == nil {
		return nil, nil
	}
	if err := requirePositive(raw.FontSize, field+".font_size"); err != nil {
		return nil, err
	}
	if err := requirePositive(raw.SpaceBefore, field+".space_before"); err != nil {
		return nil, err
	}
	if err := requirePositive(raw.SpaceAfter, field+".space_after"); err != nil {
		return nil, err
	}
	color, err := convertColor(raw.Color, field+".color")
	if err != nil {
		return nil, err
	}
	return &HeadingConfig{
		FontName:    raw.FontName,
		FontSize:    raw.FontSize,
		Color:       color,
		Bold:        raw.Bold,
		Italic:      raw.Italic,
		SpaceBefore: raw.SpaceBefore,
		SpaceAfter:  raw.SpaceAfter,
	}, nil
}

func convertPosition(raw *string, field string) (*Position, error) {
	if raw == nil {
		return nil, nil
	}
	switch Position(*raw) {
	case PositionLeft, PositionCenter, PositionRight:
		p := Position(*raw)
		return &p, nil
	}
	return nil, invalid(field, "must be one of left, center, right; got %q", *raw)
}

func convertZone(raw *rawZone, field string) (*HeaderFooterConfig, error) {
	if raw == nil {
		return nil, nil
	}
	if err := requirePositive(raw.FontSize, field+".font_size"); err != nil {
		return nil, err
	}
	if err := requirePositive(raw.LogoWidth, field+".logo_width"); err != nil {
		return nil, err
	}
	color, err := convertColor(raw.Color, field+".color")
	if err != nil {
		return nil, err
	}
	pagePos, err := convertPosition(raw.PageNumberPosition, field+".page_number_position")
	if err != nil {
		return nil, err
	}
	logoPos, err := convertPosition(raw.LogoPosition, field+".logo_position")
	if err != nil {
		return nil, err
	}
	return &HeaderFooterConfig{
		Text:               raw.Text,
		LeftText:           raw.LeftText,
		RightText:          raw.RightText,
		FontName:           raw.FontName,
		FontSize:           raw.FontSize,
		Color:              color,
		IncludePageNumber:  raw.IncludePageNumber,
		PageNumberPosition: pagePos,
		LogoPath:           raw.LogoPath,
		LogoURL:            raw.LogoURL,
		LogoPosition:       logoPos,
		LogoWidth:          raw.LogoWidth,
	}, nil
}
