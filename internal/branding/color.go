package branding

import (
	"fmt"
	"strings"
)

// Color is the canonical RGB representation all accepted color forms
// normalize to.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as an uppercase RRGGBB string (no leading #),
// the form OOXML attributes expect.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// parseColor normalizes a raw color value. Accepted forms: a six hex digit
// string with or without a leading #, or a three element array of integers
// 0-255. Anything else is a validation failure.
func parseColor(raw any) (Color, error) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(v), "#")
		if len(s) != 6 {
			return Color{}, fmt.Errorf("color %q: want 6 hex digits", v)
		}
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("color %q: invalid hex", v)
		}
		return Color{r, g, b}, nil

	case []any:
		if len(v) != 3 {
			return Color{}, fmt.Errorf("color array: want 3 components, got %d", len(v))
		}
		var c [3]uint8
		for i, comp := range v {
			n, ok := toInt(comp)
			if !ok || n < 0 || n > 255 {
				return Color{}, fmt.Errorf("color component %v: want integer 0-255", comp)
			}
			c[i] = uint8(n)
		}
		return Color{c[0], c[1], c[2]}, nil

	default:
		return Color{}, fmt.Errorf("color: unsupported form %T", raw)
	}
}

// toInt accepts the integer representations the YAML/JSON decoder may
// produce for a scalar.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
