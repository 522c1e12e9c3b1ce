package style

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/imagefetch"
)

func mustLoad(t *testing.T, data string) branding.Config {
	t.Helper()
	cfg, err := branding.Load([]byte(data))
	if err != nil {
		t.Fatalf("load branding: %v", err)
	}
	return cfg
}

func TestBody_Defaults(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	b := r.Body()
	if b.FontName != "Calibri" {
		t.Errorf("expected Calibri, got %q", b.FontName)
	}
	if b.SizePt != 11 {
		t.Errorf("expected 11pt, got %v", b.SizePt)
	}
}

func TestHeading_DefaultLadder(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	wantSizes := []float64{24, 20, 16, 14, 12, 11}
	for lvl := 1; lvl <= 6; lvl++ {
		h, err := r.Heading(lvl)
		if err != nil {
			t.Fatalf("level %d: unexpected error: %v", lvl, err)
		}
		if h.SizePt != wantSizes[lvl-1] {
			t.Errorf("level %d: expected %vpt, got %v", lvl, wantSizes[lvl-1], h.SizePt)
		}
		if !h.Bold {
			t.Errorf("level %d: expected bold", lvl)
		}
	}
	h6, _ := r.Heading(6)
	if !h6.Italic {
		t.Error("expected h6 italic")
	}
	h1, _ := r.Heading(1)
	if h1.Italic {
		t.Error("h1 should not be italic")
	}
}

func TestHeading_OutOfRange(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	for _, lvl := range []int{0, 7, -1} {
		if _, err := r.Heading(lvl); !errors.Is(err, ErrHeadingLevel) {
			t.Errorf("level %d: expected ErrHeadingLevel, got %v", lvl, err)
		}
	}
}

func TestHeading_ConfiguredSectionFallsBackToBuiltins(t *testing.T) {
	// The section sets only the size; the remaining fields must come from
	// the built-in defaults for that level, not from any other source.
	cfg := mustLoad(t, `{"heading2": {"font_size": 99}}`)
	r := NewResolver(cfg, nil, nil)
	h, err := r.Heading(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.SizePt != 99 {
		t.Errorf("expected configured size 99, got %v", h.SizePt)
	}
	if !h.Bold {
		t.Error("expected default bold to survive partial section")
	}
	if h.SpaceBeforePt != 16 || h.SpaceAfterPt != 10 {
		t.Errorf("expected default spacing 16/10, got %v/%v", h.SpaceBeforePt, h.SpaceAfterPt)
	}
}

func TestCode_Defaults(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	st, bg := r.Code()
	if st.FontName != "Courier New" || st.SizePt != 10 {
		t.Errorf("expected Courier New 10pt, got %q %v", st.FontName, st.SizePt)
	}
	if bg.Hex() != "F5F5F5" {
		t.Errorf("expected F5F5F5 background, got %s", bg.Hex())
	}
}

func TestLink_Defaults(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	l := r.Link()
	if l.Color == nil || l.Color.Hex() != "0563C1" {
		t.Errorf("expected default link color 0563C1, got %v", l.Color)
	}
	if !l.Underline {
		t.Error("expected links underlined by default")
	}
}

func TestPage_Defaults(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	p := r.Page()
	if p.WidthIn != 8.5 || p.HeightIn != 11 {
		t.Errorf("expected US Letter, got %vx%v", p.WidthIn, p.HeightIn)
	}
	if p.MarginLeftIn != 1 {
		t.Errorf("expected 1in margins, got %v", p.MarginLeftIn)
	}
}

func TestZones_NoneConfigured(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	if z, warns := r.Header(context.Background()); z != nil || warns != nil {
		t.Errorf("expected no header, got %+v %v", z, warns)
	}
	if z, _ := r.Footer(context.Background()); z != nil {
		t.Errorf("expected no footer, got %+v", z)
	}
}

func TestZones_PageNumberOffByDefault(t *testing.T) {
	cfg := mustLoad(t, `{"footer": {"text": "Confidential"}}`)
	r := NewResolver(cfg, nil, nil)
	z, _ := r.Footer(context.Background())
	if z == nil {
		t.Fatal("expected footer zones")
	}
	if z.Center != "Confidential" {
		t.Errorf("expected center text, got %q", z.Center)
	}
	if z.PageNumber != "" {
		t.Errorf("expected page number disabled by default, got %q", z.PageNumber)
	}
}

func TestZones_PageNumberPosition(t *testing.T) {
	cfg := mustLoad(t, `{"footer": {"include_page_number": true}}`)
	r := NewResolver(cfg, nil, nil)
	z, _ := r.Footer(context.Background())
	if z == nil {
		t.Fatal("expected footer zones")
	}
	if z.PageNumber != branding.PositionRight {
		t.Errorf("expected default right position, got %q", z.PageNumber)
	}

	cfg = mustLoad(t, `{"footer": {"include_page_number": true, "page_number_position": "center"}}`)
	z, _ = NewResolver(cfg, nil, nil).Footer(context.Background())
	if z.PageNumber != branding.PositionCenter {
		t.Errorf("expected center, got %q", z.PageNumber)
	}
}

func TestZones_HeaderNeverGetsPageNumber(t *testing.T) {
	cfg := mustLoad(t, `{"header": {"text": "Top", "include_page_number": true}}`)
	r := NewResolver(cfg, nil, nil)
	z, _ := r.Header(context.Background())
	if z == nil {
		t.Fatal("expected header zones")
	}
	if z.PageNumber != "" {
		t.Errorf("page numbers belong to the footer, got %q", z.PageNumber)
	}
}

func TestZones_MissingLogoDegrades(t *testing.T) {
	cfg := mustLoad(t, `{"header": {"text": "Top", "logo_path": "/nonexistent/logo.png"}}`)
	r := NewResolver(cfg, nil, nil)
	z, warns := r.Header(context.Background())
	if z == nil {
		t.Fatal("expected header zones despite logo failure")
	}
	if z.Logo != nil {
		t.Error("expected no logo after read failure")
	}
	if len(warns) != 1 {
		t.Fatalf("expected 1 warning, got %v", warns)
	}
}

func TestZones_SVGLogoURLDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="4" height="4"/></svg>`))
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	fetch := imagefetch.New(imagefetch.Policy{
		AllowedHosts: []string{u.Hostname()},
		MaxBytes:     1 << 20,
		Timeout:      time.Second,
	})
	cfg := mustLoad(t, `{"header": {"text": "Top", "logo_url": "`+srv.URL+`/logo.svg"}}`)
	z, warns := NewResolver(cfg, fetch, nil).Header(context.Background())
	if z == nil {
		t.Fatal("expected header zones despite logo degradation")
	}
	if z.Logo != nil {
		t.Error("expected svg logo omitted, not embedded")
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "unsupported image format") {
		t.Fatalf("expected an unsupported-format warning, got %v", warns)
	}
}

func TestZones_LocalLogoSniffedContentType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	sig := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if err := os.WriteFile(path, sig, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := mustLoad(t, `{"header": {"logo_path": "`+path+`"}}`)
	z, warns := NewResolver(cfg, nil, nil).Header(context.Background())
	if len(warns) != 0 {
		t.Fatalf("expected no warnings, got %v", warns)
	}
	if z == nil || z.Logo == nil {
		t.Fatal("expected an embedded logo")
	}
	if z.Logo.ContentType != "image/png" {
		t.Errorf("expected sniffed image/png, got %q", z.Logo.ContentType)
	}
	if z.Logo.WidthIn != branding.DefaultLogoWidthIn {
		t.Errorf("expected default logo width, got %v", z.Logo.WidthIn)
	}
}

func TestZones_FontDefaults(t *testing.T) {
	cfg := mustLoad(t, `{"footer": {"text": "x"}}`)
	z, _ := NewResolver(cfg, nil, nil).Footer(context.Background())
	if z.Font.SizePt != 9 {
		t.Errorf("expected 9pt zone font, got %v", z.Font.SizePt)
	}
}

func TestCodeRuns_UnknownLanguageFallsBack(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	runs := r.CodeRuns("some code", "not-a-language-xyz")
	if len(runs) != 1 || runs[0].Text != "some code" || runs[0].Color != nil {
		t.Errorf("expected single plain run, got %+v", runs)
	}
}

func TestCodeRuns_HighlightsKnownLanguage(t *testing.T) {
	r := NewResolver(branding.Config{}, nil, nil)
	runs := r.CodeRuns("package main\n", "go")
	if len(runs) < 2 {
		t.Fatalf("expected multiple runs for go source, got %d", len(runs))
	}
	var joined string
	var colored bool
	for _, run := range runs {
		joined += run.Text
		if run.Color != nil {
			colored = true
		}
	}
	if joined != "package main\n" {
		t.Errorf("runs must reassemble the input, got %q", joined)
	}
	if !colored {
		t.Error("expected at least one colored token")
	}
}
