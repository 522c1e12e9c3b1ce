package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/docx"
	"github.com/inkwelldocs/md2docx/internal/markdown"
)

func generate(t *testing.T, src string, cfg branding.Config) (*docx.Document, []string) {
	t.Helper()
	root := markdown.Parse([]byte(src))
	doc, warnings, err := New(nil, nil).Generate(context.Background(), root, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc, warnings
}

func paragraphs(t *testing.T, doc *docx.Document) []docx.Paragraph {
	t.Helper()
	var out []docx.Paragraph
	for _, b := range doc.Blocks {
		if p, ok := b.(docx.Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

func runText(runs []docx.Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func TestGenerate_HeadingAndBoldParagraph(t *testing.T) {
	doc, warnings := generate(t, "# Title\n\nplain **bold** text\n", branding.Config{})
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	paras := paragraphs(t, doc)
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}

	h := paras[0]
	if h.StyleID != "Heading1" {
		t.Errorf("expected Heading1 style, got %q", h.StyleID)
	}
	if runText(h.Runs) != "Title" {
		t.Errorf("expected heading text Title, got %q", runText(h.Runs))
	}
	if len(h.Runs) == 0 || !h.Runs[0].Bold {
		t.Error("expected bold heading run")
	}
	if h.Runs[0].ColorHex != "2F5496" {
		t.Errorf("expected default heading color, got %q", h.Runs[0].ColorHex)
	}
	if h.SpaceBeforePt != 18 || h.SpaceAfterPt != 12 {
		t.Errorf("expected h1 spacing 18/12, got %v/%v", h.SpaceBeforePt, h.SpaceAfterPt)
	}

	body := paras[1]
	var sawPlain, sawBold bool
	for _, r := range body.Runs {
		if strings.Contains(r.Text, "bold") && r.Bold {
			sawBold = true
		}
		if strings.Contains(r.Text, "plain") && !r.Bold {
			sawPlain = true
		}
	}
	if !sawPlain || !sawBold {
		t.Errorf("expected plain and bold runs, got %+v", body.Runs)
	}
}

func TestGenerate_BodyFontFlowsIntoRuns(t *testing.T) {
	cfg, err := branding.Load([]byte(`{"body_font": {"name": "Georgia", "size": 13}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	doc, _ := generate(t, "hello\n", cfg)
	p := paragraphs(t, doc)[0]
	if p.Runs[0].FontName != "Georgia" || p.Runs[0].SizePt != 13 {
		t.Errorf("expected Georgia 13pt, got %q %v", p.Runs[0].FontName, p.Runs[0].SizePt)
	}
	if doc.Defaults.FontName != "Georgia" {
		t.Errorf("expected document default font Georgia, got %q", doc.Defaults.FontName)
	}
}

func TestGenerate_LinkStyling(t *testing.T) {
	doc, _ := generate(t, "[site](https://example.com)\n", branding.Config{})
	p := paragraphs(t, doc)[0]
	if len(p.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(p.Runs))
	}
	r := p.Runs[0]
	if r.LinkURL != "https://example.com" {
		t.Errorf("expected link URL, got %q", r.LinkURL)
	}
	if r.ColorHex != "0563C1" || !r.Underline {
		t.Errorf("expected default link styling, got color=%q underline=%v", r.ColorHex, r.Underline)
	}
}

func TestGenerate_TableHeaderBoldAndAligned(t *testing.T) {
	src := "| a | b |\n|:-:|--:|\n| 1 | 2 |\n"
	doc, _ := generate(t, src, branding.Config{})
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	tbl, ok := doc.Blocks[0].(docx.Table)
	if !ok {
		t.Fatalf("expected table, got %T", doc.Blocks[0])
	}
	if len(tbl.Columns) != 2 || tbl.Columns[0] != docx.AlignCenter || tbl.Columns[1] != docx.AlignRight {
		t.Errorf("unexpected column alignments %v", tbl.Columns)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	for _, cell := range tbl.Rows[0] {
		for _, r := range cell.Runs {
			if !r.Bold {
				t.Errorf("expected bold header cell run, got %+v", r)
			}
		}
	}
	for _, cell := range tbl.Rows[1] {
		for _, r := range cell.Runs {
			if r.Bold {
				t.Errorf("body cell should not be bold, got %+v", r)
			}
		}
	}
	if tbl.Rows[1][0].Alignment != docx.AlignCenter {
		t.Errorf("expected center alignment on first column cell, got %v", tbl.Rows[1][0].Alignment)
	}
}

func TestGenerate_DeepListClampsLevel(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString("- item\n")
	}
	doc, _ := generate(t, b.String(), branding.Config{})

	var maxLevel int
	var count int
	for _, p := range paragraphs(t, doc) {
		if p.List == nil {
			continue
		}
		count++
		if p.List.Level > maxLevel {
			maxLevel = p.List.Level
		}
	}
	if count != 12 {
		t.Fatalf("expected 12 list paragraphs, got %d", count)
	}
	if maxLevel != docx.MaxListLevel {
		t.Errorf("expected deepest level clamped to %d, got %d", docx.MaxListLevel, maxLevel)
	}
}

func TestGenerate_SeparateListsGetSeparateNumbering(t *testing.T) {
	src := "1. one\n2. two\n\ntext between\n\n1. restart\n"
	doc, _ := generate(t, src, branding.Config{})

	ids := map[int]bool{}
	for _, p := range paragraphs(t, doc) {
		if p.List != nil {
			if !p.List.Ordered {
				t.Errorf("expected ordered marker, got %+v", p.List)
			}
			ids[p.List.ID] = true
		}
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 distinct numbering instances, got %d", len(ids))
	}
}

func TestGenerate_CodeBlockShadingAndFont(t *testing.T) {
	doc, _ := generate(t, "```\nx = 1\n```\n", branding.Config{})
	p := paragraphs(t, doc)[0]
	if p.ShadingHex != "F5F5F5" {
		t.Errorf("expected default code shading, got %q", p.ShadingHex)
	}
	if p.IndentLeftIn != 0.25 {
		t.Errorf("expected 0.25in indent, got %v", p.IndentLeftIn)
	}
	if len(p.Runs) == 0 || p.Runs[0].FontName != "Courier New" || p.Runs[0].SizePt != 10 {
		t.Errorf("expected Courier New 10pt, got %+v", p.Runs)
	}
}

func TestGenerate_CodeBlockMultilineBreaks(t *testing.T) {
	doc, _ := generate(t, "```\nline one\nline two\n```\n", branding.Config{})
	p := paragraphs(t, doc)[0]
	var breaks int
	for _, r := range p.Runs {
		if r.Break {
			breaks++
		}
	}
	if breaks != 1 {
		t.Errorf("expected 1 line break between 2 lines, got %d", breaks)
	}
}

func TestGenerate_ThematicBreakUsesBottomBorder(t *testing.T) {
	doc, _ := generate(t, "above\n\n---\n\nbelow\n", branding.Config{})
	paras := paragraphs(t, doc)
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	hr := paras[1]
	if !hr.BottomBorder {
		t.Error("expected bottom border paragraph for thematic break")
	}
	if len(hr.Runs) != 0 {
		t.Errorf("rule paragraph should carry no text, got %+v", hr.Runs)
	}
}

func TestGenerate_BlockQuoteIndents(t *testing.T) {
	doc, _ := generate(t, "> outer\n>\n> > inner\n", branding.Config{})
	paras := paragraphs(t, doc)
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].IndentLeftIn != 0.5 || paras[0].StyleID != "Quote" {
		t.Errorf("outer quote: got indent %v style %q", paras[0].IndentLeftIn, paras[0].StyleID)
	}
	if paras[1].IndentLeftIn != 1.0 {
		t.Errorf("inner quote: expected 1.0in indent, got %v", paras[1].IndentLeftIn)
	}
}

func TestGenerate_MissingImageDegradesToAltText(t *testing.T) {
	doc, warnings := generate(t, "![diagram](/nonexistent/diagram.png)\n", branding.Config{})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	p := paragraphs(t, doc)[0]
	if len(p.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(p.Runs))
	}
	r := p.Runs[0]
	if r.Image != nil {
		t.Error("expected no image payload")
	}
	if r.Text != "[diagram]" || !r.Italic {
		t.Errorf("expected italic [diagram] placeholder, got %+v", r)
	}
}

func TestGenerate_LocalImageEmbedsWithSniffedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixel.png")
	sig := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if err := os.WriteFile(path, sig, 0o644); err != nil {
		t.Fatal(err)
	}
	doc, warnings := generate(t, "![pixel]("+path+")\n", branding.Config{})
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	r := paragraphs(t, doc)[0].Runs[0]
	if r.Image == nil {
		t.Fatal("expected an embedded image")
	}
	if r.Image.ContentType != "image/png" {
		t.Errorf("expected sniffed image/png, got %q", r.Image.ContentType)
	}
}

func TestGenerate_SVGImageDegradesToAltText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badge.svg")
	svg := `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"><rect width="4" height="4"/></svg>`
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, warnings := generate(t, "![badge]("+path+")\n", branding.Config{})
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unsupported image format") {
		t.Fatalf("expected an unsupported-format warning, got %v", warnings)
	}
	r := paragraphs(t, doc)[0].Runs[0]
	if r.Image != nil {
		t.Error("expected no image payload for vector input")
	}
	if r.Text != "[badge]" || !r.Italic {
		t.Errorf("expected italic [badge] placeholder, got %+v", r)
	}
}

func TestGenerate_RemoteImageWithoutFetcherDegrades(t *testing.T) {
	doc, warnings := generate(t, "![logo](https://example.com/logo.png)\n", branding.Config{})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	p := paragraphs(t, doc)[0]
	if p.Runs[0].Image != nil {
		t.Error("expected degradation without a fetcher")
	}
}

func TestGenerate_FooterZonesAndPageField(t *testing.T) {
	cfg, err := branding.Load([]byte(`{"footer": {"left_text": "L", "text": "C", "include_page_number": true}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	doc, _ := generate(t, "body\n", cfg)
	if doc.Section.Footer == nil {
		t.Fatal("expected a footer")
	}
	fp := doc.Section.Footer.Paragraph
	if fp.StyleID != "Footer" {
		t.Errorf("expected Footer style, got %q", fp.StyleID)
	}
	if len(fp.TabStops) != 2 {
		t.Fatalf("expected 2 tab stops, got %d", len(fp.TabStops))
	}
	// US Letter minus 1in margins leaves 6.5in of content width.
	if fp.TabStops[0].PositionIn != 3.25 || fp.TabStops[1].PositionIn != 6.5 {
		t.Errorf("unexpected tab stop positions %+v", fp.TabStops)
	}

	var tabs int
	var field bool
	for _, r := range fp.Runs {
		if r.Tab {
			tabs++
		}
		if r.Field == docx.FieldPage {
			field = true
		}
	}
	if tabs != 2 {
		t.Errorf("expected 2 tab runs, got %d", tabs)
	}
	if !field {
		t.Error("expected a PAGE field run in the right zone")
	}
	if runText(fp.Runs) != "LC" {
		t.Errorf("expected zone texts L and C, got %q", runText(fp.Runs))
	}
}

func TestGenerate_HeaderOmittedWhenUnconfigured(t *testing.T) {
	doc, _ := generate(t, "body\n", branding.Config{})
	if doc.Section.Header != nil || doc.Section.Footer != nil {
		t.Error("expected no header or footer")
	}
}

func TestGenerate_RejectsNonDocumentRoot(t *testing.T) {
	_, _, err := New(nil, nil).Generate(context.Background(), &markdown.Node{Kind: markdown.KindParagraph}, branding.Config{})
	if !errors.Is(err, ErrInternalInconsistency) {
		t.Fatalf("expected ErrInternalInconsistency, got %v", err)
	}
}

func TestGenerate_MetadataFlowsToDocument(t *testing.T) {
	doc, _ := generate(t, "x\n", branding.Config{Title: "T", Author: "A", Company: "C"})
	if doc.Meta.Title != "T" || doc.Meta.Author != "A" || doc.Meta.Company != "C" {
		t.Errorf("unexpected metadata %+v", doc.Meta)
	}
}
