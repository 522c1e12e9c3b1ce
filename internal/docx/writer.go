package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"
)

// Unit conversions. OOXML measures page geometry in twips, font sizes in
// half-points, spacing in twentieths of a point and picture extents in EMUs.

func twips(inches float64) int { return int(inches*1440 + 0.5) }

func halfPoints(pt float64) int { return int(pt*2 + 0.5) }

func twentieths(pt float64) int { return int(pt*20 + 0.5) }

func emu(inches float64) int64 { return int64(inches*914400 + 0.5) }

// relSet allocates relationship IDs for one package part.
type relSet struct {
	rels []xmlRelationship
	next int
}

func newRelSet() *relSet { return &relSet{next: 1} }

func (s *relSet) add(relType, target, mode string) string {
	id := "rId" + strconv.Itoa(s.next)
	s.next++
	s.rels = append(s.rels, xmlRelationship{ID: id, Type: relType, Target: target, TargetMode: mode})
	return id
}

func (s *relSet) xml() string {
	part := xmlRelationships{Xmlns: relsNamespace, Rels: s.rels}
	out, _ := xml.Marshal(part)
	return xmlHeader + string(out)
}

type mediaFile struct {
	name string
	data []byte
}

// packer walks the document model once, converting blocks to part XML and
// collecting media and relationships along the way.
type packer struct {
	doc     *Document
	media   []mediaFile
	docPrID int
}

// Write packages the document and writes the resulting archive to w.
func (d *Document) Write(w io.Writer) error {
	p := &packer{doc: d}

	docRels := newRelSet()
	docRels.add(relTypeStyles, "styles.xml", "")
	docRels.add(relTypeNumbering, "numbering.xml", "")

	var sectPr xmlSectPr
	sectPr.PgSz = xmlPgSz{W: twips(d.Section.PageWidthIn), H: twips(d.Section.PageHeightIn)}
	sectPr.PgMar = xmlPgMar{
		Top:    twips(d.Section.MarginTopIn),
		Right:  twips(d.Section.MarginRightIn),
		Bottom: twips(d.Section.MarginBottomIn),
		Left:   twips(d.Section.MarginLeftIn),
		Header: twips(0.5),
		Footer: twips(0.5),
	}

	var headerPart, footerPart []byte
	var headerRels, footerRels *relSet
	var err error
	if d.Section.Header != nil {
		id := docRels.add(relTypeHeader, "header1.xml", "")
		sectPr.HeaderRef = &xmlHdrFtrRef{Type: "default", ID: id}
		headerRels = newRelSet()
		headerPart, err = p.hdrFtrPart("w:hdr", d.Section.Header.Paragraph, headerRels)
		if err != nil {
			return err
		}
	}
	if d.Section.Footer != nil {
		id := docRels.add(relTypeFooter, "footer1.xml", "")
		sectPr.FooterRef = &xmlHdrFtrRef{Type: "default", ID: id}
		footerRels = newRelSet()
		footerPart, err = p.hdrFtrPart("w:ftr", d.Section.Footer.Paragraph, footerRels)
		if err != nil {
			return err
		}
	}

	content := make([]any, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		switch blk := b.(type) {
		case Paragraph:
			content = append(content, p.paragraph(blk, docRels))
		case Table:
			content = append(content, p.table(blk, docRels))
		default:
			return fmt.Errorf("docx: unknown block type %T", b)
		}
	}

	root := xmlDocument{
		NsW:  nsW,
		NsR:  nsR,
		NsWP: nsWP,
		Body: xmlBody{Content: content, SectPr: &sectPr},
	}
	docPart, err := xml.Marshal(root)
	if err != nil {
		return fmt.Errorf("docx: marshal document: %w", err)
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML(headerPart != nil, footerPart != nil))},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"docProps/core.xml", []byte(corePropsXML(d.Meta))},
		{"docProps/app.xml", []byte(appPropsXML(d.Meta))},
		{"word/document.xml", append([]byte(xmlHeader), docPart...)},
		{"word/_rels/document.xml.rels", []byte(docRels.xml())},
		{"word/styles.xml", []byte(stylesXML(d.Defaults))},
		{"word/numbering.xml", []byte(numberingXML(d.numInstances()))},
	}
	if headerPart != nil {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/header1.xml", headerPart})
		if len(headerRels.rels) > 0 {
			parts = append(parts, struct {
				name string
				data []byte
			}{"word/_rels/header1.xml.rels", []byte(headerRels.xml())})
		}
	}
	if footerPart != nil {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/footer1.xml", footerPart})
		if len(footerRels.rels) > 0 {
			parts = append(parts, struct {
				name string
				data []byte
			}{"word/_rels/footer1.xml.rels", []byte(footerRels.xml())})
		}
	}
	for _, m := range p.media {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/media/" + m.name, m.data})
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("docx: create %s: %w", part.name, err)
		}
		if _, err := f.Write(part.data); err != nil {
			return fmt.Errorf("docx: write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("docx: close archive: %w", err)
	}
	return nil
}

// Bytes packages the document into a byte slice.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *packer) hdrFtrPart(element string, par Paragraph, rels *relSet) ([]byte, error) {
	part := xmlHdrFtr{
		XMLName: xml.Name{Local: element},
		NsW:     nsW,
		NsR:     nsR,
		NsWP:    nsWP,
		Paras:   []xmlPara{p.paragraph(par, rels)},
	}
	out, err := xml.Marshal(part)
	if err != nil {
		return nil, fmt.Errorf("docx: marshal %s: %w", element, err)
	}
	return append([]byte(xmlHeader), out...), nil
}

func (p *packer) paragraph(par Paragraph, rels *relSet) xmlPara {
	return xmlPara{Props: paraProps(par), Content: p.runContent(par.Runs, rels)}
}

func paraProps(par Paragraph) *xmlPPr {
	var pr xmlPPr
	has := false
	if par.StyleID != "" {
		pr.Style = &xmlValue{Val: par.StyleID}
		has = true
	}
	if par.List != nil {
		lvl := par.List.Level
		if lvl > MaxListLevel {
			lvl = MaxListLevel
		}
		pr.NumPr = &xmlNumPr{Ilvl: xmlIlvl{Val: lvl}, NumID: xmlNumID{Val: par.List.ID}}
		has = true
	}
	if par.BottomBorder {
		pr.PBdr = &xmlPBdr{Bottom: &xmlBorder{Val: "single", Sz: 6, Space: 1, Color: "auto"}}
		has = true
	}
	if par.ShadingHex != "" {
		pr.Shd = &xmlShd{Val: "clear", Color: "auto", Fill: par.ShadingHex}
		has = true
	}
	if len(par.TabStops) > 0 {
		tabs := &xmlTabs{}
		for _, ts := range par.TabStops {
			align := string(ts.Alignment)
			if align == "" {
				align = "left"
			}
			tabs.Tabs = append(tabs.Tabs, xmlTab{Val: align, Pos: twips(ts.PositionIn)})
		}
		pr.Tabs = tabs
		has = true
	}
	if par.SpaceBeforePt > 0 || par.SpaceAfterPt > 0 {
		pr.Spacing = &xmlSpacing{Before: twentieths(par.SpaceBeforePt), After: twentieths(par.SpaceAfterPt)}
		has = true
	}
	if par.IndentLeftIn > 0 {
		pr.Ind = &xmlInd{Left: twips(par.IndentLeftIn)}
		has = true
	}
	if par.Alignment != AlignDefault {
		pr.Jc = &xmlValue{Val: string(par.Alignment)}
		has = true
	}
	if !has {
		return nil
	}
	return &pr
}

// runContent converts runs to part content, grouping consecutive runs that
// share a link destination under one hyperlink element.
func (p *packer) runContent(runs []Run, rels *relSet) []any {
	var out []any
	for i := 0; i < len(runs); {
		r := runs[i]
		if r.LinkURL == "" {
			for _, xr := range p.run(r, rels) {
				out = append(out, xr)
			}
			i++
			continue
		}
		j := i
		var linked []xmlRun
		for j < len(runs) && runs[j].LinkURL == r.LinkURL {
			linked = append(linked, p.run(runs[j], rels)...)
			j++
		}
		id := rels.add(relTypeHyperlink, r.LinkURL, "External")
		out = append(out, xmlHyperlink{ID: id, Runs: linked})
		i = j
	}
	return out
}

// run converts one model run; a field run expands to the begin/instruction/
// end triple the field-code machinery requires.
func (p *packer) run(r Run, rels *relSet) []xmlRun {
	props := runProps(r)
	switch {
	case r.Image != nil:
		return []xmlRun{{Props: props, Content: []any{p.drawing(r.Image, rels)}}}
	case r.Field != "":
		return []xmlRun{
			{Props: props, Content: []any{xmlFldChar{Type: "begin"}}},
			{Props: props, Content: []any{xmlInstrText{Space: "preserve", Value: " " + string(r.Field) + " "}}},
			{Props: props, Content: []any{xmlFldChar{Type: "end"}}},
		}
	case r.Tab:
		return []xmlRun{{Props: props, Content: []any{xmlTabChar{}}}}
	case r.Break:
		return []xmlRun{{Props: props, Content: []any{xmlBreak{}}}}
	default:
		t := xmlText{Value: r.Text}
		if strings.TrimSpace(r.Text) != r.Text {
			t.Space = "preserve"
		}
		return []xmlRun{{Props: props, Content: []any{t}}}
	}
}

func runProps(r Run) *xmlRPr {
	var pr xmlRPr
	has := false
	if r.FontName != "" {
		pr.Fonts = &xmlFonts{ASCII: r.FontName, HAnsi: r.FontName}
		has = true
	}
	if r.Bold {
		pr.Bold = &xmlEmpty{}
		has = true
	}
	if r.Italic {
		pr.Italic = &xmlEmpty{}
		has = true
	}
	if r.Strike {
		pr.Strike = &xmlEmpty{}
		has = true
	}
	if r.ColorHex != "" {
		pr.Color = &xmlValue{Val: r.ColorHex}
		has = true
	}
	if r.SizePt > 0 {
		v := strconv.Itoa(halfPoints(r.SizePt))
		pr.Sz = &xmlValue{Val: v}
		pr.SzCs = &xmlValue{Val: v}
		has = true
	}
	if r.Underline {
		pr.Underline = &xmlValue{Val: "single"}
		has = true
	}
	if !has {
		return nil
	}
	return &pr
}

func (p *packer) drawing(img *Image, rels *relSet) xmlDrawing {
	name := fmt.Sprintf("image%d.%s", len(p.media)+1, imageExt(img.ContentType))
	p.media = append(p.media, mediaFile{name: name, data: img.Data})
	relID := rels.add(relTypeImage, "media/"+name, "")
	p.docPrID++
	cx, cy := p.extent(img)
	return xmlDrawing{Inner: drawingXML(relID, p.docPrID, cx, cy)}
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/tiff":
		return "tiff"
	case "image/bmp":
		return "bmp"
	default:
		return "png"
	}
}

// extent resolves the picture display size in EMUs. Zero model dimensions
// fall back to the intrinsic pixel size at 96 DPI; images wider than the
// content area scale down preserving aspect ratio.
func (p *packer) extent(img *Image) (cx, cy int64) {
	w, h := img.WidthIn, img.HeightIn
	if w <= 0 || h <= 0 {
		iw, ih := 2.0, 2.0
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
			iw = float64(cfg.Width) / 96
			ih = float64(cfg.Height) / 96
		}
		switch {
		case w <= 0 && h <= 0:
			w, h = iw, ih
		case w <= 0:
			w = h * iw / ih
		default:
			h = w * ih / iw
		}
	}
	if limit := p.doc.Section.ContentWidthIn(); limit > 0 && w > limit {
		h = h * limit / w
		w = limit
	}
	return emu(w), emu(h)
}

func (p *packer) table(t Table, rels *relSet) xmlTable {
	contentW := twips(p.doc.Section.ContentWidthIn())
	cols := len(t.Columns)
	if cols == 0 {
		cols = 1
	}
	colW := contentW / cols

	border := xmlBorder{Val: "single", Sz: 4, Space: 0, Color: "auto"}
	tbl := xmlTable{
		Props: xmlTblPr{
			W: xmlTblW{W: contentW, Type: "dxa"},
			Borders: xmlTblBorders{
				Top: border, Left: border, Bottom: border,
				Right: border, InsideH: border, InsideV: border,
			},
		},
	}
	for i := 0; i < cols; i++ {
		tbl.Grid.Cols = append(tbl.Grid.Cols, xmlGridCol{W: colW})
	}
	for _, row := range t.Rows {
		tr := xmlTr{}
		for _, cell := range row {
			tr.Cells = append(tr.Cells, xmlTc{
				Props: xmlTcPr{W: xmlTblW{W: colW, Type: "dxa"}},
				Paras: []xmlPara{p.paragraph(cell, rels)},
			})
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	return tbl
}

// numInstances lists one numbering instance per distinct list in the body.
func (d *Document) numInstances() []numInstance {
	seen := make(map[int]bool)
	var out []numInstance
	for _, b := range d.Blocks {
		par, ok := b.(Paragraph)
		if !ok || par.List == nil || seen[par.List.ID] {
			continue
		}
		seen[par.List.ID] = true
		out = append(out, numInstance{NumID: par.List.ID, Ordered: par.List.Ordered})
	}
	return out
}
