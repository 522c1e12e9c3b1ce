package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Relationship part shapes (OPC naming, no w: prefix).

type xmlRelationships struct {
	XMLName xml.Name `xml:"Relationships"`
	Xmlns   string   `xml:"xmlns,attr"`
	Rels    []xmlRelationship
}

type xmlRelationship struct {
	XMLName    xml.Name `xml:"Relationship"`
	ID         string   `xml:"Id,attr"`
	Type       string   `xml:"Type,attr"`
	Target     string   `xml:"Target,attr"`
	TargetMode string   `xml:"TargetMode,attr,omitempty"`
}

const (
	relTypeDocument   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps  = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeAppProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeStyles     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeHeader     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeHyperlink  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relsNamespace     = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNS    = "http://schemas.openxmlformats.org/package/2006/content-types"
	mainContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	stylesContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	numContentType    = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	hdrContentType    = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ftrContentType    = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	coreContentType   = "application/vnd.openxmlformats-package.core-properties+xml"
	appContentType    = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

func contentTypesXML(hasHeader, hasFooter bool) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="` + contentTypesNS + `">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Default Extension="jpg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Default Extension="gif" ContentType="image/gif"/>`)
	b.WriteString(`<Default Extension="tiff" ContentType="image/tiff"/>`)
	b.WriteString(`<Default Extension="bmp" ContentType="image/bmp"/>`)
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="` + mainContentType + `"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="` + stylesContentType + `"/>`)
	b.WriteString(`<Override PartName="/word/numbering.xml" ContentType="` + numContentType + `"/>`)
	if hasHeader {
		b.WriteString(`<Override PartName="/word/header1.xml" ContentType="` + hdrContentType + `"/>`)
	}
	if hasFooter {
		b.WriteString(`<Override PartName="/word/footer1.xml" ContentType="` + ftrContentType + `"/>`)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="` + coreContentType + `"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="` + appContentType + `"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func corePropsXML(meta Metadata) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	if meta.Title != "" {
		b.WriteString(`<dc:title>` + escapeXML(meta.Title) + `</dc:title>`)
	}
	if meta.Author != "" {
		b.WriteString(`<dc:creator>` + escapeXML(meta.Author) + `</dc:creator>`)
	}
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func appPropsXML(meta Metadata) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">`)
	b.WriteString(`<Application>md2docx</Application>`)
	if meta.Company != "" {
		b.WriteString(`<Company>` + escapeXML(meta.Company) + `</Company>`)
	}
	b.WriteString(`</Properties>`)
	return b.String()
}

// stylesXML declares the document defaults and the named paragraph styles
// the generator tags blocks with. All visual formatting is applied as
// direct run properties; the heading styles mainly carry outline levels so
// navigation and TOC features work in the target word processor.
func stylesXML(def RunDefaults) string {
	font := escapeXML(def.FontName)
	if font == "" {
		font = "Calibri"
	}
	size := halfPoints(def.SizePt)
	if size <= 0 {
		size = 22
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:styles xmlns:w="` + nsW + `">`)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:rPrDefault></w:docDefaults>`,
		font, font, size, size)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:outlineLvl w:val="%d"/></w:pPr></w:style>`,
			i, i, i-1)
	}
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Header"><w:name w:val="header"/><w:basedOn w:val="Normal"/></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Footer"><w:name w:val="footer"/><w:basedOn w:val="Normal"/></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.String()
}

// bullet glyphs cycled across the nine indent levels.
var bulletLevels = []struct {
	text string
	font string
}{
	{"", "Symbol"},      // solid bullet
	{"o", "Courier New"},      // hollow-ish bullet
	{"", "Wingdings"},   // square bullet
}

// numInstance binds a document list (numId) to one of the two abstract
// definitions: bullets (abstract 0) or decimal numbering (abstract 1).
type numInstance struct {
	NumID   int
	Ordered bool
}

func numberingXML(instances []numInstance) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:numbering xmlns:w="` + nsW + `">`)

	// Abstract 0: bullets across nine levels.
	b.WriteString(`<w:abstractNum w:abstractNumId="0">`)
	for lvl := 0; lvl <= MaxListLevel; lvl++ {
		g := bulletLevels[lvl%len(bulletLevels)]
		fmt.Fprintf(&b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="%s"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/></w:rPr></w:lvl>`,
			lvl, g.text, 720*(lvl+1), g.font, g.font)
	}
	b.WriteString(`</w:abstractNum>`)

	// Abstract 1: decimal numbering across nine levels.
	b.WriteString(`<w:abstractNum w:abstractNumId="1">`)
	for lvl := 0; lvl <= MaxListLevel; lvl++ {
		fmt.Fprintf(&b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%%%d."/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
			lvl, lvl+1, 720*(lvl+1))
	}
	b.WriteString(`</w:abstractNum>`)

	for _, inst := range instances {
		abstract := 0
		if inst.Ordered {
			abstract = 1
		}
		fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="%d"/></w:num>`, inst.NumID, abstract)
	}
	b.WriteString(`</w:numbering>`)
	return b.String()
}

const nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
const nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

// drawingXML renders the DrawingML fragment for an inline picture. cx/cy
// are EMUs.
func drawingXML(relID string, docPrID int, cx, cy int64) string {
	name := fmt.Sprintf("Image %d", docPrID)
	return fmt.Sprintf(`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:effectExtent l="0" t="0" r="0" b="0"/>`+
		`<wp:docPr id="%d" name="%s"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="%s" noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic xmlns:a="%s"><a:graphicData uri="%s">`+
		`<pic:pic xmlns:pic="%s">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline>`,
		cx, cy, docPrID, name, nsA, nsA, nsPic, nsPic, docPrID, name, relID, cx, cy)
}

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="` + relsNamespace + `">` +
	`<Relationship Id="rId1" Type="` + relTypeDocument + `" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="` + relTypeCoreProps + `" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="` + relTypeAppProps + `" Target="docProps/app.xml"/>` +
	`</Relationships>`

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
