package docx

import "encoding/xml"

// Marshal-only OOXML structures for the document, header and footer parts.
// Field order follows the WordprocessingML schema so strict consumers
// accept the output.

const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
)

type xmlValue struct {
	Val string `xml:"w:val,attr"`
}

type xmlEmpty struct{}

type xmlDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NsW     string   `xml:"xmlns:w,attr"`
	NsR     string   `xml:"xmlns:r,attr"`
	NsWP    string   `xml:"xmlns:wp,attr"`
	Body    xmlBody  `xml:"w:body"`
}

type xmlBody struct {
	Content []any
	SectPr  *xmlSectPr
}

type xmlSectPr struct {
	XMLName   xml.Name      `xml:"w:sectPr"`
	HeaderRef *xmlHdrFtrRef `xml:"w:headerReference"`
	FooterRef *xmlHdrFtrRef `xml:"w:footerReference"`
	PgSz      xmlPgSz       `xml:"w:pgSz"`
	PgMar     xmlPgMar      `xml:"w:pgMar"`
}

type xmlHdrFtrRef struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

type xmlPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type xmlPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type xmlPara struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *xmlPPr  `xml:"w:pPr"`
	Content []any
}

type xmlPPr struct {
	Style   *xmlValue   `xml:"w:pStyle"`
	NumPr   *xmlNumPr   `xml:"w:numPr"`
	PBdr    *xmlPBdr    `xml:"w:pBdr"`
	Shd     *xmlShd     `xml:"w:shd"`
	Tabs    *xmlTabs    `xml:"w:tabs"`
	Spacing *xmlSpacing `xml:"w:spacing"`
	Ind     *xmlInd     `xml:"w:ind"`
	Jc      *xmlValue   `xml:"w:jc"`
}

type xmlNumPr struct {
	Ilvl  xmlIlvl  `xml:"w:ilvl"`
	NumID xmlNumID `xml:"w:numId"`
}

type xmlIlvl struct {
	Val int `xml:"w:val,attr"`
}

type xmlNumID struct {
	Val int `xml:"w:val,attr"`
}

type xmlPBdr struct {
	Bottom *xmlBorder `xml:"w:bottom"`
}

type xmlBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type xmlShd struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type xmlTabs struct {
	Tabs []xmlTab `xml:"w:tab"`
}

type xmlTab struct {
	Val string `xml:"w:val,attr"`
	Pos int    `xml:"w:pos,attr"`
}

type xmlSpacing struct {
	Before int `xml:"w:before,attr"`
	After  int `xml:"w:after,attr"`
}

type xmlInd struct {
	Left int `xml:"w:left,attr"`
}

type xmlRun struct {
	XMLName xml.Name `xml:"w:r"`
	Props   *xmlRPr  `xml:"w:rPr"`
	Content []any
}

type xmlRPr struct {
	Fonts     *xmlFonts `xml:"w:rFonts"`
	Bold      *xmlEmpty `xml:"w:b"`
	Italic    *xmlEmpty `xml:"w:i"`
	Strike    *xmlEmpty `xml:"w:strike"`
	Color     *xmlValue `xml:"w:color"`
	Sz        *xmlValue `xml:"w:sz"`
	SzCs      *xmlValue `xml:"w:szCs"`
	Underline *xmlValue `xml:"w:u"`
}

type xmlFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
}

type xmlText struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

type xmlTabChar struct {
	XMLName xml.Name `xml:"w:tab"`
}

type xmlBreak struct {
	XMLName xml.Name `xml:"w:br"`
}

type xmlFldChar struct {
	XMLName xml.Name `xml:"w:fldChar"`
	Type    string   `xml:"w:fldCharType,attr"`
}

type xmlInstrText struct {
	XMLName xml.Name `xml:"w:instrText"`
	Space   string   `xml:"xml:space,attr"`
	Value   string   `xml:",chardata"`
}

// xmlDrawing wraps a pre-rendered DrawingML fragment verbatim.
type xmlDrawing struct {
	XMLName xml.Name `xml:"w:drawing"`
	Inner   string   `xml:",innerxml"`
}

type xmlHyperlink struct {
	XMLName xml.Name `xml:"w:hyperlink"`
	ID      string   `xml:"r:id,attr"`
	Runs    []xmlRun
}

type xmlTable struct {
	XMLName xml.Name   `xml:"w:tbl"`
	Props   xmlTblPr   `xml:"w:tblPr"`
	Grid    xmlTblGrid `xml:"w:tblGrid"`
	Rows    []xmlTr
}

type xmlTblPr struct {
	W       xmlTblW       `xml:"w:tblW"`
	Borders xmlTblBorders `xml:"w:tblBorders"`
}

type xmlTblW struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type xmlTblBorders struct {
	Top     xmlBorder `xml:"w:top"`
	Left    xmlBorder `xml:"w:left"`
	Bottom  xmlBorder `xml:"w:bottom"`
	Right   xmlBorder `xml:"w:right"`
	InsideH xmlBorder `xml:"w:insideH"`
	InsideV xmlBorder `xml:"w:insideV"`
}

type xmlTblGrid struct {
	Cols []xmlGridCol `xml:"w:gridCol"`
}

type xmlGridCol struct {
	W int `xml:"w:w,attr"`
}

type xmlTr struct {
	XMLName xml.Name `xml:"w:tr"`
	Cells   []xmlTc
}

type xmlTc struct {
	XMLName xml.Name `xml:"w:tc"`
	Props   xmlTcPr  `xml:"w:tcPr"`
	Paras   []xmlPara
}

type xmlTcPr struct {
	W xmlTblW `xml:"w:tcW"`
}

// xmlHdrFtr is the root of a header or footer part; Name picks w:hdr or
// w:ftr at build time.
type xmlHdrFtr struct {
	XMLName xml.Name
	NsW     string `xml:"xmlns:w,attr"`
	NsR     string `xml:"xmlns:r,attr"`
	NsWP    string `xml:"xmlns:wp,attr"`
	Paras   []xmlPara
}
