// Package docx holds the in-memory output document model produced by the
// generator and packages it as an OOXML word-processing document. The
// model mirrors the input tree's block structure; pagination and line
// breaking are left to the consuming word processor.
package docx

// Metadata is written once to the document property parts.
type Metadata struct {
	Title   string
	Author  string
	Company string
}

// Alignment is a paragraph or table-cell justification.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
)

// RunDefaults seeds the document-wide default run properties.
type RunDefaults struct {
	FontName string
	SizePt   float64
}

// Document is the root of the output model: one logical section holding an
// ordered block sequence.
type Document struct {
	Meta     Metadata
	Defaults RunDefaults
	Section  Section
	Blocks   []Block
}

// Section carries page geometry in inches and the optional header/footer
// lines applied to every page.
type Section struct {
	PageWidthIn    float64
	PageHeightIn   float64
	MarginTopIn    float64
	MarginBottomIn float64
	MarginLeftIn   float64
	MarginRightIn  float64

	Header *HeaderFooter
	Footer *HeaderFooter
}

// ContentWidthIn is the usable width between the side margins.
func (s Section) ContentWidthIn() float64 {
	return s.PageWidthIn - s.MarginLeftIn - s.MarginRightIn
}

// HeaderFooter is a single header or footer line.
type HeaderFooter struct {
	Paragraph Paragraph
}

// Block is a body-level element: Paragraph or Table.
type Block interface {
	block()
}

// ListMarker attaches Word-style list formatting to a paragraph. Level is
// the zero-based indent level, at most MaxListLevel. Paragraphs of one
// logical list share an ID so numbering restarts per list.
type ListMarker struct {
	Ordered bool
	Level   int
	ID      int
}

// MaxListLevel is the deepest supported list indent level (nine levels,
// zero-based). Deeper input nesting clamps here.
const MaxListLevel = 8

// TabStop positions a tab stop used by header/footer zone layout.
type TabStop struct {
	PositionIn float64
	Alignment  Alignment
}

// Paragraph is a styled run sequence.
type Paragraph struct {
	// StyleID names a paragraph style defined in the style part, e.g.
	// "Heading1". Empty means the default style.
	StyleID string

	Runs []Run

	Alignment     Alignment
	SpaceBeforePt float64
	SpaceAfterPt  float64
	IndentLeftIn  float64

	List *ListMarker

	// ShadingHex fills the paragraph background (RRGGBB), e.g. code blocks.
	ShadingHex string

	// BottomBorder draws a horizontal-rule-equivalent border.
	BottomBorder bool

	TabStops []TabStop
}

func (Paragraph) block() {}

// Table is a rectangular grid. The first row is the header row; column
// alignments apply per cell.
type Table struct {
	Columns []Alignment
	Rows    [][]Paragraph
}

func (Table) block() {}

// FieldCode is an instruction-field placeholder resolved by the word
// processor at display time.
type FieldCode string

// FieldPage renders the current page number.
const FieldPage FieldCode = "PAGE"

// Run is one styled text fragment, or exactly one of the special payloads
// (tab, line break, field, image).
type Run struct {
	Text string

	FontName  string
	SizePt    float64
	ColorHex  string // RRGGBB, empty inherits
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool

	// LinkURL wraps the run in an external hyperlink.
	LinkURL string

	Tab   bool
	Break bool
	Field FieldCode
	Image *Image
}

// Image is an inline picture payload. Zero dimensions are derived from the
// intrinsic pixel size at 96 DPI.
type Image struct {
	Data        []byte
	ContentType string
	WidthIn     float64
	HeightIn    float64
}
