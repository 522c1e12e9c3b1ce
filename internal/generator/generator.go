// Package generator walks a parsed document tree and emits the output
// document model. Styling decisions are delegated to the style resolver;
// recoverable problems (unreachable images, unknown inline HTML) degrade
// locally and surface as warnings instead of failing the conversion.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/docx"
	"github.com/inkwelldocs/md2docx/internal/imagefetch"
	"github.com/inkwelldocs/md2docx/internal/markdown"
	"github.com/inkwelldocs/md2docx/internal/style"
)

// ErrInternalInconsistency marks a tree shape the parser never produces:
// a heading level outside 1-6, a table without a header row, an unknown
// node kind. It signals a programming error, not bad input.
var ErrInternalInconsistency = errors.New("internal inconsistency in document tree")

const (
	quoteIndentIn    = 0.5
	codeIndentIn     = 0.25
	codeSpacingPt    = 6
	listIndentStepIn = 0.25
)

// Generator converts parsed trees to output documents. It is safe for
// concurrent use; all per-conversion state lives in the walk.
type Generator struct {
	fetch *imagefetch.Fetcher
	log   *slog.Logger
}

// New returns a generator. fetch may be nil to disable remote images;
// references to them then degrade to alt text.
func New(fetch *imagefetch.Fetcher, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{fetch: fetch, log: log}
}

// Generate converts root under the given branding. The returned warnings
// describe content that was degraded rather than rendered.
func (g *Generator) Generate(ctx context.Context, root *markdown.Node, cfg branding.Config) (*docx.Document, []string, error) {
	if root == nil || root.Kind != markdown.KindDocument {
		return nil, nil, fmt.Errorf("%w: root must be a document node", ErrInternalInconsistency)
	}

	res := style.NewResolver(cfg, g.fetch, g.log)
	body := res.Body()
	page := res.Page()

	doc := &docx.Document{
		Meta:     docx.Metadata{Title: cfg.Title, Author: cfg.Author, Company: cfg.Company},
		Defaults: docx.RunDefaults{FontName: body.FontName, SizePt: body.SizePt},
		Section: docx.Section{
			PageWidthIn:    page.WidthIn,
			PageHeightIn:   page.HeightIn,
			MarginTopIn:    page.MarginTopIn,
			MarginBottomIn: page.MarginBottomIn,
			MarginLeftIn:   page.MarginLeftIn,
			MarginRightIn:  page.MarginRightIn,
		},
	}

	w := &walker{ctx: ctx, g: g, res: res, doc: doc, nextList: 1}

	contentW := doc.Section.ContentWidthIn()
	hdr, warns := res.Header(ctx)
	w.warnings = append(w.warnings, warns...)
	if hdr != nil {
		doc.Section.Header = &docx.HeaderFooter{Paragraph: zoneParagraph(hdr, contentW, "Header")}
	}
	ftr, warns := res.Footer(ctx)
	w.warnings = append(w.warnings, warns...)
	if ftr != nil {
		doc.Section.Footer = &docx.HeaderFooter{Paragraph: zoneParagraph(ftr, contentW, "Footer")}
	}

	for _, child := range root.Children {
		if err := w.block(child); err != nil {
			return nil, w.warnings, err
		}
	}
	return doc, w.warnings, nil
}

// walker carries per-conversion state through the tree walk.
type walker struct {
	ctx      context.Context
	g        *Generator
	res      *style.Resolver
	doc      *docx.Document
	warnings []string

	quote    int // blockquote nesting depth
	nextList int // numbering instance allocator
}

func (w *walker) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	w.g.log.Warn("content degraded", "detail", msg)
	w.warnings = append(w.warnings, msg)
}

func (w *walker) emit(b docx.Block) {
	w.doc.Blocks = append(w.doc.Blocks, b)
}

func (w *walker) block(n *markdown.Node) error {
	switch n.Kind {
	case markdown.KindHeading:
		return w.heading(n)
	case markdown.KindParagraph:
		w.emit(w.paragraph(n, nil))
		return nil
	case markdown.KindCodeBlock:
		w.emit(w.codeBlock(n, 0))
		return nil
	case markdown.KindBlockQuote:
		w.quote++
		for _, c := range n.Children {
			if err := w.block(c); err != nil {
				w.quote--
				return err
			}
		}
		w.quote--
		return nil
	case markdown.KindList:
		return w.list(n, 0)
	case markdown.KindTable:
		return w.table(n)
	case markdown.KindThematicBreak:
		w.emit(docx.Paragraph{BottomBorder: true, SpaceAfterPt: 12})
		return nil
	default:
		return fmt.Errorf("%w: unexpected block node %s", ErrInternalInconsistency, n.Kind)
	}
}

func (w *walker) heading(n *markdown.Node) error {
	hs, err := w.res.Heading(n.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalInconsistency, err)
	}
	fl := flags{
		font:   hs.FontName,
		size:   hs.SizePt,
		color:  hs.Color,
		bold:   hs.Bold,
		italic: hs.Italic,
	}
	var runs []docx.Run
	w.inline(n.Children, fl, &runs)
	w.emit(docx.Paragraph{
		StyleID:       fmt.Sprintf("Heading%d", n.Level),
		Runs:          runs,
		SpaceBeforePt: hs.SpaceBeforePt,
		SpaceAfterPt:  hs.SpaceAfterPt,
		IndentLeftIn:  w.quoteIndent(),
	})
	return nil
}

// paragraph renders an inline container as a body paragraph. list attaches
// list formatting when the paragraph is a list item lead.
func (w *walker) paragraph(n *markdown.Node, list *docx.ListMarker) docx.Paragraph {
	body := w.res.Body()
	fl := flags{font: body.FontName, size: body.SizePt, color: body.Color, bold: body.Bold, italic: body.Italic}
	var runs []docx.Run
	w.inline(n.Children, fl, &runs)

	p := docx.Paragraph{Runs: runs, List: list}
	if w.quote > 0 {
		p.StyleID = "Quote"
		p.IndentLeftIn = w.quoteIndent()
	}
	return p
}

func (w *walker) quoteIndent() float64 {
	return quoteIndentIn * float64(w.quote)
}

func (w *walker) codeBlock(n *markdown.Node, listLevel int) docx.Paragraph {
	st, bg := w.res.Code()
	code := strings.TrimSuffix(n.Text, "\n")

	var runs []docx.Run
	for _, cr := range w.res.CodeRuns(code, n.Language) {
		color := st.Color
		if cr.Color != nil {
			color = cr.Color
		}
		lines := strings.Split(cr.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				runs = append(runs, docx.Run{Break: true})
			}
			if line == "" {
				continue
			}
			runs = append(runs, docx.Run{
				Text:     line,
				FontName: st.FontName,
				SizePt:   st.SizePt,
				ColorHex: hexOf(color),
				Bold:     cr.Bold,
				Italic:   cr.Italic,
			})
		}
	}

	return docx.Paragraph{
		Runs:          runs,
		ShadingHex:    bg.Hex(),
		IndentLeftIn:  codeIndentIn + w.quoteIndent() + listIndentStepIn*float64(listLevel),
		SpaceBeforePt: codeSpacingPt,
		SpaceAfterPt:  codeSpacingPt,
	}
}

// list flattens one list node. Each list node gets its own numbering
// instance so ordered numbering restarts per list; nesting deeper than the
// supported indent levels clamps at the deepest one.
func (w *walker) list(n *markdown.Node, level int) error {
	id := w.nextList
	w.nextList++

	clamped := level
	if clamped > docx.MaxListLevel {
		clamped = docx.MaxListLevel
	}

	for _, item := range n.Children {
		if item.Kind != markdown.KindListItem {
			return fmt.Errorf("%w: list child is %s", ErrInternalInconsistency, item.Kind)
		}
		marker := &docx.ListMarker{Ordered: n.Ordered, Level: clamped, ID: id}
		for _, c := range item.Children {
			switch c.Kind {
			case markdown.KindParagraph:
				w.emit(w.paragraph(c, marker))
				// continuation paragraphs in the same item carry no marker
				marker = nil
			case markdown.KindList:
				if err := w.list(c, level+1); err != nil {
					return err
				}
			case markdown.KindCodeBlock:
				w.emit(w.codeBlock(c, level+1))
			case markdown.KindBlockQuote, markdown.KindTable, markdown.KindHeading, markdown.KindThematicBreak:
				if err := w.block(c); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: list item child is %s", ErrInternalInconsistency, c.Kind)
			}
		}
		if marker != nil {
			// Empty item: keep the marker visible on an empty paragraph.
			w.emit(docx.Paragraph{List: marker})
		}
	}
	return nil
}

func (w *walker) table(n *markdown.Node) error {
	if len(n.Children) == 0 {
		return fmt.Errorf("%w: table without header row", ErrInternalInconsistency)
	}

	cols := make([]docx.Alignment, len(n.Alignments))
	for i, a := range n.Alignments {
		cols[i] = cellAlignment(a)
	}

	body := w.res.Body()
	tbl := docx.Table{Columns: cols}
	for ri, row := range n.Children {
		if row.Kind != markdown.KindTableRow {
			return fmt.Errorf("%w: table child is %s", ErrInternalInconsistency, row.Kind)
		}
		var cells []docx.Paragraph
		for ci, cell := range row.Children {
			fl := flags{font: body.FontName, size: body.SizePt, color: body.Color, bold: body.Bold || ri == 0, italic: body.Italic}
			var runs []docx.Run
			w.inline(cell.Children, fl, &runs)
			p := docx.Paragraph{Runs: runs}
			if ci < len(cols) {
				p.Alignment = cols[ci]
			}
			cells = append(cells, p)
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	w.emit(tbl)
	return nil
}

func cellAlignment(a markdown.Alignment) docx.Alignment {
	switch a {
	case markdown.AlignLeft:
		return docx.AlignLeft
	case markdown.AlignCenter:
		return docx.AlignCenter
	case markdown.AlignRight:
		return docx.AlignRight
	default:
		return docx.AlignDefault
	}
}

// flags is the inline formatting state accumulated while descending
// through emphasis, links and code spans.
type flags struct {
	font   string
	size   float64
	color  *branding.Color
	bold   bool
	italic bool
	strike bool
	under  bool
	link   string
}

func (w *walker) inline(nodes []*markdown.Node, fl flags, out *[]docx.Run) {
	for _, n := range nodes {
		switch n.Kind {
		case markdown.KindText:
			*out = append(*out, w.textRun(n.Text, fl))
		case markdown.KindLineBreak:
			*out = append(*out, docx.Run{Break: true})
		case markdown.KindEmphasis:
			next := fl
			next.italic = true
			w.inline(n.Children, next, out)
		case markdown.KindStrong:
			next := fl
			next.bold = true
			w.inline(n.Children, next, out)
		case markdown.KindStrikethrough:
			next := fl
			next.strike = true
			w.inline(n.Children, next, out)
		case markdown.KindCodeSpan:
			code, _ := w.res.Code()
			next := fl
			next.font = code.FontName
			next.size = code.SizePt
			if code.Color != nil {
				next.color = code.Color
			}
			*out = append(*out, w.textRun(n.Text, next))
		case markdown.KindLink:
			link := w.res.Link()
			next := fl
			next.color = link.Color
			next.under = link.Underline
			next.link = n.Destination
			w.inline(n.Children, next, out)
		case markdown.KindImage:
			*out = append(*out, w.imageRun(n, fl))
		default:
			// Block nodes never appear among inline children; treat a
			// stray one as text-equivalent rather than failing mid-walk.
			*out = append(*out, w.textRun(n.PlainText(), fl))
		}
	}
}

func (w *walker) textRun(text string, fl flags) docx.Run {
	return docx.Run{
		Text:      text,
		FontName:  fl.font,
		SizePt:    fl.size,
		ColorHex:  hexOf(fl.color),
		Bold:      fl.bold,
		Italic:    fl.italic,
		Strike:    fl.strike,
		Underline: fl.under,
		LinkURL:   fl.link,
	}
}

// imageRun embeds the referenced image, degrading to italic alt text when
// the image cannot be loaded.
func (w *walker) imageRun(n *markdown.Node, fl flags) docx.Run {
	img, err := w.loadImage(n.Destination)
	if err != nil {
		w.warnf("image %s: %v", n.Destination, err)
		alt := n.Alt
		if alt == "" {
			alt = n.Destination
		}
		degraded := fl
		degraded.italic = true
		degraded.link = ""
		return w.textRun("["+alt+"]", degraded)
	}
	return docx.Run{Image: img}
}

func (w *walker) loadImage(dest string) (*docx.Image, error) {
	var data []byte
	if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
		if w.g.fetch == nil {
			return nil, errors.New("remote images are not enabled")
		}
		img, err := w.g.fetch.Fetch(w.ctx, dest)
		if err != nil {
			return nil, err
		}
		data = img.Data
	} else {
		var err error
		data, err = os.ReadFile(dest) // #nosec G304 -- local references are trusted input
		if err != nil {
			return nil, err
		}
	}
	// Sniff the payload rather than trusting the server's declared type;
	// SVG and non-raster payloads degrade like unreachable images.
	ct, err := docx.SniffImageType(data)
	if err != nil {
		return nil, err
	}
	return &docx.Image{Data: data, ContentType: ct}, nil
}

func hexOf(c *branding.Color) string {
	if c == nil {
		return ""
	}
	return c.Hex()
}

// zoneParagraph lays a resolved header or footer line out as one paragraph
// with three tab-separated zones: left-aligned, centered at half the
// content width and right-aligned at the full content width.
func zoneParagraph(z *style.Zones, contentWidthIn float64, styleID string) docx.Paragraph {
	var runs []docx.Run

	textRun := func(text string) docx.Run {
		return docx.Run{
			Text:     text,
			FontName: z.Font.FontName,
			SizePt:   z.Font.SizePt,
			ColorHex: hexOf(z.Font.Color),
			Bold:     z.Font.Bold,
			Italic:   z.Font.Italic,
		}
	}
	zone := func(pos branding.Position, text string) {
		if z.Logo != nil && z.LogoPosition == pos {
			runs = append(runs, docx.Run{Image: &docx.Image{
				Data:        z.Logo.Data,
				ContentType: z.Logo.ContentType,
				WidthIn:     z.Logo.WidthIn,
			}})
		}
		if text != "" {
			runs = append(runs, textRun(text))
		}
		if z.PageNumber == pos {
			f := textRun("")
			f.Field = docx.FieldPage
			runs = append(runs, f)
		}
	}

	zone(branding.PositionLeft, z.Left)
	runs = append(runs, docx.Run{Tab: true})
	zone(branding.PositionCenter, z.Center)
	runs = append(runs, docx.Run{Tab: true})
	zone(branding.PositionRight, z.Right)

	return docx.Paragraph{
		StyleID: styleID,
		Runs:    runs,
		TabStops: []docx.TabStop{
			{PositionIn: contentWidthIn / 2, Alignment: docx.AlignCenter},
			{PositionIn: contentWidthIn, Alignment: docx.AlignRight},
		},
	}
}
