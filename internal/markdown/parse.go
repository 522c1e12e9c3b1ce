package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Parse converts Markdown text into a syntax tree using goldmark with the
// GFM table and strikethrough extensions enabled.
func Parse(src []byte) *Node {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	)
	doc := md.Parser().Parse(text.NewReader(src))

	root := &Node{Kind: KindDocument}
	root.Children = convertChildren(doc, src)
	return root
}

func convertChildren(parent ast.Node, src []byte) []*Node {
	var out []*Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertNode(c, src)...)
	}
	return out
}

// convertNode maps a single goldmark node to zero or more tree nodes.
// Nodes outside the supported set degrade to their text content instead
// of being dropped silently.
func convertNode(n ast.Node, src []byte) []*Node {
	switch node := n.(type) {
	case *ast.Heading:
		return []*Node{{
			Kind:     KindHeading,
			Level:    node.Level,
			Children: convertChildren(node, src),
		}}

	case *ast.Paragraph, *ast.TextBlock:
		return []*Node{{Kind: KindParagraph, Children: convertChildren(n, src)}}

	case *ast.Blockquote:
		return []*Node{{Kind: KindBlockQuote, Children: convertChildren(node, src)}}

	case *ast.List:
		return []*Node{{
			Kind:     KindList,
			Ordered:  node.IsOrdered(),
			Children: convertChildren(node, src),
		}}

	case *ast.ListItem:
		return []*Node{{Kind: KindListItem, Children: convertChildren(node, src)}}

	case *ast.FencedCodeBlock:
		return []*Node{{
			Kind:     KindCodeBlock,
			Language: string(node.Language(src)),
			Text:     blockText(node, src),
		}}

	case *ast.CodeBlock:
		return []*Node{{Kind: KindCodeBlock, Text: blockText(node, src)}}

	case *ast.ThematicBreak:
		return []*Node{{Kind: KindThematicBreak}}

	case *east.Table:
		return []*Node{convertTable(node, src)}

	case *ast.HTMLBlock:
		// Raw HTML is out of scope as markup; keep its visible text.
		if t := htmlVisibleText(blockText(node, src)); t != "" {
			return []*Node{{
				Kind:     KindParagraph,
				Children: []*Node{{Kind: KindText, Text: t}},
			}}
		}
		return nil

	case *ast.Text:
		var out []*Node
		if t := string(node.Segment.Value(src)); t != "" {
			if node.SoftLineBreak() {
				t += " "
			}
			out = append(out, &Node{Kind: KindText, Text: t})
		}
		if node.HardLineBreak() {
			out = append(out, &Node{Kind: KindLineBreak})
		}
		return out

	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return []*Node{{Kind: KindText, Text: string(node.Value)}}

	case *ast.Emphasis:
		kind := KindEmphasis
		if node.Level >= 2 {
			kind = KindStrong
		}
		return []*Node{{Kind: kind, Children: convertChildren(node, src)}}

	case *east.Strikethrough:
		return []*Node{{Kind: KindStrikethrough, Children: convertChildren(node, src)}}

	case *ast.CodeSpan:
		return []*Node{{Kind: KindCodeSpan, Text: string(node.Text(src))}}

	case *ast.Link:
		return []*Node{{
			Kind:        KindLink,
			Destination: string(node.Destination),
			Children:    convertChildren(node, src),
		}}

	case *ast.AutoLink:
		url := string(node.URL(src))
		label := string(node.Label(src))
		if label == "" {
			label = url
		}
		return []*Node{{
			Kind:        KindLink,
			Destination: url,
			Children:    []*Node{{Kind: KindText, Text: label}},
		}}

	case *ast.Image:
		return []*Node{{
			Kind:        KindImage,
			Destination: string(node.Destination),
			Alt:         string(node.Text(src)),
		}}

	case *ast.RawHTML:
		var raw bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			raw.Write(seg.Value(src))
		}
		if t := htmlVisibleText(raw.String()); t != "" {
			return []*Node{{Kind: KindText, Text: t}}
		}
		return nil

	default:
		// Unknown node: flatten to its children so content survives.
		if n.HasChildren() {
			return convertChildren(n, src)
		}
		return nil
	}
}

func convertTable(t *east.Table, src []byte) *Node {
	tbl := &Node{Kind: KindTable}
	for _, a := range t.Alignments {
		switch a {
		case east.AlignLeft:
			tbl.Alignments = append(tbl.Alignments, AlignLeft)
		case east.AlignCenter:
			tbl.Alignments = append(tbl.Alignments, AlignCenter)
		case east.AlignRight:
			tbl.Alignments = append(tbl.Alignments, AlignRight)
		default:
			tbl.Alignments = append(tbl.Alignments, AlignNone)
		}
	}

	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *east.TableHeader:
			tbl.Children = append(tbl.Children, convertTableRow(row, src))
		case *east.TableRow:
			tbl.Children = append(tbl.Children, convertTableRow(row, src))
		}
	}
	return tbl
}

func convertTableRow(row ast.Node, src []byte) *Node {
	r := &Node{Kind: KindTableRow}
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		switch cell := c.(type) {
		case *east.TableCell:
			r.Children = append(r.Children, &Node{
				Kind:     KindTableCell,
				Children: convertChildren(cell, src),
			})
		case *east.TableRow:
			// Some goldmark versions wrap header cells in a row node.
			inner := convertTableRow(cell, src)
			r.Children = append(r.Children, inner.Children...)
		}
	}
	return r
}

// blockText gathers the raw source lines of a block node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// htmlVisibleText extracts the rendered text of an HTML fragment,
// skipping script and style bodies.
func htmlVisibleText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}
