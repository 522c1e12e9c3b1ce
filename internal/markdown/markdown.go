// Package markdown defines the syntax tree consumed by the document
// generator and an adapter that produces it from Markdown text.
package markdown

import "strings"

// Kind tags a Node variant. The set is closed: the generator dispatches
// on Kind and treats anything else as a contract violation.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCodeSpan
	KindLink
	KindImage
	KindCodeBlock
	KindBlockQuote
	KindList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindThematicBreak
	KindLineBreak
)

var kindNames = map[Kind]string{
	KindDocument:      "document",
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindText:          "text",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "strikethrough",
	KindCodeSpan:      "inline_code",
	KindLink:          "link",
	KindImage:         "image",
	KindCodeBlock:     "code_block",
	KindBlockQuote:    "block_quote",
	KindList:          "list",
	KindListItem:      "list_item",
	KindTable:         "table",
	KindTableRow:      "table_row",
	KindTableCell:     "table_cell",
	KindThematicBreak: "thematic_break",
	KindLineBreak:     "line_break",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Alignment is a table column alignment.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "none"
}

// Node is one node of the parsed Markdown tree. A parent exclusively owns
// its child list; the tree is acyclic and finite. Payload fields are only
// meaningful for the kinds that declare them.
type Node struct {
	Kind        Kind
	Level       int         // KindHeading: 1-6
	Ordered     bool        // KindList
	Destination string      // KindLink, KindImage
	Alt         string      // KindImage
	Language    string      // KindCodeBlock
	Text        string      // KindText, KindCodeSpan, KindCodeBlock
	Alignments  []Alignment // KindTable: one entry per column
	Children    []*Node
}

// PlainText returns the concatenated text content of the node and its
// children, ignoring all formatting.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText || n.Kind == KindCodeSpan || n.Kind == KindCodeBlock {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.PlainText())
	}
	return b.String()
}

// Dump renders the tree as an indented outline, used by the CLI --ast mode.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case KindHeading:
		b.WriteString(" level=")
		b.WriteString(strings.Repeat("#", n.Level))
	case KindList:
		if n.Ordered {
			b.WriteString(" ordered")
		}
	case KindLink, KindImage:
		b.WriteString(" dest=" + n.Destination)
	case KindCodeBlock:
		if n.Language != "" {
			b.WriteString(" lang=" + n.Language)
		}
	}
	if n.Text != "" {
		txt := n.Text
		if len(txt) > 50 {
			txt = txt[:50] + "..."
		}
		b.WriteString(" " + strings.ReplaceAll(txt, "\n", "\\n"))
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		c.dump(b, depth+1)
	}
}
