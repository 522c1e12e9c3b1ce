package style

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/inkwelldocs/md2docx/internal/branding"
)

// highlightStyle is the chroma style used for fenced code blocks.
const highlightStyle = "github"

// CodeRun is one colored fragment of a highlighted code block. Token text
// may span multiple lines; the generator splits on newlines when emitting
// runs.
type CodeRun struct {
	Text   string
	Color  *branding.Color
	Bold   bool
	Italic bool
}

// CodeRuns tokenizes a code block for the given language and maps tokens
// to colored runs. Highlighting is best effort: an unknown language or a
// tokenizer failure falls back to a single plain run, never an error.
func (r *Resolver) CodeRuns(code, language string) []CodeRun {
	plain := []CodeRun{{Text: code}}
	if language == "" {
		return plain
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return plain
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plain
	}
	st := styles.Get(highlightStyle)

	var runs []CodeRun
	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		entry := st.Get(tok.Type)
		run := CodeRun{
			Text:   tok.Value,
			Bold:   entry.Bold == chroma.Yes,
			Italic: entry.Italic == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			c := branding.Color{R: entry.Colour.Red(), G: entry.Colour.Green(), B: entry.Colour.Blue()}
			run.Color = &c
		}
		runs = append(runs, run)
	}
	if len(runs) == 0 {
		return plain
	}
	return runs
}
