// Package textextract turns forum post bodies (rendered HTML) into plain text.
package textextract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extractor converts rich text into plain text.
type Extractor interface {
	Extract(rich string) string
}

// HTMLExtractor extracts readable text from an HTML fragment.
// Script, style and similar non-content elements are dropped entirely; block
// elements and <br> become line breaks. Entities are decoded by the tokenizer.
type HTMLExtractor struct{}

// New creates an HTML extractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Svg:      true,
	atom.Template: true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Table: true,
	atom.Blockquote: true, atom.Pre: true, atom.Section: true, atom.Article: true, atom.Aside: true,
}

// Extract returns the plain text of rich. Lines are trimmed, runs of spaces
// collapsed and blank lines removed.
func (e *HTMLExtractor) Extract(rich string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(rich))
	depth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF for well-formed input; anything else still keeps what was read
			return tidy(b.String())
		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] && tt == html.StartTagToken {
				depth++
				continue
			}
			if blocks[a] {
				b.WriteByte('\n')
			} else if a == atom.Img {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] {
				if depth > 0 {
					depth--
				}
				continue
			}
			if blocks[a] {
				b.WriteByte('\n')
			}
		}
	}
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
