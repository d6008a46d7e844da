package markers

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Type distinguishes the two marker grammars.
type Type string

const (
	TypeDiagram Type = "DIAGRAM"
	TypeChart   Type = "CHART"
)

// Marker is one placeholder found in a document.
type Marker struct {
	Type Type
	// Kind is the lowercased diagram type. Empty for charts.
	Kind string
	// Payload is the text after the colon, trimmed. For diagrams it is the
	// raw pipe-delimited field list without the kind.
	Payload string
	// Start and End are byte offsets of the whole marker in the source.
	Start, End int
}

// Raw returns the marker text as it appears in src.
func (m Marker) Raw(src []byte) string { return string(src[m.Start:m.End]) }

var markerRE = regexp.MustCompile(`\[\s*(DIAGRAM|CHART)\s*:([^\[\]\n]*)\]`)

// Scan returns the markers in src in document order.
func Scan(src []byte) []Marker {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []Marker
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		default:
			return ast.WalkContinue, nil
		}

		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out = append(out, scanLine(seg.Value(src), seg.Start)...)
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func scanLine(line []byte, base int) []Marker {
	var out []Marker
	for _, loc := range markerRE.FindAllSubmatchIndex(line, -1) {
		m := Marker{
			Type:  Type(line[loc[2]:loc[3]]),
			Start: base + loc[0],
			End:   base + loc[1],
		}
		payload := strings.TrimSpace(string(line[loc[4]:loc[5]]))
		if m.Type == TypeDiagram {
			kind, rest, _ := strings.Cut(payload, "|")
			m.Kind = strings.ToLower(strings.TrimSpace(kind))
			payload = strings.TrimSpace(rest)
		}
		m.Payload = payload
		out = append(out, m)
	}
	return out
}
