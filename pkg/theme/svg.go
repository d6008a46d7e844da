package theme

import (
	"fmt"
	"io"
)

// Open writes the root svg element, the style block and the background frame
// shared by every figure. The caller writes the body and then calls [Close].
func (t *Theme) Open(w io.Writer, width, height int) {
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" font-family="%s">`+"\n",
		width, height, EscapeXML(t.fontFamily))
	io.WriteString(w, t.style)
	io.WriteString(w, "\n")
	fmt.Fprintf(w, `<rect width="%d" height="%d" fill="var(--bg)" rx="8" stroke="var(--border)" stroke-width="1"/>`+"\n",
		width, height)
}

// Title writes a centered heading. text is escaped here.
func Title(w io.Writer, x, y, size, weight int, text string) {
	fmt.Fprintf(w, `<text x="%d" y="%d" text-anchor="middle" fill="var(--text)" font-size="%d" font-weight="%d">%s</text>`+"\n",
		x, y, size, weight, EscapeXML(text))
}

// Close terminates the document opened by [Theme.Open].
func Close(w io.Writer) {
	io.WriteString(w, "</svg>")
}
