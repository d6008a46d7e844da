package diagram

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	cmpWidth     = 700
	cmpTop       = 70
	cmpHeaderH   = 32
	cmpRowH      = 48
	cmpGap       = 10
	cmpColW      = 300
	cmpLeftX     = 30
	cmpRightX    = cmpWidth - 30 - cmpColW
	cmpCellChars = 44
	cmpArrow     = "→"
)

// ComparisonHeight returns the canvas height for rows comparison rows.
func ComparisonHeight(rows int) int {
	return cmpTop + cmpHeaderH + cmpGap + (cmpRowH+cmpGap)*rows + 20
}

type cmpRow struct{ left, right string }

// Comparison renders two columns side by side: fields[0] and fields[1] are the
// headers, every following "left:right" field is a row. Fields without a colon
// are skipped. It returns false with fewer than three fields or no valid row.
func Comparison(fields []string, opts ...Option) ([]byte, bool) {
	if len(fields) < 3 {
		return nil, false
	}
	var rows []cmpRow
	for _, f := range fields[2:] {
		if l, r, ok := splitRow(f); ok {
			rows = append(rows, cmpRow{l, r})
		}
	}
	if len(rows) == 0 {
		return nil, false
	}

	r := newRenderer(opts...)
	left, right := fields[0], fields[1]
	height := ComparisonHeight(len(rows))

	var buf bytes.Buffer
	r.theme.Open(&buf, cmpWidth, height)
	theme.Title(&buf, cmpWidth/2, 35, 16, 700, theme.Shorten(left+" vs "+right, 70))

	headerText := cmpTop + 16
	fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="var(--c0)" rx="6"/>`+"\n",
		cmpLeftX, cmpTop-5, cmpColW, cmpHeaderH)
	cell(&buf, cmpLeftX+cmpColW/2, headerText, "var(--on-primary)", 13, left)
	fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="var(--c1)" rx="6"/>`+"\n",
		cmpRightX, cmpTop-5, cmpColW, cmpHeaderH)
	cell(&buf, cmpRightX+cmpColW/2, headerText, "var(--on-primary)", 13, right)
	arrow(&buf, cmpWidth/2, headerText, 16)

	y := cmpTop + cmpHeaderH + cmpGap
	for _, row := range rows {
		textY := y + cmpRowH/2 + 5
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="var(--card)" rx="6" stroke="var(--border)" stroke-width="1"/>`+"\n",
			cmpLeftX, y, cmpColW, cmpRowH)
		cell(&buf, cmpLeftX+cmpColW/2, textY, "var(--text)", 12, row.left)
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="var(--card)" rx="6" stroke="var(--border)" stroke-width="1"/>`+"\n",
			cmpRightX, y, cmpColW, cmpRowH)
		cell(&buf, cmpRightX+cmpColW/2, textY, "var(--text)", 12, row.right)
		arrow(&buf, cmpWidth/2, textY, 14)
		y += cmpRowH + cmpGap
	}

	theme.Close(&buf)
	return buf.Bytes(), true
}

func cell(buf *bytes.Buffer, x, y int, fill string, size int, text string) {
	fmt.Fprintf(buf, `<text x="%d" y="%d" text-anchor="middle" fill="%s" font-size="%d" font-weight="600">%s</text>`+"\n",
		x, y, fill, size, theme.EscapeXML(theme.Shorten(text, cmpCellChars)))
}

func arrow(buf *bytes.Buffer, x, y, size int) {
	fmt.Fprintf(buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--muted)" font-size="%d">%s</text>`+"\n",
		x, y, size, cmpArrow)
}
