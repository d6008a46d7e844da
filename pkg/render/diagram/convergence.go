package diagram

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	convWidth   = 700
	convTop     = 70
	convItemW   = 180
	convItemH   = 38
	convGap     = 12
	convMargin  = 30
	convCenterW = 160
	convCenterH = 50
	convBottom  = 30

	convLeftX   = convMargin
	convRightX  = convWidth - convMargin - convItemW
	convCenterX = (convWidth - convCenterW) / 2
)

// convergenceLayout returns the number of item rows, the vertical center of
// the target box and the canvas height for n items.
func convergenceLayout(n int) (rows, centerY, height int) {
	rows = (n + 1) / 2
	colH := rows*(convItemH+convGap) - convGap
	centerY = convTop + colH/2
	bottom := max(convTop+colH, centerY+convCenterH/2)
	return rows, centerY, bottom + convBottom
}

// ConvergenceHeight returns the canvas height for n items. It grows with every
// additional row, that is with every second item.
func ConvergenceHeight(n int) int {
	_, _, h := convergenceLayout(n)
	return h
}

// Convergence renders items flowing into a central box: fields[0] is the
// center label, every following "name;detail" field is an item. The left
// column takes the larger half. Connectors are drawn before the center box so
// it sits on top of them.
func Convergence(fields []string, opts ...Option) ([]byte, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	r := newRenderer(opts...)
	items := fields[1:]
	rows, centerY, height := convergenceLayout(len(items))
	center := fields[0]

	var buf bytes.Buffer
	r.theme.Open(&buf, convWidth, height)
	theme.Title(&buf, convWidth/2, 35, 16, 700, theme.Shorten(center, 70))

	for i, f := range items {
		name, details := splitItem(f)
		x, targetX, row := convLeftX, convCenterX, i
		if i >= rows {
			x, targetX, row = convRightX, convCenterX+convCenterW, i-rows
		}
		y := convTop + row*(convItemH+convGap)

		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="var(--item-bg)" rx="6" stroke="var(--c0)" stroke-width="1.5"/>`+"\n",
			x, y, convItemW, convItemH)
		fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--c0)" font-size="11" font-weight="600">%s</text>`+"\n",
			x+convItemW/2, y+16, theme.EscapeXML(theme.Shorten(name, 28)))
		if d := firstDetail(details); d != "" {
			fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--subtext)" font-size="8">%s</text>`+"\n",
				x+convItemW/2, y+30, theme.EscapeXML(theme.Shorten(d, 40)))
		}

		fromX := x + convItemW
		if i >= rows {
			fromX = x
		}
		fmt.Fprintf(&buf, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="var(--muted)" stroke-width="1" stroke-dasharray="4,3"/>`+"\n",
			fromX, y+convItemH/2, targetX, centerY)
	}

	fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="var(--c0)" rx="8"/>`+"\n",
		convCenterX, centerY-convCenterH/2, convCenterW, convCenterH)
	fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--on-primary)" font-size="13" font-weight="700">%s</text>`+"\n",
		convWidth/2, centerY+5, theme.EscapeXML(theme.Shorten(center, 20)))

	theme.Close(&buf)
	return buf.Bytes(), true
}
