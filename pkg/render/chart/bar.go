package chart

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	barWidth       = 600
	barMarginLeft  = 160
	barMarginRight = 60
	barMarginTop   = 60
	barMarginBot   = 30
	barHeight      = 36
	barGap         = 12
	barLabelWidth  = 20
	barTitleWidth  = 70

	// barArea is the horizontal span the largest value fills.
	barArea = barWidth - barMarginLeft - barMarginRight
)

// BarHeight returns the canvas height for n bars.
func BarHeight(n int) int {
	return barMarginTop + (barHeight+barGap)*n + barMarginBot
}

// BarWidths returns the pixel width of each bar, scaled so the largest value
// spans the full bar area. All widths are 0 when the maximum is 0.
func BarWidths(s Series) []float64 {
	widths := make([]float64, len(s))
	peak := s.Max()
	if peak <= 0 {
		return widths
	}
	for i, e := range s {
		widths[i] = magnitude(e.Value) / peak * barArea
	}
	return widths
}

// Bar renders a horizontal bar chart, one row per entry from top to bottom.
// It returns false for an empty series.
func Bar(s Series, title string, opts ...Option) ([]byte, bool) {
	if len(s) == 0 {
		return nil, false
	}
	r := newRenderer(opts...)
	height := BarHeight(len(s))
	widths := BarWidths(s)

	var buf bytes.Buffer
	r.theme.Open(&buf, barWidth, height)
	theme.Title(&buf, barWidth/2, 35, 15, 600, theme.Shorten(title, barTitleWidth))

	for i, e := range s {
		y := barMarginTop + i*(barHeight+barGap)
		textY := y + barHeight/2 + 5
		bw := widths[i]

		fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="end" fill="var(--text)" font-size="12">%s</text>`+"\n",
			barMarginLeft-10, textY, theme.EscapeXML(theme.Shorten(e.Label, barLabelWidth)))
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s" rx="4"/>`+"\n",
			barMarginLeft, y, bw, barHeight, theme.Accent(i))
		fmt.Fprintf(&buf, `<text x="%.1f" y="%d" fill="var(--text)" font-size="12" font-weight="600">%s</text>`+"\n",
			barMarginLeft+bw+8, textY, theme.EscapeXML(theme.FormatValue(e.Value)))
	}

	theme.Close(&buf)
	return buf.Bytes(), true
}
