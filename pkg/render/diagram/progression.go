package diagram

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	progWidth      = 700
	progMargin     = 30
	progStageW     = 140
	progMinGap     = 8
	progStep       = 70
	progTop        = 70
	progBottom     = 40
	progMaxDetails = 3
)

// progShades runs light to dark; stage i uses index min(2i, 7).
var progShades = [...]string{
	"#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8",
	"#0ea5e9", "#0284c7", "#0369a1", "#075985",
}

func progShade(i int) string {
	return progShades[min(2*i, len(progShades)-1)]
}

// StageHeight returns the height of the i-th stage (0-based).
func StageHeight(i int) int { return progStep + progStep*i }

// ProgressionHeight returns the canvas height for n stages.
func ProgressionHeight(n int) int {
	return progTop + StageHeight(n-1) + progBottom
}

// stageLayout returns the stage width and the horizontal step between stage
// origins. Stages keep their nominal width while they fit with at least the
// minimum gap; beyond that they shrink. Once a stage would be narrower than
// three minimum gaps, the gap scales with the stage at a third of its width.
func stageLayout(n int) (width, step float64) {
	avail := float64(progWidth - 2*progMargin)
	if n <= 1 {
		return progStageW, 0
	}
	width = progStageW
	if need := float64(n*progStageW + (n-1)*progMinGap); need > avail {
		width = (avail - float64((n-1)*progMinGap)) / float64(n)
	}
	if width < 3*progMinGap {
		width = 3 * avail / float64(4*n-1)
	}
	gap := (avail - float64(n)*width) / float64(n-1)
	return width, width + gap
}

type stage struct {
	name    string
	details []string
}

// Progression renders an ascending staircase: fields[0] is the title, every
// following "name;detail;..." field is a stage. Each stage is 70px taller than
// the one before it and at most three details are shown. The last stage is
// drawn in the accent fill.
func Progression(fields []string, opts ...Option) ([]byte, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	stages := make([]stage, 0, len(fields)-1)
	for _, f := range fields[1:] {
		name, details := splitItem(f)
		stages = append(stages, stage{name, limit(details, progMaxDetails)})
	}

	r := newRenderer(opts...)
	n := len(stages)
	maxH := StageHeight(n - 1)
	height := ProgressionHeight(n)
	stageW, step := stageLayout(n)
	x0 := float64(progMargin)
	if n == 1 {
		x0 = float64(progWidth-progStageW) / 2
	}
	nameChars := max(4, int(stageW/6.5))
	detailChars := max(4, int(stageW/4.6))

	var buf bytes.Buffer
	r.theme.Open(&buf, progWidth, height)
	theme.Title(&buf, progWidth/2, 35, 16, 700, theme.Shorten(fields[0], 70))

	for i, s := range stages {
		x := x0 + float64(i)*step
		cx := x + stageW/2
		h := StageHeight(i)
		y := progTop + maxH - h

		fill, text, detail := progShade(i), "var(--text)", "var(--subtext)"
		if i == n-1 {
			fill, text, detail = theme.Accent(0), "var(--on-primary)", "var(--detail)"
		}

		fmt.Fprintf(&buf, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s" rx="6" stroke="var(--border)" stroke-width="1"/>`+"\n",
			x, y, stageW, h, fill)
		fmt.Fprintf(&buf, `<text x="%.1f" y="%d" text-anchor="middle" fill="%s" font-size="13" font-weight="700">Stage %d</text>`+"\n",
			cx, y+22, text, i+1)
		fmt.Fprintf(&buf, `<text x="%.1f" y="%d" text-anchor="middle" fill="%s" font-size="11">%s</text>`+"\n",
			cx, y+38, text, theme.EscapeXML(theme.Shorten(s.name, nameChars)))
		for j, d := range s.details {
			fmt.Fprintf(&buf, `<text x="%.1f" y="%d" text-anchor="middle" fill="%s" font-size="8">%s</text>`+"\n",
				cx, y+56+j*14, detail, theme.EscapeXML(theme.Shorten(d, detailChars)))
		}
	}

	arrowY := height - 18
	fmt.Fprintf(&buf, `<line x1="60" y1="%d" x2="%d" y2="%d" stroke="var(--muted)" stroke-width="1.5"/>`+"\n",
		arrowY, progWidth-60, arrowY)
	fmt.Fprintf(&buf, `<polygon points="%d,%d %d,%d %d,%d" fill="var(--muted)"/>`+"\n",
		progWidth-60, arrowY, progWidth-68, arrowY-4, progWidth-68, arrowY+4)
	if r.caption != "" {
		fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--subtext)" font-size="9">%s</text>`+"\n",
			progWidth/2, height-5, theme.EscapeXML(r.caption))
	}

	theme.Close(&buf)
	return buf.Bytes(), true
}
