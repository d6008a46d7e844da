package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	pieSize        = 400
	pieCX          = pieSize / 2
	pieCY          = pieSize/2 + 20
	pieRadius      = 120
	pieInnerRadius = 60
	pieMinHeight   = pieSize + 80
	pieTitleWidth  = 50
	pieStartAngle  = -90.0

	pieLegendRow = 22
	// pieLegendTop is the baseline of the first legend row.
	pieLegendTop = pieCY + pieRadius + 30
)

// Slice is the angular extent of one entry, in degrees clockwise from the
// 12 o'clock position.
type Slice struct {
	Start    float64
	Extent   float64
	Fraction float64
}

// End returns the angle at which the slice stops.
func (s Slice) End() float64 { return s.Start + s.Extent }

// Slices computes the angular layout of s. It returns nil when the total of
// the series is not positive.
func Slices(s Series) []Slice {
	total := s.Total()
	if total <= 0 {
		return nil
	}
	out := make([]Slice, len(s))
	angle := pieStartAngle
	for i, e := range s {
		frac := magnitude(e.Value) / total
		out[i] = Slice{Start: angle, Extent: frac * 360, Fraction: frac}
		angle += out[i].Extent
	}
	return out
}

// PieHeight returns the canvas height for a donut with n legend entries.
func PieHeight(n int) int {
	rows := (n + 1) / 2
	bottom := pieLegendTop + (rows-1)*pieLegendRow + 20
	return max(pieMinHeight, bottom)
}

// Pie renders a donut chart with a two-column legend. It returns false when
// the values sum to zero.
func Pie(s Series, title string, opts ...Option) ([]byte, bool) {
	slices := Slices(s)
	if slices == nil {
		return nil, false
	}
	r := newRenderer(opts...)
	height := PieHeight(len(s))

	var buf bytes.Buffer
	r.theme.Open(&buf, pieSize, height)
	theme.Title(&buf, pieSize/2, 35, 15, 600, theme.Shorten(title, pieTitleWidth))

	for i, sl := range slices {
		if sl.Extent <= 0 {
			continue
		}
		if sl.Fraction >= 1 {
			// A single arc cannot close on itself; split the ring in two.
			half := sl.Extent / 2
			writeSlice(&buf, sl.Start, sl.Start+half, false, theme.Accent(i))
			writeSlice(&buf, sl.Start+half, sl.End(), false, theme.Accent(i))
			continue
		}
		writeSlice(&buf, sl.Start, sl.End(), sl.Fraction > 0.5, theme.Accent(i))
	}

	for i, e := range s {
		lx := 40 + (i%2)*(pieSize/2)
		ly := pieLegendTop + (i/2)*pieLegendRow
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="10" height="10" fill="%s" rx="2"/>`+"\n",
			lx, ly-8, theme.Accent(i))
		fmt.Fprintf(&buf, `<text x="%d" y="%d" fill="var(--text)" font-size="11">%s (%.0f%%)</text>`+"\n",
			lx+16, ly, theme.EscapeXML(e.Label), slices[i].Fraction*100)
	}

	theme.Close(&buf)
	return buf.Bytes(), true
}

// writeSlice draws the ring segment between two angles: outer arc clockwise,
// line inward, inner arc counter-clockwise, close.
func writeSlice(w io.Writer, start, end float64, large bool, fill string) {
	sr, er := start*math.Pi/180, end*math.Pi/180

	x1 := pieCX + pieRadius*math.Cos(sr)
	y1 := pieCY + pieRadius*math.Sin(sr)
	x2 := pieCX + pieRadius*math.Cos(er)
	y2 := pieCY + pieRadius*math.Sin(er)
	ix1 := pieCX + pieInnerRadius*math.Cos(er)
	iy1 := pieCY + pieInnerRadius*math.Sin(er)
	ix2 := pieCX + pieInnerRadius*math.Cos(sr)
	iy2 := pieCY + pieInnerRadius*math.Sin(sr)

	flag := 0
	if large {
		flag = 1
	}
	fmt.Fprintf(w, `<path d="M %.1f %.1f A %d %d 0 %d 1 %.1f %.1f L %.1f %.1f A %d %d 0 %d 0 %.1f %.1f Z" fill="%s"/>`+"\n",
		x1, y1, pieRadius, pieRadius, flag, x2, y2,
		ix1, iy1, pieInnerRadius, pieInnerRadius, flag, ix2, iy2, fill)
}
