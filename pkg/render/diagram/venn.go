package diagram

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	vennWidth      = 600
	vennHeight     = 380
	vennCY         = 185
	vennRadius     = 85
	vennMaxCircles = 3
	vennMaxTraits  = 3
)

type vennLayout struct {
	centers []int // x of each circle center
	offsets []int // x offset of each label from its center
	accents []int
}

// vennLayouts is keyed by circle count. Offsets push outer labels away from
// the overlap so they do not collide.
var vennLayouts = [vennMaxCircles + 1]vennLayout{
	1: {centers: []int{300}, offsets: []int{0}, accents: []int{0}},
	2: {centers: []int{220, 380}, offsets: []int{-20, 20}, accents: []int{0, 2}},
	3: {centers: []int{185, 300, 415}, offsets: []int{-30, 0, 30}, accents: []int{0, 1, 2}},
}

// Venn renders one to three overlapping circles: fields[0] is the title and
// fields[1:4] are "name;trait;..." circles. Further fields are ignored, as are
// traits past the third.
func Venn(fields []string, opts ...Option) ([]byte, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	r := newRenderer(opts...)
	circles := limit(fields[1:], vennMaxCircles)
	layout := vennLayouts[len(circles)]

	var buf bytes.Buffer
	r.theme.Open(&buf, vennWidth, vennHeight)
	theme.Title(&buf, vennWidth/2, 35, 16, 700, theme.Shorten(fields[0], 60))

	for i, f := range circles {
		name, traits := splitItem(f)
		cx := layout.centers[i]
		color := theme.Accent(layout.accents[i])
		tx := cx + layout.offsets[i]

		fmt.Fprintf(&buf, `<circle cx="%d" cy="%d" r="%d" fill="%s" fill-opacity="0.1" stroke="%s" stroke-width="2"/>`+"\n",
			cx, vennCY, vennRadius, color, color)
		fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="%s" font-size="14" font-weight="700">%s</text>`+"\n",
			tx, vennCY-10, color, theme.EscapeXML(theme.Shorten(name, 20)))
		for j, trait := range limit(traits, vennMaxTraits) {
			fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--subtext)" font-size="9">%s</text>`+"\n",
				tx, vennCY+8+j*14, theme.EscapeXML(theme.Shorten(trait, 28)))
		}
	}

	theme.Close(&buf)
	return buf.Bytes(), true
}
