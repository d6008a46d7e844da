package diagram

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

const (
	stackWidth  = 600
	stackTop    = 75
	stackLayerH = 44
	stackGap    = 4
	stackX      = 60
	stackLayerW = 480
)

// stackShades deepen from the primary blue; layers past the end reuse the
// darkest entry.
var stackShades = [...]string{
	"#0284c7", "#0369a1", "#075985", "#0c4a6e", "#082f49", "#051e34", "#031525",
}

func stackShade(i int) string {
	return stackShades[min(i, len(stackShades)-1)]
}

// StackHeight returns the canvas height for n layers.
func StackHeight(n int) int {
	return stackTop + n*(stackLayerH+stackGap) + 20
}

// Stack renders layers top to bottom: fields[0] is the title, every following
// "name;detail" field is a layer annotated with its 1-based ordinal.
func Stack(fields []string, opts ...Option) ([]byte, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	r := newRenderer(opts...)
	layers := fields[1:]
	height := StackHeight(len(layers))

	var buf bytes.Buffer
	r.theme.Open(&buf, stackWidth, height)
	theme.Title(&buf, stackWidth/2, 35, 16, 700, theme.Shorten(fields[0], 60))

	for i, f := range layers {
		name, details := splitItem(f)
		y := stackTop + i*(stackLayerH+stackGap)

		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="6"/>`+"\n",
			stackX, y, stackLayerW, stackLayerH, stackShade(i))
		fmt.Fprintf(&buf, `<text x="%d" y="%d" fill="var(--on-primary)" font-size="12" font-weight="700">%d</text>`+"\n",
			stackX+20, y+27, i+1)
		fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--on-primary)" font-size="12" font-weight="600">%s</text>`+"\n",
			stackWidth/2, y+20, theme.EscapeXML(theme.Shorten(name, 56)))
		if d := firstDetail(details); d != "" {
			fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" fill="var(--detail)" font-size="9">%s</text>`+"\n",
				stackWidth/2, y+35, theme.EscapeXML(theme.Shorten(d, 80)))
		}
	}

	theme.Close(&buf)
	return buf.Bytes(), true
}
