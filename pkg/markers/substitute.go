package markers

import (
	"bytes"
	"fmt"
)

// Substitute replaces each marker with the replacement at the same index.
// An empty replacement removes the marker. Markers must be in document order
// and must not overlap, as returned by [Scan].
func Substitute(src []byte, markers []Marker, replacements []string) ([]byte, error) {
	if len(markers) != len(replacements) {
		return nil, fmt.Errorf("substitute: %d markers but %d replacements", len(markers), len(replacements))
	}

	var buf bytes.Buffer
	buf.Grow(len(src))
	prev := 0
	for i, m := range markers {
		if m.Start < prev || m.End > len(src) || m.Start > m.End {
			return nil, fmt.Errorf("substitute: marker %d out of order or range [%d,%d)", i, m.Start, m.End)
		}
		buf.Write(src[prev:m.Start])
		buf.WriteString(replacements[i])
		prev = m.End
	}
	buf.Write(src[prev:])
	return buf.Bytes(), nil
}
