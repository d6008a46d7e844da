package theme

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// shortenPlaceholder is appended when [Shorten] drops words.
const shortenPlaceholder = " [...]"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five XML-sensitive characters with their named
// entities. It is applied to every caller string, with no trusted fast path.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Shorten collapses runs of whitespace and, if the result is longer than width
// runes, drops trailing words and appends " [...]" so the result fits. When not
// even the first word fits, only "[...]" is returned.
func Shorten(s string, width int) string {
	words := strings.Fields(s)
	text := strings.Join(words, " ")
	if utf8.RuneCountInString(text) <= width {
		return text
	}

	budget := width - utf8.RuneCountInString(shortenPlaceholder)
	var kept []string
	n := 0
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if len(kept) > 0 {
			wl++
		}
		if n+wl > budget {
			break
		}
		kept = append(kept, w)
		n += wl
	}
	if len(kept) == 0 {
		return strings.TrimLeft(shortenPlaceholder, " ")
	}
	return strings.Join(kept, " ") + shortenPlaceholder
}

// FormatValue prints whole numbers without decimals and everything else with
// exactly one decimal place.
func FormatValue(v float64) string {
	if !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
