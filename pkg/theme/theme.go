package theme

import (
	"fmt"
	"regexp"
	"strings"
)

// AccentCount is the number of colors in the rotating accent palette.
const AccentCount = 8

// DefaultFontFamily matches the site font stack.
const DefaultFontFamily = "Inter Variable, Inter, system-ui, -apple-system, sans-serif"

// Roles holds the concrete colors bound to each semantic role for one mode.
type Roles struct {
	Background string
	Card       string
	Border     string
	Text       string
	Subtext    string
	Muted      string
	Accents    [AccentCount]string
	OnPrimary  string
	Detail     string
	ItemBg     string
}

// Theme is an immutable set of light and dark role bindings plus typography.
// Build one with [Default] or [New] and share it freely between goroutines.
type Theme struct {
	fontFamily string
	light      Roles
	dark       Roles
	style      string
}

// New creates a theme from explicit light and dark bindings.
// An empty fontFamily falls back to [DefaultFontFamily].
func New(fontFamily string, light, dark Roles) *Theme {
	if fontFamily == "" {
		fontFamily = DefaultFontFamily
	}
	t := &Theme{fontFamily: fontFamily, light: light, dark: dark}
	t.style = buildStyle(light, dark)
	return t
}

var defaultTheme = New(DefaultFontFamily, LightRoles(), DarkRoles())

// Default returns the shared site theme.
func Default() *Theme { return defaultTheme }

// LightRoles returns the light-mode bindings of the site theme.
func LightRoles() Roles {
	return Roles{
		Background: "#ffffff",
		Card:       "#f9fafb",
		Border:     "#e5e7eb",
		Text:       "#111827",
		Subtext:    "#6b7280",
		Muted:      "#9ca3af",
		Accents: [AccentCount]string{
			"#0284c7", // sky
			"#d97706", // amber
			"#059669", // emerald
			"#dc2626", // red
			"#7c3aed", // violet
			"#db2777", // pink
			"#0891b2", // cyan
			"#ea580c", // orange
		},
		OnPrimary: "white",
		Detail:    "#bfdbfe",
		ItemBg:    "#f0f9ff",
	}
}

// DarkRoles returns the dark-mode bindings of the site theme.
// Accents are the brighter 400 shades so they read on a near-black surface.
func DarkRoles() Roles {
	return Roles{
		Background: "#030712",
		Card:       "#111827",
		Border:     "#1f2937",
		Text:       "#f9fafb",
		Subtext:    "#9ca3af",
		Muted:      "#6b7280",
		Accents: [AccentCount]string{
			"#38bdf8",
			"#fbbf24",
			"#34d399",
			"#f87171",
			"#a78bfa",
			"#f472b6",
			"#22d3ee",
			"#fb923c",
		},
		OnPrimary: "white",
		Detail:    "#7dd3fc",
		ItemBg:    "#0c4a6e",
	}
}

// FontFamily returns the font stack written on the root svg element.
func (t *Theme) FontFamily() string { return t.fontFamily }

// Light returns the light-mode bindings.
func (t *Theme) Light() Roles { return t.light }

// Dark returns the dark-mode bindings.
func (t *Theme) Dark() Roles { return t.dark }

// StyleBlock returns the <style> element declaring every role for both modes.
func (t *Theme) StyleBlock() string { return t.style }

// Fingerprint identifies the theme for cache keys.
func (t *Theme) Fingerprint() string { return t.fontFamily + "\x00" + t.style }

// Accent returns the CSS reference for accent i. Indices wrap modulo
// [AccentCount], so any non-negative row or slice index is valid.
func Accent(i int) string {
	return fmt.Sprintf("var(--c%d)", ((i%AccentCount)+AccentCount)%AccentCount)
}

func buildStyle(light, dark Roles) string {
	var b strings.Builder
	b.WriteString("<style>\n")
	b.WriteString("  :root {\n")
	writeRoles(&b, light)
	b.WriteString("  }\n")
	b.WriteString("  .dark svg {\n")
	writeRoles(&b, dark)
	b.WriteString("  }\n")
	b.WriteString("</style>")
	return b.String()
}

var colorRe = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|var\(--[a-zA-Z0-9_-]+\))$`)

// ValidColor reports whether c is a hex color or a var(--name) reference,
// the forms that can be bound to a role.
func ValidColor(c string) bool {
	return colorRe.MatchString(c)
}

func writeRoles(b *strings.Builder, r Roles) {
	fmt.Fprintf(b, "    --bg: %s; --card: %s; --border: %s;\n", r.Background, r.Card, r.Border)
	fmt.Fprintf(b, "    --text: %s; --subtext: %s; --muted: %s;\n", r.Text, r.Subtext, r.Muted)
	for row := 0; row < AccentCount; row += 4 {
		b.WriteString("   ")
		for i := row; i < row+4; i++ {
			fmt.Fprintf(b, " --c%d: %s;", i, r.Accents[i])
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "    --on-primary: %s; --detail: %s; --item-bg: %s;\n", r.OnPrimary, r.Detail, r.ItemBg)
}
