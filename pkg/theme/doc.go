// Package theme provides the palette, typography and text primitives shared by
// every figure renderer.
//
// # Light and Dark Mode
//
// A rendered figure never branches on the reader's color scheme. Instead each
// document embeds [Theme.StyleBlock], which binds semantic roles to CSS custom
// properties twice: once under :root (light) and once under the `.dark svg`
// selector (dark). Shapes reference the roles through var(--name), so toggling
// the dark class on the page re-themes an already-rendered figure.
//
// Roles:
//
//   - --bg, --card, --border: surfaces
//   - --text, --subtext, --muted: text and connectors
//   - --c0 … --c7: the rotating accent palette (see [Accent])
//   - --on-primary, --detail: text drawn on top of an accent fill
//   - --item-bg: background of small item boxes
//
// # Text
//
// All caller-supplied text must pass through [EscapeXML] before it is written
// into markup. [Shorten] and [FormatValue] are the text-fitting helpers used by
// the layout code.
package theme
