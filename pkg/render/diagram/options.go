package diagram

import "github.com/matzehuels/figurine/pkg/theme"

// DefaultCaption annotates the progression arrow.
const DefaultCaption = "Increasing maturity"

// Option configures a diagram renderer.
type Option func(*renderer)

type renderer struct {
	theme   *theme.Theme
	caption string
}

// WithTheme renders with t instead of [theme.Default].
func WithTheme(t *theme.Theme) Option {
	return func(r *renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithCaption replaces the progression arrow caption.
func WithCaption(caption string) Option {
	return func(r *renderer) { r.caption = caption }
}

func newRenderer(opts ...Option) renderer {
	r := renderer{theme: theme.Default(), caption: DefaultCaption}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
