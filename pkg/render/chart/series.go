package chart

import (
	"math"

	"github.com/matzehuels/figurine/pkg/theme"
)

// Entry is one labelled value.
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered list of entries. Render order is slice order.
type Series []Entry

// Total returns the sum of the clamped values.
func (s Series) Total() float64 {
	var sum float64
	for _, e := range s {
		sum += magnitude(e.Value)
	}
	return sum
}

// Max returns the largest clamped value, or 0 for an empty series.
func (s Series) Max() float64 {
	var m float64
	for _, e := range s {
		m = math.Max(m, magnitude(e.Value))
	}
	return m
}

func magnitude(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Option configures a chart renderer.
type Option func(*renderer)

type renderer struct {
	theme *theme.Theme
}

// WithTheme renders with t instead of [theme.Default].
func WithTheme(t *theme.Theme) Option {
	return func(r *renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{theme: theme.Default()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
