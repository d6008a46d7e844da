package render

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/render/chart"
	"github.com/matzehuels/figurine/pkg/render/diagram"
	"github.com/matzehuels/figurine/pkg/theme"
)

// Chart kinds. Diagram kinds are the [diagram.Kind] values.
const (
	KindBar = "bar"
	KindPie = "pie"
)

// Spec describes one figure. Charts use Title and Series; diagrams use
// Fields, whose first entry is the diagram's title or header.
type Spec struct {
	Kind   string       `json:"kind"`
	Title  string       `json:"title,omitempty"`
	Series chart.Series `json:"series,omitempty"`
	Fields []string     `json:"fields,omitempty"`
}

// IsChart reports whether s names a chart family.
func (s Spec) IsChart() bool {
	k := normalize(s.Kind)
	return k == KindBar || k == KindPie
}

// Alt returns the accessible description of the figure.
func (s Spec) Alt() string {
	switch {
	case s.Title != "":
		return s.Title
	case len(s.Fields) > 0 && s.Fields[0] != "":
		if normalize(s.Kind) == string(diagram.KindComparison) && len(s.Fields) > 1 {
			return s.Fields[0] + " vs " + s.Fields[1]
		}
		return s.Fields[0]
	}
	return normalize(s.Kind) + " figure"
}

// Figure is a rendered spec.
type Figure struct {
	Spec Spec
	SVG  []byte
}

// Hash returns the hex SHA-256 of the SVG bytes.
func (f *Figure) Hash() string {
	sum := sha256.Sum256(f.SVG)
	return hex.EncodeToString(sum[:])
}

// Option configures [Render].
type Option func(*options)

type options struct {
	theme   *theme.Theme
	caption string
}

// WithTheme renders with t instead of [theme.Default].
func WithTheme(t *theme.Theme) Option { return func(o *options) { o.theme = t } }

// WithCaption overrides the progression arrow caption.
func WithCaption(c string) Option { return func(o *options) { o.caption = c } }

// Kinds lists every renderable family, charts first.
func Kinds() []string {
	kinds := []string{KindBar, KindPie}
	for _, k := range diagram.Kinds() {
		kinds = append(kinds, string(k))
	}
	return kinds
}

// Render draws spec. The error is [errors.ErrCodeUnknownKind] for an unknown
// family and [errors.ErrCodeNotApplicable] when the renderer rejects the
// input; renderers themselves never fail otherwise.
func Render(spec Spec, opts ...Option) (*Figure, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kind := normalize(spec.Kind)
	var (
		svg []byte
		ok  bool
	)
	switch kind {
	case KindBar:
		svg, ok = chart.Bar(spec.Series, spec.Title, chart.WithTheme(o.theme))
	case KindPie:
		svg, ok = chart.Pie(spec.Series, spec.Title, chart.WithTheme(o.theme))
	default:
		dk, known := diagram.ParseKind(kind)
		if !known {
			return nil, errors.New(errors.ErrCodeUnknownKind, "unknown figure kind %q", spec.Kind)
		}
		dopts := []diagram.Option{diagram.WithTheme(o.theme)}
		if o.caption != "" {
			dopts = append(dopts, diagram.WithCaption(o.caption))
		}
		svg, ok = diagram.RenderFields(dk, spec.Fields, dopts...)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeNotApplicable, "%s: input cannot be drawn", kind)
	}

	spec.Kind = kind
	return &Figure{Spec: spec, SVG: svg}, nil
}

func normalize(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
