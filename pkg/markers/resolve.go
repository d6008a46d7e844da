package markers

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/render"
	"github.com/matzehuels/figurine/pkg/render/chart"
	"github.com/matzehuels/figurine/pkg/render/diagram"
)

// Resolver turns a chart description into a renderable spec. Descriptions
// that cannot be resolved yield an error coded [errors.ErrCodeUnresolved].
type Resolver interface {
	Resolve(ctx context.Context, description string) (render.Spec, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, description string) (render.Spec, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, description string) (render.Spec, error) {
	return f(ctx, description)
}

// InlineResolver resolves structured chart descriptions of the form
//
//	bar | Title | label=value | label=value
//
// Kind is "bar" or "pie"; "label: value" pairs are accepted too. Entries that
// do not parse as numbers are skipped.
type InlineResolver struct{}

// Resolve implements [Resolver].
func (InlineResolver) Resolve(_ context.Context, description string) (render.Spec, error) {
	return ParseInlineChart(description)
}

// ParseInlineChart parses the structured chart description handled by
// [InlineResolver].
func ParseInlineChart(description string) (render.Spec, error) {
	fields := diagram.SplitFields(description)
	kind := strings.ToLower(fields[0])
	if kind != render.KindBar && kind != render.KindPie {
		return render.Spec{}, errors.New(errors.ErrCodeUnresolved, "chart description is not structured: %q", description)
	}
	if len(fields) < 3 {
		return render.Spec{}, errors.New(errors.ErrCodeUnresolved, "chart description has no values: %q", description)
	}

	series := parseEntries(fields[2:])
	if len(series) == 0 {
		return render.Spec{}, errors.New(errors.ErrCodeUnresolved, "chart description has no numeric values: %q", description)
	}
	return render.Spec{Kind: kind, Title: fields[1], Series: series}, nil
}

// ParseSeries parses pipe-separated "label=value" entries. Entries without a
// numeric value are skipped.
func ParseSeries(series string) (chart.Series, error) {
	s := parseEntries(diagram.SplitFields(series))
	if len(s) == 0 {
		return nil, errors.New(errors.ErrCodeUnresolved, "series has no numeric values: %q", series)
	}
	return s, nil
}

func parseEntries(fields []string) chart.Series {
	var s chart.Series
	for _, f := range fields {
		if e, ok := parseEntry(f); ok {
			s = append(s, e)
		}
	}
	return s
}

func parseEntry(f string) (chart.Entry, bool) {
	i := strings.LastIndexAny(f, "=:")
	if i < 0 {
		return chart.Entry{}, false
	}
	label := strings.TrimSpace(f[:i])
	raw := strings.TrimSpace(f[i+1:])
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || label == "" {
		return chart.Entry{}, false
	}
	return chart.Entry{Label: label, Value: v}, true
}

// Chain tries each resolver in turn and returns the first success. It fails
// with the last resolver's error when none succeeds.
func Chain(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, description string) (render.Spec, error) {
		err := errors.New(errors.ErrCodeUnresolved, "no resolver for %q", description)
		for _, r := range resolvers {
			spec, rerr := r.Resolve(ctx, description)
			if rerr == nil {
				return spec, nil
			}
			err = errors.Wrap(errors.ErrCodeUnresolved, rerr, "resolve chart")
		}
		return render.Spec{}, err
	})
}

// Spec builds the render spec for m. Diagram markers never need a resolver;
// chart markers are passed to r.
func Spec(ctx context.Context, m Marker, r Resolver) (render.Spec, error) {
	if m.Type == TypeDiagram {
		return render.Spec{Kind: m.Kind, Fields: diagram.SplitFields(m.Payload)}, nil
	}
	if r == nil {
		r = InlineResolver{}
	}
	return r.Resolve(ctx, m.Payload)
}
