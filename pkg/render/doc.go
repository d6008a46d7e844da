// Package render is the single entry point for turning a figure [Spec] into
// SVG, whatever its family.
//
// # Overview
//
// Two renderer families live in subpackages:
//
//   - [chart]: category/value series (bar, pie)
//   - [diagram]: pipe-delimited field lists (comparison, progression,
//     stack, convergence, venn)
//
// [Render] routes a [Spec] to the right renderer and turns the renderers'
// boolean absence into a coded error, so callers can tell "this input cannot
// be drawn" ([errors.ErrCodeNotApplicable]) from "this family does not exist"
// ([errors.ErrCodeUnknownKind]):
//
//	fig, err := render.Render(render.Spec{Kind: "stack", Fields: fields})
//	if errors.IsAbsent(err) {
//	    // drop the marker
//	}
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(fig.SVG)
//	png, err := render.ToPNG(fig.SVG, 2.0)  // 2x scale
//
// [chart]: github.com/matzehuels/figurine/pkg/render/chart
// [diagram]: github.com/matzehuels/figurine/pkg/render/diagram
// [errors.ErrCodeNotApplicable]: github.com/matzehuels/figurine/pkg/errors
// [errors.ErrCodeUnknownKind]: github.com/matzehuels/figurine/pkg/errors
package render
