// Package chart renders category/value series as bar and donut charts.
//
// Both renderers are pure: the same [Series], title and options always produce
// byte-identical SVG. A renderer reports absence through its boolean result
// instead of an error, so one unusable marker never aborts a document:
//
//	svg, ok := chart.Bar(series, "Adoption by year")
//	if !ok {
//	    // drop the marker
//	}
//
// Series values are expected to be non-negative. Negative, NaN and infinite
// values are treated as zero for geometry; the value text still prints what
// the caller supplied.
package chart
