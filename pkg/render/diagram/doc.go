// Package diagram renders the five pipe-delimited diagram families:
// comparison, progression, stack, convergence and venn.
//
// A diagram marker carries a type tag and a field list:
//
//	[DIAGRAM: comparison | Monolith | Serverless | Deploys:weekly:hourly]
//
// [SplitFields] turns the raw field string into trimmed tokens. The first
// token is the title (or headers, or center label, depending on the family);
// the rest are item specs. Items are sub-divided on ';' (name followed by
// details) and comparison rows on the first ':'.
//
// Every renderer is pure and returns ([]byte, false) instead of failing when
// its input is insufficient. Fixed tables (the progression shades, the stack
// gradient, the venn positions) are indexed by ordinal or count and clamp at
// their last entry.
package diagram
