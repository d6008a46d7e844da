// Package markers finds figure placeholders in drafted markdown and swaps
// them for rendered output.
//
// Two grammars are recognized, each on a single line of paragraph text:
//
//	[DIAGRAM: type | field1 | field2 | ...]
//	[CHART: description]
//
// [Scan] parses the document with goldmark and only looks inside paragraphs,
// so markers quoted in code blocks or raw HTML stay untouched. Offsets are
// byte positions in the original source, which lets [Substitute] rewrite the
// document without re-serializing it.
//
// A chart description is free text and needs a [Resolver] to become a
// render.Spec. [InlineResolver] handles the structured form
// "bar | Title | label=value | ...".
package markers
