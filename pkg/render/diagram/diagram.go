package diagram

import "strings"

// Kind names a diagram family.
type Kind string

const (
	KindComparison  Kind = "comparison"
	KindProgression Kind = "progression"
	KindStack       Kind = "stack"
	KindConvergence Kind = "convergence"
	KindVenn        Kind = "venn"
)

type renderFunc func([]string, ...Option) ([]byte, bool)

var renderers = map[Kind]renderFunc{
	KindComparison:  Comparison,
	KindProgression: Progression,
	KindStack:       Stack,
	KindConvergence: Convergence,
	KindVenn:        Venn,
}

// Kinds lists the supported families in a stable order.
func Kinds() []Kind {
	return []Kind{KindComparison, KindProgression, KindStack, KindConvergence, KindVenn}
}

// ParseKind normalizes a type tag. It reports false for unknown tags.
func ParseKind(tag string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(tag)))
	_, ok := renderers[k]
	return k, ok
}

// Render splits raw on '|' and renders it as the given family.
func Render(kind Kind, raw string, opts ...Option) ([]byte, bool) {
	return RenderFields(kind, SplitFields(raw), opts...)
}

// RenderFields renders already split fields. Unknown kinds report false.
func RenderFields(kind Kind, fields []string, opts ...Option) ([]byte, bool) {
	fn, ok := renderers[kind]
	if !ok {
		return nil, false
	}
	return fn(fields, opts...)
}
