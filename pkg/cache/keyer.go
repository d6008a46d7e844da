package cache

// Keyer derives cache keys.
type Keyer interface {
	// FigureKey keys one rendered figure.
	FigureKey(kind string, spec any, opts FigureKeyOpts) string
	// DocumentKey keys an expanded document by the hash of its source.
	DocumentKey(sourceHash string, opts DocumentKeyOpts) string
}

// FigureKeyOpts lists the render options that change a figure's bytes.
type FigureKeyOpts struct {
	Theme   string `json:"theme,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// DocumentKeyOpts lists the expand options that change a document.
type DocumentKeyOpts struct {
	Slug    string `json:"slug"`
	Mode    string `json:"mode"`
	BaseURL string `json:"base_url,omitempty"`
	Theme   string `json:"theme,omitempty"`
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FigureKey returns "figure:<sha256>".
func (DefaultKeyer) FigureKey(kind string, spec any, opts FigureKeyOpts) string {
	return hashKey("figure", kind, spec, opts)
}

// DocumentKey returns "document:<sha256>".
func (DefaultKeyer) DocumentKey(sourceHash string, opts DocumentKeyOpts) string {
	return hashKey("document", sourceHash, opts)
}
