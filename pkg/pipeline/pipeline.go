// Package pipeline expands figure markers in markdown drafts.
//
// This package implements the scan → resolve → render → place → substitute
// pipeline shared by the CLI, the HTTP server and the MCP tools. By
// centralizing this logic, every entry point produces the same document for
// the same draft.
//
// # Stages
//
//  1. Scan: find [DIAGRAM: …] and [CHART: …] markers in paragraph text
//  2. Resolve: turn each marker into a render.Spec
//  3. Render: draw the figures concurrently, with a per-figure cache
//  4. Place: inline the SVG or publish it to a store and link it
//  5. Substitute: rewrite the draft, dropping markers that produced nothing
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger, pipeline.WithStore(fs))
//	result, err := runner.Expand(ctx, pipeline.Options{
//	    Markdown: draft,
//	    Slug:     "why-serverless",
//	    Mode:     pipeline.ModeLink,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Markdown)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figurine/pkg/cache"
	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/theme"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and MCP
// =============================================================================

const (
	// DefaultConcurrency bounds the number of figures rendered at once.
	DefaultConcurrency = 4

	// DefaultMode inlines figures into the document.
	DefaultMode = ModeInline
)

// Placement modes.
const (
	// ModeInline replaces a marker with <figure role="img">…</figure>.
	ModeInline = "inline"
	// ModeLink publishes the SVG and replaces the marker with a markdown image.
	ModeLink = "link"
)

// ValidModes is the set of supported placement modes.
var ValidModes = map[string]bool{
	ModeInline: true,
	ModeLink:   true,
}

// ValidateMode checks that a placement mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode: %q (must be one of: inline, link)", mode)
	}
	return nil
}

// =============================================================================
// Options - Expansion Configuration
// =============================================================================

// Options contains all configuration for one expansion.
// This struct supports JSON serialization for API requests.
type Options struct {
	Markdown string `json:"markdown"`
	Slug     string `json:"slug,omitempty"`
	Mode     string `json:"mode,omitempty"`
	// BaseURL overrides the store's public URL in link mode.
	BaseURL     string `json:"base_url,omitempty"`
	Caption     string `json:"caption,omitempty"`
	Concurrency int    `json:"concurrency,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Theme  *theme.Theme `json:"-"`
	Logger *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Mode == ModeLink || o.Slug != "" {
		if err := errors.ValidateSlug(o.Slug); err != nil {
			return err
		}
	}
	if o.BaseURL != "" {
		if err := errors.ValidateURL(o.BaseURL); err != nil {
			return err
		}
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// SetRenderDefaults sets the defaults needed to render a single figure.
func (o *Options) SetRenderDefaults() {
	if o.Theme == nil {
		o.Theme = theme.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// FigureKeyOpts returns cache key options for one figure.
func (o *Options) FigureKeyOpts() cache.FigureKeyOpts {
	return cache.FigureKeyOpts{
		Theme:   o.Theme.Fingerprint(),
		Caption: o.Caption,
	}
}

// DocumentKeyOpts returns cache key options for an expanded document.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Slug:    o.Slug,
		Mode:    o.Mode,
		BaseURL: o.BaseURL,
		Theme:   o.Theme.Fingerprint() + "\x00" + o.Caption,
	}
}

// =============================================================================
// Results
// =============================================================================

// Figure reports what happened to one marker.
type Figure struct {
	// Marker is the marker text as written in the draft.
	Marker string `json:"marker"`
	Kind   string `json:"kind"`
	Alt    string `json:"alt,omitempty"`
	// Number is the 1-based position among rendered figures; 0 if dropped.
	Number int    `json:"number,omitempty"`
	Hash   string `json:"hash,omitempty"`
	Key    string `json:"key,omitempty"`
	URL    string `json:"url,omitempty"`
	// Dropped holds the error code of a marker that produced no figure.
	Dropped string `json:"dropped,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
	// SVG is nil for dropped markers and for documents served from cache.
	SVG []byte `json:"-"`
}

// Rendered reports whether the marker produced a figure.
func (f Figure) Rendered() bool { return f.Dropped == "" }

// Result contains the outputs of an expansion.
type Result struct {
	// Markdown is the draft with every marker substituted.
	Markdown string `json:"markdown"`

	// Figures has one entry per marker, in document order.
	Figures []Figure `json:"figures"`

	// Stats contains counts and timings.
	Stats Stats `json:"stats"`

	// CacheInfo tracks cache hits.
	CacheInfo CacheInfo `json:"cache"`
}

// Stats contains expansion statistics.
type Stats struct {
	Markers    int           `json:"markers"`
	Rendered   int           `json:"rendered"`
	Dropped    int           `json:"dropped"`
	ScanTime   time.Duration `json:"scan_ns"`
	RenderTime time.Duration `json:"render_ns"`
	PlaceTime  time.Duration `json:"place_ns"`
}

// CacheInfo tracks cache hits for an expansion.
type CacheInfo struct {
	DocumentHit bool `json:"document_hit"` // Whether the whole document came from cache
	FigureHits  int  `json:"figure_hits"`  // Figures served from cache
}
