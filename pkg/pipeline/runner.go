package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/figurine/pkg/cache"
	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/markers"
	"github.com/matzehuels/figurine/pkg/observability"
	"github.com/matzehuels/figurine/pkg/render"
	"github.com/matzehuels/figurine/pkg/store"
)

// Runner encapsulates marker expansion with caching.
// The CLI, the HTTP server and the MCP tools use it so they share one
// rendering and caching path.
//
// The Runner is stateless except for its backends - it doesn't store
// expansion results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Store    store.Store
	Index    store.Index
	Resolver markers.Resolver
	Logger   *log.Logger
}

// RunnerOption configures optional Runner backends.
type RunnerOption func(*Runner)

// WithStore publishes link-mode figures to s.
func WithStore(s store.Store) RunnerOption { return func(r *Runner) { r.Store = s } }

// WithIndex records link-mode figures in idx.
func WithIndex(idx store.Index) RunnerOption { return func(r *Runner) { r.Index = idx } }

// WithResolver resolves chart descriptions with res.
func WithResolver(res markers.Resolver) RunnerOption {
	return func(r *Runner) { r.Resolver = res }
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Without options, figures can only be inlined, link-mode figures are not
// indexed and chart markers must use the inline description grammar.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...RunnerOption) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:    c,
		Keyer:    keyer,
		Index:    store.NopIndex{},
		Resolver: markers.InlineResolver{},
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Expand substitutes every marker in opts.Markdown.
//
// Markers whose figure is not applicable, whose kind is unknown or whose
// chart description cannot be resolved are removed from the document and
// reported with Figure.Dropped set. Any other failure (a cancelled context, a
// store that rejects an upload) aborts the expansion.
func (r *Runner) Expand(ctx context.Context, opts Options) (res *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Mode == ModeLink && r.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "link mode needs a figure store")
	}

	start := time.Now()
	src := []byte(opts.Markdown)

	// Stage 1: Scan
	found := markers.Scan(src)
	scanTime := time.Since(start)

	hooks := observability.Pipeline()
	hooks.OnExpandStart(ctx, opts.Slug, len(found))
	defer func() {
		n := 0
		if res != nil {
			n = res.Stats.Rendered
		}
		hooks.OnExpandComplete(ctx, opts.Slug, n, time.Since(start), err)
	}()

	docKey := r.Keyer.DocumentKey(cache.Hash(src), opts.DocumentKeyOpts())
	if opts.Mode == ModeInline && !opts.Refresh {
		if cached, ok := r.cachedDocument(ctx, docKey); ok {
			opts.Logger.Debug("document cache hit", "slug", opts.Slug)
			return cached, nil
		}
	}

	result := &Result{Figures: make([]Figure, len(found))}
	result.Stats.Markers = len(found)
	result.Stats.ScanTime = scanTime
	opts.Logger.Debug("scanned markers", "count", len(found), "duration", scanTime)

	// Stage 2+3: Resolve and render
	renderStart := time.Now()
	figures, err := r.renderAll(ctx, src, found, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	// Number rendered figures in document order.
	n := 0
	for i := range figures {
		fig := &figures[i].Figure
		if !fig.Rendered() {
			result.Stats.Dropped++
			continue
		}
		n++
		fig.Number = n
		if figures[i].cached {
			result.CacheInfo.FigureHits++
		}
	}
	result.Stats.Rendered = n

	// Stage 4: Place
	placeStart := time.Now()
	replacements, err := r.placeAll(ctx, figures, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Stats.PlaceTime = time.Since(placeStart)

	// Stage 5: Substitute
	out, err := markers.Substitute(src, found, replacements)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "substitute markers")
	}
	result.Markdown = string(out)
	for i := range figures {
		result.Figures[i] = figures[i].Figure
	}

	if opts.Mode == ModeInline {
		r.storeDocument(ctx, docKey, result, opts)
	}

	opts.Logger.Info("expanded markers",
		"slug", opts.Slug,
		"markers", result.Stats.Markers,
		"rendered", result.Stats.Rendered,
		"dropped", result.Stats.Dropped,
		"duration", time.Since(start))

	return result, nil
}

// rendered pairs a report with its spec while the expansion runs.
type rendered struct {
	Figure
	spec   render.Spec
	cached bool
}

func (r *Runner) renderAll(ctx context.Context, src []byte, found []markers.Marker, opts Options) ([]rendered, error) {
	out := make([]rendered, len(found))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, m := range found {
		g.Go(func() error {
			out[i] = rendered{Figure: Figure{Marker: m.Raw(src), Kind: m.Kind}}

			spec, err := markers.Spec(gctx, m, r.Resolver)
			if err == nil {
				var fig *render.Figure
				var hit bool
				fig, hit, err = r.RenderWithCacheInfo(gctx, spec, opts)
				if err == nil {
					out[i].spec = fig.Spec
					out[i].cached = hit
					out[i].Kind = fig.Spec.Kind
					out[i].Alt = fig.Spec.Alt()
					out[i].SVG = fig.SVG
					out[i].Hash = fig.Hash()
					return nil
				}
			}
			if spec.Kind != "" {
				out[i].Kind = spec.Kind
			}
			if !errors.IsAbsent(err) {
				return err
			}
			out[i].Dropped = string(errors.GetCode(err))
			observability.Pipeline().OnFigureDropped(gctx, out[i].Kind, out[i].Dropped)
			opts.Logger.Warn("dropped marker", "marker", out[i].Marker, "reason", errors.UserMessage(err))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderWithCacheInfo renders one spec through the figure cache and returns
// cache hit info. Cache failures are logged and never fail the render.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, spec render.Spec, opts Options) (*render.Figure, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.FigureKey(spec.Kind, spec, opts.FigureKeyOpts())
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			opts.Logger.Warn("figure cache read failed", "kind", spec.Kind, "error", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "figure")
			fig := &render.Figure{Spec: spec, SVG: data}
			fig.Spec.Kind = normalizeKind(spec.Kind)
			return fig, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "figure")
		}
	}

	start := time.Now()
	fig, err := render.Render(spec, render.WithTheme(opts.Theme), render.WithCaption(opts.Caption))
	if err != nil {
		return nil, false, err
	}
	observability.Pipeline().OnFigureRendered(ctx, fig.Spec.Kind, len(fig.SVG), time.Since(start))
	opts.Logger.Debug("rendered figure", "kind", fig.Spec.Kind, "bytes", len(fig.SVG), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, cacheKey, fig.SVG, cache.TTLFigure); err != nil {
		opts.Logger.Warn("figure cache write failed", "kind", fig.Spec.Kind, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "figure", len(fig.SVG))
	}
	return fig, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, spec render.Spec, opts Options) (*render.Figure, error) {
	fig, _, err := r.RenderWithCacheInfo(ctx, spec, opts)
	return fig, err
}

// documentEntry is the cached form of an inline-mode Result.
type documentEntry struct {
	Markdown string   `json:"markdown"`
	Figures  []Figure `json:"figures"`
	Stats    Stats    `json:"stats"`
}

func (r *Runner) cachedDocument(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "document")
		return nil, false
	}
	var entry documentEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entry; fall through to recompute.
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "document")
	return &Result{
		Markdown:  entry.Markdown,
		Figures:   entry.Figures,
		Stats:     entry.Stats,
		CacheInfo: CacheInfo{DocumentHit: true},
	}, true
}

func (r *Runner) storeDocument(ctx context.Context, key string, res *Result, opts Options) {
	data, err := json.Marshal(documentEntry{Markdown: res.Markdown, Figures: res.Figures, Stats: res.Stats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDocument); err != nil {
		opts.Logger.Warn("document cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "document", len(data))
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// Close releases resources held by the runner (cache and index).
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Index != nil {
		errs = append(errs, r.Index.Close(context.Background()))
	}
	return errors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
