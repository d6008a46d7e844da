package pipeline

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/store"
	"github.com/matzehuels/figurine/pkg/theme"
)

// placeAll returns the replacement text for every marker. Dropped markers
// are replaced by the empty string. In link mode figures are uploaded
// concurrently and recorded in the index.
func (r *Runner) placeAll(ctx context.Context, figures []rendered, opts Options) ([]string, error) {
	out := make([]string, len(figures))
	if opts.Mode == ModeInline {
		for i, f := range figures {
			if f.Rendered() {
				out[i] = InlineFigure(f.Alt, f.SVG)
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range figures {
		f := &figures[i]
		if !f.Rendered() {
			continue
		}
		g.Go(func() error {
			key := store.FigureKey(opts.Slug, f.Number)
			url, err := r.Store.Put(gctx, key, f.SVG, store.ContentTypeSVG)
			if err != nil {
				return err
			}
			if opts.BaseURL != "" {
				url = strings.TrimRight(opts.BaseURL, "/") + "/" + key
			}
			f.Key, f.URL = key, url
			out[i] = LinkFigure(f.Alt, url)

			rec := store.NewRecord(opts.Slug, f.Kind, key, url, f.Hash)
			rec.Alt = f.Alt
			if err := r.Index.Record(gctx, rec); err != nil {
				opts.Logger.Warn("index write failed", "key", key, "error", err)
			}
			opts.Logger.Debug("published figure", "key", key, "url", url)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeStorage, err, "publish figures")
		}
		return nil, err
	}
	return out, nil
}

// InlineFigure wraps svg in an accessible figure element, the form the site
// renders for inlined charts.
func InlineFigure(alt string, svg []byte) string {
	var b strings.Builder
	b.Grow(len(svg) + len(alt) + 48)
	b.WriteString(`<figure role="img" aria-label="`)
	b.WriteString(theme.EscapeXML(alt))
	b.WriteString(`">`)
	b.Write(svg)
	b.WriteString(`</figure>`)
	return b.String()
}

var altEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "\n", " ")

// LinkFigure returns a markdown image pointing at url.
func LinkFigure(alt, url string) string {
	return "![" + altEscaper.Replace(alt) + "](" + url + ")"
}
