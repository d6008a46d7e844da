package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/markers"
	"github.com/matzehuels/figurine/pkg/render"
	"github.com/matzehuels/figurine/pkg/render/chart"
	"github.com/matzehuels/figurine/pkg/store"
)

const draft = `---
title: "Why layers matter"
draft: true
---

Some intro.

[DIAGRAM: stack | Layers | App;Code | Runtime;Go]

[CHART: bar | Adoption | Go=10 | Rust=5]

` + "```" + `
[DIAGRAM: stack | Untouched | A | B]
` + "```" + `
`

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type fakeStore struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (s *fakeStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.puts == nil {
		s.puts = make(map[string][]byte)
	}
	s.puts[key] = data
	return "https://cdn.example.com/" + key, nil
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"inline", false},
		{"link", false},
		{"Inline", true},
		{"", true},
	}
	for _, tt := range tests {
		if err := ValidateMode(tt.mode); (err != nil) != tt.wantErr {
			t.Errorf("ValidateMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Mode != ModeInline || opts.Concurrency != DefaultConcurrency {
		t.Errorf("defaults = %q/%d", opts.Mode, opts.Concurrency)
	}
	if opts.Theme == nil || opts.Logger == nil {
		t.Error("theme and logger should default")
	}

	bad := Options{Mode: ModeLink, Slug: "Not A Slug"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidSlug) {
		t.Errorf("bad slug error = %v", err)
	}
	badURL := Options{BaseURL: "ftp://x"}
	if err := badURL.ValidateAndSetDefaults(); err == nil {
		t.Error("bad base URL should fail")
	}
}

func TestExpandInline(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Expand(context.Background(), Options{Markdown: draft})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if res.Stats.Markers != 2 || res.Stats.Rendered != 2 || res.Stats.Dropped != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	for _, want := range []string{
		`<figure role="img" aria-label="Layers"><svg`,
		`<figure role="img" aria-label="Adoption"><svg`,
		"[DIAGRAM: stack | Untouched | A | B]",
		"Some intro.",
	} {
		if !strings.Contains(res.Markdown, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(res.Markdown, "[CHART:") {
		t.Error("chart marker should be substituted")
	}

	if res.Figures[0].Kind != "stack" || res.Figures[1].Kind != render.KindBar {
		t.Errorf("kinds = %q, %q", res.Figures[0].Kind, res.Figures[1].Kind)
	}
	if res.Figures[0].Number != 1 || res.Figures[1].Number != 2 {
		t.Error("figures should be numbered in document order")
	}
	if res.Figures[0].Hash == "" || len(res.Figures[0].SVG) == 0 {
		t.Error("rendered figure should carry SVG and hash")
	}
}

func TestExpandDropsAbsentFigures(t *testing.T) {
	md := strings.Join([]string{
		"[DIAGRAM: gantt | a | b]",
		"",
		"[DIAGRAM: venn | Only a title]",
		"",
		"[CHART: a chart of adoption over time]",
		"",
		"[DIAGRAM: stack | Layers | A | B]",
	}, "\n")

	r := NewRunner(nil, nil, nil)
	res, err := r.Expand(context.Background(), Options{Markdown: md})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	want := []string{
		string(errors.ErrCodeUnknownKind),
		string(errors.ErrCodeNotApplicable),
		string(errors.ErrCodeUnresolved),
		"",
	}
	for i, w := range want {
		if got := res.Figures[i].Dropped; got != w {
			t.Errorf("figure %d dropped = %q, want %q", i, got, w)
		}
	}
	if res.Stats.Dropped != 3 || res.Stats.Rendered != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Figures[3].Number != 1 {
		t.Errorf("number = %d, want 1", res.Figures[3].Number)
	}
	if strings.Contains(res.Markdown, "gantt") || strings.Contains(res.Markdown, "[CHART:") {
		t.Errorf("dropped markers should be removed:\n%s", res.Markdown)
	}
}

func TestExpandLink(t *testing.T) {
	fs := &fakeStore{}
	idx := store.NewMemoryIndex()
	r := NewRunner(nil, nil, nil, WithStore(fs), WithIndex(idx))

	md := "[DIAGRAM: venn | x]\n\n[DIAGRAM: stack | Layers | A | B]\n\n[CHART: pie | Share | A=1 | B=3]\n"
	res, err := r.Expand(context.Background(), Options{Markdown: md, Slug: "why-layers", Mode: ModeLink})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	for _, want := range []string{
		"![Layers](https://cdn.example.com/postimages/charts/why-layers-1.svg)",
		"![Share](https://cdn.example.com/postimages/charts/why-layers-2.svg)",
	} {
		if !strings.Contains(res.Markdown, want) {
			t.Errorf("markdown missing %q:\n%s", want, res.Markdown)
		}
	}
	if len(fs.puts) != 2 {
		t.Errorf("puts = %d, want 2", len(fs.puts))
	}
	if !strings.HasPrefix(string(fs.puts["postimages/charts/why-layers-1.svg"]), "<svg") {
		t.Error("store should receive the SVG bytes")
	}

	recs, _ := idx.List(context.Background(), "why-layers")
	if len(recs) != 2 {
		t.Fatalf("index records = %d, want 2", len(recs))
	}
	if res.Figures[1].Key != "postimages/charts/why-layers-1.svg" {
		t.Errorf("key = %q", res.Figures[1].Key)
	}
}

func TestExpandLinkBaseURL(t *testing.T) {
	r := NewRunner(nil, nil, nil, WithStore(&fakeStore{}))
	res, err := r.Expand(context.Background(), Options{
		Markdown: "[DIAGRAM: stack | Layers | A | B]",
		Slug:     "post",
		Mode:     ModeLink,
		BaseURL:  "https://blog.example.com/",
	})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if want := "![Layers](https://blog.example.com/postimages/charts/post-1.svg)"; res.Markdown != want {
		t.Errorf("markdown = %q, want %q", res.Markdown, want)
	}
}

func TestExpandLinkErrors(t *testing.T) {
	md := "[DIAGRAM: stack | Layers | A | B]"

	r := NewRunner(nil, nil, nil)
	_, err := r.Expand(context.Background(), Options{Markdown: md, Slug: "post", Mode: ModeLink})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing store error = %v", err)
	}

	r = NewRunner(nil, nil, nil, WithStore(&fakeStore{err: fmt.Errorf("bucket gone")}))
	_, err = r.Expand(context.Background(), Options{Markdown: md, Slug: "post", Mode: ModeLink})
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("store failure error = %v", err)
	}
}

func TestExpandCache(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil, WithStore(&fakeStore{}))
	ctx := context.Background()

	first, err := r.Expand(ctx, Options{Markdown: draft})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.DocumentHit || first.CacheInfo.FigureHits != 0 {
		t.Errorf("first run cache info = %+v", first.CacheInfo)
	}

	second, err := r.Expand(ctx, Options{Markdown: draft})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DocumentHit {
		t.Error("second inline run should hit the document cache")
	}
	if second.Markdown != first.Markdown {
		t.Error("cached document should match")
	}

	// Link mode always publishes but reuses cached figures.
	linked, err := r.Expand(ctx, Options{Markdown: draft, Slug: "post", Mode: ModeLink})
	if err != nil {
		t.Fatal(err)
	}
	if linked.CacheInfo.DocumentHit || linked.CacheInfo.FigureHits != 2 {
		t.Errorf("link run cache info = %+v", linked.CacheInfo)
	}

	refreshed, err := r.Expand(ctx, Options{Markdown: draft, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.DocumentHit || refreshed.CacheInfo.FigureHits != 0 {
		t.Errorf("refresh should bypass the cache: %+v", refreshed.CacheInfo)
	}
}

func TestExpandCacheNonFiniteValues(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, err := r.Expand(ctx, Options{Markdown: "[CHART: bar | Alpha title | x=NaN]\n"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Expand(ctx, Options{Markdown: "[CHART: bar | Beta title | y=NaN | z=3]\n"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.FigureHits != 0 {
		t.Errorf("different chart should miss the figure cache: %+v", res.CacheInfo)
	}
	if strings.Contains(res.Markdown, "Alpha title") || !strings.Contains(res.Markdown, "Beta title") {
		t.Errorf("served the wrong figure:\n%s", res.Markdown)
	}
}

func TestExpandDeterministicUnderConcurrency(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "[DIAGRAM: stack | Layers %d | A;%d | B]\n\n", i, i)
		fmt.Fprintf(&b, "[CHART: bar | Chart %d | a=%d | b=2]\n\n", i, i+1)
	}

	r := NewRunner(nil, nil, nil)
	serial, err := r.Expand(context.Background(), Options{Markdown: b.String(), Concurrency: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := r.Expand(context.Background(), Options{Markdown: b.String(), Concurrency: 8})
	if err != nil {
		t.Fatal(err)
	}
	if serial.Markdown != parallel.Markdown {
		t.Error("output should not depend on concurrency")
	}
	if parallel.Stats.Rendered != 40 {
		t.Errorf("rendered = %d, want 40", parallel.Stats.Rendered)
	}
}

func TestExpandCustomResolver(t *testing.T) {
	res := markers.ResolverFunc(func(_ context.Context, desc string) (render.Spec, error) {
		return render.Spec{Kind: render.KindPie, Title: desc, Series: chart.Series{{Label: "a", Value: 1}}}, nil
	})
	r := NewRunner(nil, nil, nil, WithResolver(res))
	out, err := r.Expand(context.Background(), Options{Markdown: "[CHART: market share of clouds]"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Markdown, `aria-label="market share of clouds"`) {
		t.Errorf("markdown = %q", out.Markdown)
	}
}

func TestExpandCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	if _, err := r.Expand(ctx, Options{Markdown: "[DIAGRAM: stack | L | A | B]"}); err == nil {
		t.Error("cancelled context should fail the expansion")
	}
}

func TestExpandNoMarkers(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Expand(context.Background(), Options{Markdown: "plain text"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Markdown != "plain text" || len(res.Figures) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestLinkFigure(t *testing.T) {
	got := LinkFigure("A [draft] figure", "/x.svg")
	if got != `![A \[draft\] figure](/x.svg)` {
		t.Errorf("LinkFigure() = %q", got)
	}
}

func TestInlineFigureEscapesAlt(t *testing.T) {
	got := InlineFigure(`"a" & <b>`, []byte("<svg/>"))
	want := `<figure role="img" aria-label="&quot;a&quot; &amp; &lt;b&gt;"><svg/></figure>`
	if got != want {
		t.Errorf("InlineFigure() = %q", got)
	}
}
