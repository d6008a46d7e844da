// Package pkg provides the libraries behind figurine, the figure renderer of
// a human-in-the-loop blog pipeline.
//
// # Overview
//
// A drafting stage writes markdown with placeholders such as
//
//	[DIAGRAM: comparison | Monolith | Serverless | Always on: Scales to zero]
//	[CHART: bar | Monthly cost | Lambda=12 | EC2=40]
//
// figurine finds them, draws each one as a self-contained SVG that follows
// the site's light and dark palette, and substitutes the figure back into the
// draft before a reviewer approves it.
//
//	draft.md
//	   ↓
//	[markers] scan + resolve       → render.Spec per marker
//	   ↓
//	[render] chart / diagram        → SVG (theme-aware, accessible)
//	   ↓
//	[pipeline] place + substitute   → inline <figure> or published image link
//	   ↓
//	[draft] review + publish        → post with the draft flag removed
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Expand(ctx, pipeline.Options{Markdown: src})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Markdown)
//
// # Main Packages
//
// [theme] - The site palette, rendered as CSS custom properties with a dark
// variant, plus the SVG text helpers every renderer shares.
//
// [render] - One entry point over the chart families (bar, pie) and the
// diagram families (comparison, progression, stack, convergence, venn).
// Renderers never fail; input they cannot draw is reported as not
// applicable.
//
// [markers] - Marker scanning over the goldmark AST (code is never touched),
// chart resolvers and substitution.
//
// [pipeline] - Bounded parallel expansion with a figure cache and a
// document cache, shared by the CLI, the HTTP API and the MCP tools.
//
// [cache] - File and Redis caches behind one interface, with content-hashed
// keys.
//
// [store] - Where link-mode figures are published (directory or S3) and
// where they are recorded (memory or MongoDB).
//
// [draft] - Slugs, frontmatter and review decisions.
//
// [config] - The TOML configuration and the constructors that turn it into
// backends.
//
// [server] - The chi HTTP API. [mcptools] - The MCP tool surface for
// drafting agents.
//
// [errors] - Coded errors shared across packages.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/...
//
// [theme]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/theme
// [render]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/render
// [markers]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/markers
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/store
// [draft]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/draft
// [config]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/server
// [mcptools]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/mcptools
// [errors]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/figurine/pkg/observability
package pkg
