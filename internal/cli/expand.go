package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figurine/pkg/draft"
	"github.com/matzehuels/figurine/pkg/pipeline"
)

// expandOpts holds the command-line flags for the expand command.
type expandOpts struct {
	output      string
	slug        string
	mode        string
	baseURL     string
	concurrency int
	noCache     bool
	refresh     bool
	report      bool // print the figure report as JSON instead of the document
}

// expandCommand creates the expand command.
func (c *CLI) expandCommand() *cobra.Command {
	var opts expandOpts

	cmd := &cobra.Command{
		Use:   "expand <draft.md|->",
		Short: "Substitute the figure markers of a draft",
		Long: `Substitute every [DIAGRAM: …] and [CHART: …] marker of a markdown draft.

In inline mode (default) each marker becomes an accessible <figure> holding the
SVG. In link mode the SVG is published to the configured store and the marker
becomes a markdown image. Markers that cannot be drawn are removed.

The slug defaults to the slugified frontmatter title.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExpand(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.slug, "slug", "", "post slug (default from the frontmatter title)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "placement mode: inline, link (default from config)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "public base URL for linked figures")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "figures rendered at once (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the figure cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&opts.report, "report", false, "print the figure report as JSON")

	return cmd
}

func (c *CLI) runExpand(cmd *cobra.Command, input string, opts *expandOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}

	popts, err := c.expandDefaults()
	if err != nil {
		return err
	}
	popts.Markdown = string(src)
	applyExpandFlags(&popts, opts)
	if popts.Slug == "" {
		popts.Slug = slugFromFrontmatter(popts.Markdown)
	}

	runner, err := c.newRunner(ctx, runnerOpts{
		noCache: opts.noCache,
		publish: popts.Mode == pipeline.ModeLink,
	})
	if err != nil {
		return err
	}
	defer runner.Close()

	toFile := opts.output != "" && opts.output != "-"
	var sp *Spinner
	if toFile {
		sp = newSpinnerWithContext(ctx, "Rendering figures...")
		sp.Start()
	}
	prog := newProgress(logger)
	res, err := runner.Expand(ctx, popts)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Expanded %d markers", res.Stats.Markers))

	out := []byte(res.Markdown)
	if opts.report {
		out, err = json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		out = append(out, '\n')
	}
	if err := writeOutput(cmd.OutOrStdout(), opts.output, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if toFile {
		printSuccess("Expanded %s", input)
		printFigureStats(res)
		for _, f := range res.Figures {
			if f.URL != "" {
				printFile(f.URL)
			}
		}
		printFile(opts.output)
	}
	return nil
}

// applyExpandFlags overrides configured defaults with explicit flags.
func applyExpandFlags(popts *pipeline.Options, opts *expandOpts) {
	if opts.slug != "" {
		popts.Slug = opts.slug
	}
	if opts.mode != "" {
		popts.Mode = opts.mode
	}
	if opts.baseURL != "" {
		popts.BaseURL = opts.baseURL
	}
	if opts.concurrency > 0 {
		popts.Concurrency = opts.concurrency
	}
	popts.Refresh = opts.refresh
}

// slugFromFrontmatter returns the slug of the draft's title, or "" when the
// draft has no usable frontmatter.
func slugFromFrontmatter(markdown string) string {
	front, _, err := draft.ParseFrontmatter(markdown)
	if err != nil {
		return ""
	}
	return front.Slug()
}
