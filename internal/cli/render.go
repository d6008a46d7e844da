package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/markers"
	"github.com/matzehuels/figurine/pkg/render"
	"github.com/matzehuels/figurine/pkg/render/diagram"
)

// renderOpts holds the flags shared by the render subcommands.
type renderOpts struct {
	output  string  // output file; stdout when empty
	format  string  // svg, png or pdf
	scale   float64 // PNG scale factor
	noCache bool
	refresh bool
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{render.FormatSVG: true, render.FormatPNG: true, render.FormatPDF: true}

// validateFormat checks an output format, inferring it from the output
// extension when unset.
func validateFormat(format, output string) (string, error) {
	if format == "" {
		format = render.FormatSVG
		for f := range validFormats {
			if strings.HasSuffix(strings.ToLower(output), "."+f) {
				format = f
			}
		}
	}
	format = strings.ToLower(format)
	if !validFormats[format] {
		return "", fmt.Errorf("invalid format: %s (must be 'svg', 'png' or 'pdf')", format)
	}
	return format, nil
}

// renderCommand creates the render command with chart and diagram subcommands.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single chart or diagram",
		Long: `Render a single chart or diagram.

Charts use the inline description grammar of [CHART: …] markers:

  figurine render chart "bar | Monthly cost | Lambda=12 | EC2=40"

Diagrams take a kind and the pipe-delimited fields of a [DIAGRAM: …] marker:

  figurine render diagram comparison "Monolith | Serverless | Always on: Scales to zero"`,
	}

	cmd.AddCommand(c.renderChartCommand())
	cmd.AddCommand(c.renderDiagramCommand())

	return cmd
}

func (c *CLI) renderChartCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "chart <description>",
		Short: "Render a bar or pie chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := markers.ParseInlineChart(args[0])
			if err != nil {
				return err
			}
			return c.runRender(cmd, spec, &opts)
		},
	}
	addRenderFlags(cmd, &opts)
	return cmd
}

func (c *CLI) renderDiagramCommand() *cobra.Command {
	var opts renderOpts
	kinds := make([]string, 0, len(diagram.Kinds()))
	for _, k := range diagram.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:       "diagram <kind> <fields>",
		Short:     "Render a diagram (" + strings.Join(kinds, ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := diagram.ParseKind(args[0])
			if !ok {
				return errors.New(errors.ErrCodeUnknownKind, "unknown diagram kind %q (must be one of: %s)", args[0], strings.Join(kinds, ", "))
			}
			spec := render.Spec{Kind: string(kind), Fields: diagram.SplitFields(args[1])}
			return c.runRender(cmd, spec, &opts)
		},
	}
	addRenderFlags(cmd, &opts)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, pdf")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the figure cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
}

func (c *CLI) runRender(cmd *cobra.Command, spec render.Spec, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := validateFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, runnerOpts{noCache: opts.noCache})
	if err != nil {
		return err
	}
	defer runner.Close()

	popts, err := c.expandDefaults()
	if err != nil {
		return err
	}
	popts.Refresh = opts.refresh

	fig, cached, err := runner.RenderWithCacheInfo(ctx, spec, popts)
	if err != nil {
		return err
	}
	logger.Debug("rendered", "kind", fig.Spec.Kind, "bytes", len(fig.SVG), "cached", cached)

	data, err := render.Convert(ctx, fig.SVG, format, opts.scale)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), opts.output, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Rendered %s", fig.Spec.Alt())
		printFile(opts.output)
	}
	return nil
}
