package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/markers"
	"github.com/matzehuels/figurine/pkg/render"
)

// scanEntry is one marker of a draft and what it would produce.
type scanEntry struct {
	Type   markers.Type
	Kind   string
	Alt    string
	Raw    string
	Reason errors.Code // empty when the marker renders
}

// scanDraft resolves and renders every marker of src without caching,
// reporting why markers would be dropped.
func scanDraft(ctx context.Context, src []byte) ([]scanEntry, error) {
	found := markers.Scan(src)
	entries := make([]scanEntry, 0, len(found))
	for _, m := range found {
		e := scanEntry{Type: m.Type, Kind: m.Kind, Raw: m.Raw(src)}
		spec, err := markers.Spec(ctx, m, markers.InlineResolver{})
		if err == nil {
			e.Kind = spec.Kind
			e.Alt = spec.Alt()
			_, err = render.Render(spec)
		}
		if err != nil {
			if !errors.IsAbsent(err) {
				return nil, err
			}
			e.Reason = errors.GetCode(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <draft.md|->",
		Short: "List the figure markers of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(args[0])
			if err != nil {
				return fmt.Errorf("read draft: %w", err)
			}
			entries, err := scanDraft(cmd.Context(), src)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No figure markers in %s", args[0])
				return nil
			}
			fmt.Println(scanTable(entries))
			return nil
		},
	}
}

// scanTable renders entries as a bordered table.
func scanTable(entries []scanEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		status := iconSuccess
		if e.Reason != "" {
			status = iconError + " " + string(e.Reason)
		}
		alt := e.Alt
		if alt == "" {
			alt = e.Raw
		}
		rows[i] = []string{strconv.Itoa(i + 1), string(e.Type), e.Kind, alt, status}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Marker", "Kind", "Figure", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(entries) {
				return base
			}
			if entries[row].Reason != "" {
				return base.Foreground(colorDim)
			}
			if col == 4 {
				return base.Foreground(colorGreen)
			}
			return base
		}).
		Render()
}
