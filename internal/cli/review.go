package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figurine/pkg/draft"
	"github.com/matzehuels/figurine/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// reviewActions is the menu order.
var reviewActions = []draft.Action{draft.Approve, draft.Revise, draft.Reject}

// =============================================================================
// ReviewModel - Interactive draft review
// =============================================================================

// ReviewModel is the bubbletea model for reviewing one draft.
type ReviewModel struct {
	Title   string
	Entries []scanEntry
	Cursor  int

	// Editing is set while revision feedback is typed.
	Editing  bool
	Feedback []rune

	Decision *draft.Decision
	Err      string
}

// NewReviewModel creates a review model for a draft titled title.
func NewReviewModel(title string, entries []scanEntry) ReviewModel {
	return ReviewModel{Title: title, Entries: entries}
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.Editing {
		return m.updateFeedback(key)
	}

	switch key.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(reviewActions)-1 {
			m.Cursor++
		}
	case "a":
		return m.choose(draft.Approve)
	case "r":
		return m.choose(draft.Revise)
	case "x":
		return m.choose(draft.Reject)
	case "enter":
		return m.choose(reviewActions[m.Cursor])
	}
	return m, nil
}

func (m ReviewModel) choose(action draft.Action) (tea.Model, tea.Cmd) {
	if action == draft.Revise {
		m.Editing = true
		m.Err = ""
		return m, nil
	}
	d, err := draft.NewDecision(action, "")
	if err != nil {
		m.Err = err.Error()
		return m, nil
	}
	m.Decision = &d
	return m, tea.Quit
}

func (m ReviewModel) updateFeedback(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.Editing = false
	case tea.KeyEnter:
		d, err := draft.NewDecision(draft.Revise, string(m.Feedback))
		if err != nil {
			m.Err = err.Error()
			return m, nil
		}
		m.Decision = &d
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.Feedback) > 0 {
			m.Feedback = m.Feedback[:len(m.Feedback)-1]
		}
	case tea.KeySpace:
		m.Feedback = append(m.Feedback, ' ')
	case tea.KeyRunes:
		m.Feedback = append(m.Feedback, key.Runes...)
	}
	return m, nil
}

func (m ReviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Review: " + m.Title))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  no figures"))
		b.WriteString("\n")
	}
	for i, e := range m.Entries {
		status := StyleSuccess.Render(iconSuccess)
		if e.Reason != "" {
			status = StyleWarning.Render(iconWarning)
		}
		label := e.Alt
		if label == "" {
			label = e.Raw
		}
		line := fmt.Sprintf("  %s %d. %-12s %s", status, i+1, e.Kind, label)
		if e.Reason != "" {
			b.WriteString(listDimStyle.Render(line + " (" + string(e.Reason) + ")"))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.Editing {
		b.WriteString(StyleHighlight.Render("Feedback: "))
		b.WriteString(string(m.Feedback))
		b.WriteString(styleIconSpinner.Render("▌"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("⏎ submit  esc back"))
	} else {
		for i, a := range reviewActions {
			cursor := "  "
			if i == m.Cursor {
				cursor = "▸ "
				b.WriteString(listSelectedStyle.Render(cursor + string(a)))
			} else {
				b.WriteString(listNormalStyle.Render(cursor + string(a)))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  a approve  r revise  x reject  q quit"))
	}

	if m.Err != "" {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError + " " + m.Err))
	}
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// reviewOpts holds the command-line flags for the review command.
type reviewOpts struct {
	action   string // non-interactive verdict
	feedback string
	output   string // where an approved post is written
}

// reviewCommand creates the review command.
func (c *CLI) reviewCommand() *cobra.Command {
	var opts reviewOpts

	cmd := &cobra.Command{
		Use:   "review <draft.md>",
		Short: "Approve, revise or reject a draft",
		Long: `Review a draft and print the decision as JSON.

Approving removes the draft flag and writes the post, by default to
src/content/blog/<slug>.md. Revising requires feedback. Without --action an
interactive review opens.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReview(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.action, "action", "", "verdict without the interactive review: approve, revise, reject")
	cmd.Flags().StringVar(&opts.feedback, "feedback", "", "revision feedback")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "approved post path (default src/content/blog/<slug>.md)")

	return cmd
}

func (c *CLI) runReview(cmd *cobra.Command, input string, opts *reviewOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	front, _, err := draft.ParseFrontmatter(string(src))
	if err != nil {
		return err
	}

	var decision draft.Decision
	if opts.action != "" {
		action, err := draft.ParseAction(opts.action)
		if err != nil {
			return err
		}
		if decision, err = draft.NewDecision(action, opts.feedback); err != nil {
			return err
		}
	} else {
		entries, err := scanDraft(ctx, src)
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(NewReviewModel(front.Title, entries)).Run()
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		m := final.(ReviewModel)
		if m.Decision == nil {
			printWarning("Review cancelled")
			return nil
		}
		decision = *m.Decision
	}
	logger.Debug("review decision", "action", decision.Action(), "title", front.Title)

	if decision.Approved {
		path := opts.output
		if path == "" {
			slug := front.Slug()
			if err := errors.ValidateSlug(slug); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSlug, err, "cannot derive post path from title %q; pass --output", front.Title)
			}
			path = draft.PostPath(slug)
		}
		if err := writePost(path, draft.Publish(string(src))); err != nil {
			return err
		}
		logger.Info("published post", "path", path)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", decision.JSON())
	return err
}

// writePost writes an approved post, creating its directory.
func writePost(path, markdown string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create post directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write post: %w", err)
	}
	return nil
}
