package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/edit"
	"github.com/CaptShanks/markprism/internal/history"
	"github.com/CaptShanks/markprism/internal/tree"
	"github.com/CaptShanks/markprism/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse and edit a document interactively",
		Long: `view opens the interactive editor. Press s to save the edited document
back to the file (or to --output) and q to quit without saving.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if isStdin(input) {
				return errors.New("view needs a file, the editor reads keys from the terminal")
			}
			lines, err := a.readInput(input)
			if err != nil {
				return err
			}
			edited, script, err := a.runEditor(lines, documentName(input))
			if err != nil || edited == nil {
				return err
			}

			dest := output
			if dest == "" {
				dest = input
			}
			if err := a.writeTree(dest, edited); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d edits)\n", dest, len(script))
			a.saveHistory(history.CommandView, input, script.Strings(), edited.Lines())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the saved document here instead of the input file")
	return cmd
}

// runEditor runs the TUI over lines. It returns a nil tree when the user quit
// without saving.
func (a *app) runEditor(lines []string, name string) (*tree.Tree, edit.Script, error) {
	m := tui.NewModel(tree.Build(lines), tui.Options{
		Name:    name,
		Checker: a.updateChecker(),
		Source:  lines,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("editor failed: %w", err)
	}
	fm := final.(tui.Model)
	if !fm.Saved() {
		a.logger.Debug("editor closed without saving")
		return nil, nil, nil
	}
	return fm.Tree(), fm.Edits(), nil
}
