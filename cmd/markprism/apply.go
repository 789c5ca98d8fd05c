package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/edit"
	"github.com/CaptShanks/markprism/internal/history"
	"github.com/CaptShanks/markprism/internal/tree"
	"github.com/CaptShanks/markprism/internal/tui"
)

var errNoEdits = errors.New("no edits given, use --op kind:args")

func newApplyCmd(a *app) *cobra.Command {
	var (
		ops      []string
		output   string
		showDiff bool
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "apply <file|->",
		Short: "Apply edits to a document and write the result",
		Example: `  markprism apply page.html --op remove:ul --op bold:1 -o out.html
  cat page.html | markprism apply - --op rename:b:strong`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ops) == 0 {
				return errNoEdits
			}
			script, err := edit.ParseAll(ops)
			if err != nil {
				return err
			}
			lines, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			before, after, err := script.Run(lines)
			if err != nil {
				return err
			}
			a.logger.Info("edits applied", "input", args[0], "edits", script.String(), "lines", len(after))

			if showDiff {
				if err := tui.PrintDiff(cmd.ErrOrStderr(), before, after); err != nil {
					return err
				}
			}
			if err := a.writeLines(output, after); err != nil {
				return err
			}
			if save {
				if path := a.saveHistory(history.CommandApply, args[0], script.Strings(), after); path != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", path)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&ops, "op", nil, "edit to apply, repeatable (kind:args)")
	f.StringVarP(&output, "output", "o", "", "write the result here instead of stdout")
	f.BoolVar(&showDiff, "diff", false, "print a diff of the changes to stderr")
	f.BoolVar(&save, "save", false, "keep a copy of the result in history")
	return cmd
}

func newPrintCmd(a *app) *cobra.Command {
	var (
		ops   []string
		width int
	)
	cmd := &cobra.Command{
		Use:   "print <file|->",
		Short: "Print a document as a colored outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := edit.ParseAll(ops)
			if err != nil {
				return err
			}
			lines, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			t := tree.Build(lines)
			if err := script.Apply(t); err != nil {
				return err
			}
			return tui.PrintTree(cmd.OutOrStdout(), t, width)
		},
	}
	cmd.Flags().StringArrayVar(&ops, "op", nil, "edit to apply before printing, repeatable")
	cmd.Flags().IntVar(&width, "width", 0, "wrap text at this width (0 disables wrapping)")
	return cmd
}
