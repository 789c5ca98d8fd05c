package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/parser"
	"github.com/CaptShanks/markprism/internal/tree"
)

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file|->",
		Short: "Check that a document's tags are balanced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			sum := parser.Summarize(lines)
			stats := tree.Build(lines).Stats()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d lines, %d open tags, %d close tags, %d text lines, nesting %d\n",
				documentName(args[0]), sum.Lines, sum.Open, sum.Close, sum.Text, sum.MaxDepth)
			fmt.Fprintf(out, "tree: %d elements, %d leaves, %d table rows, depth %d\n",
				stats.Elements, stats.Leaves, stats.Rows, stats.Depth)
			if !sum.Balanced {
				return fmt.Errorf("unbalanced at line %d", sum.FirstProblem)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}
