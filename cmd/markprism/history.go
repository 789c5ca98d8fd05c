package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/history"
	"github.com/CaptShanks/markprism/internal/tree"
	"github.com/CaptShanks/markprism/internal/tui"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, view and clear saved results",
	}
	cmd.AddCommand(newHistoryListCmd(a), newHistoryViewCmd(a), newHistoryClearCmd(a))
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.store.List(command)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history entries")
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(out, "%3d  %s\n", i+1, tui.FormatHistoryEntryColored(e, history.TruncatePath(e.Path, 50)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "only entries saved by apply, view or watch")
	return cmd
}

func newHistoryViewCmd(a *app) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "view [#|filename]",
		Short: "Open a saved result, picking one interactively when none is named",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolveHistory(args)
			if err != nil || path == "" {
				return err
			}
			rec, err := history.Read(path)
			if err != nil {
				return err
			}
			a.logger.Debug("history entry opened", "path", path, "command", rec.Command, "edits", rec.Edits)

			if printOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", rec.Timestamp, rec.Command, rec.Input)
				return tui.PrintTree(cmd.OutOrStdout(), tree.Build(rec.Lines), 0)
			}
			edited, script, err := a.runEditor(rec.Lines, filepath.Base(path))
			if err != nil || edited == nil {
				return err
			}
			// saved history entries are never rewritten; a saved edit is a new entry
			if saved := a.saveHistory(history.CommandView, rec.Input, script.Strings(), edited.Lines()); saved != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", saved)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the entry instead of opening the editor")
	return cmd
}

// resolveHistory maps a history view argument to a file path. An empty result
// with a nil error means the picker was cancelled.
func (a *app) resolveHistory(args []string) (string, error) {
	if len(args) == 0 {
		entries, err := a.store.List("")
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", fmt.Errorf("%w: history is empty", history.ErrNotFound)
		}
		return tui.RunPicker(entries)
	}

	if n, err := strconv.Atoi(args[0]); err == nil {
		e, err := a.store.Resolve(n)
		if err != nil {
			return "", err
		}
		return e.Path, nil
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.store.Dir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", history.ErrNotFound, args[0])
	}
	return path, nil
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries\n", n)
			return nil
		},
	}
}
