package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/edit"
	"github.com/CaptShanks/markprism/internal/history"
	"github.com/CaptShanks/markprism/internal/logging"
	"github.com/CaptShanks/markprism/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		ops    []string
		output string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-apply edits whenever a document changes",
		Long: `watch applies the edits once, then again every time the file is written,
until interrupted. Rapid writes are coalesced.`,
		Example: `  markprism watch page.html --op remove:ul -o out.html`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if isStdin(input) {
				return errors.New("watch needs a file")
			}
			if len(ops) == 0 {
				return errNoEdits
			}
			script, err := edit.ParseAll(ops)
			if err != nil {
				return err
			}
			if output != "" && samePath(input, output) {
				return errors.New("output must differ from the watched file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, input, output, script, save)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&ops, "op", nil, "edit to apply, repeatable (kind:args)")
	f.StringVarP(&output, "output", "o", "", "write results here instead of stdout")
	f.BoolVar(&save, "save", false, "keep a copy of every result in history")
	f.Int("watch-debounce-ms", 0, "quiet period before re-running, in milliseconds")
	return cmd
}

func (a *app) watch(ctx context.Context, input, output string, script edit.Script, save bool) error {
	log := logging.Component(a.logger, "watch")
	run := func(context.Context) error {
		lines, err := a.readInput(input)
		if err != nil {
			return err
		}
		_, after, err := script.Run(lines)
		if err != nil {
			return err
		}
		if err := a.writeLines(output, after); err != nil {
			return err
		}
		if save {
			a.saveHistory(history.CommandWatch, input, script.Strings(), after)
		}
		return nil
	}

	if err := run(ctx); err != nil {
		return err
	}

	debounce := time.Duration(a.settings.WatchDebounceMS) * time.Millisecond
	w, err := watch.New(input, debounce, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "Watching %s (ctrl+c to stop)\n", w.Path())
	return w.Run(ctx, run)
}

func samePath(a, b string) bool {
	pa, errA := filepath.Abs(a)
	pb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && pa == pb
}
