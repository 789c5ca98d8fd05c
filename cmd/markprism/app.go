package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/config"
	"github.com/CaptShanks/markprism/internal/history"
	"github.com/CaptShanks/markprism/internal/logging"
	"github.com/CaptShanks/markprism/internal/parser"
	"github.com/CaptShanks/markprism/internal/tree"
	"github.com/CaptShanks/markprism/internal/tui"
	"github.com/CaptShanks/markprism/internal/updater"
)

// app carries what every subcommand needs once settings are loaded
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configFile string
	noColor    bool

	settings *config.Settings
	logger   *slog.Logger
	store    *history.Store
	checker  *updater.Checker // nil when update checks are disabled
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, logger: logging.Discard()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "markprism",
		Short: "Edit line-oriented markup documents as trees",
		Long: `markprism reads documents written one tag or text per line, edits them
as trees and writes them back in the same form.

Edits are written kind:args:
  rename:<old>:<new>   rename every element <old> to <new>
  bold:<row>           bold the cells of the nth table row (1-based)
  remove:<tag>         remove every <tag>, promoting list items of removed lists
  wrap:<word>:<tag>    wrap each whole-word occurrence of <word> in <tag>

Environment:
  MARKPRISM_CONFIG_FILE              config file (default ~/.markprism/config.yaml)
  MARKPRISM_THEME                    auto, light or dark
  MARKPRISM_HISTORY_DIR              where saved results go
  MARKPRISM_SKIP_UPDATE_CHECK        1, true or yes to skip update checks
  MARKPRISM_UPDATE_CHECK_INTERVAL    days between update checks (default 7)
  MARKPRISM_LOG_LEVEL                debug, info, warn or error`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ~/.markprism/config.yaml)")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	pf.String("theme", "", "color theme: auto, light or dark")
	pf.String("history-dir", "", "directory for saved results")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: text or json")
	pf.Bool("skip-update-check", false, "don't check for new releases")

	root.AddCommand(
		newApplyCmd(a),
		newPrintCmd(a),
		newViewCmd(a),
		newWatchCmd(a),
		newLintCmd(a),
		newHistoryCmd(a),
		newVersionCmd(a),
		newUpgradeCmd(a),
	)
	return root
}

// setup loads settings and builds the shared services
func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.Load(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.settings = s
	a.logger = logging.New(logging.Config{Level: s.LogLevel, Format: s.LogFormat, Output: a.errOut})
	a.store = history.NewStore(s.HistoryDir, s.MaxHistory)
	if !s.SkipUpdateCheck {
		a.checker = updater.NewChecker(version, s.StateDir(), s.UpdateCheckInterval)
	}
	applyTheme(s.Theme, a.noColor || os.Getenv("NO_COLOR") != "")

	a.logger.Debug("settings loaded",
		"config", s.ConfigFile,
		"history_dir", s.HistoryDir,
		"theme", s.Theme,
	)
	return nil
}

func applyTheme(theme string, noColor bool) {
	if noColor {
		tui.DisableColor()
		return
	}
	switch theme {
	case "light":
		tui.SetLightPalette()
	case "dark":
		tui.SetDarkPalette()
	default:
		if !termenv.HasDarkBackground() {
			tui.SetLightPalette()
		}
	}
}

// updateChecker returns the checker as the TUI's interface, nil when disabled
func (a *app) updateChecker() tui.UpdateChecker {
	if a.checker == nil {
		return nil
	}
	return a.checker
}

func isStdin(path string) bool {
	return path == "" || path == "-"
}

// readInput reads document lines from a file, or stdin for "-"
func (a *app) readInput(path string) ([]string, error) {
	if isStdin(path) {
		return parser.ReadLines(a.in)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	lines, err := parser.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	a.logger.Debug("input read", "path", path, "lines", len(lines))
	return lines, nil
}

// writeLines writes lines to path, or stdout when path is empty or "-"
func (a *app) writeLines(path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if isStdin(path) {
		_, err := io.WriteString(a.out, b.String())
		return err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("output written", "path", path, "lines", len(lines))
	return nil
}

// writeTree serializes t to path, or stdout when path is empty or "-"
func (a *app) writeTree(path string, t *tree.Tree) error {
	return a.writeLines(path, t.Lines())
}

// saveHistory keeps a copy of a result and trims old entries. Failures are
// logged; a result is never lost because history could not be written.
func (a *app) saveHistory(command, input string, edits, lines []string) string {
	log := logging.Component(a.logger, "history")
	path, err := a.store.Save(command, input, edits, lines)
	if err != nil {
		log.Warn("could not save history", "error", err)
		return ""
	}
	if n, err := a.store.Cleanup(); err != nil {
		log.Warn("history cleanup failed", "error", err)
	} else if n > 0 {
		log.Debug("old history removed", "count", n)
	}
	return path
}

// documentName is the label shown for an input path
func documentName(path string) string {
	if isStdin(path) {
		return "stdin"
	}
	return filepath.Base(path)
}
