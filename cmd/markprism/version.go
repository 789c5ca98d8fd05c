package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/markprism/internal/updater"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "markprism v%s\n", version)
			if a.checker == nil {
				return nil
			}
			latest, hasUpdate, err := a.checker.CheckLatestWithCache()
			if err != nil {
				a.logger.Debug("update check failed", "error", err)
				return nil
			}
			if hasUpdate {
				fmt.Fprintf(out, "A new version is available: v%s\n", latest)
				fmt.Fprintln(out, "Run 'markprism upgrade' to update.")
			}
			return nil
		},
	}
}

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade markprism to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Checking for updates...")

			checker := a.checker
			if checker == nil {
				// an explicit upgrade checks even when background checks are off
				checker = updater.NewChecker(version, "", 0)
			}
			latest, hasUpdate, err := checker.CheckLatest()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), updater.CurlFallbackMessage(err))
				return fmt.Errorf("update check failed: %w", err)
			}
			if !hasUpdate {
				fmt.Fprintf(out, "Already up to date (v%s).\n", version)
				return nil
			}

			fmt.Fprintf(out, "Updating v%s -> v%s...\n", version, latest)
			newVersion, err := updater.Upgrade(version)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), updater.CurlFallbackMessage(err))
				return fmt.Errorf("upgrade failed: %w", err)
			}
			fmt.Fprintf(out, "Updated to v%s\n", newVersion)
			return nil
		},
	}
}
