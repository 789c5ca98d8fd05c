// Package updater checks GitHub releases for newer markprism versions and
// replaces the running binary on request.
package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	repoSlug         = "CaptShanks/markprism"
	installScriptURL = "https://raw.githubusercontent.com/CaptShanks/markprism/main/install.sh"
	cacheFileName    = "update-check.json"
)

// Checker runs update checks, caching results in a state directory
type Checker struct {
	CurrentVersion string
	StateDir       string // where the check cache lives; empty disables caching
	IntervalDays   int

	// detect looks up the latest released version; swapped out in tests
	detect func(slug string) (string, bool, error)
	now    func() time.Time
}

// NewChecker creates a checker for the running version
func NewChecker(currentVersion, stateDir string, intervalDays int) *Checker {
	return &Checker{
		CurrentVersion: currentVersion,
		StateDir:       stateDir,
		IntervalDays:   intervalDays,
		detect:         detectLatest,
		now:            time.Now,
	}
}

func detectLatest(slug string) (string, bool, error) {
	latest, found, err := selfupdate.DetectLatest(slug)
	if err != nil || !found {
		return "", false, err
	}
	return latest.Version.String(), true, nil
}

// CheckLatest fetches the latest release and compares it with the current version.
// Returns (latestVersion, hasUpdate, err).
func (c *Checker) CheckLatest() (latestVersion string, hasUpdate bool, err error) {
	latestVersion, found, err := c.detect(repoSlug)
	if err != nil || !found {
		return "", false, err
	}
	latestVersion = normalizeVersion(latestVersion)

	latestSemver, err := semver.Parse(latestVersion)
	if err != nil {
		return latestVersion, false, err
	}
	currentSemver, err := semver.Parse(normalizeVersion(c.CurrentVersion))
	if err != nil {
		return latestVersion, false, err
	}
	return latestVersion, latestSemver.GT(currentSemver), nil
}

// updateCache holds cached update check results
type updateCache struct {
	CheckedAt     int64  `json:"checked_at"`
	ForVersion    string `json:"for_version"`
	LatestVersion string `json:"latest_version,omitempty"`
	HasUpdate     bool   `json:"has_update"`
}

func (c *Checker) cachePath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, cacheFileName)
}

// CheckLatestWithCache checks for updates only when the cached result is older
// than IntervalDays or was recorded for a different running version.
func (c *Checker) CheckLatestWithCache() (latestVersion string, hasUpdate bool, err error) {
	interval := c.IntervalDays
	if interval <= 0 {
		interval = 7
	}
	path := c.cachePath()
	if path == "" {
		return c.CheckLatest()
	}

	if data, err := os.ReadFile(path); err == nil {
		var cache updateCache
		if json.Unmarshal(data, &cache) == nil && cache.ForVersion == c.CurrentVersion {
			age := c.now().Sub(time.Unix(cache.CheckedAt, 0))
			if age >= 0 && age < time.Duration(interval)*24*time.Hour {
				return cache.LatestVersion, cache.HasUpdate, nil
			}
		}
	}

	latest, hasUpdate, err := c.CheckLatest()
	if err != nil {
		return "", false, err
	}

	cache := updateCache{
		CheckedAt:     c.now().Unix(),
		ForVersion:    c.CurrentVersion,
		LatestVersion: latest,
		HasUpdate:     hasUpdate,
	}
	if data, err := json.Marshal(cache); err == nil {
		if os.MkdirAll(c.StateDir, 0755) == nil {
			_ = os.WriteFile(path, data, 0644)
		}
	}
	return latest, hasUpdate, nil
}

// Upgrade replaces the current binary with the latest release and returns
// the new version
func Upgrade(currentVersion string) (newVersion string, err error) {
	v, err := semver.Parse(normalizeVersion(currentVersion))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", currentVersion, err)
	}

	latest, err := selfupdate.UpdateSelf(v, repoSlug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

// CurlFallbackMessage returns the message to display when self-update fails
func CurlFallbackMessage(reason error) string {
	return fmt.Sprintf(`Self-update failed: %v
To upgrade manually, run:
  curl -sSfL %s | sh`, reason, installScriptURL)
}

func normalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
