// Package config loads markprism settings.
//
// Sources, lowest priority first:
//  1. built-in defaults
//  2. a YAML file: --config, MARKPRISM_CONFIG_FILE, or ~/.markprism/config.yaml
//  3. MARKPRISM_<KEY> environment variables (MARKPRISM_HISTORY_DIR, ...)
//  4. command-line flags bound through pflag
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable markprism reads
	EnvPrefix = "MARKPRISM"
	// StateDir is the directory under the home directory for config, history and caches
	StateDir = ".markprism"
)

// Setting keys
const (
	KeyTheme               = "theme"
	KeyHistoryDir          = "history_dir"
	KeyMaxHistory          = "max_history"
	KeySkipUpdateCheck     = "skip_update_check"
	KeyUpdateCheckInterval = "update_check_interval"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
	KeyDebounce            = "watch_debounce_ms"
)

// Settings is the resolved configuration
type Settings struct {
	Theme               string `mapstructure:"theme"` // auto, light or dark
	HistoryDir          string `mapstructure:"history_dir"`
	MaxHistory          int    `mapstructure:"max_history"`
	SkipUpdateCheck     bool   `mapstructure:"-"`
	UpdateCheckInterval int    `mapstructure:"update_check_interval"` // days
	LogLevel            string `mapstructure:"log_level"`
	LogFormat           string `mapstructure:"log_format"`
	WatchDebounceMS     int    `mapstructure:"watch_debounce_ms"`

	// ConfigFile is the file the settings were read from, empty when none
	ConfigFile string `mapstructure:"-"`
}

// Validation errors
var (
	ErrInvalidTheme = errors.New("invalid theme")
	ErrInvalidLevel = errors.New("invalid log level")
)

// DefaultStateDir returns ~/.markprism
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, StateDir), nil
}

func setDefaults(v *viper.Viper) {
	stateDir, err := DefaultStateDir()
	if err != nil {
		stateDir = StateDir
	}
	v.SetDefault(KeyTheme, "auto")
	v.SetDefault(KeyHistoryDir, filepath.Join(stateDir, "history"))
	v.SetDefault(KeyMaxHistory, 50)
	v.SetDefault(KeySkipUpdateCheck, false)
	v.SetDefault(KeyUpdateCheckInterval, 7)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyDebounce, 150)
}

// Load resolves settings. file overrides the config file search when set;
// flags may be nil. A missing default config file is not an error, a missing
// explicit one is.
func Load(file string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := file != ""
	if !explicit {
		file = os.Getenv(EnvPrefix + "_CONFIG_FILE")
		explicit = file != ""
	}
	if explicit {
		v.SetConfigFile(file)
	} else if stateDir, err := DefaultStateDir(); err == nil {
		v.AddConfigPath(stateDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	s.ConfigFile = v.ConfigFileUsed()
	s.SkipUpdateCheck = isTruthy(v.GetString(KeySkipUpdateCheck))
	s.normalize()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// bindFlags binds flags whose names match setting keys, with dashes in flag
// names standing for underscores in keys (--history-dir -> history_dir)
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKey(key) || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

func isKey(key string) bool {
	switch key {
	case KeyTheme, KeyHistoryDir, KeyMaxHistory, KeySkipUpdateCheck,
		KeyUpdateCheckInterval, KeyLogLevel, KeyLogFormat, KeyDebounce:
		return true
	}
	return false
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func (s *Settings) normalize() {
	s.Theme = strings.ToLower(strings.TrimSpace(s.Theme))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	if s.MaxHistory <= 0 {
		s.MaxHistory = 50
	}
	if s.UpdateCheckInterval <= 0 {
		s.UpdateCheckInterval = 7
	}
	if s.WatchDebounceMS < 0 {
		s.WatchDebounceMS = 0
	}
	if strings.HasPrefix(s.HistoryDir, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			s.HistoryDir = filepath.Join(home, s.HistoryDir[2:])
		}
	}
}

// Validate checks the enumerated settings
func (s *Settings) Validate() error {
	switch s.Theme {
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("%w %q (expected auto, light or dark)", ErrInvalidTheme, s.Theme)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w %q (expected debug, info, warn or error)", ErrInvalidLevel, s.LogLevel)
	}
	return nil
}

// StateDir returns the directory holding caches next to the history
func (s *Settings) StateDir() string {
	return filepath.Dir(s.HistoryDir)
}
