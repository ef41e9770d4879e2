package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format   string `mapstructure:"format"`
	LogLevel string `mapstructure:"log_level"`
	Quiet    bool   `mapstructure:"quiet"`
	Verbose  bool   `mapstructure:"verbose"`

	Rules      RulesConfig      `mapstructure:"rules"`
	Repetition RepetitionConfig `mapstructure:"repetition"`
	Report     ReportConfig     `mapstructure:"report"`
	Source     SourceConfig     `mapstructure:"source"`
	Preview    PreviewConfig    `mapstructure:"preview"`
	Search     SearchConfig     `mapstructure:"search"`
}

// RulesConfig holds the literal markers the classifier looks for.
// An empty marker disables its rule.
type RulesConfig struct {
	SubsystemMarker  string `mapstructure:"subsystem_marker"`
	SubsystemWarning string `mapstructure:"subsystem_warning"`
	JobWarning       string `mapstructure:"job_warning"`
	PathFollower     string `mapstructure:"path_follower"`
	JobError         string `mapstructure:"job_error"`
	Recursion        string `mapstructure:"recursion"`
}

// RepetitionConfig tunes loop detection
type RepetitionConfig struct {
	Threshold     int  `mapstructure:"threshold"`
	FlushTrailing bool `mapstructure:"flush_trailing"`
}

// ReportConfig controls report rendering and the summary file
type ReportConfig struct {
	Path     string `mapstructure:"path"`
	Top      int    `mapstructure:"top"`
	Samples  int    `mapstructure:"samples"`
	Truncate int    `mapstructure:"truncate"`
	Skip     bool   `mapstructure:"skip"`
}

// SourceConfig controls log discovery and reading
type SourceConfig struct {
	SearchPaths  []string `mapstructure:"search_paths"`
	MaxLineBytes int      `mapstructure:"max_line_bytes"`
}

// PreviewConfig holds preview command defaults
type PreviewConfig struct {
	Lines int `mapstructure:"lines"`
}

// SearchConfig holds grep command defaults
type SearchConfig struct {
	Roots      []string `mapstructure:"roots"`
	Extensions []string `mapstructure:"extensions"`
	Context    int      `mapstructure:"context"`
	Workers    int      `mapstructure:"workers"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:   "text",
		LogLevel: "warn",
		Rules: RulesConfig{
			SubsystemMarker:  "[Portal Gun]",
			SubsystemWarning: "Portal Gun",
			JobWarning:       "JobUtility",
			PathFollower:     "PathFollower",
			JobError:         "JobUtility.TryStartErrorRecoverJob",
			Recursion:        "TryReuseExistingPortal",
		},
		Repetition: RepetitionConfig{
			Threshold: 5,
		},
		Report: ReportConfig{
			Top:      10,
			Samples:  5,
			Truncate: 100,
		},
		Source: SourceConfig{
			MaxLineBytes: 1024 * 1024,
		},
		Preview: PreviewConfig{
			Lines: 160,
		},
		Search: SearchConfig{
			Extensions: []string{".xml"},
			Context:    4,
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.logscan.yaml, ./.logscan.yml, ./logscan.yaml, ./logscan.yml
// 2. the same names in the home directory
// 3. $XDG_CONFIG_HOME/logscan/config.yaml (or ~/.config/logscan/config.yaml)
// 4. /etc/logscan/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".logscan.yaml", ".logscan.yml", "logscan.yaml", "logscan.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	// config.yaml only counts inside a logscan-specific directory
	var appDirs []string
	if configDirErr == nil {
		appDirs = append(appDirs, filepath.Join(configDir, "logscan"))
	}
	appDirs = append(appDirs, "/etc/logscan")
	for _, dir := range appDirs {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOGSCAN_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOGSCAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOGSCAN_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("LOGSCAN_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("LOGSCAN_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Repetition.Threshold = n
		}
	}
	if v := os.Getenv("LOGSCAN_REPORT_PATH"); v != "" {
		cfg.Report.Path = v
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
