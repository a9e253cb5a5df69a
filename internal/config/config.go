// Package config provides configuration management for beacon.
//
// Precedence, lowest to highest: built-in defaults, ~/.beacon/settings.json,
// environment variables. A ~/.beacon/.env file, if present, is loaded into
// the environment first so credentials can live outside Claude's settings.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
)

const (
	DefaultShortThreshold  = 500
	DefaultCondenseTarget  = 300
	DefaultMaxDescription  = 1000
	DefaultCondenseTimeout = 3 * time.Second
	DefaultSlackTimeout    = 5 * time.Second
	DefaultModel           = "claude-3-5-haiku-latest"
	DefaultLogFile         = "claude-notifications.jsonl"
)

// Config holds all beacon configuration.
type Config struct {
	// Chat platform. Both must be set for the chat sink to be active.
	SlackToken  string `json:"SLACK_BOT_TOKEN"`
	SlackUserID string `json:"SLACK_USER_ID"`

	// Summarization. Absence disables condensation without error.
	AnthropicAPIKey string `json:"ANTHROPIC_API_KEY"`
	Model           string `json:"BEACON_MODEL"`

	// Description length policy.
	ShortThreshold int `json:"BEACON_SHORT_THRESHOLD"`
	CondenseTarget int `json:"BEACON_CONDENSE_TARGET"`
	MaxDescription int `json:"BEACON_MAX_DESCRIPTION"`

	// Timeouts, in milliseconds in settings/env.
	CondenseTimeout time.Duration `json:"-"`
	SlackTimeout    time.Duration `json:"-"`

	// Paths.
	LogPath   string `json:"BEACON_LOG_PATH"`
	CachePath string `json:"BEACON_CACHE_PATH"`

	LogLevel string `json:"BEACON_LOG_LEVEL"`
}

var (
	global     *Config
	globalOnce sync.Once
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:           DefaultModel,
		ShortThreshold:  DefaultShortThreshold,
		CondenseTarget:  DefaultCondenseTarget,
		MaxDescription:  DefaultMaxDescription,
		CondenseTimeout: DefaultCondenseTimeout,
		SlackTimeout:    DefaultSlackTimeout,
		LogPath:         filepath.Join(os.TempDir(), DefaultLogFile),
		CachePath:       filepath.Join(DataDir(), "channels.yaml"),
		LogLevel:        "info",
	}
}

// DataDir returns the beacon data directory (~/.beacon).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".beacon")
}

// SettingsPath returns the path to the settings file.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it does not exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o750)
}

// EnsureSettings creates an empty settings file if none exists.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte("{}\n"), 0o600)
}

// EnsureAll initializes the data directory and settings file.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// Load builds a Config from defaults, settings file, and environment.
// An unreadable or invalid settings file yields defaults, not an error:
// hooks must keep working with a broken config.
func Load() (*Config, error) {
	_ = godotenv.Load(filepath.Join(DataDir(), ".env"))

	cfg := Default()
	applySettings(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// Get returns the process-wide configuration, loading it once.
func Get() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		global = cfg
	})
	return global
}

// ChatEnabled reports whether the chat sink is configured.
func (c *Config) ChatEnabled() bool {
	return c.SlackToken != "" && c.SlackUserID != ""
}

// CondenseEnabled reports whether the summarization capability is configured.
func (c *Config) CondenseEnabled() bool {
	return c.AnthropicAPIKey != ""
}

// settingsFile is the raw shape of ~/.beacon/settings.json. All values
// are optional; numbers may arrive as JSON numbers.
type settingsFile struct {
	SlackToken        string `json:"SLACK_BOT_TOKEN"`
	SlackUserID       string `json:"SLACK_USER_ID"`
	AnthropicAPIKey   string `json:"ANTHROPIC_API_KEY"`
	Model             string `json:"BEACON_MODEL"`
	ShortThreshold    int    `json:"BEACON_SHORT_THRESHOLD"`
	CondenseTarget    int    `json:"BEACON_CONDENSE_TARGET"`
	MaxDescription    int    `json:"BEACON_MAX_DESCRIPTION"`
	CondenseTimeoutMS int    `json:"BEACON_CONDENSE_TIMEOUT_MS"`
	SlackTimeoutMS    int    `json:"BEACON_SLACK_TIMEOUT_MS"`
	LogPath           string `json:"BEACON_LOG_PATH"`
	CachePath         string `json:"BEACON_CACHE_PATH"`
	LogLevel          string `json:"BEACON_LOG_LEVEL"`
}

func applySettings(cfg *Config) {
	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		return
	}
	var s settingsFile
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}

	setString(&cfg.SlackToken, s.SlackToken)
	setString(&cfg.SlackUserID, s.SlackUserID)
	setString(&cfg.AnthropicAPIKey, s.AnthropicAPIKey)
	setString(&cfg.Model, s.Model)
	setInt(&cfg.ShortThreshold, s.ShortThreshold)
	setInt(&cfg.CondenseTarget, s.CondenseTarget)
	setInt(&cfg.MaxDescription, s.MaxDescription)
	setDuration(&cfg.CondenseTimeout, s.CondenseTimeoutMS)
	setDuration(&cfg.SlackTimeout, s.SlackTimeoutMS)
	setString(&cfg.LogPath, s.LogPath)
	setString(&cfg.CachePath, s.CachePath)
	setString(&cfg.LogLevel, s.LogLevel)
}

func applyEnv(cfg *Config) {
	setString(&cfg.SlackToken, os.Getenv("SLACK_BOT_TOKEN"))
	setString(&cfg.SlackUserID, os.Getenv("SLACK_USER_ID"))
	setString(&cfg.AnthropicAPIKey, os.Getenv("ANTHROPIC_API_KEY"))
	setString(&cfg.Model, os.Getenv("BEACON_MODEL"))
	setInt(&cfg.ShortThreshold, envInt("BEACON_SHORT_THRESHOLD"))
	setInt(&cfg.CondenseTarget, envInt("BEACON_CONDENSE_TARGET"))
	setInt(&cfg.MaxDescription, envInt("BEACON_MAX_DESCRIPTION"))
	setDuration(&cfg.CondenseTimeout, envInt("BEACON_CONDENSE_TIMEOUT_MS"))
	setDuration(&cfg.SlackTimeout, envInt("BEACON_SLACK_TIMEOUT_MS"))
	setString(&cfg.LogPath, os.Getenv("BEACON_LOG_PATH"))
	setString(&cfg.CachePath, os.Getenv("BEACON_CACHE_PATH"))
	setString(&cfg.LogLevel, os.Getenv("BEACON_LOG_LEVEL"))
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
