// Package config provides tagview configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // embedded zoneinfo

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	domainerrors "github.com/tagandtake/tagandtake-server/internal/errors"
)

// Output formats for rendered views.
const (
	OutputJSON = "json"
	OutputText = "text"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Format FormatConfig
	Output OutputConfig
	Watch  WatchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level   string
	Format  string // json or pretty; empty picks by environment
	NoColor bool
}

// FormatConfig controls how dates and prices are rendered.
type FormatConfig struct {
	Locale   string // BCP 47 tag (default: en-GB)
	Currency string // ISO 4217 code (default: GBP)
	TimeZone string // IANA zone name (default: Europe/London)
}

// OutputConfig controls how views are written to stdout.
type OutputConfig struct {
	Format string
}

// WatchConfig controls re-rendering when input files change.
type WatchConfig struct {
	Debounce time.Duration
}

// Overrides carries command-line flag values. Empty fields fall through to
// the environment, then the .env file, then defaults.
type Overrides struct {
	Env       string
	LogLevel  string
	LogFormat string
	NoColor   string
	Locale    string
	Currency  string
	TimeZone  string
	Output    string
	Debounce  string
	EnvFile   string
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	// Load .env file if it exists (silently ignore if not found).
	if err := loadEnvFile(envFile); err != nil && !os.IsNotExist(err) {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeConfig, "read %s", envFile)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:   getConfigValue(o.LogLevel, "LOG_LEVEL", "info"),
			Format:  getConfigValue(o.LogFormat, "LOG_FORMAT", ""),
			NoColor: getBoolConfigValue(o.NoColor, "NO_COLOR", false),
		},
		Format: FormatConfig{
			Locale:   getConfigValue(o.Locale, "TAGVIEW_LOCALE", "en-GB"),
			Currency: strings.ToUpper(getConfigValue(o.Currency, "TAGVIEW_CURRENCY", "GBP")),
			TimeZone: getConfigValue(o.TimeZone, "TAGVIEW_TIMEZONE", "Europe/London"),
		},
		Output: OutputConfig{
			Format: strings.ToLower(getConfigValue(o.Output, "TAGVIEW_OUTPUT", OutputJSON)),
		},
	}

	debounceStr := getConfigValue(o.Debounce, "TAGVIEW_WATCH_DEBOUNCE", "250ms")
	debounce, err := time.ParseDuration(debounceStr)
	if err != nil {
		return nil, domainerrors.Configf("invalid watch debounce %q: %v", debounceStr, err)
	}
	cfg.Watch.Debounce = debounce

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return domainerrors.Configf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return domainerrors.Configf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "json", "pretty":
	default:
		return domainerrors.Configf("invalid log format: %s (must be json or pretty)", c.Logger.Format)
	}

	if c.Output.Format != OutputJSON && c.Output.Format != OutputText {
		return domainerrors.Configf("invalid output format: %s (must be json or text)", c.Output.Format)
	}

	if c.Watch.Debounce <= 0 {
		return domainerrors.Configf("watch debounce must be positive, got %s", c.Watch.Debounce)
	}

	if _, err := c.Format.Tag(); err != nil {
		return err
	}
	if _, err := c.Format.Unit(); err != nil {
		return err
	}
	if _, err := c.Format.Location(); err != nil {
		return err
	}

	return nil
}

// Tag parses the configured locale.
func (f FormatConfig) Tag() (language.Tag, error) {
	tag, err := language.Parse(f.Locale)
	if err != nil {
		return language.Und, domainerrors.Wrapf(err, domainerrors.CodeConfig, "invalid locale %q", f.Locale)
	}
	return tag, nil
}

// Unit parses the configured currency code.
func (f FormatConfig) Unit() (currency.Unit, error) {
	unit, err := currency.ParseISO(f.Currency)
	if err != nil {
		return currency.Unit{}, domainerrors.Wrapf(err, domainerrors.CodeConfig, "invalid currency %q", f.Currency)
	}
	return unit, nil
}

// Location loads the configured time zone.
func (f FormatConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(f.TimeZone)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeConfig, "invalid time zone %q", f.TimeZone)
	}
	return loc, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
