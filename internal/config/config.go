package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sliday/git2md/pkg/logger"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Workers is the number of files read concurrently
	Workers int

	// RateLimit is the maximum number of file reads per second (0 for unlimited)
	RateLimit int

	// OutputDir is where the generated files are written (empty for ./<name>)
	OutputDir string

	// NoColor disables colored output
	NoColor bool

	// NoSyntax disables the syntax-aware Python pass
	NoSyntax bool

	// Signals also writes the extracted signals as YAML
	Signals bool

	// Verbose sets the verbosity level
	Verbose int

	// LogFormat selects the log encoder (json or console)
	LogFormat string
}

// Load reads configuration from an optional file, a .env file in the
// working directory and GIT2MD_ environment variables, in increasing order
// of precedence. An empty path skips the config file.
func Load(path string) (Config, error) {
	// variables already set win over .env entries
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// Set default values
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("output_dir", "")
	v.SetDefault("no_color", false)
	v.SetDefault("no_syntax", false)
	v.SetDefault("signals", false)
	v.SetDefault("verbose", 0)
	v.SetDefault("log_format", logger.FormatJSON)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Verbosity may be given as a count or as a string of 'v's
	if verboseStr := v.GetString("verbose"); strings.Trim(verboseStr, "v") == "" && verboseStr != "" {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	cfg := Config{
		Workers:   v.GetInt("workers"),
		RateLimit: v.GetInt("rate_limit"),
		OutputDir: v.GetString("output_dir"),
		NoColor:   v.GetBool("no_color"),
		NoSyntax:  v.GetBool("no_syntax"),
		Signals:   v.GetBool("signals"),
		Verbose:   v.GetInt("verbose"),
		LogFormat: v.GetString("log_format"),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if c.Verbose < 0 {
		return fmt.Errorf("verbosity must be non-negative")
	}

	if err := logger.ValidFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid log format: %w", err)
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, RateLimit: %d, OutputDir: %s, NoColor: %v, "+
			"NoSyntax: %v, Signals: %v, Verbose: %d, LogFormat: %s}",
		c.Workers, c.RateLimit, c.OutputDir, c.NoColor,
		c.NoSyntax, c.Signals, c.Verbose, c.LogFormat,
	)
}
