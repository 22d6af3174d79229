package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every GIT2MD_ variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		name := EnvPrefix + "_" + strings.ToUpper(key)
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func defaults() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		LogFormat: "json",
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func() Config
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "default configuration",
			expected: defaults,
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"GIT2MD_WORKERS":    "1",
				"GIT2MD_RATE_LIMIT": "100",
				"GIT2MD_OUTPUT_DIR": "out",
				"GIT2MD_NO_COLOR":   "true",
				"GIT2MD_NO_SYNTAX":  "1",
				"GIT2MD_SIGNALS":    "true",
				"GIT2MD_VERBOSE":    "vv",
				"GIT2MD_LOG_FORMAT": "console",
			},
			expected: func() Config {
				return Config{
					Workers:   1,
					RateLimit: 100,
					OutputDir: "out",
					NoColor:   true,
					NoSyntax:  true,
					Signals:   true,
					Verbose:   2,
					LogFormat: "console",
				}
			},
		},
		{
			name:    "numeric verbosity",
			envVars: map[string]string{"GIT2MD_VERBOSE": "3"},
			expected: func() Config {
				c := defaults()
				c.Verbose = 3
				return c
			},
		},
		{
			name:     "zero workers falls back to CPU count",
			envVars:  map[string]string{"GIT2MD_WORKERS": "0"},
			expected: defaults,
		},
		{
			name:    "negative workers",
			envVars: map[string]string{"GIT2MD_WORKERS": "-1"},
			wantErr: true,
			errMsg:  "workers count must be positive",
		},
		{
			name:    "too many workers",
			envVars: map[string]string{"GIT2MD_WORKERS": "1000000"},
			wantErr: true,
			errMsg:  "workers count cannot exceed system CPU count * 4",
		},
		{
			name:    "negative rate limit",
			envVars: map[string]string{"GIT2MD_RATE_LIMIT": "-1"},
			wantErr: true,
			errMsg:  "rate limit must be non-negative",
		},
		{
			name:    "unknown log format",
			envVars: map[string]string{"GIT2MD_LOG_FORMAT": "xml"},
			wantErr: true,
			errMsg:  "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected(), cfg)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		envVars map[string]string
		verify  func(*testing.T, Config)
		wantErr bool
	}{
		{
			name:    "yaml file",
			file:    "git2md.yaml",
			content: "workers: 1\nsignals: true\noutput_dir: docs\n",
			verify: func(t *testing.T, c Config) {
				assert.Equal(t, 1, c.Workers)
				assert.True(t, c.Signals)
				assert.Equal(t, "docs", c.OutputDir)
			},
		},
		{
			name:    "toml file",
			file:    "git2md.toml",
			content: "rate_limit = 50\nno_syntax = true\n",
			verify: func(t *testing.T, c Config) {
				assert.Equal(t, 50, c.RateLimit)
				assert.True(t, c.NoSyntax)
			},
		},
		{
			name:    "environment overrides file",
			file:    "git2md.json",
			content: `{"log_format": "console", "rate_limit": 5}`,
			envVars: map[string]string{"GIT2MD_RATE_LIMIT": "7"},
			verify: func(t *testing.T, c Config) {
				assert.Equal(t, "console", c.LogFormat)
				assert.Equal(t, 7, c.RateLimit)
			},
		},
		{
			name:    "unreadable file",
			file:    "broken.yaml",
			content: "workers: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.verify(t, cfg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("GIT2MD_SIGNALS=true\nGIT2MD_RATE_LIMIT=9\n"), 0644))
	t.Chdir(dir)

	// already set, so .env must not win
	t.Setenv("GIT2MD_RATE_LIMIT", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Signals)
	assert.Equal(t, 3, cfg.RateLimit)
}

func TestValidateConfig(t *testing.T) {
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier

	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			config: Config{Workers: 1, LogFormat: "json"},
		},
		{
			name:   "empty log format accepted",
			config: Config{Workers: 1},
		},
		{
			name:    "invalid workers count - negative",
			config:  Config{Workers: -1},
			wantErr: true,
			errMsg:  "workers count must be positive",
		},
		{
			name:    "invalid workers count - exceeds max",
			config:  Config{Workers: maxWorkers + 1},
			wantErr: true,
			errMsg:  "workers count cannot exceed",
		},
		{
			name:    "invalid rate limit",
			config:  Config{Workers: 1, RateLimit: -1},
			wantErr: true,
			errMsg:  "rate limit must be non-negative",
		},
		{
			name:    "negative verbosity",
			config:  Config{Workers: 1, Verbose: -1},
			wantErr: true,
			errMsg:  "verbosity must be non-negative",
		},
		{
			name:    "invalid log format",
			config:  Config{Workers: 1, LogFormat: "text"},
			wantErr: true,
			errMsg:  "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
