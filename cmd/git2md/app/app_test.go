package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sliday/git2md/internal/config"
	"github.com/sliday/git2md/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements logger.Logger interface for testing
type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              {}
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

// setupRepo writes a small project to a real temporary directory; the
// source resolver checks paths on disk
func setupRepo(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "Demo_Project")
	files := map[string]string{
		"README.md":         "# Demo\n\nA demo project.\n\n## Usage\nRun `demo`.\n",
		"main.py":           "def add(a, b):\n    \"\"\"Adds two numbers\"\"\"\n    return a+b\n",
		"config.json":       `{"port": 8080}`,
		"tests/test_add.py": "import pytest\n\ndef test_add_numbers():\n    pass\n",
		".git/HEAD":         "ref: refs/heads/main\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) (*App, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	opts = append([]Option{WithLogger(&mockLogger{}), WithOutput(out)}, opts...)
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Shutdown() })
	return a, out
}

func testConfig() *config.Config {
	return &config.Config{Workers: 2, NoColor: true, LogFormat: logger.FormatJSON}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		config func() *config.Config
		verify func(*testing.T, string, *Report, string)
	}{
		{
			name:   "writes the three documents",
			config: testConfig,
			verify: func(t *testing.T, outDir string, r *Report, progress string) {
				assert.Equal(t, "demo-project", r.Name)
				assert.Equal(t, []string{MarkdownFile, MermaidFile, SummaryFile}, r.Files)
				assert.Equal(t, 4, r.Counts.Text)
				assert.Equal(t, "syntax", r.Parser)

				md, err := os.ReadFile(filepath.Join(outDir, MarkdownFile))
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(md), "# demo-project\n\n"))
				assert.NotContains(t, string(md), "HEAD")

				mmd, err := os.ReadFile(filepath.Join(outDir, MermaidFile))
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(mmd), "graph TD\n    A[demo-project]\n"))

				llms, err := os.ReadFile(filepath.Join(outDir, SummaryFile))
				require.NoError(t, err)
				assert.Contains(t, string(llms), "- `add(a, b)`: Adds two numbers")
				assert.Contains(t, string(llms), "## Configuration\n")
				assert.Contains(t, string(llms), "## Development Notes\n")

				_, err = os.Stat(filepath.Join(outDir, SignalsFile))
				assert.True(t, os.IsNotExist(err))

				assert.Contains(t, progress, "✓ Converted demo-project\n")
				assert.Contains(t, progress, "Files generated in "+outDir)
			},
		},
		{
			name: "signals export and regex only",
			config: func() *config.Config {
				c := testConfig()
				c.Signals = true
				c.NoSyntax = true
				return c
			},
			verify: func(t *testing.T, outDir string, r *Report, _ string) {
				assert.Equal(t, "regex", r.Parser)
				assert.Contains(t, r.Files, SignalsFile)

				data, err := os.ReadFile(filepath.Join(outDir, SignalsFile))
				require.NoError(t, err)
				assert.Contains(t, string(data), "entry_point: main.py")
				assert.Contains(t, string(data), "test_framework: pytest")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := setupRepo(t)
			outDir := filepath.Join(t.TempDir(), "out")

			a, progress := newTestApp(t, tt.config())
			report, err := a.Run(RunOptions{Source: root, OutputDir: outDir})
			require.NoError(t, err)
			assert.Equal(t, outDir, report.OutputDir)

			tt.verify(t, outDir, report, progress.String())
		})
	}
}

func TestRunConfiguredOutputDir(t *testing.T) {
	root := setupRepo(t)
	cfg := testConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "configured")

	a, _ := newTestApp(t, cfg)
	report, err := a.Run(RunOptions{Source: root})
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputDir, report.OutputDir)
}

func TestRunErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		a, progress := newTestApp(t, testConfig())
		_, err := a.Run(RunOptions{Source: filepath.Join(t.TempDir(), "absent")})
		assert.Error(t, err)
		assert.Contains(t, progress.String(), "Conversion failed")
		assert.NotContains(t, progress.String(), "✓")
	})

	t.Run("output directory cannot be created", func(t *testing.T) {
		root := setupRepo(t)
		a, _ := newTestApp(t, testConfig(), WithFs(afero.NewReadOnlyFs(afero.NewOsFs())))
		_, err := a.Run(RunOptions{Source: root, OutputDir: filepath.Join(t.TempDir(), "out")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output directory")
	})

	t.Run("cancelled run", func(t *testing.T) {
		root := setupRepo(t)
		a, _ := newTestApp(t, testConfig())
		a.cancel()
		_, err := a.Run(RunOptions{Source: root, OutputDir: filepath.Join(t.TempDir(), "out")})
		assert.Error(t, err)
	})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&config.Config{Workers: -1})
	assert.Error(t, err)
}

func TestShutdownIdempotent(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	assert.NoError(t, a.Shutdown())
	assert.NoError(t, a.Shutdown())
}
