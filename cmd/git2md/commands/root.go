/*
Package commands implements the git2md command line: the root command that
converts a source and the version subcommand.
*/
package commands

import (
	"fmt"
	"runtime"

	"github.com/sliday/git2md/cmd/git2md/app"
	"github.com/sliday/git2md/internal/config"
	"github.com/sliday/git2md/internal/version"
	"github.com/spf13/cobra"
)

// Options holds command-line options
type Options struct {
	Config     *config.Config
	ConfigPath string

	OutputDir string
	Token     string
	SSHKey    string

	Workers   int
	RateLimit int
	NoSyntax  bool
	Signals   bool
	NoColor   bool
	Verbose   int
	LogFormat string
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	return newRootCommand(&Options{})
}

func newRootCommand(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git2md <source> [flags]",
		Short: "Convert a git repository or local folder to Markdown documentation",
		Long: `git2md ` + version.Version + `
========================================

Converts a git repository or a local folder into three documents:
  README.md      every file's content under nested headings
  structure.mmd  a Mermaid diagram of the directory tree
  llms.txt       a heuristic summary of the project

The source is a local path or a git URL. Remote repositories are cloned
shallowly into a temporary directory that is removed afterwards.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeCommand(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], opts)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", "",
		"output directory for generated files (default: ./<name>)")
	flags.StringVar(&opts.Token, "token", "",
		"personal access token for private repositories (default: $GITHUB_TOKEN)")
	flags.StringVar(&opts.SSHKey, "ssh-key", "",
		"path to an SSH private key for private repositories")
	flags.IntVarP(&opts.Workers, "workers", "w", 0,
		"number of concurrent file readers (default: number of CPUs)")
	flags.IntVarP(&opts.RateLimit, "rate-limit", "r", 0,
		"maximum file reads per second (0 for unlimited)")
	flags.BoolVar(&opts.NoSyntax, "no-syntax", false,
		"scan entry points with patterns only")
	flags.BoolVar(&opts.Signals, "signals", false,
		"also write the extracted signals to signals.yaml")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&opts.ConfigPath, "config", "",
		"config file (yaml, json or toml)")
	persistent.BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")
	persistent.CountVarP(&opts.Verbose, "verbose", "v",
		"enable verbose output (can be used multiple times)")
	persistent.StringVar(&opts.LogFormat, "log-format", "",
		"log encoding: json or console")

	rootCmd.AddCommand(newVersionCommand(opts))

	return rootCmd
}

// initializeCommand loads the configuration and applies explicit flags
// on top of it
func initializeCommand(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = opts.Workers
		if cfg.Workers == 0 {
			cfg.Workers = runtime.NumCPU()
		}
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = opts.RateLimit
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.OutputDir
	}
	if flags.Changed("no-syntax") {
		cfg.NoSyntax = opts.NoSyntax
	}
	if flags.Changed("signals") {
		cfg.Signals = opts.Signals
	}
	if flags.Changed("no-color") {
		cfg.NoColor = opts.NoColor
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts.Config = &cfg
	return nil
}

func runConvert(src string, opts *Options) error {
	application, err := app.New(opts.Config)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	_, err = application.Run(app.RunOptions{
		Source:    src,
		OutputDir: opts.Config.OutputDir,
		Token:     opts.Token,
		SSHKey:    opts.SSHKey,
	})
	return err
}
