// Package config provides configuration management for git2md. Settings
// come from an optional config file, a .env file in the working directory
// and environment variables; command-line flags are applied on top by the
// caller.
//
// # Configuration Loading
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Pass a path to also read a YAML, JSON or TOML config file; the format
// follows the file extension.
//
// # Environment Variables
//
//	GIT2MD_WORKERS      Number of concurrent file readers (default: CPU cores)
//	GIT2MD_RATE_LIMIT   File reads per second (0 for unlimited)
//	GIT2MD_OUTPUT_DIR   Output directory (default: ./<name>)
//	GIT2MD_NO_COLOR     Disable colored output (true/false)
//	GIT2MD_NO_SYNTAX    Disable the syntax-aware Python pass (true/false)
//	GIT2MD_SIGNALS      Also write signals.yaml (true/false)
//	GIT2MD_VERBOSE      Verbosity level (a number or a string of 'v's)
//	GIT2MD_LOG_FORMAT   Log encoder: json|console
//
// Variables defined in .env never override variables already present in
// the environment.
//
// # Configuration Validation
//
//   - Workers must be positive and not exceed CPU cores * 4
//   - RateLimit must be non-negative
//   - LogFormat must be json or console
package config
