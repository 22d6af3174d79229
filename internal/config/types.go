package config

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "GIT2MD"

// Constants for configuration limits
const (
	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4
)

// envKeys are the settings read from GIT2MD_<KEY> variables
var envKeys = []string{
	"workers",
	"rate_limit",
	"output_dir",
	"no_color",
	"no_syntax",
	"signals",
	"verbose",
	"log_format",
}
