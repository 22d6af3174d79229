package extract

import "regexp"

// techByExtension maps lowercase file extensions to technology labels.
var techByExtension = map[string]string{
	".py":     "Python",
	".pyi":    "Python",
	".js":     "JavaScript",
	".mjs":    "JavaScript",
	".cjs":    "JavaScript",
	".jsx":    "JavaScript/React",
	".ts":     "TypeScript",
	".tsx":    "TypeScript/React",
	".go":     "Go",
	".rs":     "Rust",
	".java":   "Java",
	".kt":     "Kotlin",
	".scala":  "Scala",
	".rb":     "Ruby",
	".php":    "PHP",
	".c":      "C",
	".h":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".swift":  "Swift",
	".dart":   "Dart",
	".ex":     "Elixir",
	".exs":    "Elixir",
	".lua":    "Lua",
	".sh":     "Shell",
	".bash":   "Shell",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "Sass",
	".sql":    "SQL",
	".vue":    "Vue",
	".svelte": "Svelte",
}

// entryPointNames are conventional entry point file names, lowercase.
var entryPointNames = map[string]bool{
	"main.py":     true,
	"app.py":      true,
	"__main__.py": true,
	"index.js":    true,
	"index.ts":    true,
	"app.js":      true,
	"main.go":     true,
	"main.rs":     true,
}

// configFileNames are conventional configuration file names, lowercase.
var configFileNames = map[string]bool{
	"config.json":   true,
	"config.py":     true,
	"config.yaml":   true,
	"config.yml":    true,
	"config.toml":   true,
	"settings.py":   true,
	"settings.json": true,
	"settings.yaml": true,
	"settings.toml": true,
	".env.example":  true,
	".env.sample":   true,
}

const readmeName = "readme.md"

// functionPattern finds function definitions of one language. Group 1 is
// the name, group 2 the raw parameter text.
type functionPattern struct {
	Language string
	Pattern  *regexp.Regexp
}

// functionPatterns is the regex fallback, tried in order.
var functionPatterns = []functionPattern{
	{Language: "JavaScript", Pattern: regexp.MustCompile(`function\s+(\w+)\s*\((.*?)\)\s*\{`)},
	{Language: "Python", Pattern: regexp.MustCompile(`def\s+(\w+)\s*\((.*?)\)\s*(?:->[^:\n]*)?:`)},
	{Language: "Rust", Pattern: regexp.MustCompile(`pub\s+fn\s+(\w+)\s*(?:<[^>\n]*>)?\s*\((.*?)\)`)},
	{Language: "Go", Pattern: regexp.MustCompile(`(?m)^func\s+(\w+)\s*(?:\[[^\]\n]*\])?\s*\((.*?)\)`)},
}

// errorTypePatterns capture the names of custom error types.
var errorTypePatterns = []*regexp.Regexp{
	regexp.MustCompile(`class\s+(\w+(?:Error|Exception))\s*\(`),                // Python
	regexp.MustCompile(`class\s+(\w+(?:Error|Exception))\s+extends\s+[\w.]+`), // JavaScript, TypeScript, Java
	regexp.MustCompile(`type\s+(\w+(?:Error|Exception))\s+struct\b`),           // Go
}

// handlerPatterns capture the condition names an exception handler catches.
// Multiple names are separated by commas or pipes.
var handlerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*except(?:\s+|\s*\(\s*)([\w.]+(?:\s*,\s*[\w.]+)*)\s*\)?\s*(?:as\s+\w+\s*)?:`), // Python
	regexp.MustCompile(`catch\s*\(\s*([\w.]+(?:\s*\|\s*[\w.]+)*)\s+\w+\s*\)`),                         // Java, C#
	regexp.MustCompile(`catch\s*\(\s*\w+\s*:\s*([\w.]+)\s*\)`),                                        // Kotlin, TypeScript
}

// testFramework detects one testing framework idiom.
type testFramework struct {
	Name    string
	Pattern *regexp.Regexp
}

// testFrameworks is checked in order; the first match wins.
var testFrameworks = []testFramework{
	{Name: "pytest", Pattern: regexp.MustCompile(`(?m)^\s*(?:import|from)\s+pytest\b|@pytest\.`)},
	{Name: "unittest", Pattern: regexp.MustCompile(`(?m)^\s*(?:import|from)\s+unittest\b`)},
	{Name: "jest", Pattern: regexp.MustCompile(`\bjest\.|@jest/globals|\bdescribe\(`)},
	{Name: "mocha", Pattern: regexp.MustCompile(`require\(['"]mocha['"]\)|from\s+['"]mocha['"]`)},
	{Name: "go", Pattern: regexp.MustCompile(`"testing"`)},
}

var (
	snakeTestPattern = regexp.MustCompile(`(?:def|test)\s+(test_\w+)`)
	goTestPattern    = regexp.MustCompile(`func\s+Test(\w+)\s*\(\s*\w+\s+\*testing\.T\s*\)`)

	envAssignPattern = regexp.MustCompile(`^\s*(?:export\s+)?([A-Z_][A-Z0-9_]*)\s*=(.*)$`)
	blockOpenPattern = regexp.MustCompile(`\b(?:config|settings)\s*=\s*\{`)

	usageHeadingPattern = regexp.MustCompile(`(?i)^(?:usage|getting started|quick start)\b`)
	rstCodePattern      = regexp.MustCompile(`^\.\.\s+(?:code-block|code|sourcecode)::`)
)

// maxExampleLines bounds the size of extracted code examples.
const maxExampleLines = 15

// Placeholders emitted when a pass finds nothing.
const (
	noTechPlaceholder      = "No technologies detected"
	noEntryPlaceholder     = "No entry point found"
	noFunctionsPlaceholder = "No functions extracted"
	noConfigPlaceholder    = "No configuration details found"
	noErrorsPlaceholder    = "No error handling patterns documented"
	noExamplesPlaceholder  = "No examples found"
	noTestsPlaceholder     = "No test patterns found"
	noDocDescription       = "No description available"
	regexDescription       = "Function definition"
)
