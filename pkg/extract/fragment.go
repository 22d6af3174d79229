package extract

// Fragment is one section of the summary produced by a single pass.
type Fragment struct {
	// Title is the section heading without the leading hashes
	Title string

	// Lead lines always precede the items
	Lead []string

	// Items are the findings, one line each
	Items []string

	// Placeholder is emitted after Lead when there are no Items. An empty
	// Placeholder means the section renders only its lead.
	Placeholder string
}

// Lines returns the body of the section.
func (f Fragment) Lines() []string {
	lines := make([]string, 0, len(f.Lead)+len(f.Items)+1)
	lines = append(lines, f.Lead...)
	if len(f.Items) > 0 {
		return append(lines, f.Items...)
	}
	if f.Placeholder != "" {
		lines = append(lines, f.Placeholder)
	}
	return lines
}

// Result is everything one extraction run produced.
type Result struct {
	// Overview is the first paragraph of the README, if any
	Overview string

	TechStack     Fragment
	Core          Fragment
	Configuration Fragment
	ErrorHandling Fragment
	Examples      Fragment
	DevNotes      Fragment

	// HasConfigFiles is set when at least one configuration file exists
	HasConfigFiles bool

	// HasTestFiles is set when at least one test file exists
	HasTestFiles bool

	Signals Signals
}

// Function is a function found in the entry point.
type Function struct {
	Name string `yaml:"name"`
	Args string `yaml:"args"`
	Doc  string `yaml:"doc,omitempty"`
}

// ConfigKey is one configuration setting found in a configuration file.
type ConfigKey struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
	// Env marks an environment variable assignment
	Env bool `yaml:"env,omitempty"`
}

// ConfigFile groups the keys found in one file.
type ConfigFile struct {
	Path string      `yaml:"path"`
	Keys []ConfigKey `yaml:"keys"`
}

// Signals is the structured form of the extracted information.
type Signals struct {
	TechStack     []string     `yaml:"tech_stack"`
	EntryPoint    string       `yaml:"entry_point,omitempty"`
	Parser        string       `yaml:"parser,omitempty"`
	Functions     []Function   `yaml:"functions,omitempty"`
	ConfigFiles   []ConfigFile `yaml:"config_files,omitempty"`
	ErrorTypes    []string     `yaml:"error_types,omitempty"`
	HandledErrors []string     `yaml:"handled_errors,omitempty"`
	Examples      int          `yaml:"examples"`
	TestFramework string       `yaml:"test_framework,omitempty"`
	TestCases     []string     `yaml:"test_cases,omitempty"`
}
