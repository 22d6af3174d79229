package tree

import (
	"github.com/bmatcuk/doublestar/v4"
)

// defaultExclusions lists the names dropped from every tree: version control
// metadata, bytecode caches and OS metadata files.
var defaultExclusions = []string{
	".git",
	".hg",
	".svn",
	"__pycache__",
	"*.pyc",
	"*.pyo",
	".DS_Store",
	"Thumbs.db",
}

// ExclusionRules matches entry names, not paths, against a fixed pattern
// table. A matching directory is dropped with its whole subtree.
type ExclusionRules struct {
	patterns []string
}

// DefaultExclusions returns the built-in rule set.
func DefaultExclusions() ExclusionRules {
	return ExclusionRules{patterns: defaultExclusions}
}

// Excluded reports whether name matches any rule. Patterns match the whole
// name, so ".git" excludes ".git" but neither ".github" nor ".gitignore".
func (r ExclusionRules) Excluded(name string) bool {
	for _, pattern := range r.patterns {
		// patterns are static and valid, so the error is always nil
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the rule table.
func (r ExclusionRules) Patterns() []string {
	out := make([]string, len(r.patterns))
	copy(out, r.patterns)
	return out
}
