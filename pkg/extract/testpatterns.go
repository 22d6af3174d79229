package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerCaser = cases.Lower(language.Und)
	upperCaser = cases.Upper(language.Und)
)

// devNotes describes the testing approach from the test files.
func (e *engine) devNotes(inv inventory, sig *Signals) Fragment {
	frag := Fragment{
		Title:       "Development Notes",
		Lead:        []string{"Testing approach:"},
		Placeholder: noTestsPlaceholder,
	}

	if framework := detectFramework(inv); framework != "" {
		sig.TestFramework = framework
		frag.Lead = append(frag.Lead, "Using "+framework+" testing framework")
		// the framework line is a finding of its own
		frag.Placeholder = ""
	}

	seen := make(map[string]bool)
	for _, f := range inv.tests {
		for _, name := range testNames(f.Content) {
			if seen[name] {
				continue
			}
			seen[name] = true
			sig.TestCases = append(sig.TestCases, name)
			frag.Items = append(frag.Items, "- "+name)
		}
	}

	return frag
}

// detectFramework returns the first framework in table order that any test
// file uses.
func detectFramework(inv inventory) string {
	for _, fw := range testFrameworks {
		for _, f := range inv.tests {
			if fw.Pattern.MatchString(f.Content) {
				return fw.Name
			}
		}
	}
	return ""
}

// testNames returns readable names for the test cases in content, in
// source order.
func testNames(content string) []string {
	type match struct {
		at   int
		name string
	}

	var matches []match
	for _, loc := range snakeTestPattern.FindAllStringSubmatchIndex(content, -1) {
		raw := content[loc[2]:loc[3]]
		words := strings.ReplaceAll(strings.ReplaceAll(raw, "test_", ""), "_", " ")
		matches = append(matches, match{at: loc[0], name: sentenceCase(words)})
	}
	for _, loc := range goTestPattern.FindAllStringSubmatchIndex(content, -1) {
		raw := content[loc[2]:loc[3]]
		matches = append(matches, match{at: loc[0], name: sentenceCase(splitCamel(raw))})
	}

	// merge the two pattern results back into source order
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].at < matches[j-1].at; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.name != "" {
			names = append(names, m.name)
		}
	}
	return names
}

// sentenceCase lowercases s and capitalizes its first letter.
func sentenceCase(s string) string {
	s = strings.TrimSpace(lowerCaser.String(s))
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return upperCaser.String(s[:size]) + s[size:]
}

// splitCamel separates the words of a CamelCase identifier with spaces.
// Underscores also separate words.
func splitCamel(s string) string {
	runes := []rune(strings.ReplaceAll(s, "_", " "))

	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
