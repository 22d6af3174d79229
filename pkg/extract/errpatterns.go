package extract

import (
	"sort"
	"strings"
)

// errorHandling collects custom error types and the conditions handlers
// catch, across all text files.
func (e *engine) errorHandling(inv inventory, sig *Signals) Fragment {
	types := make(map[string]bool)
	handled := make(map[string]bool)

	for _, f := range inv.text {
		for _, p := range errorTypePatterns {
			for _, m := range p.FindAllStringSubmatch(f.Content, -1) {
				types[m[1]] = true
			}
		}

		for _, p := range handlerPatterns {
			for _, m := range p.FindAllStringSubmatch(f.Content, -1) {
				for _, name := range strings.FieldsFunc(m[1], isHandlerSeparator) {
					if name = strings.TrimSpace(name); name != "" {
						handled[name] = true
					}
				}
			}
		}
	}

	sig.ErrorTypes = sortedKeys(types)
	sig.HandledErrors = sortedKeys(handled)

	items := make([]string, 0, len(types)+len(handled))
	for _, name := range sig.ErrorTypes {
		items = append(items, "- Custom exception: `"+name+"`")
	}
	for _, name := range sig.HandledErrors {
		items = append(items, "- Handles: `"+name+"`")
	}

	return Fragment{
		Title:       "Error Handling",
		Items:       items,
		Placeholder: noErrorsPlaceholder,
	}
}

func isHandlerSeparator(r rune) bool {
	return r == ',' || r == '|'
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
