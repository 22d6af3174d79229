package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/tree"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	objectValue = "<object>"
	listValue   = "<list>"
)

// configuration lists the settings found in every configuration file.
func (e *engine) configuration(inv inventory, sig *Signals) Fragment {
	frag := Fragment{
		Title: "Configuration",
		Lead:  []string{"Required configuration:"},
	}

	for _, f := range inv.configs {
		var keys []ConfigKey
		if f.Kind == tree.TextKind {
			keys = e.configKeys(f)
		}

		frag.Items = append(frag.Items, "### "+f.Path)
		if len(keys) == 0 {
			frag.Items = append(frag.Items, noConfigPlaceholder)
			continue
		}

		for _, k := range keys {
			frag.Items = append(frag.Items, k.line())
		}
		sig.ConfigFiles = append(sig.ConfigFiles, ConfigFile{Path: f.Path, Keys: keys})
	}

	return frag
}

func (k ConfigKey) line() string {
	if !k.Env {
		return fmt.Sprintf("- `%s`: %s", k.Name, k.Value)
	}
	if k.Value == "" {
		return fmt.Sprintf("- `%s`: Required environment variable", k.Name)
	}
	return fmt.Sprintf("- `%s`: Required environment variable (default: %s)", k.Name, k.Value)
}

// configKeys picks a reader by extension. Structured formats that fail to
// parse fall back to the line scanner.
func (e *engine) configKeys(f tree.File) []ConfigKey {
	var (
		keys []ConfigKey
		err  error
	)

	switch ext(f.Name) {
	case ".json":
		keys, err = jsonKeys(f.Content)
	case ".yaml", ".yml":
		keys, err = yamlKeys(f.Content)
	case ".toml":
		keys, err = tomlKeys(f.Content)
	default:
		return scanConfigLines(f.Content)
	}

	if err != nil {
		e.log.WithFields(logger.Fields{
			"path":  f.Path,
			"error": err,
		}).Debug("Config file did not parse, scanning lines")
		return scanConfigLines(f.Content)
	}
	return keys
}

func jsonKeys(content string) ([]ConfigKey, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.Parse(content)
	if !root.IsObject() {
		return nil, nil
	}

	var keys []ConfigKey
	root.ForEach(func(k, v gjson.Result) bool {
		value := v.String()
		switch {
		case v.IsObject():
			value = objectValue
		case v.IsArray():
			value = listValue
		}
		keys = append(keys, ConfigKey{Name: k.String(), Value: value})
		return true
	})
	return keys, nil
}

func yamlKeys(content string) ([]ConfigKey, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, nil
	}

	m := doc.Content[0]
	keys := make([]ConfigKey, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}

		value := v.Value
		switch v.Kind {
		case yaml.MappingNode:
			value = objectValue
		case yaml.SequenceNode:
			value = listValue
		}
		keys = append(keys, ConfigKey{Name: k.Value, Value: value})
	}
	return keys, nil
}

func tomlKeys(content string) ([]ConfigKey, error) {
	var doc map[string]interface{}
	md, err := toml.Decode(content, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	var keys []ConfigKey
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}

		name := key[0]
		var value string
		switch v := doc[name].(type) {
		case map[string]interface{}:
			value = objectValue
		case []interface{}, []map[string]interface{}:
			value = listValue
		default:
			value = fmt.Sprint(v)
		}
		keys = append(keys, ConfigKey{Name: name, Value: value})
	}
	return keys, nil
}

// scanConfigLines finds environment variable assignments and the entries of
// config/settings literal blocks.
func scanConfigLines(content string) []ConfigKey {
	var keys []ConfigKey

	for _, line := range strings.Split(content, "\n") {
		m := envAssignPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if strings.HasPrefix(value, "=") {
			// comparison, not an assignment
			continue
		}
		keys = append(keys, ConfigKey{Name: m[1], Value: unquote(value), Env: true})
	}

	for _, loc := range blockOpenPattern.FindAllStringIndex(content, -1) {
		keys = append(keys, blockEntries(content[loc[1]:])...)
	}

	return keys
}

// blockEntries reads the entries of a literal block whose opening brace has
// already been consumed. Entries are split on commas and newlines at the
// block's own depth; nested literals stay inside their entry.
func blockEntries(body string) []ConfigKey {
	var (
		keys  []ConfigKey
		entry bytes.Buffer
		depth = 1
		quote byte
	)

	flush := func() {
		if k, ok := parseEntry(entry.String()); ok {
			keys = append(keys, k)
		}
		entry.Reset()
	}

	for i := 0; i < len(body); i++ {
		c := body[i]

		if quote != 0 {
			entry.WriteByte(c)
			if c == '\\' && i+1 < len(body) {
				i++
				entry.WriteByte(body[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}

		// comments run to the end of the line and may hold stray quotes
		if c == '#' || (c == '/' && i+1 < len(body) && body[i+1] == '/') {
			for i+1 < len(body) && body[i+1] != '\n' {
				i++
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
			if depth == 0 {
				flush()
				return keys
			}
		case ',', '\n':
			if depth == 1 {
				flush()
				continue
			}
		}
		entry.WriteByte(c)
	}

	// unterminated block: keep what was read
	flush()
	return keys
}

func parseEntry(s string) (ConfigKey, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") {
		return ConfigKey{}, false
	}

	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return ConfigKey{}, false
	}

	name = unquote(strings.TrimSpace(name))
	if name == "" {
		return ConfigKey{}, false
	}
	return ConfigKey{Name: name, Value: strings.TrimSpace(value)}, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
