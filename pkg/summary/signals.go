package summary

import (
	"bytes"
	"fmt"

	"github.com/sliday/git2md/pkg/extract"
	"gopkg.in/yaml.v3"
)

// MarshalSignals renders the extracted signals as YAML.
func MarshalSignals(s extract.Signals) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to marshal signals: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal signals: %w", err)
	}
	return buf.Bytes(), nil
}
