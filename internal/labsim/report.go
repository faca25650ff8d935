package labsim

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteReport encodes r as YAML.
func WriteReport(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
