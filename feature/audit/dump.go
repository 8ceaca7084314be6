package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"patrician/core/reconcile"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of an audit dump.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported audit format %q", s)
	}
}

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Dump writes the plan's updates grouped by source.
func Dump(w io.Writer, plan *reconcile.Plan, format Format) error {
	bySource := plan.BySource()

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(bySource); err != nil {
			return fmt.Errorf("failed to encode audit yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bySource); err != nil {
			return fmt.Errorf("failed to encode audit json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported audit format %q", format)
	}
}

// WriteFile dumps the plan to path, replacing any previous dump.
func WriteFile(path string, plan *reconcile.Plan, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audit file: %w", err)
	}
	if err := Dump(f, plan, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close audit file: %w", err)
	}
	return nil
}
