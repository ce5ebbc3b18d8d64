package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// List is a titled, ordered list of fetched items.
type List struct {
	Method   string   `json:"method" yaml:"method"`
	UserID   string   `json:"user_id" yaml:"user_id"`
	Title    string   `json:"-" yaml:"-"`
	Items    []string `json:"items" yaml:"items"`
	NewItems []string `json:"new_items,omitempty" yaml:"new_items,omitempty"`
}

// ParseFormat normalizes a format name.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected text, json or yaml)", name)
	}
}

// WriteList renders l in the given format. The text layout is a blank line,
// the title, then one "- item" line per entry.
func WriteList(w io.Writer, format string, l List) error {
	if l.Items == nil {
		l.Items = []string{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, l)
	case FormatYAML:
		return writeYAML(w, l)
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "\n%s\n", l.Title)
		for _, item := range l.Items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
}

// WriteRaw renders an untyped method payload. Text and JSON both print
// indented JSON.
func WriteRaw(w io.Writer, format string, payload json.RawMessage) error {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if format == FormatYAML {
		return writeYAML(w, v)
	}
	return writeJSON(w, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
