package output

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// WriteDocument encodes v to w in the given format. Both formats follow the
// json struct tags of v. Table is not a document format and is rejected.
func WriteDocument(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML, "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("format %s not supported for document output", format)
	}
}
