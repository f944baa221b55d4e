package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// RenderJSON writes the report model as indented JSON, for machine
// consumption or piping into other tooling.
func RenderJSON(w io.Writer, m *Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("rendering json report: %w", err)
	}
	return nil
}
