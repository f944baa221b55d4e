package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"humanSize": humanSize,
}).ParseFS(templateFS, "templates/report.html.tmpl"))

// RenderHTML writes the HTML comparison report for m. It is a stateless
// function of the model; it does not touch reconciliation state.
func RenderHTML(w io.Writer, m *Model) error {
	if err := reportTemplate.Execute(w, m); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}

// RenderHTMLFile renders the report to path, creating parent directories.
func RenderHTMLFile(path string, m *Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	if err := RenderHTML(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// humanSize formats a byte count for display.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
