package convert

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/setup.sh.tmpl
var setupScript string

var setupTemplate = template.Must(template.New("setup.sh").Parse(setupScript))

// WriteSetupScript renders the executable setup.sh wrapper into dir.
func WriteSetupScript(dir, benchmarkName string) error {
	path := filepath.Join(dir, "setup.sh")
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	data := struct{ BenchmarkName string }{BenchmarkName: benchmarkName}
	if err := setupTemplate.Execute(out, data); err != nil {
		out.Close()
		return fmt.Errorf("rendering setup script: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
