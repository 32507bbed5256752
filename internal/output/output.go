package output

import (
	"fmt"
	"io"
	"os"

	"github.com/prdoc/prdoc/internal/report"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, r *report.Report) error
}

// WriteReport writes the report to the specified output path; "-" selects
// stdout.
func WriteReport(r *report.Report, outPath string) error {
	writer := &MarkdownWriter{}

	if outPath == "-" || outPath == "" {
		return writer.Write(os.Stdout, r)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := writer.Write(f, r); err != nil {
		return err
	}
	return f.Close()
}
