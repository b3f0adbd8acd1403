// -- internal/reporting/reporter.go --
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"

	"github.com/xkilldash9x/scalpel-taint/api/schemas"
	"github.com/xkilldash9x/scalpel-taint/internal/config"
)

// Reporter writes analysis reports to an output.
type Reporter interface {
	// Write renders a report. Formats that hold a single document buffer it
	// until Close.
	Write(report *schemas.Report) error
	// Close flushes the output and closes any underlying file.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// isStdout reports whether an output path means standard output.
func isStdout(path string) bool {
	return path == "" || path == "-" || path == "stdout"
}

// New creates a reporter for format writing to outputPath. An empty path,
// "-" or "stdout" selects standard output; "~" is expanded in file paths.
func New(format, outputPath, toolVersion string) (Reporter, error) {
	switch format {
	case config.FormatJSON, config.FormatSARIF, config.FormatText:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var writer io.WriteCloser
	if isStdout(outputPath) {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		path, err := homedir.Expand(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand output path %s: %w", outputPath, err)
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
		}
		writer = f
	}
	return NewWithWriter(format, writer, toolVersion)
}

// NewWithWriter creates a reporter that takes ownership of writer.
func NewWithWriter(format string, writer io.WriteCloser, toolVersion string) (Reporter, error) {
	switch format {
	case config.FormatJSON:
		return NewJSONReporter(writer), nil
	case config.FormatSARIF:
		return NewSARIFReporter(writer, toolVersion), nil
	case config.FormatText:
		return NewTextReporter(writer), nil
	default:
		writer.Close()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
