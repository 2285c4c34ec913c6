// Package export writes result sets to downloadable files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kingrea/casegen/internal/result"
)

// SheetName is the single worksheet written by the XLSX encoder.
const SheetName = "TestCases"

// Encoder serializes a result set in one file format.
type Encoder interface {
	Extension() string
	ContentType() string
	Encode(w io.Writer, set *result.Set) error
}

// FilePrefix names an export after the module and the local timestamp.
func FilePrefix(moduleID string, t time.Time) string {
	return fmt.Sprintf("%s_test_cases_%s", moduleID, t.Format("2006-01-02_150405"))
}

// WriteFiles encodes set once per encoder into dir and returns the written
// paths. A partially written file is removed.
func WriteFiles(dir, prefix string, set *result.Set, encoders ...Encoder) ([]string, error) {
	if len(encoders) == 0 {
		return nil, fmt.Errorf("export: no encoders")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(encoders))
	for _, enc := range encoders {
		path := filepath.Join(dir, prefix+enc.Extension())
		if err := writeFile(path, set, enc); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, set *result.Set, enc Encoder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := enc.Encode(f, set); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// ByName returns the encoder for a format name ("xlsx" or "csv").
func ByName(name string) (Encoder, error) {
	switch name {
	case "xlsx":
		return XLSX{}, nil
	case "csv":
		return CSV{}, nil
	default:
		return nil, fmt.Errorf("export: unknown format %q", name)
	}
}
