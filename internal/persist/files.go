package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/nhle/project-tracker/internal/model"
)

const (
	// DefaultExportName is the file name used when no export path is given.
	DefaultExportName = "project-data.json"
	// ExportMIME is the media type of an export document.
	ExportMIME = "application/json"
)

var now = time.Now

// ImportError reports data that cannot be imported. The current collection
// is never touched when it is returned.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
	}
	return "import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// CheckSizeWarning returns the serialized size of c and whether it is above
// the size threshold, raising an advisory notice when it is.
func (g *Gateway) CheckSizeWarning(c model.Collection) (int, bool) {
	data, err := encode(c)
	if err != nil {
		return 0, false
	}
	size := len(data)

	g.mu.Lock()
	threshold := g.threshold
	g.mu.Unlock()
	if threshold <= 0 || size <= threshold {
		return size, false
	}

	g.log.Warn().Int("bytes", size).Int("threshold", threshold).Msg("stored data is large")
	g.notify(model.Notice{
		Level: model.NoticeWarning,
		Message: fmt.Sprintf(
			"Your data uses %s of storage. Consider exporting a backup and deleting old projects.",
			humanize.Bytes(uint64(size)),
		),
	})
	return size, true
}

// Export renders c as an indented JSON array.
func (g *Gateway) Export(c model.Collection) ([]byte, error) {
	if c == nil {
		c = model.Collection{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToFile writes the export document to path, or DefaultExportName
// when path is empty. The file is replaced atomically.
func (g *Gateway) ExportToFile(c model.Collection, path string) (string, error) {
	if path == "" {
		path = DefaultExportName
	}
	data, err := g.Export(c)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := g.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	tmp, err := afero.TempFile(g.fs, dir, ".project-data-*.json")
	if err != nil {
		return "", fmt.Errorf("creating temp export file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		g.fs.Remove(tmpName)
		return "", fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		g.fs.Remove(tmpName)
		return "", fmt.Errorf("closing export: %w", err)
	}
	if err := g.fs.Rename(tmpName, path); err != nil {
		g.fs.Remove(tmpName)
		return "", fmt.Errorf("renaming export into place: %w", err)
	}

	g.log.Info().Str("path", path).Int("bytes", len(data)).Str("mime", ExportMIME).Msg("exported projects")
	return path, nil
}

// utf8BOM is written at the start of files by some editors.
var utf8BOM = []byte("\ufeff")

// Import parses an export document. Only the top-level shape is checked;
// records are decoded as they are and missing priorities are defaulted.
func (g *Gateway) Import(data []byte) (model.Collection, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var probe any
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, &ImportError{Reason: "file is not valid JSON", Err: err}
		}
		return nil, &ImportError{Reason: "top-level value is not an array"}
	}

	var c model.Collection
	if err := json.Unmarshal(trimmed, &c); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ImportError{Reason: "file is not valid JSON", Err: err}
		}
		return nil, &ImportError{Reason: "records do not match the project format", Err: err}
	}
	if c == nil {
		c = model.Collection{}
	}
	for i := range c {
		c[i] = c[i].Normalize()
	}
	return c, nil
}

// ImportFromFile reads path and parses it with Import.
func (g *Gateway) ImportFromFile(path string) (model.Collection, error) {
	data, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return nil, &ImportError{Reason: "reading " + path, Err: err}
	}
	return g.Import(data)
}
