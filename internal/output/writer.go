// Package output persists per-image OCR results: the verbatim response
// body as pretty-printed JSON and, when present, the extracted text as
// markdown.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persist writes <stem>.json (always) and <stem>.md (only when text is
// non-empty) into dir, creating it if needed. Existing files are fully
// overwritten; two inputs sharing a stem clobber each other.
func Persist(response json.RawMessage, text, dir, stem string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, response, "", "  "); err != nil {
		return fmt.Errorf("failed to format response JSON: %w", err)
	}

	jsonPath := filepath.Join(dir, stem+".json")
	if err := os.WriteFile(jsonPath, pretty.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	if text != "" {
		mdPath := filepath.Join(dir, stem+".md")
		if err := os.WriteFile(mdPath, []byte(text), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", mdPath, err)
		}
	}

	return nil
}

// Stem returns the output file stem for an image path: the base name
// without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
