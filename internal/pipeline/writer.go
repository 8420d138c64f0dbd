package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/schema"
)

// Stem returns the filename without directory and final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath returns where the record for input is written.
func OutputPath(outputDir, input string) string {
	return filepath.Join(outputDir, Stem(input)+".json")
}

// EncodeOutline renders an outline record: 2-space indent, no HTML
// escaping, non-ASCII text kept as-is.
func EncodeOutline(out doctree.Outline) ([]byte, error) {
	if out.Headings == nil {
		out.Headings = []doctree.Heading{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode outline: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteOutline encodes out, optionally validates it, and writes it to path.
func WriteOutline(path string, out doctree.Outline, validate bool) error {
	data, err := EncodeOutline(out)
	if err != nil {
		return err
	}
	if validate {
		if err := schema.Validate(data); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
