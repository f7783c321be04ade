// Package output prints response documents for humans.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Indent is the per-level indentation of printed documents.
const Indent = "  "

// Format re-serialises a JSON document with two-space indentation.
// Key order and number formatting of the input are preserved.
func Format(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", Indent); err != nil {
		return nil, fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Print writes the formatted document to w.
func Print(w io.Writer, raw []byte) error {
	formatted, err := Format(raw)
	if err != nil {
		return err
	}
	_, err = w.Write(formatted)
	return err
}
