package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tmrview/pkg/tmr"
)

// WriteOutputs encodes formatted interpretations as an indented JSON list
// and writes it to w. The output can be re-read with [ReadOutputs].
func WriteOutputs(outputs []tmr.Output, w io.Writer) error {
	if outputs == nil {
		outputs = []tmr.Output{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(outputs); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportOutputs writes formatted interpretations to a JSON file at path.
// This is a convenience wrapper around [WriteOutputs] for file-based output.
func ExportOutputs(outputs []tmr.Output, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteOutputs(outputs, f)
}
