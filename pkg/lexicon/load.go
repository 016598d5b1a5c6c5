package lexicon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Load reads a lexicon file. The format is chosen by extension: .toml or
// .json. Both map sense ids to entries:
//
//	["CAT-N1"]
//	word = "cat"
//	category = "N"
//	definition = "a small domesticated feline"
func Load(path string) (Static, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a lexicon in the given format from r. Entries without an
// explicit sense take their key.
func Decode(r io.Reader, format string) (Static, error) {
	entries := map[string]Entry{}
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode toml lexicon: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode json lexicon: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported lexicon format: %q", format)
	}

	out := make(Static, len(entries))
	for sense, e := range entries {
		if e.Sense == "" {
			e.Sense = sense
		}
		out[sense] = &e
	}
	return out, nil
}

func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case FormatTOML, FormatJSON:
		return ext, nil
	default:
		return "", fmt.Errorf("lexicon %s: unsupported extension %q (want .toml or .json)", path, filepath.Ext(path))
	}
}
