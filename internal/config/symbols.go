// Package config loads the sample host's symbol-preload file: a small
// YAML document naming host symbols to map into a linker.Handle before
// Link runs, so a sample invocation can be smoke-tested without wiring
// up the rest of a real host environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Symbol is one preload entry. Addr is optional; a zero value means
// "map the name with address 0", which is a legitimate (if useless)
// host symbol and is not treated as "absent".
type Symbol struct {
	Name string `yaml:"name"`
	Addr uint32 `yaml:"addr"`
}

// SymbolFile is the top-level document shape.
type SymbolFile struct {
	Symbols []Symbol `yaml:"symbols"`
}

// LoadSymbols reads and parses a symbol-preload file at path.
func LoadSymbols(path string) ([]Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f SymbolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	for i, s := range f.Symbols {
		if s.Name == "" {
			return nil, fmt.Errorf("config: %s: symbol at index %d has no name", path, i)
		}
	}

	return f.Symbols, nil
}
