// Package config loads an optional YAML profile carrying defaults for the
// command-line flags. Values from the profile apply only where the flag was
// not given explicitly; the CLI resolves that precedence, the package just
// parses.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile mirrors the root command's flags. Pointer fields distinguish "not
// present in the file" from an explicit zero value.
type Profile struct {
	Input           string  `yaml:"input"`
	Output          string  `yaml:"output"`
	Report          string  `yaml:"report"`
	MinSize         *int    `yaml:"min-size"`
	ReplaceNewlines *bool   `yaml:"replace-newlines"`
	FixIncomplete   *bool   `yaml:"fix-incomplete"`
	ReportAll       *bool   `yaml:"report-all"`
	Unique          *bool   `yaml:"unique"`
	MaxDepth        *int    `yaml:"max-depth"`
	Decompress      *string `yaml:"decompress"`
}

// Load reads and parses the profile at path. Unknown keys are an error, so
// a typo in a profile fails loudly instead of silently carving with
// defaults.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &p, nil
}
