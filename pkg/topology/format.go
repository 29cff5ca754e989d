package topology

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/deployview/pkg/errors"
)

// Format is a topology file encoding.
type Format string

// Supported encodings.
const (
	JSON Format = "json"
	TOML Format = "toml"
	YAML Format = "yaml"
)

// Formats lists the supported encodings.
var Formats = []Format{JSON, TOML, YAML}

// ParseFormat parses a format name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	if f == "yml" {
		f = YAML
	}
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported topology format %q (use json, toml or yaml)", s)
	}
	return f, nil
}

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer topology format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// IsTopologyPath reports whether path has a topology file extension.
func IsTopologyPath(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

func invalid(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidTopology, err, format, args...)
}
