package topology

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
)

// Encode serializes a document in the given format.
func Encode(doc Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case TOML:
		err = toml.NewEncoder(&buf).Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported topology format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
	}
	return buf.Bytes(), nil
}

// Write encodes a diagram and writes it to w.
func Write(w io.Writer, d *diagram.Diagram, f Format) error {
	data, err := Encode(FromDiagram(d), f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes a diagram to path, inferring the format from its
// extension. Parent directories are created as needed.
func WriteFile(path string, d *diagram.Diagram) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(FromDiagram(d), f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	return os.WriteFile(path, data, 0644)
}
