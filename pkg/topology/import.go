package topology

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
)

// Decode parses a topology document in the given format.
// Unknown fields are rejected so typos in hand-written files surface early.
func Decode(data []byte, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case TOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &doc)
		if err == nil {
			if undec := md.Undecoded(); len(undec) > 0 {
				return Document{}, errors.New(errors.ErrCodeInvalidTopology, "unknown field %q", undec[0].String())
			}
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported topology format %q", f)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidTopology, err, "decode %s", f)
	}
	return doc, nil
}

// Read decodes a topology from r and builds the diagram.
// Read does not close r.
func Read(r io.Reader, f Format) (*diagram.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read topology")
	}
	doc, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	return doc.ToDiagram()
}

// ReadFile reads a topology file, inferring the format from its extension.
func ReadFile(path string) (*diagram.Diagram, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()
	return Read(file, f)
}
