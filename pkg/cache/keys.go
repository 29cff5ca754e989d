package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys for the rendering pipeline.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of the given
	// DOT source hash.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change the artifact bytes
// for identical DOT input.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	// Converter identifies the external tool used for formats Graphviz does
	// not produce natively (pdf). Empty for native formats.
	Converter string `json:"converter,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the DOT hash together with the options.
func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal([]any{dotHash, opts})
	return "artifact:" + Hash(data)
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
