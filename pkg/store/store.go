// Package store persists published diagrams.
//
// A published [Record] holds the topology that produced a diagram together
// with its rendered artifacts, under a generated ID. Two backends are
// available:
//   - file: one directory per record, with the artifacts as plain files
//   - mongo: one MongoDB document per record
//
// # Usage
//
//	st, err := store.Open(ctx, store.Options{Backend: store.BackendFile, Dir: dir})
//	rec := store.NewRecord(d, result.DOTHash, result.Artifacts)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//	fmt.Println("published", rec.ID)
package store

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/topology"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Record is a published diagram.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name,omitempty" bson:"name,omitempty"`
	Title     string            `json:"title" bson:"title"`
	DOTHash   string            `json:"dot_hash" bson:"dot_hash"`
	Formats   []string          `json:"formats" bson:"formats"`
	Topology  topology.Document `json:"topology" bson:"topology"`
	Artifacts map[string][]byte `json:"-" bson:"artifacts,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// NewRecord creates a record with a fresh ID for the given diagram and its
// rendered artifacts.
func NewRecord(d *diagram.Diagram, dotHash string, artifacts map[string][]byte) *Record {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	return &Record{
		ID:        uuid.NewString(),
		Name:      d.Name,
		Title:     d.Title,
		DOTHash:   dotHash,
		Formats:   formats,
		Topology:  topology.FromDiagram(d),
		Artifacts: artifacts,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for published-diagram backends.
type Store interface {
	// Put stores a record, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record with its artifacts.
	// Returns a NOT_FOUND error if the record does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first, without artifacts.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Options configures [Open].
type Options struct {
	Backend    string
	Dir        string
	MongoURI   string
	Database   string
	Collection string
}

// Open creates the store selected by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        opts.MongoURI,
			Database:   opts.Database,
			Collection: opts.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q (must be %s or %s)", opts.Backend, BackendFile, BackendMongo)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid record id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "record %s not found", id)
}

func sortNewestFirst(recs []*Record) {
	slices.SortStableFunc(recs, func(a, b *Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
