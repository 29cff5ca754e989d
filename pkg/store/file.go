package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/deployview/pkg/errors"
)

const recordFile = "record.json"

// FileStore keeps each record in its own directory:
//
//	<dir>/<id>/record.json
//	<dir>/<id>/diagram.<format>
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store requires a directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store dir")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store root.
func (s *FileStore) Dir() string { return s.dir }

// ArtifactPath returns where a record's artifact of the given format lives.
func (s *FileStore) ArtifactPath(id, format string) string {
	return filepath.Join(s.dir, id, "diagram."+format)
}

func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recDir := filepath.Join(s.dir, rec.ID)
	if err := os.MkdirAll(recDir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create record dir")
	}
	for format, data := range rec.Artifacts {
		if err := os.WriteFile(s.ArtifactPath(rec.ID, format), data, 0644); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "write %s artifact", format)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal record")
	}
	if err := os.WriteFile(filepath.Join(recDir, recordFile), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write record")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.readRecord(id)
	if err != nil {
		return nil, err
	}
	rec.Artifacts = make(map[string][]byte, len(rec.Formats))
	for _, format := range rec.Formats {
		data, err := os.ReadFile(s.ArtifactPath(id, format))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "read %s artifact", format)
		}
		rec.Artifacts[format] = data
	}
	return rec, nil
}

func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read store dir")
	}

	var recs []*Record
	for _, entry := range entries {
		if !entry.IsDir() || validateID(entry.Name()) != nil {
			continue
		}
		rec, err := s.readRecord(entry.Name())
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	sortNewestFirst(recs)
	return recs, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(s.dir, id)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "remove record")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) readRecord(id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id, recordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read record")
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse record %s", id)
	}
	return &rec, nil
}

var _ Store = (*FileStore)(nil)
