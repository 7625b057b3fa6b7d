package viewer

import (
	"errors"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Durable store keys for the last-known viewer geometry. No other persisted
// state exists.
const (
	KeyLocation = "doc2fields-viewer-location"
	KeySize     = "doc2fields-viewer-size"
)

// Store is a small durable key-value store. Values are the JSON envelope
// text as sent by the viewer.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

var _ Store = (*FileStore)(nil)

// FileStore persists keys as a YAML mapping in a single file.
type FileStore struct {
	mu sync.Mutex

	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()

	if err != nil {
		return "", false
	}

	value, ok := values[key]
	return value, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()

	if err != nil {
		return err
	}

	values[key] = value

	data, err := yaml.Marshal(values)

	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)

	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, err
	}

	values := map[string]string{}

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	return values, nil
}
