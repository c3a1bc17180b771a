package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileLocks serializes writers of the same path inside the process.
var fileLocks sync.Map

// FileStore keeps all origins of a device in one JSON document:
// {"<origin>": {"<key>": "<value>"}}. Writes replace the file atomically.
type FileStore struct {
	path   string
	origin string
	mu     *sync.Mutex
}

// NewFile returns a store persisted at path for origin. The file is created on first write.
func NewFile(path, origin string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: empty file path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", path, err)
	}
	mu, _ := fileLocks.LoadOrStore(abs, &sync.Mutex{})
	return &FileStore{path: abs, origin: origin, mu: mu.(*sync.Mutex)}, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := doc[s.origin][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc[s.origin] == nil {
		doc[s.origin] = map[string]string{}
	}
	doc[s.origin][key] = value
	return s.save(doc)
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc[s.origin][key]; !ok {
		return nil
	}
	delete(doc[s.origin], key)
	if len(doc[s.origin]) == 0 {
		delete(doc, s.origin)
	}
	return s.save(doc)
}

func (s *FileStore) load() (map[string]map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", s.path, err)
	}
	doc := map[string]map[string]string{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) save(doc map[string]map[string]string) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}
