package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize is the number of documents kept by the read cache
const defaultCacheSize = 256

// FSStore stores documents as files below a root directory.
// Namespaces are subdirectories. Writes take an exclusive lock on
// "<file>.lock" and replace the file via temp-file-and-rename so readers in
// other processes never see a partial document.
type FSStore struct {
	root  string
	cache *lru.Cache[string, cachedDoc]
}

// cachedDoc is a document body plus the file it was read from. An entry is
// only served while the file on disk is still that same file.
type cachedDoc struct {
	data []byte
	info os.FileInfo
}

func (c cachedDoc) current(info os.FileInfo) bool {
	return os.SameFile(c.info, info) &&
		c.info.Size() == info.Size() &&
		c.info.ModTime().Equal(info.ModTime())
}

// NewFSStore creates a store rooted at root, creating the directory if needed
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, errors.New("docstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root %s: %w", root, err)
	}

	cache, err := lru.New[string, cachedDoc](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create read cache: %w", err)
	}

	return &FSStore{root: root, cache: cache}, nil
}

// Root returns the directory the store writes into
func (s *FSStore) Root() string {
	return s.root
}

// Path returns the filesystem path of namespace/key
func (s *FSStore) Path(namespace, key string) (string, error) {
	rel, err := documentPath(namespace, key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

// EnsureNamespace creates the namespace directory
func (s *FSStore) EnsureNamespace(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dir := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}

// Write locks the document, writes it atomically and refreshes the read cache
func (s *FSStore) Write(namespace, key string, content []byte) error {
	target, err := s.Path(namespace, key)
	if err != nil {
		return err
	}

	lock := flock.New(target + ".lock")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", target, err)
	}
	defer lock.Unlock()

	if err := atomicWrite(target, content); err != nil {
		s.cache.Remove(target)
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		s.cache.Remove(target)
		return nil
	}
	stored := make([]byte, len(content))
	copy(stored, content)
	s.cache.Add(target, cachedDoc{data: stored, info: info})
	return nil
}

// Read returns the document content. Cached bodies are served only while the
// file still has the identity, size and modification time seen when it was
// cached, so writes by other processes sharing the root are picked up.
func (s *FSStore) Read(namespace, key string) ([]byte, error) {
	target, err := s.Path(namespace, key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		s.cache.Remove(target)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", namespace, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if cached, ok := s.cache.Get(target); ok && cached.current(info) {
		return append([]byte(nil), cached.data...), nil
	}

	data, err := os.ReadFile(target)
	if err != nil {
		s.cache.Remove(target)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", namespace, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}

	s.cache.Add(target, cachedDoc{data: data, info: info})
	return append([]byte(nil), data...), nil
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over the target. The original file is left untouched on failure.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Renamed; nothing left to clean up
	tempFile = nil
	return nil
}
