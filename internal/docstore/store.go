// Package docstore persists named documents (specifications, phase records,
// reports) grouped into namespaces.
//
// The workflow engine only depends on the Store interface. FSStore maps
// namespaces to directories under a root and writes each document atomically
// under a cross-process file lock; MemoryStore keeps everything in memory and
// is used by tests and the MCP server's dry runs.
package docstore

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned by Read when a document does not exist
var ErrNotFound = errors.New("docstore: document not found")

// RootNamespace addresses documents stored directly under the store root
const RootNamespace = ""

// Store is the document persistence collaborator.
// Implementations surface their own errors unchanged.
type Store interface {
	// EnsureNamespace creates the namespace if it does not exist yet
	EnsureNamespace(name string) error

	// Write stores content under namespace/key, replacing any previous version
	Write(namespace, key string, content []byte) error

	// Read returns the content stored under namespace/key, or ErrNotFound
	Read(namespace, key string) ([]byte, error)
}

// documentPath joins namespace and key into a slash-separated relative path,
// rejecting names that would escape the store root.
func documentPath(namespace, key string) (string, error) {
	if key == "" {
		return "", errors.New("docstore: empty document key")
	}
	if err := checkName(namespace); err != nil {
		return "", err
	}
	if err := checkName(key); err != nil {
		return "", err
	}
	if namespace == RootNamespace {
		return key, nil
	}
	return path.Join(namespace, key), nil
}

func checkName(name string) error {
	if name == "" {
		return nil
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("docstore: invalid name %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("docstore: invalid name %q", name)
		}
	}
	return nil
}
