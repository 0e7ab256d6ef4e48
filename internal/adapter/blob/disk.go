// Package blob implements a path-addressed object store on the local
// filesystem. Each object is written alongside a small metadata sidecar
// carrying its content type and cache-control hint, mirroring what a hosted
// bucket would keep as object attributes.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

const metaSuffix = ".meta"

type metadata struct {
	ContentType  string `json:"contentType,omitempty"`
	CacheControl string `json:"cacheControl,omitempty"`
}

// DiskStore stores blobs under a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Put writes payload to the given object path, replacing any existing object.
func (s *DiskStore) Put(_ context.Context, path string, payload []byte, contentType, cacheControl string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(full, payload, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", path, err)
	}

	meta, err := json.Marshal(metadata{ContentType: contentType, CacheControl: cacheControl})
	if err != nil {
		return fmt.Errorf("marshal blob metadata: %w", err)
	}
	if err := os.WriteFile(full+metaSuffix, meta, 0o644); err != nil {
		return fmt.Errorf("write blob metadata %s: %w", path, err)
	}
	return nil
}

// resolve maps an object path onto the filesystem, rejecting paths that would
// escape the root.
func (s *DiskStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(s.root, cleaned), nil
}
