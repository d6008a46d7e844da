package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/figurine/pkg/errors"
)

// FileStore writes objects below a root directory.
type FileStore struct {
	root    string
	baseURL string
}

// NewFileStore creates a store rooted at root. URLs are baseURL joined with
// the key; an empty baseURL yields site-absolute paths such as
// "/postimages/charts/post-1.svg".
func NewFileStore(root, baseURL string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a root directory")
	}
	if baseURL != "" {
		if err := errors.ValidateURL(baseURL); err != nil {
			return nil, err
		}
	}
	return &FileStore{root: root, baseURL: baseURL}, nil
}

// Root returns the directory objects are written under.
func (s *FileStore) Root() string { return s.root }

// Put writes data to root/key.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := errors.ValidatePath(key); err != nil {
		return "", err
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return joinURL(s.baseURL, key), nil
}

var _ Store = (*FileStore)(nil)
