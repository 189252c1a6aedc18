package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"
)

// PublicPrefix is the URL path under which local uploads are served.
const PublicPrefix = "/uploads/"

// LocalStorage keeps uploads on disk and serves them under PublicPrefix.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates the upload directory if needed
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory uploads are written to.
func (s *LocalStorage) Root() string { return s.root }

// Save writes r to root/folder/filename
func (s *LocalStorage) Save(ctx context.Context, folder, filename string, r io.Reader) (*ports.StoredFile, error) {
	rel, err := cleanRelative(path.Join(folder, filename))
	if err != nil {
		return nil, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(full)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &ports.StoredFile{
		Filename: rel,
		URL:      s.baseURL + PublicPrefix + rel,
		Size:     n,
	}, nil
}

// Delete removes a previously saved file. filename is the value returned in
// StoredFile.Filename.
func (s *LocalStorage) Delete(ctx context.Context, filename string) error {
	rel, err := cleanRelative(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil {
		if os.IsNotExist(err) {
			return domain.NotFound("file", filename)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Open reads a stored file back, used by the compositor for local URLs.
func (s *LocalStorage) Open(filename string) (io.ReadCloser, error) {
	rel, err := cleanRelative(filename)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
}

// cleanRelative rejects names that would escape the upload root.
func cleanRelative(name string) (string, error) {
	name = strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == "" || strings.HasPrefix(cleaned, "..") {
		return "", domain.Invalid("Invalid filename")
	}
	return cleaned, nil
}

var _ ports.FileStorage = (*LocalStorage)(nil)
