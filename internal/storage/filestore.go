package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps blobs as files under a local uploads directory. Keys
// may contain slashes; each segment becomes a subdirectory. A sidecar
// file records the content type next to each object.
type FileStore struct {
	root string
}

type fileMeta struct {
	ContentType string `json:"contentType"`
}

// NewFileStore creates the uploads directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir %q: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes the payload and its content-type sidecar.
func (s *FileStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create object %q: %w", key, err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close object %q: %w", key, err)
	}

	meta, err := json.Marshal(fileMeta{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("marshal object meta: %w", err)
	}
	if err := os.WriteFile(path+".meta", meta, 0o644); err != nil {
		return fmt.Errorf("write object meta %q: %w", key, err)
	}
	return nil
}

// Get opens the object file and reads its sidecar content type.
func (s *FileStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("object %q: %w", key, ErrNoSuchKey)
		}
		return nil, "", fmt.Errorf("open object %q: %w", key, err)
	}

	contentType := "application/octet-stream"
	if raw, metaErr := os.ReadFile(path + ".meta"); metaErr == nil {
		var meta fileMeta
		if json.Unmarshal(raw, &meta) == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}

	return file, contentType, nil
}

// Delete unlinks the object and its sidecar. Missing files count as
// success.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	if err := os.Remove(path + ".meta"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object meta %q: %w", key, err)
	}
	return nil
}
