package services

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"learnpath-backend/internal/models"
)

// FileStore keeps uploaded content on disk, addressed by SHA-1 of the
// content. Two files with identical bytes share one blob.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file store root %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Save streams an upload into the store and returns the blob's path
// relative to the store root plus its size. Writing goes through a temp
// file so a failed upload never leaves a partial blob behind.
func (fs *FileStore) Save(r io.Reader) (string, int64, error) {
	tmp, err := os.CreateTemp(fs.root, "upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	h := sha1.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}
	hash := hex.EncodeToString(h.Sum(nil))

	rel := blobRelPath(hash)
	dest := filepath.Join(fs.root, rel)
	if _, err := os.Stat(dest); err == nil {
		return rel, size, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", 0, fmt.Errorf("failed to move blob into place: %w", err)
	}
	return rel, size, nil
}

// Open returns a reader over a stored file's content.
func (fs *FileStore) Open(f *models.StoredFile) (*os.File, error) {
	file, err := os.Open(filepath.Join(fs.root, f.DiskPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file %s: %w", f.FileName, err)
	}
	return file, nil
}

// Content reads a stored file fully into memory. Callers use it for
// small text blobs, not media.
func (fs *FileStore) Content(f *models.StoredFile) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(fs.root, f.DiskPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file %s: %w", f.FileName, err)
	}
	return content, nil
}

// Write stores raw bytes, used when content is generated server-side
// rather than uploaded.
func (fs *FileStore) Write(content []byte) (string, int64, error) {
	return fs.Save(bytes.NewReader(content))
}

func blobRelPath(hash string) string {
	if len(hash) < 4 {
		return hash
	}
	return filepath.Join(hash[0:2], hash[2:4], hash)
}
