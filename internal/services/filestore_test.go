package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learnpath-backend/internal/models"
)

func TestFileStoreSaveAndContent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rel, size, err := store.Save(strings.NewReader("transcript body"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if size != int64(len("transcript body")) {
		t.Errorf("Expected size %d, got %d", len("transcript body"), size)
	}

	// Blobs live two directory levels deep, named by content hash.
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		t.Errorf("Expected ab/cd/hash layout, got %q", rel)
	}
	if !strings.HasPrefix(parts[2], parts[0]+parts[1]) {
		t.Errorf("Expected blob name to start with its directory prefix, got %q", rel)
	}

	content, err := store.Content(&models.StoredFile{FileName: "t.txt", DiskPath: rel})
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if string(content) != "transcript body" {
		t.Errorf("Expected %q, got %q", "transcript body", string(content))
	}
}

func TestFileStoreDeduplicates(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	first, _, err := store.Save(strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	second, _, err := store.Save(strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected identical content to share a blob, got %q and %q", first, second)
	}
}

func TestFileStoreNoTempLeftovers(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, _, err := store.Write([]byte("blob")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read store root: %v", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			t.Errorf("Expected no stray files in store root, found %q", entry.Name())
		}
	}
}
