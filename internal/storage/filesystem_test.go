package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"uniformgen/internal/domain"
)

func TestCreateRefusesOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "http://localhost:8000")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	key, err := store.Create(context.Background(), "generated/a.png", []byte("first"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(context.Background(), key, []byte("second")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.BasePath(), "generated", "a.png"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("file overwritten: %q", data)
	}
	got, err := store.Read(context.Background(), key)
	if err != nil || string(got) != "first" {
		t.Fatalf("Read = %q, %v", got, err)
	}
	if _, err := store.Read(context.Background(), "../outside"); err == nil {
		t.Fatalf("Read should reject traversal")
	}
	if _, err := store.Read(context.Background(), "generated/absent.png"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "  ", "../etc/passwd", "a/../../b", ".."} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("sanitizeKey(%q) should fail", key)
		}
	}
	got, err := sanitizeKey("/generated//x.png")
	if err != nil || got != "generated/x.png" {
		t.Fatalf("sanitizeKey = %q, %v", got, err)
	}
}

func TestNewArtifactKeyIsUnique(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(context.Background(), NewArtifactKey("png"), []byte("x"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}
	entries, _ := os.ReadDir(filepath.Join(store.BasePath(), ArtifactPrefix))
	if len(entries) != 32 {
		t.Fatalf("entries = %d, want 32", len(entries))
	}
	if key := NewArtifactKey(""); !strings.HasPrefix(key, "generated/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestURL(t *testing.T) {
	store, _ := NewFileStore(t.TempDir(), "https://cdn.example.com/")
	if got := store.URL("generated/a.png"); got != "https://cdn.example.com/generated/a.png" {
		t.Fatalf("URL = %q", got)
	}
	relative, _ := NewFileStore(t.TempDir(), "")
	if got := relative.URL("generated/a.png"); got != "/generated/a.png" {
		t.Fatalf("URL = %q", got)
	}
}
