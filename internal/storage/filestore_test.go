package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return store
}

func TestFileStorePutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := []byte("fake png bytes")
	if err := store.Put(ctx, "thumbnails/1/a.png", bytes.NewReader(payload), int64(len(payload)), "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}

	reader, contentType, err := store.Get(ctx, "thumbnails/1/a.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer reader.Close()

	if contentType != "image/png" {
		t.Fatalf("expected image/png, got %q", contentType)
	}
	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestFileStoreGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get(context.Background(), "thumbnails/1/missing.png")
	if !IsNoSuchKey(err) {
		t.Fatalf("expected no-such-key error, got %v", err)
	}
}

func TestFileStoreDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := []byte("x")
	if err := store.Put(ctx, "exports/1/a.pdf", bytes.NewReader(payload), 1, "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.Delete(ctx, "exports/1/a.pdf"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, "exports/1/a.pdf"); err != nil {
		t.Fatalf("second delete must succeed: %v", err)
	}
	if err := store.Delete(ctx, ""); err != nil {
		t.Fatalf("blank key delete must succeed: %v", err)
	}

	if _, _, err := store.Get(ctx, "exports/1/a.pdf"); !IsNoSuchKey(err) {
		t.Fatalf("expected object gone, got %v", err)
	}
}

func TestFileStoreRejectsTraversalKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Put(ctx, "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	if err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "a.bin", strings.NewReader("one"), 3, "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "a.bin", strings.NewReader("two"), 3, "application/octet-stream"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	reader, contentType, err := store.Get(ctx, "a.bin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer reader.Close()

	got, _ := io.ReadAll(reader)
	if string(got) != "two" || contentType != "application/octet-stream" {
		t.Fatalf("overwrite not applied: %q %q", got, contentType)
	}
}
