package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"parkapi/internal/env"
	"parkapi/pkg/lastvalues"
)

func TestOpenSource_File(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bonn.json"), []byte(`{"lots":[{"name":"Markt","total":"210"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	src, closeFn, err := OpenSource(context.Background(), &env.Config{Backend: env.BackendFile, CacheDir: dir})
	if err != nil {
		t.Fatalf("OpenSource returned error: %v", err)
	}
	defer closeFn()

	got, err := lastvalues.NewLookup(src).Total(context.Background(), "bonn", "Markt")
	if err != nil || got != 210 {
		t.Fatalf("Total(bonn, Markt) = (%d, %v); want (210, nil)", got, err)
	}
}

func TestOpenSource_UnknownBackend(t *testing.T) {
	if _, _, err := OpenSource(context.Background(), &env.Config{Backend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
