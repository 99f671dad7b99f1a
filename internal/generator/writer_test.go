package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m2rads/e2e/pkg/types"
)

func TestWriteAllNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	written, errs := w.WriteAll([]types.Artifact{
		{Filename: "tests/auth/login.spec.ts", Content: "test body"},
		{Filename: "smoke.spec.ts", Content: "smoke"},
	})
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if len(written) != 2 {
		t.Fatalf("Expected 2 written paths, got %d", len(written))
	}

	data, err := os.ReadFile(filepath.Join(dir, "tests", "auth", "login.spec.ts"))
	if err != nil {
		t.Fatalf("Failed to read nested artifact: %v", err)
	}
	if string(data) != "test body" {
		t.Errorf("Expected content %q, got %q", "test body", string(data))
	}
}

func TestWriteAllRejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	written, errs := w.WriteAll([]types.Artifact{
		{Filename: "../outside.spec.ts", Content: "nope"},
		{Filename: "/etc/passwd", Content: "nope"},
		{Filename: "inside.spec.ts", Content: "ok"},
	})
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors for escaping paths, got %d: %v", len(errs), errs)
	}
	if len(written) != 1 {
		t.Fatalf("Expected 1 written path, got %d", len(written))
	}
	if _, err := os.Stat(filepath.Join(dir, "inside.spec.ts")); err != nil {
		t.Errorf("Safe artifact should still be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "outside.spec.ts")); err == nil {
		t.Error("Escaping artifact must not be written outside the output directory")
	}
}

func TestWriteAllFailureDoesNotBlockOthers(t *testing.T) {
	dir := t.TempDir()
	// A file where a directory is needed forces MkdirAll to fail for the
	// second artifact only.
	if err := os.WriteFile(filepath.Join(dir, "blocked"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(dir, nil)

	written, errs := w.WriteAll([]types.Artifact{
		{Filename: "first.spec.ts", Content: "a"},
		{Filename: "blocked/nested.spec.ts", Content: "b"},
		{Filename: "third.spec.ts", Content: "c"},
	})
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
	}
	if len(written) != 2 {
		t.Fatalf("Expected 2 written paths, got %d", len(written))
	}
}
