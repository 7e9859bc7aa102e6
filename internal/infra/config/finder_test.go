package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

func TestFind_FromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "scans")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := filepath.Join(root, DefaultFileName)
	if err := os.WriteFile(want, []byte("workers: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Find(nested, "")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFind_IgnoresDirectoryWithSameName(t *testing.T) {
	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "x", "subfind-test-marker.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := Find(filepath.Join(tmp, "x"), "subfind-test-marker.yaml")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestFind_Empty(t *testing.T) {
	if _, err := Find("", ""); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}
