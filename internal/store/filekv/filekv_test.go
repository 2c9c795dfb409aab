package filekv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		s, err := Open(dir)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := os.Stat(s.Dir()); err != nil {
			t.Errorf("data dir not created: %v", err)
		}
	})

	t.Run("empty dir returns error", func(t *testing.T) {
		if _, err := Open(""); err == nil {
			t.Fatal("expected error for empty dir")
		}
	})
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := s.Get(ctx, "tasks"); err != nil || ok {
		t.Fatalf("Get(missing): ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "tasks", []byte("[]\n")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != "[]\n" {
		t.Errorf("Get: got %q", got)
	}

	if err := s.Set(ctx, "tasks", []byte(`[{"title":"x"}]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _, _ = s.Get(ctx, "tasks")
	if string(got) != `[{"title":"x"}]` {
		t.Errorf("overwrite: got %q", got)
	}

	path, _ := s.Path("tasks")
	if filepath.Base(path) != "tasks.json" {
		t.Errorf("Path: got %s", path)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only tasks.json, found %d entries", len(entries))
	}
}

func TestInvalidKeys(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "  ", "../escape", `a\b`, ".."} {
		if err := s.Set(ctx, key, []byte("x")); err == nil {
			t.Errorf("Set(%q): expected error", key)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Set(ctx, "tasks", []byte("[]")); err == nil {
		t.Error("expected error for cancelled context")
	}
}
