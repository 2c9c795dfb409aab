package sqlkv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenMySQLRequiresDSN(t *testing.T) {
	if _, err := OpenMySQL("  "); err == nil {
		t.Fatal("expected error")
	}
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "taskman.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return s, path
}

func TestOpenRunsMigrations(t *testing.T) {
	_, path := openTestStore(t)

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	var name string
	err = sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv'`).Scan(&name)
	if err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "tasks"); err != nil || ok {
		t.Fatalf("Get(missing): ok=%v err=%v", ok, err)
	}

	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	if err := s.Set(ctx, "tasks", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "tasks", []byte(`[{"title":"a"}]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"title":"a"}]` {
		t.Errorf("Get: got %q", got)
	}

	at, ok, err := s.UpdatedAt(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("UpdatedAt: ok=%v err=%v", ok, err)
	}
	if at.UnixMilli() != 1_700_000_000_000 {
		t.Errorf("UpdatedAt: got %v", at)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "tasks", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "theme-mode", []byte(`"dark"`)); err != nil {
		t.Fatal(err)
	}
	got, _, _ := s.Get(ctx, "theme-mode")
	if string(got) != `"dark"` {
		t.Errorf("theme-mode: got %q", got)
	}
	got, _, _ = s.Get(ctx, "tasks")
	if string(got) != "[]" {
		t.Errorf("tasks: got %q", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskman.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "tasks", []byte("[1]")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok || string(got) != "[1]" {
		t.Errorf("after reopen: got %q ok=%v err=%v", got, ok, err)
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	s, _ := openTestStore(t)
	if err := s.Set(context.Background(), " ", []byte("x")); err == nil {
		t.Error("expected error for empty key")
	}
	if _, _, err := s.Get(context.Background(), ""); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	if _, ok, err := s.UpdatedAt(ctx, "tasks"); err != nil || ok {
		t.Errorf("missing key: ok=%v err=%v", ok, err)
	}
	if _, _, err := s.UpdatedAt(ctx, " "); err == nil {
		t.Error("expected error for empty key")
	}

	var unset *Store
	if _, _, err := unset.UpdatedAt(ctx, "tasks"); err == nil {
		t.Error("expected error for nil store")
	}
}
