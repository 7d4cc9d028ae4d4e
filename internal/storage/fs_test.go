package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/mdxoutline/internal/apperr"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestCreateAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Create("note.mdx", content); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Read("note.mdx")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestCreateExistingIsAlreadyExists(t *testing.T) {
	s := tempVault(t)
	if err := s.Create("dup.md", []byte("a")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create("dup.md", []byte("b"))
	if !apperr.IsAlreadyExists(err) {
		t.Fatalf("second Create err = %v, want already exists", err)
	}
	got, _ := s.Read("dup.md")
	if string(got) != "a" {
		t.Errorf("content = %q, first writer should be kept", got)
	}
}

func TestCreateMakesParents(t *testing.T) {
	s := tempVault(t)
	if err := s.Create("a/b/c.mdx", []byte("deep")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Read("a/b/c.mdx")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestModify(t *testing.T) {
	s := tempVault(t)
	_ = s.Create("m.md", []byte("original content"))
	if err := s.Modify("m.md", []byte("updated content")); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	got, _ := s.Read("m.md")
	if string(got) != "updated content" {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, tmpPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestModifyMissing(t *testing.T) {
	s := tempVault(t)
	err := s.Modify("nope.md", []byte("x"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateDir(t *testing.T) {
	s := tempVault(t)
	if err := s.CreateDir(".outline/cache"); err != nil {
		t.Fatalf("CreateDir: %v", err)
	}
	e, err := s.Stat(".outline/cache")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !e.IsDir {
		t.Error("expected directory entry")
	}
	if err := s.CreateDir(".outline/cache"); !apperr.IsAlreadyExists(err) {
		t.Errorf("second CreateDir err = %v, want already exists", err)
	}
}

func TestStatMissing(t *testing.T) {
	s := tempVault(t)
	_, err := s.Stat("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	_ = s.Create("b.mdx", []byte("b"))
	_ = s.Create("sub/a.mdx", []byte("a"))
	_ = s.Create("readme.txt", []byte("txt"))
	_ = s.Create(".outline/cache/sub__a.md", []byte("# a"))

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(items), items)
	}
	if items[0].Path != "b.mdx" || items[1].Path != "readme.txt" || items[2].Path != "sub/a.mdx" {
		t.Errorf("paths = %v", items)
	}
	if items[2].Basename != "a" || items[2].Extension != "mdx" {
		t.Errorf("document = %+v", items[2])
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Create(p, []byte("x")); err == nil {
			t.Errorf("expected error for create at %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/mdxoutline-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "mdxoutline-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
