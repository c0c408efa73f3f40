package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1, err := fs.Add("test.h", []byte("hello world"), 0)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2, err := fs.Add("test.h", []byte("hello universe"), 0)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	if fs.Get(id2).ID != id2 {
		t.Errorf("Expected stored ID to be %d, got %d", id2, fs.Get(id2).ID)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestLoadRegistersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.h")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if file.Path != path || file.LineCount() != 2 || fs.Len() != 1 {
		t.Errorf("unexpected file %+v (len %d)", file, fs.Len())
	}
}

func TestDecodeKeepsBOMAndCRLF(t *testing.T) {
	content := []byte{0xEF, 0xBB, 0xBF, 'x', '\r', '\n', 'y', '\r', '\n'}
	f, err := Decode("bom.h", content)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag")
	}
	if f.Flags&FileHadCRLF == 0 {
		t.Error("Expected FileHadCRLF flag")
	}
	if len(f.Lines) != 2 || f.Lines[0] != "\ufeffx" || f.Lines[1] != "y" {
		t.Errorf("unexpected lines %q", f.Lines)
	}
	if len(f.Content) != len(content) {
		t.Errorf("raw content must be kept as is, got %d bytes", len(f.Content))
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Decode("bad.h", []byte("ok\n\xff\xfe\n"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if !strings.Contains(err.Error(), "byte offset 3") {
		t.Fatalf("error must carry the offset: %v", err)
	}
	if _, err := Decode("ok.h", []byte("\u0105\u2028\U0001F600\n")); err != nil {
		t.Fatalf("valid UTF-8 rejected: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	_, err := fs.Load(filepath.Join(t.TempDir(), "missing.h"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.cc")
	if err := os.WriteFile(path, []byte("int x;\n\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(f.Lines) != 2 || f.Lines[0] != "int x;" || f.Lines[1] != "" {
		t.Errorf("unexpected lines %q", f.Lines)
	}
}
