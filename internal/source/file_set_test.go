package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.c", []byte("int x;"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("main.c", []byte("int y;"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	if got := fs.Get(id2).Path; got != "main.c" {
		t.Errorf("Expected second version path 'main.c', got %q", got)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "int x;" {
		t.Errorf("Expected first file content 'int x;', got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.c", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", file.LineCount())
	}
}

func TestGetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(3) != nil {
		t.Fatal("Expected nil for unknown FileID")
	}
	if fs.PathOf(3, "auto") != "" {
		t.Fatal("Expected empty path for unknown FileID")
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.c", []byte("first\nsecond\nthird"))
	file := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := file.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	file1 := fs.Get(fs.AddVirtual("empty.c", []byte{}))
	if len(file1.LineIdx) != 0 || file1.LineCount() != 0 {
		t.Errorf("Expected empty file to have no lines, got %v", file1.LineIdx)
	}

	file2 := fs.Get(fs.AddVirtual("no_newlines.c", []byte("hello")))
	if len(file2.LineIdx) != 0 || file2.LineCount() != 1 {
		t.Errorf("Expected one line without index entries, got %v", file2.LineIdx)
	}

	file3 := fs.Get(fs.AddVirtual("only_newline.c", []byte("\n")))
	if len(file3.LineIdx) != 1 || file3.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", file3.LineIdx)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.c")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.Load(writeTemp(t, "a\nb\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.Flags != 0 {
		t.Errorf("Expected no flags, got %b", file.Flags)
	}
}

func TestLoadBOMAndCRLF(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.Load(writeTemp(t, "\xEF\xBB\xBFa\r\nb\r\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
}

func TestLoadLatin1(t *testing.T) {
	fs := NewFileSet()
	// 0xE9 = 'é' в ISO-8859-1, невалидный UTF-8
	id, err := fs.Load(writeTemp(t, "/* caf\xE9 */\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "/* café */\n" {
		t.Errorf("Expected decoded content, got %q", string(file.Content))
	}
	if file.Flags&FileDecodedLatin1 == 0 {
		t.Error("Expected FileDecodedLatin1 flag to be set")
	}
}

func TestLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.c")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}
