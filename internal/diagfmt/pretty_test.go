package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"codex/internal/diag"
	"codex/internal/source"
)

func oneDiag(t *testing.T, path, content string, d func(id source.FileID) diag.Diagnostic) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(10)
	bag.Add(d(id))
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := oneDiag(t, "/home/user/project/src/main.c", "int main(void)\n{\n    x++;\n    int y;\n}\n",
		func(id source.FileID) diag.Diagnostic {
			return diag.New(diag.SevError, diag.SynDeclAfterStatement, source.At(id, 4, 5),
				"Variable declaration after statement not allowed in C89")
		})
	fs.SetBaseDir("/home/user/project")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/main.c:4:5"},
		{"Relative path", PathModeRelative, "src/main.c:4:5"},
		{"Basename only", PathModeBasename, "main.c:4:5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SYN1002 [SYNTAX]") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestParsePathMode(t *testing.T) {
	for _, s := range []string{"auto", "absolute", "relative", "basename"} {
		m, err := ParsePathMode(s)
		if err != nil {
			t.Fatalf("ParsePathMode(%q): %v", s, err)
		}
		if m.String() != s {
			t.Errorf("round trip %q -> %q", s, m.String())
		}
	}
	if _, err := ParsePathMode("nope"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPrettyCaretAndContext(t *testing.T) {
	bag, fs := oneDiag(t, "a.c", "int a;\n\tint b; // c\n",
		func(id source.FileID) diag.Diagnostic {
			return diag.New(diag.SevError, diag.SynLineComment, source.At(id, 2, 9), "C++ style comment")
		})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[1] != " 1 | int a;" {
		t.Errorf("context line = %q", lines[1])
	}
	if lines[2] != " 2 |     int b; // c" {
		t.Errorf("source line = %q", lines[2])
	}
	// таб раскрывается до 4 пробелов, колонка 9 -> смещение 11
	if lines[3] != "   |            ^" {
		t.Errorf("caret line = %q", lines[3])
	}
}

func TestPrettyNoPosition(t *testing.T) {
	bag, fs := oneDiag(t, "gone.c", "",
		func(id source.FileID) diag.Diagnostic {
			return diag.New(diag.SevError, diag.IOReadFailed, source.At(id, 0, 0), "Could not read file: boom")
		})
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := "gone.c: ERROR IO7001 [IO]: Could not read file: boom\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	bag, fs := oneDiag(t, "test.c", "char *p = 0;\n",
		func(id source.FileID) diag.Diagnostic {
			return diag.New(diag.SevWarning, diag.StyPointerZero, source.At(id, 1, 11), "Use NULL instead of 0 for pointers").
				WithNote(source.At(id, 1, 7), "pointer declared here").
				WithFix("replace with NULL", "0", "NULL")
		})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	for _, want := range []string{
		"note: test.c:1:7: pointer declared here",
		"fix #1: replace with NULL",
		`apply="NULL"`,
		"preview:",
		"- char *p = 0;",
		"+ char *p = NULL;",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrettyWidth(t *testing.T) {
	bag, fs := oneDiag(t, "w.c", "int value_with_a_long_name = 12345;\n",
		func(id source.FileID) diag.Diagnostic {
			return diag.New(diag.SevWarning, diag.StyMagicNumber, source.At(id, 1, 30), "Magic number found.")
		})
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 10})
	if !strings.Contains(buf.String(), "int value…\n") {
		t.Errorf("expected truncated source line, got:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.c", []byte("// x\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SynLineComment, source.At(id, 1, 1), "C++ style comment"))
	bag.Add(diag.New(diag.SevError, diag.IOReadFailed, source.At(id, 0, 0), "Could not read file"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	want := "s.c:1:1: ERROR SYN1001: C++ style comment\ns.c: ERROR IO7001: Could not read file\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
