package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"codex/internal/diag"
	"codex/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte("char *p = 0;\n"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.StyPointerZero, source.At(id, 1, 11), "Use NULL instead of 0 for pointers").
		WithFix("replace with NULL", "0", "NULL")
	d.Excerpt = "char *p = 0;"
	bag.Add(d)
	bag.Add(diag.New(diag.SevError, diag.SynLineComment, source.At(id, 1, 1), "C++ style comment"))

	var buf bytes.Buffer
	opts := JSONOpts{PathMode: PathModeBasename, IncludeFixes: true, IncludePreviews: true, IncludeExcerpts: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || output.Errors != 1 || output.Warnings != 1 {
		t.Errorf("counts = %d/%d/%d", output.Count, output.Errors, output.Warnings)
	}

	got := output.Diagnostics[0]
	if got.Severity != "WARNING" || got.Code != "STY2004" || got.Kind != "STYLE" {
		t.Errorf("unexpected header fields: %+v", got)
	}
	if got.Location != (LocationJSON{File: "test.c", Line: 1, Column: 11}) {
		t.Errorf("location = %+v", got.Location)
	}
	if got.Excerpt != "char *p = 0;" {
		t.Errorf("excerpt = %q", got.Excerpt)
	}
	if len(got.Fixes) != 1 || got.Fixes[0].After != "char *p = NULL;" {
		t.Errorf("fixes = %+v", got.Fixes)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.c", []byte("x\n"))
	bag := diag.NewBag(10)
	for i := range 3 {
		bag.Add(diag.New(diag.SevInfo, diag.InfEcho, source.At(id, 1, uint32(i+1)), "echo"))
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || !out.Truncated {
		t.Errorf("count=%d truncated=%v", out.Count, out.Truncated)
	}
}

func TestJSONEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(1), source.NewFileSet(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"diagnostics": []`)) {
		t.Errorf("expected empty array, got %s", buf.String())
	}
}
