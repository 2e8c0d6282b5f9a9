package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"codex/internal/diag"
	"codex/internal/mode"
	"codex/internal/project"
)

const declAfterStatement = `int main(void)
{
    int x;
    x = 1;
    int y;
}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func testOptions(dir string) Options {
	return Options{Config: project.Default(), BaseDir: dir}
}

func shortOutput(res *Result) string {
	return diag.FormatShortDiagnostics(res.Bag.Pointers(), res.FileSet, false)
}

func TestAnalyzeReportsInInputOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.c": declAfterStatement,
		"b.c": "x = 42; // hi\n",
	})
	paths := []string{filepath.Join(dir, "b.c"), filepath.Join(dir, "a.c")}

	res, err := Analyze(context.Background(), paths, testOptions(dir))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := strings.Join([]string{
		"error SYN1001 b.c:1:9 C++ comments ('//') are not allowed in C89.",
		"error SYN1002 a.c:5:5 Variable declaration after a statement is not allowed in C89.",
	}, "\n")
	if got := shortOutput(res); got != want {
		t.Fatalf("output mismatch\n got: %s\nwant: %s", got, want)
	}
	if res.Analyzed() != 2 || res.Lines() != 7 {
		t.Fatalf("analyzed=%d lines=%d", res.Analyzed(), res.Lines())
	}
	if !res.Modes.Has(mode.C89) {
		t.Fatal("C89 must be the default mode")
	}
}

func TestAnalyzeParallelMatchesSequential(t *testing.T) {
	files := map[string]string{}
	var paths []string
	for _, name := range []string{"a.c", "b.c", "c.c", "d.c", "e.c", "f.c"} {
		files[name] = declAfterStatement + "y = 7;\n"
	}
	dir := writeFiles(t, files)
	for _, name := range []string{"f.c", "a.c", "e.c", "b.c", "d.c", "c.c"} {
		paths = append(paths, filepath.Join(dir, name))
	}

	seq, err := Analyze(context.Background(), paths, testOptions(dir))
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	opts := testOptions(dir)
	opts.Jobs = 4
	par, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if shortOutput(seq) != shortOutput(par) {
		t.Fatalf("parallel output differs\nseq:\n%s\npar:\n%s", shortOutput(seq), shortOutput(par))
	}
}

func TestAnalyzeUnreadableFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"ok.c": "x = y;\n"})
	paths := []string{filepath.Join(dir, "missing.c"), filepath.Join(dir, "ok.c")}

	res, err := Analyze(context.Background(), paths, testOptions(dir))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOReadFailed || items[0].Severity != diag.SevError {
		t.Fatalf("expected one IO7001 error, got %+v", items)
	}
	if res.Files[0].Err == nil || res.Files[1].Err != nil {
		t.Fatalf("unexpected file errors: %v / %v", res.Files[0].Err, res.Files[1].Err)
	}
	if res.Analyzed() != 1 {
		t.Fatalf("Analyzed() = %d, want 1", res.Analyzed())
	}
}

func TestAnalyzeBoundedBag(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.c": "x = 42;\ny = 43;\n",
		"b.c": "z = 44;\n",
	})
	opts := testOptions(dir)
	opts.Config.Output.MaxDiagnostics = 2
	res, err := Analyze(context.Background(), []string{filepath.Join(dir, "a.c"), filepath.Join(dir, "b.c")}, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Bag.Len() != 3 || !res.Bag.Overflowed() {
		t.Fatalf("len=%d overflowed=%v", res.Bag.Len(), res.Bag.Overflowed())
	}
	if last := res.Bag.Items()[2]; last.Code != diag.LimTooManyDiagnostics {
		t.Fatalf("last diagnostic = %v, want LIM6001", last.Code)
	}
}

func TestAnalyzeUsesDiskCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.c": declAfterStatement})
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	opts := testOptions(dir)
	opts.Cache = cache
	paths := []string{filepath.Join(dir, "a.c")}

	first, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Files[0].Cached || !second.Files[0].Cached {
		t.Fatalf("cached flags: first=%v second=%v", first.Files[0].Cached, second.Files[0].Cached)
	}
	if shortOutput(first) != shortOutput(second) || second.Lines() != first.Lines() {
		t.Fatalf("cached result differs\nfirst:\n%s\nsecond:\n%s", shortOutput(first), shortOutput(second))
	}

	// другие настройки - другой ключ
	opts.Config.SetModes(mode.Of(mode.C99))
	third, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.Files[0].Cached {
		t.Fatal("changing modes must miss the cache")
	}
	if third.Bag.Len() != 0 {
		t.Fatalf("C99 run should be clean, got:\n%s", shortOutput(third))
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.c": "x;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Analyze(ctx, []string{filepath.Join(dir, "a.c")}, testOptions(dir))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil || len(res.Files) != 1 || res.Files[0].Path == "" {
		t.Fatalf("expected a partial result, got %+v", res)
	}
}

func TestAnalyzeSource(t *testing.T) {
	opts := testOptions("")
	opts.Config.SetModes(mode.Of(mode.MemSafe))
	res, err := AnalyzeSource(context.Background(), "stdin.c", []byte("\xEF\xBB\xBFstrcpy(a, b);\r\n"), opts)
	if err != nil {
		t.Fatalf("AnalyzeSource: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.WrnUnsafeFunction || items[0].Primary.Col != 1 {
		t.Fatalf("unexpected diagnostics: %+v", items)
	}
}

func TestAnalyzeProgressEvents(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.c": "x;\n", "b.c": "y;\n"})
	var (
		mu     sync.Mutex
		counts = map[Status]int{}
	)
	opts := testOptions(dir)
	opts.Jobs = 2
	opts.Progress = SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		counts[ev.Status]++
	})
	if _, err := Analyze(context.Background(), []string{filepath.Join(dir, "a.c"), filepath.Join(dir, "b.c")}, opts); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if counts[StatusQueued] != 2 || counts[StatusWorking] != 2 || counts[StatusDone] != 2 {
		t.Fatalf("event counts = %v", counts)
	}
}

func TestResultTimings(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.c": "x;\n"})
	res, err := Analyze(context.Background(), []string{filepath.Join(dir, "a.c")}, testOptions(dir))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var b strings.Builder
	if err := res.WriteTimings(&b); err != nil {
		t.Fatalf("WriteTimings: %v", err)
	}
	for _, phase := range []string{"load", "scan", "merge", "total", "file"} {
		if !strings.Contains(b.String(), phase) {
			t.Errorf("timings lack %q:\n%s", phase, b.String())
		}
	}
	if _, err := res.TimingsJSON(); err != nil {
		t.Fatalf("TimingsJSON: %v", err)
	}
}
