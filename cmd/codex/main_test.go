package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	code = execute(context.Background(), root, args)
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLintExitCodes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clean := writeSource(t, dir, "clean.c", "int x;\n")
	dirty := writeSource(t, dir, "dirty.c", "int y; // trailing\n")
	quiet := writeSource(t, dir, "quiet.c", "/* nothing */\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		stdout   string
		stderr   string
	}{
		{
			name:     "clean file",
			args:     []string{"lint", "--no-cache", "--ui", "off", clean},
			wantCode: exitOK,
			stdout:   "No issues found in 1 files (1 lines processed).",
		},
		{
			name:     "issues found",
			args:     []string{"lint", "--no-cache", "--ui", "off", "--format", "short", dirty},
			wantCode: exitIssues,
			stdout:   "SYN1001",
		},
		{
			name:     "summary lists modes",
			args:     []string{"lint", "--no-cache", "--ui", "off", "--amiga", quiet},
			wantCode: exitOK,
			stdout:   "Active validation modes: Amiga, NDK, C89",
		},
		{
			name:     "mode notice",
			args:     []string{"lint", "--no-cache", "--ui", "off", "--vbcc", "--c89", clean},
			wantCode: exitOK,
			stderr:   "VBCC mode overrides C89 mode",
		},
		{
			name:     "missing input",
			args:     []string{"lint", "--no-cache", "--ui", "off", filepath.Join(dir, "nope.c")},
			wantCode: exitFail,
			stderr:   "no readable input files",
		},
		{
			name:     "bad format",
			args:     []string{"lint", "--no-cache", "--format", "xml", clean},
			wantCode: exitFail,
			stderr:   "[output].format",
		},
		{
			name:     "quiet keeps diagnostics only",
			args:     []string{"lint", "--no-cache", "--ui", "off", "--quiet", "--format", "short", dirty},
			wantCode: exitIssues,
			stdout:   "dirty.c:1:8: ERROR SYN1001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", code, tt.wantCode, stdout, stderr)
			}
			if tt.stdout != "" && !strings.Contains(stdout, tt.stdout) {
				t.Errorf("stdout missing %q:\n%s", tt.stdout, stdout)
			}
			if tt.stderr != "" && !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr missing %q:\n%s", tt.stderr, stderr)
			}
		})
	}
}

func TestLintQuietHasNoSummary(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dirty := writeSource(t, dir, "dirty.c", "// x\n")
	_, stdout, _ := runCLI(t, "lint", "--no-cache", "--ui", "off", "--quiet", dirty)
	if strings.Contains(stdout, "Codex analysis complete.") {
		t.Errorf("quiet output contains summary:\n%s", stdout)
	}
}

func TestLintJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dirty := writeSource(t, dir, "dirty.c", "char *p = 0;\n")

	code, stdout, _ := runCLI(t, "lint", "--no-cache", "--ui", "off", "--amiga", "--format", "json", "--path-mode", "basename", dirty)
	if code != exitIssues {
		t.Fatalf("exit code = %d", code)
	}
	var out struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code     string `json:"code"`
			Location struct {
				File string `json:"file"`
			} `json:"location"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if out.Count == 0 || out.Diagnostics[0].Location.File != "dirty.c" {
		t.Errorf("unexpected JSON: %+v", out)
	}
}

func TestLintConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "codex.toml", "[style]\nline_limit = 10\n")
	src := writeSource(t, dir, "long.c", "int a_rather_long_name;\n")

	code, stdout, _ := runCLI(t, "lint", "--no-cache", "--ui", "off", "--format", "short", src)
	if code != exitIssues || !strings.Contains(stdout, "STY2002") {
		t.Fatalf("code=%d stdout:\n%s", code, stdout)
	}

	// флаг важнее файла
	code, _, _ = runCLI(t, "lint", "--no-cache", "--ui", "off", "--line-limit", "80", src)
	if code != exitOK {
		t.Errorf("with --line-limit 80: exit code = %d", code)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	code, stdout, _ := runCLI(t, "init", dir)
	if code != exitOK || !strings.Contains(stdout, "codex.toml") {
		t.Fatalf("init: code=%d stdout=%q", code, stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "codex.toml")); err != nil {
		t.Fatal(err)
	}
	if code, _, _ = runCLI(t, "init", dir); code != exitFail {
		t.Errorf("second init: code = %d, want %d", code, exitFail)
	}
	if code, _, _ = runCLI(t, "init", "--force", dir); code != exitOK {
		t.Errorf("init --force: code = %d", code)
	}
}

func TestSanitize(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "s.c", "int f(void)\n{\n    /* c */ int x;\n    x = 1; // y\n}\n")

	code, stdout, stderr := runCLI(t, "sanitize", src)
	if code != exitOK {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), stdout)
	}
	if !strings.Contains(lines[2], " 1 ") || !strings.Contains(lines[2], "declaration") || strings.Contains(lines[2], "/*") {
		t.Errorf("line 3 = %q", lines[2])
	}
	if !strings.Contains(lines[3], " / statement") || strings.Contains(lines[3], "// y") {
		t.Errorf("line 4 = %q", lines[3])
	}
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "version", "--format", "json")
	if code != exitOK {
		t.Fatalf("code = %d", code)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(stdout), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "codex" || p.Version == "" {
		t.Errorf("payload = %+v", p)
	}
}

func TestFix(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSource(t, dir, "dirty.c", "int y; // trailing\n")

	code, stdout, _ := runCLI(t, "fix", "--no-cache", "--dry-run", "dirty.c")
	if code != exitOK {
		t.Fatalf("dry run exit = %d, stdout %q", code, stdout)
	}
	if !strings.Contains(stdout, "Would apply 1 fix(es)") || !strings.Contains(stdout, "SYN1001-dirty.c-1-8-0") {
		t.Fatalf("unexpected dry-run output %q", stdout)
	}
	if got, _ := os.ReadFile(path); string(got) != "int y; // trailing\n" {
		t.Fatalf("dry run changed the file: %q", got)
	}

	code, stdout, _ = runCLI(t, "fix", "--no-cache", "--all", "dirty.c")
	if code != exitOK {
		t.Fatalf("fix exit = %d, stdout %q", code, stdout)
	}
	if got, _ := os.ReadFile(path); string(got) != "int y; /* trailing */\n" {
		t.Fatalf("fixed content = %q", got)
	}

	code, stdout, _ = runCLI(t, "fix", "--no-cache", "dirty.c")
	if code != exitOK || !strings.Contains(stdout, "No applicable fixes found.") {
		t.Fatalf("second run: exit %d, stdout %q", code, stdout)
	}

	if code, _, _ = runCLI(t, "fix", "--all", "--once", "dirty.c"); code != exitFail {
		t.Fatalf("conflicting flags exit = %d, want %d", code, exitFail)
	}
}

func TestLintCPUProfile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "clean.c", "int x;\n")
	profile := filepath.Join(dir, "cpu.out")

	code, _, stderr := runCLI(t, "lint", "--no-cache", "--ui", "off", "--cpu-profile", profile, "clean.c")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %q", code, stderr)
	}
	if info, err := os.Stat(profile); err != nil || info.Size() == 0 {
		t.Fatalf("cpu profile not written: %v", err)
	}
}

func TestCleanDropsCache(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "a.c", "int y; // c\n")
	cacheDir := filepath.Join(dir, "cache")

	if code, _, stderr := runCLI(t, "lint", "--ui", "off", "--cache-dir", cacheDir, "a.c"); code != exitIssues {
		t.Fatalf("lint exit = %d, stderr %q", code, stderr)
	}
	if entries, _ := os.ReadDir(filepath.Join(cacheDir, "files")); len(entries) == 0 {
		t.Fatal("expected cache entries after lint")
	}

	code, stdout, _ := runCLI(t, "clean", "--cache-dir", cacheDir)
	if code != exitOK || !strings.Contains(stdout, "removed cached results from") {
		t.Fatalf("clean: exit %d, stdout %q", code, stdout)
	}
	if entries, _ := os.ReadDir(filepath.Join(cacheDir, "files")); len(entries) != 0 {
		t.Fatalf("cache still holds %d entries", len(entries))
	}
}
