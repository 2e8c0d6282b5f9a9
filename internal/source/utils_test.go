package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "file.c")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(target)
	if got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}

	target := filepath.Join(baseDir, "nested", "file.c")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(filepath.Join("nested", "file.c"))
	if got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}

func TestNormalizeKeepsValidUTF8(t *testing.T) {
	out, flags, err := Normalize([]byte("int x; /* α */\n"))
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if flags != 0 {
		t.Fatalf("expected no flags, got %b", flags)
	}
	if string(out) != "int x; /* α */\n" {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestDenormalizeRestoresOriginalForm(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"plain", []byte("int x;\n")},
		{"bom", []byte("\xEF\xBB\xBFint x;\n")},
		{"crlf", []byte("int x;\r\nint y;\r\n")},
		{"latin1", []byte("/* Gr\xFC\xDFe */\r\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, flags, err := Normalize(append([]byte(nil), tt.in...))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			back, err := Denormalize(norm, flags)
			if err != nil {
				t.Fatalf("Denormalize: %v", err)
			}
			if string(back) != string(tt.in) {
				t.Fatalf("round trip = %q, want %q", back, tt.in)
			}
		})
	}
}

func TestDenormalizeRejectsUnencodableRune(t *testing.T) {
	if _, err := Denormalize([]byte("/* € */"), FileDecodedLatin1); err == nil {
		t.Fatal("expected an error for a rune outside ISO-8859-1")
	}
}
