package driver

import (
	"testing"

	"codex/internal/diag"
	"codex/internal/project"
	"codex/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	d := diag.New(diag.SevWarning, diag.WrnPairDistance, source.At(3, 9, 5), "too far").
		WithNote(source.At(3, 2, 5), "Forbid() called here").
		WithFix("use NULL", "0", "NULL")
	d.Excerpt = "    Permit();"
	key := project.Combine(project.Digest{1}, project.Digest{2})

	if err := cache.Put(key, toPayload(12, []diag.Diagnostic{d})); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if payload.Lines != 12 {
		t.Fatalf("Lines = %d", payload.Lines)
	}
	got := fromPayload(7, &payload)
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	g := got[0]
	if g.Code != d.Code || g.Severity != d.Severity || g.Message != d.Message || g.Excerpt != d.Excerpt {
		t.Fatalf("diagnostic mismatch: %+v", g)
	}
	if g.Primary != source.At(7, 9, 5) {
		t.Fatalf("primary = %v, want file 7", g.Primary)
	}
	if len(g.Notes) != 1 || g.Notes[0].Pos != source.At(7, 2, 5) {
		t.Fatalf("notes = %+v", g.Notes)
	}
	if len(g.Fixes) != 1 || g.Fixes[0].New != "NULL" {
		t.Fatalf("fixes = %+v", g.Fixes)
	}
}

func TestDiskCacheMissAndDrop(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := project.Digest{9}
	var payload DiskPayload
	if ok, err := cache.Get(key, &payload); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(key, toPayload(1, nil)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, err := cache.Get(key, &payload); ok || err != nil {
		t.Fatalf("after DropAll: ok=%v err=%v", ok, err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(project.Digest{}, &DiskPayload{}); err != nil {
		t.Fatalf("Put on nil cache: %v", err)
	}
	if ok, err := cache.Get(project.Digest{}, &DiskPayload{}); ok || err != nil {
		t.Fatalf("Get on nil cache: ok=%v err=%v", ok, err)
	}
}
