package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"codex/internal/diag"
	"codex/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the edited content without touching the files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID      string
	Title   string
	Code    diag.Code
	Message string
	Path    string
	Line    uint32
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	// Content is the new file content, in the file's original encoding.
	Content []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// lineEdit is one replacement inside a line, in original line coordinates.
type lineEdit struct {
	start, end int
	text       string
}

// Apply collects fixes from diagnostics, selects a subset according to opts, and applies them.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(fs, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// FixID builds the identifier of the idx-th fix of d: code, file base name,
// line, column and index joined with dashes.
func FixID(fs *source.FileSet, d diag.Diagnostic, idx int) string {
	name := "?"
	if f := fs.Get(d.Primary.File); f != nil {
		name = source.BaseName(f.Path)
	}
	return fmt.Sprintf("%s-%s-%d-%d-%d", d.Code.ID(), name, d.Primary.Line, d.Primary.Col, idx)
}

func gatherCandidates(fs *source.FileSet, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := FixID(fs, d, idx)
			if f.Old == "" {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no text to replace"})
				continue
			}
			if !d.Primary.IsValid() {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "diagnostic has no position"})
				continue
			}
			if _, dup := seen[id]; dup {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, line, column and insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].diag.Primary, candidates[j].diag.Primary
		if pi != pj {
			return pi.Less(pj)
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

type fileState struct {
	lines []string
	edits map[int][]lineEdit // индекс строки -> принятые правки
	count int
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	states := make(map[source.FileID]*fileState)
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)

	for _, cand := range selected {
		skip := func(reason string) {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
		}

		fileID := cand.diag.Primary.File
		file := fs.Get(fileID)
		if file == nil {
			skip("unknown file")
			continue
		}
		if file.Flags&source.FileVirtual != 0 {
			skip("target file is virtual")
			continue
		}

		st := states[fileID]
		if st == nil {
			st = &fileState{
				lines: strings.Split(string(file.Content), "\n"),
				edits: make(map[int][]lineEdit),
			}
			states[fileID] = st
		}

		idx := int(cand.diag.Primary.Line) - 1
		if idx < 0 || idx >= len(st.lines) {
			skip("line out of range")
			continue
		}
		start := locate(st.lines[idx], cand.fix.Old, int(cand.diag.Primary.Col)-1)
		if start < 0 {
			skip("existing text does not match expected content")
			continue
		}
		edit := lineEdit{start: start, end: start + len(cand.fix.Old), text: cand.fix.New}
		if conflicts(st.edits[idx], edit) {
			skip(fmt.Sprintf("conflicts with previously applied edits in %s", formatFilePath(fs, fileID)))
			continue
		}
		st.edits[idx] = append(st.edits[idx], edit)
		st.count++

		applied = append(applied, AppliedFix{
			ID:      cand.id,
			Title:   cand.fix.Title,
			Code:    cand.diag.Code,
			Message: cand.diag.Message,
			Path:    formatFilePath(fs, fileID),
			Line:    cand.diag.Primary.Line,
		})
	}

	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	baseDir := fs.BaseDir()
	fileChanges := make([]FileChange, 0, len(states))
	for fileID, st := range states {
		if st.count == 0 {
			continue
		}
		file := fs.Get(fileID)
		for idx, edits := range st.edits {
			st.lines[idx] = applyLine(st.lines[idx], edits)
		}
		buf, err := source.Denormalize([]byte(strings.Join(st.lines, "\n")), file.Flags)
		if err != nil {
			return applied, skipped, fileChanges, fmt.Errorf("%s: %w", file.Path, err)
		}

		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return applied, skipped, fileChanges, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}

		fileChanges = append(fileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: st.count,
			Content:   buf,
		})
	}

	sort.SliceStable(fileChanges, func(i, j int) bool {
		return fileChanges[i].Path < fileChanges[j].Path
	})

	return applied, skipped, fileChanges, nil
}

// locate finds old in line at or after the 0-based byte offset from,
// falling back to its first occurrence anywhere on the line.
func locate(line, old string, from int) int {
	if from < 0 {
		from = 0
	}
	if from <= len(line) {
		if i := strings.Index(line[from:], old); i >= 0 {
			return from + i
		}
	}
	return strings.Index(line, old)
}

// conflicts reports whether e overlaps any of existing. Ranges are half-open.
func conflicts(existing []lineEdit, e lineEdit) bool {
	for _, prev := range existing {
		if prev.start < e.end && e.start < prev.end {
			return true
		}
	}
	return false
}

// applyLine replaces the ranges of edits, right to left so earlier offsets stay valid.
func applyLine(line string, edits []lineEdit) string {
	sorted := append([]lineEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start > sorted[j].start })
	for _, e := range sorted {
		line = line[:e.start] + e.text + line[e.end:]
	}
	return line
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
