package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"codex/internal/diag"
	"codex/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	Invocations       []sarifInvocation      `json:"invocations,omitempty"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
	Message          *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32        `json:"startLine"`
	StartColumn uint32        `json:"startColumn,omitempty"`
	Snippet     *sarifMessage `json:"snippet,omitempty"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifLoc(fs *source.FileSet, pos source.Pos, mode PathMode, snippet string) sarifLocation {
	loc := sarifLocation{PhysicalLocation: sarifPhysical{
		ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(formatPath(fs, pos.File, mode))},
	}}
	if pos.IsValid() {
		r := &sarifRegion{StartLine: pos.Line, StartColumn: pos.Col}
		if snippet != "" {
			r.Snippet = &sarifMessage{Text: snippet}
		}
		loc.PhysicalLocation.Region = r
	}
	return loc
}

// buildSarif assembles a SARIF 2.1.0 log with a single run.
func buildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	name := meta.ToolName
	if name == "" {
		name = "codex"
	}
	guid := meta.RunID
	if guid == "" {
		guid = uuid.NewString()
	}
	mode := meta.PathMode
	if mode == PathModeAuto {
		mode = PathModeRelative
	}

	var items []*diag.Diagnostic
	if bag != nil {
		items = bag.Pointers()
	}

	// правила - только встреченные коды, по возрастанию
	codes := make([]diag.Code, 0)
	seen := make(map[diag.Code]bool)
	for _, d := range items {
		if !seen[d.Code] {
			seen[d.Code] = true
			codes = append(codes, d.Code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules[i] = sarifRule{
			ID:               c.ID(),
			Name:             c.Kind().String(),
			ShortDescription: sarifMessage{Text: c.Title()},
			DefaultConfig:    sarifConfig{Level: sarifLevel(c.DefaultSeverity())},
		}
	}

	results := make([]sarifResult, 0, len(items))
	for _, d := range items {
		r := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: ruleIndex[d.Code],
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{sarifLoc(fs, d.Primary, mode, d.Excerpt)},
		}
		for _, n := range d.Notes {
			loc := sarifLoc(fs, n.Pos, mode, "")
			loc.Message = &sarifMessage{Text: n.Msg}
			r.RelatedLocations = append(r.RelatedLocations, loc)
		}
		for _, f := range d.Fixes {
			r.Fixes = append(r.Fixes, sarifFix{Description: sarifMessage{Text: f.Title}})
		}
		results = append(results, r)
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		AutomationDetails: sarifAutomationDetails{GUID: guid},
		Results:           results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           append([]string(nil), meta.InvocationArgs...),
			ExecutionSuccessful: true,
		}}
	}
	return sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSarif(bag, fs, meta))
}
