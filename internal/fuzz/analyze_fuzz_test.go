package fuzztests

import (
	"context"
	"testing"

	"codex/internal/diag"
	"codex/internal/driver"
	"codex/internal/mode"
	"codex/internal/project"
	"codex/internal/scan"
	"codex/internal/source"
	"codex/internal/testkit"
)

func FuzzScanSession(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.c", input)
		file := fs.Get(fileID)

		const maxDepth = 8
		pairing := scan.DefaultPairingConfig()
		bag := diag.NewBag(0)
		st := scan.Run(file, scan.Options{
			MaxDepth:         maxDepth,
			FlagLineComments: true,
			DeclPlacement:    true,
			Pairing:          &pairing,
		}, diag.BagReporter{Bag: bag})

		if err := testkit.CheckStateInvariants(st, maxDepth); err != nil {
			t.Fatal(err)
		}
		if err := testkit.CheckDiagnosticInvariants(fs, bag.Items()); err != nil {
			t.Fatal(err)
		}
		if int(st.Lines) != len(file.Lines()) {
			t.Fatalf("session saw %d lines, file has %d", st.Lines, len(file.Lines()))
		}
	})
}

func FuzzAnalyzeSource(f *testing.F) {
	addCorpusSeeds(f)
	cfg := project.Default()
	cfg.SetModes(mode.Of(mode.Amiga, mode.NDK, mode.C89, mode.VBCC, mode.MemSafe))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res, err := driver.AnalyzeSource(context.Background(), "fuzz.c", input, driver.Options{Config: cfg})
		if err != nil {
			// невалидная кодировка допустима, паника нет
			return
		}
		if err := testkit.CheckDiagnosticInvariants(res.FileSet, res.Bag.Items()); err != nil {
			t.Fatal(err)
		}
		if got := totalIssues(res); got != res.Bag.Len() && !res.Bag.Overflowed() {
			t.Fatalf("files report %d issues, bag holds %d", got, res.Bag.Len())
		}
	})
}

func totalIssues(res *driver.Result) int {
	n := 0
	for i := range res.Files {
		n += res.Files[i].Issues
	}
	return n
}
