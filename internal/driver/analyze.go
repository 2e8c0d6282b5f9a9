package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"codex/internal/diag"
	"codex/internal/mode"
	"codex/internal/observ"
	"codex/internal/project"
	"codex/internal/rules"
	"codex/internal/scan"
	"codex/internal/source"
)

// Options configures one analysis run.
type Options struct {
	Config project.Config
	// Jobs bounds the number of files analyzed at once; <= 0 means 1.
	Jobs     int
	Cache    *DiskCache
	Logger   *log.Logger
	Progress ProgressSink
	// BaseDir is used for relative paths in output; empty means cwd.
	BaseDir string
}

// FileResult describes one analyzed input.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Lines   uint32
	Issues  int
	Cached  bool
	Err     error
	Elapsed time.Duration

	diags []diag.Diagnostic
}

// Result is the outcome of Analyze.
type Result struct {
	FileSet *source.FileSet
	Modes   mode.Resolved
	// Bag holds every file's diagnostics in input order, bounded by
	// [output].max_diagnostics.
	Bag     *diag.Bag
	Files   []FileResult
	Timings observ.Report
}

// Analyzed returns the number of files that could be read.
func (r *Result) Analyzed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err == nil {
			n++
		}
	}
	return n
}

// Lines returns the number of lines processed across all files.
func (r *Result) Lines() int {
	n := 0
	for i := range r.Files {
		n += int(r.Files[i].Lines)
	}
	return n
}

// ScanOptions derives the per-file session options from cfg.
func ScanOptions(cfg *project.Config, modes mode.Resolved) scan.Options {
	return scan.Options{
		MaxDepth:         cfg.Style.MaxDepth,
		FlagLineComments: modes.FlagLineComments(),
		DeclPlacement:    modes.DeclPlacement(),
		Pairing:          cfg.ScanPairing(),
		Checkers: rules.Build(rules.Config{
			Modes:        modes,
			LineLimit:    cfg.Style.LineLimit,
			MagicNumbers: cfg.Style.MagicNumbers,
			Echo:         cfg.Style.Echo,
		}),
	}
}

type input struct {
	path    string
	id      source.FileID
	loadErr error
}

// Analyze checks every path. Unreadable files become IO7001 diagnostics and
// do not stop the run; only cancellation of ctx returns an error.
func Analyze(ctx context.Context, paths []string, opts Options) (*Result, error) {
	timer := observ.NewTimer()
	fileSet := source.NewFileSetWithBase(opts.BaseDir)

	endLoad := timer.Phase("load")
	inputs := make([]input, len(paths))
	failed := 0
	for i, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой файл-заглушка, чтобы у диагностики был путь
			id = fileSet.Add(path, nil, source.FileVirtual)
			failed++
		}
		inputs[i] = input{path: path, id: id, loadErr: err}
	}
	endLoad(fmt.Sprintf("%d files, %d unreadable", len(paths), failed))

	return run(ctx, fileSet, inputs, opts, timer)
}

// AnalyzeSource checks in-memory content registered under name.
func AnalyzeSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	timer := observ.NewTimer()
	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	normalized, flags, err := source.Normalize(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	id := fileSet.Add(name, normalized, flags|source.FileVirtual)
	return run(ctx, fileSet, []input{{path: name, id: id}}, opts, timer)
}

func run(ctx context.Context, fileSet *source.FileSet, inputs []input, opts Options, timer *observ.Timer) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	modes := mode.Resolve(opts.Config.ModeSet())
	scanOpts := ScanOptions(&opts.Config, modes)
	fingerprint := opts.Config.Fingerprint()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	endScan := timer.Phase("scan")
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(inputs))))
	for i, in := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = analyzeOne(fileSet, in, scanOpts, fingerprint, opts, logger)
			return nil
		})
	}
	waitErr := g.Wait()
	endScan(fmt.Sprintf("jobs=%d", jobs))

	endMerge := timer.Phase("merge")
	bag := diag.NewBag(opts.Config.Output.MaxDiagnostics)
	for i := range results {
		if results[i].Path == "" {
			// не дошли из-за отмены
			results[i].Path = inputs[i].path
			results[i].FileID = inputs[i].id
			continue
		}
		if results[i].Err == nil {
			series := "file"
			if results[i].Cached {
				series = "file (cached)"
			}
			timer.Sample(series, results[i].Elapsed)
		}
		for _, d := range results[i].diags {
			bag.Add(d)
		}
		results[i].diags = nil
	}
	endMerge(fmt.Sprintf("%d diagnostics", bag.Len()))

	res := &Result{
		FileSet: fileSet,
		Modes:   modes,
		Bag:     bag,
		Files:   results,
		Timings: timer.Report(),
	}
	if waitErr != nil {
		return res, fmt.Errorf("analysis interrupted: %w", waitErr)
	}
	return res, nil
}

func analyzeOne(fileSet *source.FileSet, in input, scanOpts scan.Options, fingerprint project.Digest, opts Options, logger *log.Logger) FileResult {
	start := time.Now()
	res := FileResult{Path: in.path, FileID: in.id}

	if in.loadErr != nil {
		d := diag.New(diag.SevError, diag.IOReadFailed, source.At(in.id, 0, 0),
			fmt.Sprintf("Could not read file: %v", in.loadErr))
		res.diags = []diag.Diagnostic{d}
		res.Issues = 1
		res.Err = in.loadErr
		logger.Error("cannot read file", "file", in.path, "err", in.loadErr)
		emit(opts.Progress, Event{File: in.path, Stage: StageRead, Status: StatusError, Err: in.loadErr, Issues: 1})
		return res
	}

	file := fileSet.Get(in.id)
	logger.Info("Analyzing", "file", in.path)
	emit(opts.Progress, Event{File: in.path, Stage: StageScan, Status: StatusWorking})

	key := cacheKey(file, fingerprint)
	var payload DiskPayload
	if ok, err := opts.Cache.Get(key, &payload); err != nil {
		logger.Warn("cache read failed", "file", in.path, "err", err)
	} else if ok {
		res.diags = fromPayload(in.id, &payload)
		res.Lines = payload.Lines
		res.Cached = true
	}

	if !res.Cached {
		bag := diag.NewBag(0)
		state := scan.Run(file, scanOpts, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
		res.diags = bag.Items()
		res.Lines = state.Lines
		if err := opts.Cache.Put(key, toPayload(res.Lines, res.diags)); err != nil {
			logger.Warn("cache write failed", "file", in.path, "err", err)
		}
	}

	res.Issues = len(res.diags)
	res.Elapsed = time.Since(start)
	status := StatusDone
	if res.Cached {
		status = StatusCached
	}
	logger.Debug("analyzed", "file", in.path, "lines", res.Lines, "issues", res.Issues, "cached", res.Cached, "elapsed", res.Elapsed)
	emit(opts.Progress, Event{File: in.path, Stage: StageScan, Status: status, Issues: res.Issues, Elapsed: res.Elapsed})
	return res
}
