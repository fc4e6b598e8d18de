package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"frel/internal/buildpipeline"
	"frel/internal/compile"
	"frel/internal/config"
	"frel/internal/observ"
	"frel/internal/source"
	"frel/internal/trace"
)

// SourceExt is the extension of template sources; BlobExt of compiled output.
const (
	SourceExt = ".frel"
	BlobExt   = ".fir"
)

type Options struct {
	Config config.Config
	// Jobs bounds parallel compiles in directory mode; 0 means GOMAXPROCS.
	Jobs int
	// OutDir receives the .fir files, mirroring the source layout. Empty
	// means next to each source file.
	OutDir string
	// NoWrite compiles without writing blobs (frelc check).
	NoWrite  bool
	Timings  bool
	Progress buildpipeline.ProgressSink
}

// FileResult is the outcome of one source file.
type FileResult struct {
	Path    string
	Display string
	Output  string // written blob path, empty when nothing was written
	Result  *compile.Result
	// Err is the compile error (*diag.Error or *fir.EncodeError).
	Err    error
	Timing *TimingReport
}

// RunResult holds all files of one invocation, in path order.
type RunResult struct {
	FileSet *source.FileSet
	Files   []*FileResult
}

// Failed counts files whose compile failed.
func (r *RunResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// ListSources returns the sorted list of *.frel files under dir.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FragmentNames returns the stems of files that are valid fragment names.
// In directory mode every file may include its siblings by stem.
func FragmentNames(files []string) []string {
	var names []string
	seen := map[string]bool{}
	for _, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f), SourceExt)
		if !config.ValidFragmentName(stem) || seen[stem] {
			continue
		}
		seen[stem] = true
		names = append(names, stem)
	}
	return names
}

// Run compiles path, which may be a file or a directory. I/O failures are
// returned as the error; compile failures are recorded per file.
func Run(ctx context.Context, path string, opts Options) (*RunResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return compileFiles(ctx, filepath.Dir(path), []string{path}, opts)
	}
	files, err := ListSources(path)
	if err != nil {
		return nil, err
	}
	opts.Config.KnownFragments = mergeNames(opts.Config.KnownFragments, FragmentNames(files))
	return compileFiles(ctx, path, files, opts)
}

func mergeNames(a, b []string) []string {
	out := append([]string(nil), a...)
	seen := make(map[string]bool, len(a))
	for _, n := range a {
		seen[n] = true
	}
	for _, n := range b {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func compileFiles(ctx context.Context, baseDir string, files []string, opts Options) (*RunResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.ParentID(ctx))
	defer span.End(fmt.Sprintf("%d files", len(files)))

	fileSet := source.NewFileSetWithBase(baseDir)
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		ids[i] = id
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		absBase = baseDir
	}
	results := make([]*FileResult, len(files))
	for i, path := range files {
		results[i] = &FileResult{Path: path, Display: buildpipeline.DisplayName(path, absBase)}
	}
	displays := make([]string, len(results))
	for i, r := range results {
		displays[i] = r.Display
	}
	buildpipeline.EmitQueued(opts.Progress, displays)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))

	timers := make([]*observ.Timer, len(files))
	for i := range files {
		if opts.Timings {
			timers[i] = observ.NewTimer()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return compileOne(fileSet.Get(ids[i]), results[i], opts, timers[i], tracer, span)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	run := &RunResult{FileSet: fileSet, Files: results}

	// Blobs are written only once every file has compiled, so a failing
	// sibling leaves the output directory untouched.
	write := !opts.NoWrite && run.Failed() == 0
	for i, fr := range results {
		if write {
			if err := writeOne(fr, baseDir, opts, timers[i], span); err != nil {
				return nil, err
			}
		}
		if fr.Err != nil {
			continue
		}
		fr.Timing = newTimingReport(fr.Display, timers[i])
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: fr.Display, Stage: fr.Result.Stage, Status: buildpipeline.StatusDone})
	}
	return run, nil
}

func compileOne(f *source.File, fr *FileResult, opts Options, timer *observ.Timer, tracer trace.Tracer, parent *trace.Span) error {
	span := parent.Child(trace.ScopeFile, "file:"+fr.Display)
	res, err := compile.File(f, compile.Options{
		Config:     opts.Config,
		Tracer:     tracer,
		ParentSpan: span.ID(),
		Timer:      timer,
		Progress:   opts.Progress,
		Display:    fr.Display,
	})
	fr.Result = res
	if res == nil {
		// config rejected before any stage ran
		span.End("invalid config")
		return err
	}
	fr.Err = err
	if err != nil {
		fr.Timing = newTimingReport(fr.Display, timer)
		span.End("failed")
		return nil
	}
	span.WithExtra("bytes", fmt.Sprint(len(res.Blob))).End("ok")
	return nil
}

func writeOne(fr *FileResult, baseDir string, opts Options, timer *observ.Timer, parent *trace.Span) error {
	span := parent.Child(trace.ScopeFile, "write:"+fr.Display)
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: fr.Display, Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})
	stop := timer.Start(string(buildpipeline.StageWrite))
	out := OutputPath(fr.Path, baseDir, opts.OutDir)
	if err := writeBlob(out, fr.Result.Blob); err != nil {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: fr.Display, Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusError, Err: err})
		span.End("write failed")
		return fmt.Errorf("write %s: %w", out, err)
	}
	stop(out)
	fr.Output = out
	span.End(out)
	return nil
}

// OutputPath maps a source file to its blob path. With outDir set the
// layout below baseDir is mirrored there.
func OutputPath(src, baseDir, outDir string) string {
	name := strings.TrimSuffix(src, SourceExt) + BlobExt
	if outDir == "" {
		return name
	}
	rel, err := filepath.Rel(baseDir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(name)
	}
	return filepath.Join(outDir, rel)
}

func writeBlob(path string, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o600)
}
