package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"mdxc/internal/diag"
	"mdxc/internal/source"
)

// Status of one file within a batch compile.
type Status uint8

const (
	StatusCompiling Status = iota
	StatusDone
	StatusError
)

// Event reports per-file progress of a batch compile.
type Event struct {
	File   string
	Status Status
}

// FileResult pairs one document with its compilation outcome. Err is the
// malformed-input class (front matter shape, unreadable file); compile
// failures land in Result.Errors instead.
type FileResult struct {
	Path   string
	Result Result
	Err    error
}

// markdownExts lists the authoring-format extensions the batch picks up.
var markdownExts = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// ListDocuments возвращает отсортированный список markdown-файлов в dir.
func ListDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && markdownExts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CompileDir compiles every markdown document under dir in parallel.
// Results keep list order regardless of completion order. The merged bag
// is sorted and capped at maxDiagnostics. events, when non-nil, receives
// per-file progress and is not closed by this function.
func CompileDir(ctx context.Context, dir string, opts Options, jobs, maxDiagnostics int, events chan<- Event) ([]FileResult, *diag.Bag, error) {
	files, err := ListDocuments(dir)
	if err != nil {
		return nil, nil, err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			emit(events, Event{File: path, Status: StatusCompiling})
			fr := compileFile(ctx, path, opts)
			results[i] = fr
			status := StatusDone
			if fr.Err != nil || len(fr.Result.Errors) > 0 {
				status = StatusError
			}
			emit(events, Event{File: path, Status: status})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	for _, fr := range results {
		bag.AddAll(fr.Result.Errors)
		bag.AddAll(fr.Result.Warnings)
	}
	bag.Sort()
	return results, bag, nil
}

func compileFile(ctx context.Context, path string, opts Options) FileResult {
	doc, err := source.Load(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	res, err := Compile(ctx, doc.Path, string(doc.Content), opts)
	return FileResult{Path: path, Result: res, Err: err}
}

func emit(events chan<- Event, ev Event) {
	if events != nil {
		events <- ev
	}
}
