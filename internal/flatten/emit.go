package flatten

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"weld/internal/graph"
	"weld/internal/lang"
	"weld/internal/resolve"
)

type cleanedFile struct {
	name    string
	cleaned lang.Cleaned
}

// emit cleans every file body and streams the bundle through sink: the
// first version pragma encountered during traversal (entry files first,
// matching the order files were cleaned in the original tool), the
// deduplicated experimental pragmas in first-appearance order, then the
// concatenated bodies as one chunk in dependency-first sort order.
// Cleaning runs in parallel, but results are reassembled by sort index so
// the output is deterministic.
func emit(ctx context.Context, sink Sink, resolver *resolve.Resolver, refs []fileRef, discovery []string, jobs int, progress ProgressSink) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]cleanedFile, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(refs), 1)))
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emitEvent(progress, Event{File: ref.ID, Stage: StageEmit, Status: StatusWorking})
			f, err := resolver.Resolve(ref.ID)
			if err != nil {
				return &graph.ResolutionError{Identifier: ref.ID, Err: err}
			}
			cleaned, err := lang.Clean(f.Contents)
			if err != nil {
				return &graph.ParseError{Path: f.Rel, Err: err}
			}
			results[i] = cleanedFile{name: ref.Name, cleaned: cleaned}
			emitEvent(progress, Event{File: ref.ID, Stage: StageEmit, Status: StatusDone})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Pragmas accumulate in traversal order so the entry file's version
	// pragma wins over those of its dependencies.
	byID := make(map[string]int, len(refs))
	for i, ref := range refs {
		byID[ref.ID] = i
	}
	var (
		version      string
		experimental []string
		seenExp      = make(map[string]struct{})
	)
	for _, id := range discovery {
		i, ok := byID[id]
		if !ok {
			continue
		}
		res := results[i]
		if version == "" && res.cleaned.Version != "" {
			version = res.cleaned.Version
		}
		for _, exp := range res.cleaned.Experimental {
			if _, dup := seenExp[exp]; dup {
				continue
			}
			seenExp[exp] = struct{}{}
			experimental = append(experimental, exp)
		}
	}

	// Bodies concatenate in sort index order regardless of which worker
	// finished first.
	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, "// File: "+res.name+"\n\n"+res.cleaned.Body)
	}

	headerWritten := false
	if version != "" {
		if err := sink(version + "\n"); err != nil {
			return err
		}
		headerWritten = true
	}
	for _, exp := range experimental {
		if err := sink(exp + "\n"); err != nil {
			return err
		}
		headerWritten = true
	}

	chunk := strings.Join(parts, "\n\n") + "\n"
	if headerWritten {
		chunk = "\n" + chunk
	}
	return sink(chunk)
}
