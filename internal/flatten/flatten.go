// Package flatten drives the whole pipeline: locate the project root,
// build the import graph of the entry files, order it topologically, and
// emit one self-contained bundle with imports stripped and pragmas
// deduplicated into the header.
package flatten

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"weld/internal/graph"
	"weld/internal/importpath"
	"weld/internal/lang"
	"weld/internal/project"
	"weld/internal/resolve"
)

// Options configures a flatten run.
type Options struct {
	// Entries are the entry-point file paths, as given by the caller.
	Entries []string
	// Root optionally overrides project root discovery. When empty the
	// root is located by walking up from the first entry's directory.
	Root string
	// Progress receives per-file events; nil disables reporting.
	Progress ProgressSink
	// Cache optionally serves previously extracted import lists.
	Cache *resolve.ImportCache
	// Jobs bounds parallel body cleaning during emission. Zero or
	// negative means GOMAXPROCS.
	Jobs int
}

// Flatten runs the pipeline and returns the flattened bundle as a string.
func Flatten(ctx context.Context, opts Options) (string, error) {
	var acc StringSink
	if err := FlattenTo(ctx, acc.Sink(), opts); err != nil {
		return "", err
	}
	return acc.String(), nil
}

// FlattenTo runs the pipeline and streams the bundle through sink. The
// run is all-or-nothing: the first resolution, parse, or cycle error
// aborts before anything is written.
func FlattenTo(ctx context.Context, sink Sink, opts Options) error {
	p, err := buildPlan(opts)
	if err != nil {
		return err
	}
	if err := emit(ctx, sink, p.resolver, p.refs, p.discovery, opts.Jobs, opts.Progress); err != nil {
		emitEvent(opts.Progress, Event{Stage: StageEmit, Status: StatusError, Err: err})
		return err
	}
	emitEvent(opts.Progress, Event{Stage: StageEmit, Status: StatusDone})
	return nil
}

// SortedNames returns just the dependency-ordered global names of the
// entry files' transitive imports, without emitting anything.
func SortedNames(opts Options) ([]string, error) {
	p, err := buildPlan(opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(p.refs))
	for i, ref := range p.refs {
		names[i] = ref.Name
	}
	return names, nil
}

// plan is everything the emit phase needs: the shared resolver, the
// deduplicated sorted file list, and the traversal order for pragma
// accumulation.
type plan struct {
	resolver  *resolve.Resolver
	refs      []fileRef
	discovery []string
}

func buildPlan(opts Options) (*plan, error) {
	if len(opts.Entries) == 0 {
		return nil, errors.New("no entry files given")
	}

	root, err := locateRoot(opts)
	if err != nil {
		return nil, err
	}
	manifest, err := project.LoadManifestAt(root)
	if err != nil {
		return nil, err
	}
	resolver := resolve.New(root, manifest.DepsDirs)

	entryIDs, err := entryIdentifiers(opts.Entries, root)
	if err != nil {
		return nil, err
	}
	for _, id := range entryIDs {
		emitEvent(opts.Progress, Event{File: id, Stage: StageResolve, Status: StatusQueued})
	}

	source := &resolverSource{resolver: resolver, progress: opts.Progress}
	extractor := &cachingExtractor{cache: opts.Cache}

	g, err := graph.Build(source, extractor, entryIDs)
	if err != nil {
		return nil, err
	}

	emitEvent(opts.Progress, Event{Stage: StageSort, Status: StatusWorking})
	order, err := graph.Sort(g, entryIDs)
	if err != nil {
		emitEvent(opts.Progress, Event{Stage: StageSort, Status: StatusError, Err: err})
		return nil, err
	}
	emitEvent(opts.Progress, Event{Stage: StageSort, Status: StatusDone})

	refs, err := globalNames(order, resolver, root, manifest.DepsDirs)
	if err != nil {
		return nil, err
	}
	return &plan{resolver: resolver, refs: refs, discovery: g.Nodes()}, nil
}

func locateRoot(opts Options) (string, error) {
	if opts.Root != "" {
		return project.ValidateRoot(opts.Root)
	}
	startDir, err := filepath.Abs(filepath.Dir(opts.Entries[0]))
	if err != nil {
		return "", fmt.Errorf("failed to resolve entry directory: %w", err)
	}
	return project.FindRoot(startDir)
}

// entryIdentifiers maps entry file paths to project-root-relative
// identifiers, preserving order.
func entryIdentifiers(entries []string, root string) ([]string, error) {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve entry %q: %w", entry, err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("entry %q is outside the project root %q", entry, root)
		}
		ids = append(ids, filepath.ToSlash(rel))
	}
	return ids, nil
}

// fileRef pairs an import identifier with its bundle display name.
type fileRef struct {
	ID   string
	Name string
}

// globalNames maps sorted identifiers to global names, dropping later
// occurrences of the same name so no file is emitted twice even when it
// was reached under different identifiers.
func globalNames(order []string, resolver *resolve.Resolver, root string, depsDirs []string) ([]fileRef, error) {
	refs := make([]fileRef, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		f, err := resolver.Resolve(id)
		if err != nil {
			return nil, &graph.ResolutionError{Identifier: id, Err: err}
		}
		name, err := importpath.GlobalName(f.Path, root, depsDirs)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		refs = append(refs, fileRef{ID: id, Name: name})
	}
	return refs, nil
}

// resolverSource adapts the filesystem resolver to the graph builder and
// reports per-file progress along the way.
type resolverSource struct {
	resolver *resolve.Resolver
	progress ProgressSink
}

func (s *resolverSource) Resolve(identifier string) (string, string, error) {
	emitEvent(s.progress, Event{File: identifier, Stage: StageResolve, Status: StatusWorking})
	f, err := s.resolver.Resolve(identifier)
	if err != nil {
		emitEvent(s.progress, Event{File: identifier, Stage: StageResolve, Status: StatusError, Err: err})
		return "", "", err
	}
	emitEvent(s.progress, Event{File: identifier, Stage: StageResolve, Status: StatusDone})
	return f.Contents, f.Rel, nil
}

// cachingExtractor wraps the directive scanner with the content-hash
// import cache. Cache failures are ignored: the scanner is the source of
// truth.
type cachingExtractor struct {
	cache *resolve.ImportCache
}

func (e *cachingExtractor) Imports(contents string) ([]string, error) {
	if e.cache == nil {
		return lang.ExtractImports(contents)
	}
	key := resolve.HashContents(contents)
	if imports, ok, err := e.cache.Get(key); err == nil && ok {
		return imports, nil
	}
	imports, err := lang.ExtractImports(contents)
	if err != nil {
		return nil, err
	}
	_ = e.cache.Put(key, imports)
	return imports, nil
}
