package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

// fakeSource serves contents from memory and counts resolutions per
// identifier. The resolved path is the identifier itself.
type fakeSource struct {
	files  map[string]string
	hits   map[string]int
	broken map[string]bool
}

func newFakeSource(files map[string]string) *fakeSource {
	return &fakeSource{files: files, hits: make(map[string]int), broken: make(map[string]bool)}
}

func (s *fakeSource) Resolve(id string) (string, string, error) {
	s.hits[id]++
	contents, ok := s.files[id]
	if !ok {
		return "", "", fmt.Errorf("%q: no such file", id)
	}
	return contents, id, nil
}

// lineExtractor treats each non-empty line of a file as one import path.
type lineExtractor struct{}

func (lineExtractor) Imports(contents string) ([]string, error) {
	if strings.HasPrefix(contents, "!") {
		return nil, errors.New("bad syntax")
	}
	var out []string
	for _, line := range strings.Split(contents, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func mustBuild(t *testing.T, files map[string]string, entries ...string) *Graph {
	t.Helper()
	g, err := Build(newFakeSource(files), lineExtractor{}, entries)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func assertOrdered(t *testing.T, g *Graph, order []string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	for _, e := range g.Edges() {
		if pos[e.Dependency] >= pos[e.Dependent] {
			t.Fatalf("ordering invariant violated: %q not before %q in %v", e.Dependency, e.Dependent, order)
		}
	}
}

func TestBuildAndSortChain(t *testing.T) {
	files := map[string]string{
		"main.sol": "util.sol",
		"util.sol": "base.sol",
		"base.sol": "",
	}
	g := mustBuild(t, files, "main.sol")
	order, err := Sort(g, []string{"main.sol"})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	want := []string{"base.sol", "util.sol", "main.sol"}
	if !slices.Equal(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestDiamondVisitedOnce(t *testing.T) {
	files := map[string]string{
		"main.sol":  "left.sol\nright.sol",
		"left.sol":  "base.sol",
		"right.sol": "base.sol",
		"base.sol":  "",
	}
	src := newFakeSource(files)
	g, err := Build(src, lineExtractor{}, []string{"main.sol"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if src.hits["base.sol"] != 1 {
		t.Fatalf("base.sol resolved %d times, want 1", src.hits["base.sol"])
	}
	// Both discovered edges into base.sol survive even though it is
	// traversed once.
	var into int
	for _, e := range g.Edges() {
		if e.Dependency == "base.sol" {
			into++
		}
	}
	if into != 2 {
		t.Fatalf("edges into base.sol = %d, want 2", into)
	}

	order, err := Sort(g, []string{"main.sol"})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("order has duplicates: %v", order)
	}
	assertOrdered(t, g, order)
}

func TestCycleFails(t *testing.T) {
	files := map[string]string{
		"a.sol": "b.sol",
		"b.sol": "a.sol",
	}
	g := mustBuild(t, files, "a.sol")
	_, err := Sort(g, []string{"a.sol"})
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("err = %v, want CycleError", err)
	}
	for _, name := range []string{"a.sol", "b.sol"} {
		if !slices.Contains(cyc.Visited, name) {
			t.Fatalf("cycle diagnostic %v missing %q", cyc.Visited, name)
		}
	}
}

func TestSelfImportCycleFails(t *testing.T) {
	g := mustBuild(t, map[string]string{"a.sol": "a.sol"}, "a.sol")
	if _, err := Sort(g, []string{"a.sol"}); err == nil {
		t.Fatalf("expected cycle error for self import")
	}
}

func TestIsolatedEntryAppearsOnce(t *testing.T) {
	g := mustBuild(t, map[string]string{"lone.sol": ""}, "lone.sol")
	order, err := Sort(g, []string{"lone.sol"})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if !slices.Equal(order, []string{"lone.sol"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestSortAppendsMissingEntries(t *testing.T) {
	g := NewGraph()
	order, err := Sort(g, []string{"ghost.sol", "ghost.sol"})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if !slices.Equal(order, []string{"ghost.sol"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestResolutionErrorNamesChain(t *testing.T) {
	files := map[string]string{
		"main.sol": "mid.sol",
		"mid.sol":  "ghost.sol",
	}
	_, err := Build(newFakeSource(files), lineExtractor{}, []string{"main.sol"})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("err = %v, want ResolutionError", err)
	}
	if resErr.Identifier != "ghost.sol" {
		t.Fatalf("identifier = %q", resErr.Identifier)
	}
	if !slices.Equal(resErr.Chain, []string{"main.sol", "mid.sol"}) {
		t.Fatalf("chain = %v", resErr.Chain)
	}
	if !strings.Contains(resErr.Error(), "main.sol -> mid.sol") {
		t.Fatalf("error message missing chain: %v", resErr)
	}
}

func TestParseErrorNamesPath(t *testing.T) {
	files := map[string]string{"bad.sol": "!not imports"}
	_, err := Build(newFakeSource(files), lineExtractor{}, []string{"bad.sol"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	want := "could not parse bad.sol for extracting its imports: bad syntax"
	if parseErr.Error() != want {
		t.Fatalf("message = %q, want %q", parseErr.Error(), want)
	}
}

func TestRelativeImportsNormalizeAgainstResolvedPath(t *testing.T) {
	files := map[string]string{
		"contracts/main.sol": "./util.sol\n../lib/math.sol",
		"contracts/util.sol": "",
		"lib/math.sol":       "",
	}
	g := mustBuild(t, files, "contracts/main.sol")
	nodes := g.Nodes()
	for _, want := range []string{"contracts/util.sol", "lib/math.sol"} {
		if !slices.Contains(nodes, want) {
			t.Fatalf("nodes %v missing %q", nodes, want)
		}
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	files := map[string]string{
		"e1.sol": "shared.sol\na.sol",
		"e2.sol": "shared.sol\nb.sol",
		"a.sol":  "", "b.sol": "", "shared.sol": "",
	}
	run := func() []string {
		g := mustBuild(t, files, "e1.sol", "e2.sol")
		order, err := Sort(g, []string{"e1.sol", "e2.sol"})
		if err != nil {
			t.Fatalf("Sort: %v", err)
		}
		return order
	}
	first := run()
	for i := 0; i < 10; i++ {
		if again := run(); !slices.Equal(first, again) {
			t.Fatalf("order not deterministic: %v vs %v", first, again)
		}
	}
}
