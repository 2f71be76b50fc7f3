package graph

import (
	"fmt"
	"strings"
)

// ResolutionError reports an import that could not be located. Chain holds
// the identifiers that led to the failing import, outermost first.
type ResolutionError struct {
	Identifier string
	Chain      []string
	Err        error
}

func (e *ResolutionError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("cannot resolve %q: %v", e.Identifier, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q (imported via %s): %v",
		e.Identifier, strings.Join(e.Chain, " -> "), e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ParseError reports a file whose imports could not be extracted.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s for extracting its imports: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CycleError reports that no dependency-respecting linear order exists.
// Visited lists every file seen during traversal; the cycle is somewhere
// in there.
type CycleError struct {
	Visited []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("import cycle detected, no valid flatten order exists (files visited: %s)",
		strings.Join(e.Visited, ", "))
}
