// Package lang recognizes the source-level directives the flattener cares
// about: import statements and pragma statements. Everything else in a file
// is opaque text and is reproduced verbatim.
package lang

import (
	"fmt"
	"strings"
)

// Cleaned is a file body with its directives lifted out.
type Cleaned struct {
	// Body is the file contents with import and pragma statements removed
	// and surrounding whitespace trimmed.
	Body string
	// Version is the first version pragma statement in the file, or "".
	Version string
	// Experimental holds experimental pragma statements in source order.
	Experimental []string
}

// ExtractImports returns the raw import paths of a file in source order.
func ExtractImports(contents string) ([]string, error) {
	var imports []string
	err := scan(contents, func(ln parsedLine) {
		if ln.kind == lineImport {
			imports = append(imports, ln.importPath)
		}
	})
	if err != nil {
		return nil, err
	}
	return imports, nil
}

// Clean strips import and pragma statements from a file and reports the
// pragmas that were removed. Only the first version pragma is kept; a file
// normally carries at most one anyway.
func Clean(contents string) (Cleaned, error) {
	var (
		cleaned Cleaned
		body    []string
	)
	err := scan(contents, func(ln parsedLine) {
		switch ln.kind {
		case lineImport:
			// dropped
		case linePragmaVersion:
			if cleaned.Version == "" {
				cleaned.Version = ln.text
			}
		case linePragmaExperimental:
			cleaned.Experimental = append(cleaned.Experimental, ln.text)
		default:
			body = append(body, ln.raw)
		}
	})
	if err != nil {
		return Cleaned{}, err
	}
	cleaned.Body = strings.TrimSpace(strings.Join(body, "\n"))
	return cleaned, nil
}

type lineKind uint8

const (
	lineOther lineKind = iota
	lineImport
	linePragmaVersion
	linePragmaExperimental
)

type parsedLine struct {
	kind       lineKind
	raw        string // original line, for body reassembly
	text       string // trimmed statement text, for pragma lines
	importPath string
}

func scan(contents string, emit func(parsedLine)) error {
	lines := strings.Split(contents, "\n")
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		switch {
		case hasKeyword(trimmed, "import"):
			p, err := importPathOf(trimmed)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			emit(parsedLine{kind: lineImport, raw: raw, importPath: p})
		case hasKeyword(trimmed, "pragma"):
			kind := linePragmaVersion
			if hasKeyword(strings.TrimSpace(trimmed[len("pragma"):]), "experimental") {
				kind = linePragmaExperimental
			}
			emit(parsedLine{kind: kind, raw: raw, text: trimmed})
		default:
			emit(parsedLine{kind: lineOther, raw: raw})
		}
	}
	return nil
}

// hasKeyword reports whether s starts with the keyword followed by a
// non-identifier character (or nothing).
func hasKeyword(s, keyword string) bool {
	if !strings.HasPrefix(s, keyword) {
		return false
	}
	if len(s) == len(keyword) {
		return true
	}
	c := s[len(keyword)]
	return !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

// importPathOf extracts the quoted path of a single-line import statement.
func importPathOf(stmt string) (string, error) {
	start := strings.IndexAny(stmt, `"'`)
	if start < 0 {
		return "", fmt.Errorf("import statement %q has no quoted path", stmt)
	}
	quote := stmt[start]
	rest := stmt[start+1:]
	end := strings.IndexByte(rest, quote)
	if end < 0 {
		return "", fmt.Errorf("import statement %q has an unterminated path", stmt)
	}
	if !strings.Contains(rest[end+1:], ";") {
		return "", fmt.Errorf("import statement %q is missing a terminating ';'", stmt)
	}
	path := rest[:end]
	if path == "" {
		return "", fmt.Errorf("import statement %q has an empty path", stmt)
	}
	return path, nil
}
