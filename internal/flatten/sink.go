package flatten

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sink consumes output chunks. All emission goes through a sink so callers
// can stream to stdout, append to a file, or accumulate in memory.
type Sink func(chunk string) error

// WriterSink streams chunks to w.
func WriterSink(w io.Writer) Sink {
	return func(chunk string) error {
		_, err := io.WriteString(w, chunk)
		return err
	}
}

// StdoutSink streams chunks to standard output.
func StdoutSink() Sink {
	return WriterSink(os.Stdout)
}

// StringSink accumulates chunks into an in-memory string.
type StringSink struct {
	b strings.Builder
}

// Sink returns the chunk consumer backed by the accumulator.
func (s *StringSink) Sink() Sink {
	return func(chunk string) error {
		s.b.WriteString(chunk)
		return nil
	}
}

func (s *StringSink) String() string { return s.b.String() }

// FileSink appends chunks to the file at path, creating missing parent
// directories and removing any pre-existing file first. Notices about
// those side effects go to notices (pass nil to silence them). The
// returned closer must be called after the last chunk.
func FileSink(path string, notices io.Writer) (Sink, io.Closer, error) {
	if notices == nil {
		notices = io.Discard
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
			}
			fmt.Fprintf(notices, "created directory %s\n", dir)
		} else if err != nil {
			return nil, nil, fmt.Errorf("failed to stat output directory %q: %w", dir, err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, nil, fmt.Errorf("failed to remove existing output %q: %w", path, err)
		}
		fmt.Fprintf(notices, "removed existing %s\n", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to stat output %q: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output %q: %w", path, err)
	}
	return WriterSink(f), f, nil
}
