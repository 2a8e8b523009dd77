package input

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrFileNotFound is returned for inputs that do not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrStdinConsumed is returned when stdin is requested a second time.
	ErrStdinConsumed = errors.New("stdin was already read")
)

// StdinName is the display name used for standard input.
const StdinName = "stdin"

// IsStdin reports whether path names standard input.
func IsStdin(path string) bool {
	path = strings.TrimSpace(path)
	return path == "" || path == "-"
}

// Source is the full text of one input.
type Source struct {
	// Name is the path as given, or StdinName.
	Name string
	// Path is empty for standard input.
	Path string
	Text string
}

// Stdin reports whether the source was read from standard input.
func (s *Source) Stdin() bool {
	return s.Path == ""
}

// Reader reads named files, and standard input at most once.
type Reader struct {
	stdin     io.Reader
	stdinRead bool
}

// NewReader creates a reader using stdin for "-" and empty paths
func NewReader(stdin io.Reader) *Reader {
	return &Reader{stdin: stdin}
}

// Read returns the whole content of the named file, or of standard input
// when path is "-" or empty.
func (r *Reader) Read(path string) (*Source, error) {
	if IsStdin(path) {
		return r.readStdin()
	}

	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("unable to read file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("unable to read file %s: is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", path, err)
	}

	return &Source{Name: path, Path: path, Text: string(data)}, nil
}

func (r *Reader) readStdin() (*Source, error) {
	if r.stdinRead {
		return nil, ErrStdinConsumed
	}
	r.stdinRead = true

	if r.stdin == nil {
		return &Source{Name: StdinName}, nil
	}
	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return nil, fmt.Errorf("unable to read stdin: %w", err)
	}
	return &Source{Name: StdinName, Text: string(data)}, nil
}
