package lexer

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnknownLexer is returned when an explicit lexer name is not known.
var ErrUnknownLexer = errors.New("unknown lexer")

// Plaintext is the id used when nothing better can be found.
const Plaintext = "plaintext"

// Via records how a lexer was chosen.
type Via string

const (
	ViaExplicit  Via = "explicit"
	ViaExtension Via = "extension"
	ViaFilename  Via = "filename"
	ViaMimeType  Via = "mimetype"
	ViaAnalysis  Via = "analysis"
	ViaFallback  Via = "fallback"
)

// builtinExtLexers are forced because filename matching alone picks poorly
// for them.
var builtinExtLexers = map[string]string{
	".json": "json",
	".vim":  "vim",
}

// Request is everything the resolver looks at for one input.
type Request struct {
	// Filename is empty for standard input.
	Filename string
	// Lexer is an explicit lexer name given by the user.
	Lexer string
	// Guess skips filename matching and goes straight to the content.
	Guess bool
	Text  string
}

// Result is a resolved lexer id and how it was found.
type Result struct {
	ID  string
	Via Via
}

// Resolver picks a lexer for each input
type Resolver struct {
	catalog   Catalog
	extLexers map[string]string
}

// NewResolver creates a resolver. extLexers maps lowercased file extensions
// (with the leading dot) to lexer names and takes precedence over the
// built-in mapping.
func NewResolver(catalog Catalog, extLexers map[string]string) *Resolver {
	return &Resolver{catalog: catalog, extLexers: extLexers}
}

// Resolve selects the lexer for a single input. Only an unknown explicit
// lexer is an error; everything else ends at plaintext at worst.
func (r *Resolver) Resolve(req Request) (Result, error) {
	if name := strings.TrimSpace(req.Lexer); name != "" {
		id, ok := r.catalog.ByName(name)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownLexer, name)
		}
		return Result{ID: id, Via: ViaExplicit}, nil
	}

	if req.Filename != "" && !req.Guess {
		if res, ok := r.byFilename(req.Filename); ok {
			return res, nil
		}
	}

	return r.byContent(req.Text), nil
}

func (r *Resolver) byFilename(filename string) (Result, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		name, ok := r.extLexers[ext]
		if !ok {
			name, ok = builtinExtLexers[ext]
		}
		if ok {
			if id, found := r.catalog.ByName(name); found {
				return Result{ID: id, Via: ViaExtension}, true
			}
		}
	}

	if id, ok := r.catalog.ByFilename(filename); ok {
		return Result{ID: id, Via: ViaFilename}, true
	}
	return Result{}, false
}

func (r *Resolver) byContent(text string) Result {
	if text == "" {
		return Result{ID: Plaintext, Via: ViaFallback}
	}

	// Walk up the detected MIME hierarchy; text/plain is too generic to
	// decide anything, so analysis gets a chance first.
	for m := mimetype.Detect([]byte(text)); m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("application/octet-stream") {
			break
		}
		mediaType, _, err := mime.ParseMediaType(m.String())
		if err != nil {
			continue
		}
		if id, ok := r.catalog.ByMimeType(mediaType); ok {
			return Result{ID: id, Via: ViaMimeType}
		}
	}

	if id, ok := r.catalog.Analyse(text); ok {
		return Result{ID: id, Via: ViaAnalysis}
	}
	return Result{ID: Plaintext, Via: ViaFallback}
}
