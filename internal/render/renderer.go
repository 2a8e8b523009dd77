package render

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/vanpelt/ccat/internal/config"
	"github.com/vanpelt/ccat/internal/lexer"
	"github.com/vanpelt/ccat/internal/ui"
)

var (
	// ErrUnknownStyle is returned for style names chroma does not know.
	ErrUnknownStyle = errors.New("unknown style")
	// ErrUnknownFormat is returned for unsupported output formats.
	ErrUnknownFormat = errors.New("unknown format")
)

// Styles picked for the "auto" style.
const (
	DarkStyle  = "monokai"
	LightStyle = "monokailight"
)

// Format is an output format ccat knows how to produce.
type Format struct {
	Name        string
	Description string
	// chroma formatter registry key, empty for html
	chroma string
}

// HTML is the only format that is safe to pipe with colors.
const HTML = "html"

var formats = map[string]Format{
	"terminal": {Name: "terminal", Description: "8 colour terminal output", chroma: "terminal"},
	"256":      {Name: "256", Description: "256 colour terminal output", chroma: "terminal256"},
	"16m":      {Name: "16m", Description: "true colour terminal output", chroma: "terminal16m"},
	HTML:       {Name: HTML, Description: "standalone HTML document"},
}

// Formats returns the supported formats sorted by name.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// KnownFormat reports whether name is a supported format, ignoring case.
func KnownFormat(name string) bool {
	_, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// StyleNames returns every known style name.
func StyleNames() []string {
	return styles.Names()
}

// ResolveStyle maps a style name to a chroma style, resolving "auto"
// against the background.
func ResolveStyle(name string, bg config.Background) (*chroma.Style, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, config.AutoStyle) {
		name = DarkStyle
		if bg == config.BackgroundLight {
			name = LightStyle
		}
	}
	if style, ok := styles.Registry[name]; ok {
		return style, nil
	}
	for key, style := range styles.Registry {
		if strings.EqualFold(key, name) {
			return style, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, name)
}

// Options configure a Renderer.
type Options struct {
	Style       string
	Background  config.Background
	Format      string
	LineNumbers bool
	// Colors off passes text through unhighlighted. HTML ignores it.
	Colors bool
}

// Renderer turns source text into highlighted output. It holds no state
// besides its validated options.
type Renderer struct {
	style       *chroma.Style
	format      Format
	formatter   chroma.Formatter
	lineNumbers bool
	colors      bool
	ui          *ui.Styles
}

// New validates the style and format once for the whole run.
func New(opts Options) (*Renderer, error) {
	style, err := ResolveStyle(opts.Style, opts.Background)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(strings.TrimSpace(opts.Format))
	if name == "" {
		name = config.DefaultFormat
	}
	format, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}

	r := &Renderer{
		style:       style,
		format:      format,
		lineNumbers: opts.LineNumbers,
		colors:      opts.Colors || format.Name == HTML,
	}
	if format.Name == HTML {
		r.formatter = html.New(html.Standalone(true), html.WithLineNumbers(opts.LineNumbers))
	} else {
		r.formatter = formatters.Get(format.chroma)
	}
	r.ui = ui.NewStyles(r.colors)
	return r, nil
}

// StyleName returns the resolved chroma style name.
func (r *Renderer) StyleName() string {
	return r.style.Name
}

// FormatName returns the output format in use.
func (r *Renderer) FormatName() string {
	return r.format.Name
}

// Colors reports whether output is highlighted.
func (r *Renderer) Colors() bool {
	return r.colors
}

// Render highlights text with the lexer identified by lexerID. Non-empty
// output always ends with a newline.
func (r *Renderer) Render(text, lexerID string) (string, error) {
	if text == "" {
		return "", nil
	}
	if !r.colors {
		return r.plain(text), nil
	}

	l := chroma.Coalesce(lexer.Get(lexerID))
	it, err := l.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise with %s: %w", lexerID, err)
	}

	var b strings.Builder
	if r.format.Name == HTML {
		if err := r.formatter.Format(&b, r.style, it); err != nil {
			return "", fmt.Errorf("failed to format: %w", err)
		}
		return ensureNewline(b.String()), nil
	}

	lines := chroma.SplitTokensIntoLines(it.Tokens())
	width := len(strconv.Itoa(len(lines)))
	for i, line := range lines {
		if r.lineNumbers {
			b.WriteString(r.gutter(i+1, width))
		}
		if err := r.formatter.Format(&b, r.style, chroma.Literator(line...)); err != nil {
			return "", fmt.Errorf("failed to format: %w", err)
		}
	}
	return ensureNewline(b.String()), nil
}

func (r *Renderer) plain(text string) string {
	if !r.lineNumbers {
		return ensureNewline(text)
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	width := len(strconv.Itoa(len(lines)))
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(r.gutter(i+1, width))
		b.WriteString(line)
	}
	return ensureNewline(b.String())
}

func (r *Renderer) gutter(n, width int) string {
	return r.ui.LineNumber.Render(fmt.Sprintf("%0*d", width, n)) + ": "
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
