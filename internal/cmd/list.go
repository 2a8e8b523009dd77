package cmd

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vanpelt/ccat/internal/lexer"
	"github.com/vanpelt/ccat/internal/logger"
	"github.com/vanpelt/ccat/internal/render"
	"github.com/vanpelt/ccat/internal/ui"
)

// runList prints lexers, styles or formats, optionally filtered by a
// case-insensitive regular expression.
func runList(cmd *cobra.Command, opts *options, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	errs := ui.NewStyles(isTerminal(stderr))
	logger.Configure(logger.GetLogLevel(opts.debug), stderr, errs.Colored())

	if len(args) > 1 {
		return fmt.Errorf("expected at most one PATTERN, got %d", len(args))
	}
	var (
		pat     *regexp.Regexp
		pattern string
	)
	if len(args) == 1 {
		pattern = args[0]
		var err error
		pat, err = regexp.Compile("(?i)" + pattern)
		if err != nil {
			return fmt.Errorf("invalid PATTERN %q: %w", pattern, err)
		}
	}

	out := ui.NewStyles(opts.useColors(stdout))
	var (
		kind  string
		count int
	)
	switch {
	case opts.listLexers:
		kind = "lexers"
		count = listLexers(stdout, out, pat, pattern)
	case opts.listStyles:
		kind = "styles"
		count = listStyles(stdout, out, pat, pattern)
	default:
		kind = "formatters"
		count = listFormats(stdout, out, pat, pattern)
	}

	if count == 0 {
		fmt.Fprintln(stderr, errs.ErrorLine(fmt.Errorf("no %s matching: '%s'", kind, pattern)))
		return errReported
	}
	logger.Debug().Str("kind", kind).Int("count", count).Msg("listed")
	return nil
}

func header(s *ui.Styles, title, pattern string) string {
	if pattern != "" {
		title += fmt.Sprintf(" matching '%s'", pattern)
	}
	return "\n" + s.Header.Render(title+":")
}

func listLexers(w io.Writer, s *ui.Styles, pat *regexp.Regexp, pattern string) int {
	infos := lexer.List(pat)
	if len(infos) == 0 {
		return 0
	}
	fmt.Fprintln(w, header(s, "Lexer names", pattern))
	for _, info := range infos {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.FileName.Render(info.Name))
		if len(info.Aliases) > 0 {
			fmt.Fprintf(w, "    %s %s\n", s.Muted.Render("names:"), strings.Join(info.Aliases, ", "))
		}
		if len(info.Filenames) > 0 {
			fmt.Fprintf(w, "    %s %s\n", s.Muted.Render("types:"), strings.Join(info.Filenames, ", "))
		}
	}
	return len(infos)
}

func listStyles(w io.Writer, s *ui.Styles, pat *regexp.Regexp, pattern string) int {
	var names []string
	for _, name := range render.StyleNames() {
		if pat == nil || pat.MatchString(name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return 0
	}
	fmt.Fprintln(w, header(s, "Style names", pattern))
	for _, name := range names {
		fmt.Fprintf(w, "    %s\n", name)
	}
	return len(names)
}

func listFormats(w io.Writer, s *ui.Styles, pat *regexp.Regexp, pattern string) int {
	var matched []render.Format
	for _, f := range render.Formats() {
		if pat == nil || pat.MatchString(f.Name) || pat.MatchString(f.Description) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return 0
	}
	fmt.Fprintln(w, header(s, "Available formatters", pattern))
	for _, f := range matched {
		fmt.Fprintf(w, "    %-9s %s\n", f.Name, s.Muted.Render(f.Description))
	}
	return len(matched)
}
