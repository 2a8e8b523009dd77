package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vanpelt/ccat/internal/config"
	"github.com/vanpelt/ccat/internal/input"
	"github.com/vanpelt/ccat/internal/lexer"
	"github.com/vanpelt/ccat/internal/logger"
	"github.com/vanpelt/ccat/internal/render"
	"github.com/vanpelt/ccat/internal/ui"
)

const stdinHint = "Using stdin, press CTRL + D for end of file."

// printer writes one input after the other with a shared renderer.
type printer struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	reader     *input.Reader
	resolver   *lexer.Resolver
	renderer   *render.Renderer
	out        *ui.Styles
	errs       *ui.Styles
	lexer      string
	guess      bool
	printNames bool
	configFrom string
}

func runPrint(cmd *cobra.Command, opts *options, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	errs := ui.NewStyles(isTerminal(stderr))
	logger.Configure(logger.GetLogLevel(opts.debug), stderr, errs.Colored())

	store, prefs, configFrom := loadPreferences()

	prefs, changed, err := opts.merge(cmd, prefs)
	if err != nil {
		return err
	}

	renderer, err := render.New(render.Options{
		Style:       prefs.Style,
		Background:  prefs.Background,
		Format:      prefs.Format,
		LineNumbers: prefs.LineNumbers,
		Colors:      opts.useColors(stdout),
	})
	if err != nil {
		switch {
		case errors.Is(err, render.ErrUnknownStyle):
			fmt.Fprintln(stderr, errs.StatusLine("Use 'ccat --styles' to list known style names.", ""))
		case errors.Is(err, render.ErrUnknownFormat):
			fmt.Fprintln(stderr, errs.StatusLine("Use 'ccat --formatters' to list known formats.", ""))
		}
		return err
	}

	logger.Debug().
		Str("config", configFrom).
		Str("style", renderer.StyleName()).
		Str("background", string(prefs.Background)).
		Str("format", renderer.FormatName()).
		Bool("linenos", prefs.LineNumbers).
		Bool("colors", renderer.Colors()).
		Msg("preferences")

	stdin := cmd.InOrStdin()
	p := &printer{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		reader:     input.NewReader(stdin),
		resolver:   lexer.NewResolver(lexer.ChromaCatalog{}, prefs.ExtLexers),
		renderer:   renderer,
		out:        ui.NewStyles(renderer.Colors() && renderer.FormatName() != render.HTML),
		errs:       errs,
		lexer:      opts.lexer,
		guess:      opts.guess,
		printNames: opts.printNames,
		configFrom: configFrom,
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	failed := 0
	for _, name := range args {
		if !p.print(name) {
			failed++
		}
	}

	if changed && !opts.noSave && store != nil {
		if err := store.Save(prefs); err != nil {
			logger.Warn().Err(err).Msg("preferences were not saved")
		} else {
			logger.Debug().Str("config", store.Path()).Msg("preferences saved")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs failed", errReported, failed, len(args))
	}
	return nil
}

// loadPreferences returns the store to save into (nil when no config path
// can be determined), the stored preferences and where they came from.
func loadPreferences() (*config.Store, config.Preferences, string) {
	path, err := config.DefaultPath()
	if err != nil {
		logger.Warn().Err(err).Msg("no config location, using defaults")
		return nil, config.Defaults(), "defaults"
	}

	store := config.NewStore(path)
	prefs, loaded, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Str("config", path).Msg("using default preferences")
	}
	if !loaded {
		return store, prefs, "defaults"
	}

	// A hand-edited file must not break every later run
	if _, err := render.ResolveStyle(prefs.Style, prefs.Background); err != nil {
		logger.Warn().Err(err).Str("config", path).Msg("ignoring stored style")
		prefs.Style = config.AutoStyle
	}
	if !render.KnownFormat(prefs.Format) {
		logger.Warn().Str("format", prefs.Format).Str("config", path).Msg("ignoring stored format")
		prefs.Format = config.DefaultFormat
	}
	return store, prefs, path
}

// merge applies the persisted flags the user actually passed on top of the
// stored preferences and reports whether anything was given.
func (o *options) merge(cmd *cobra.Command, prefs config.Preferences) (config.Preferences, bool, error) {
	flags := cmd.Flags()
	changed := false

	if flags.Changed("background") {
		bg, err := config.ParseBackground(o.background)
		if err != nil {
			return prefs, false, err
		}
		prefs.Background = bg
		changed = true
	}
	if flags.Changed("style") {
		prefs.Style = strings.TrimSpace(o.style)
		changed = true
	}
	if flags.Changed("format") {
		prefs.Format = strings.ToLower(strings.TrimSpace(o.format))
		changed = true
	}
	if flags.Changed("linenos") && o.lineNumbers {
		prefs.LineNumbers = true
		changed = true
	}
	if flags.Changed("nolinenos") && o.noLineNumbers {
		prefs.LineNumbers = false
		changed = true
	}
	return prefs, changed, nil
}

// useColors applies -c and -C, otherwise colors follow the terminal.
func (o *options) useColors(stdout io.Writer) bool {
	switch {
	case o.noColors:
		return false
	case o.colors:
		return true
	}
	return isTerminal(stdout)
}

// print writes one input and reports whether it succeeded. Failures are
// written to stderr so the remaining inputs are still printed.
func (p *printer) print(name string) bool {
	if input.IsStdin(name) && stdinIsTerminal(p.stdin) && isTerminal(p.stdout) {
		fmt.Fprintln(p.stderr, p.errs.StatusLine(stdinHint, ""))
	}

	src, err := p.reader.Read(name)
	if errors.Is(err, input.ErrStdinConsumed) {
		logger.Debug().Msg("stdin was already read, skipping")
		return true
	}
	if err != nil {
		p.fail(err)
		return false
	}

	res, err := p.resolver.Resolve(lexer.Request{
		Filename: src.Path,
		Lexer:    p.lexer,
		Guess:    p.guess,
		Text:     src.Text,
	})
	if err != nil {
		p.fail(err)
		if errors.Is(err, lexer.ErrUnknownLexer) {
			fmt.Fprintln(p.stderr, p.errs.StatusLine("Use 'ccat --lexers' to list known lexer names.", ""))
		}
		return false
	}

	logger.Debug().
		Str("file", src.Name).
		Str("lexer", res.ID).
		Str("via", string(res.Via)).
		Str("config", p.configFrom).
		Msg("resolved lexer")

	out, err := p.renderer.Render(src.Text, res.ID)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", src.Name, err))
		return false
	}

	if p.printNames {
		fmt.Fprintln(p.stdout, "\n"+p.out.FileName.Render(src.Name+":"))
	}
	if _, err := io.WriteString(p.stdout, out); err != nil {
		p.fail(fmt.Errorf("failed to write %s: %w", src.Name, err))
		return false
	}
	return true
}

func (p *printer) fail(err error) {
	fmt.Fprintln(p.stderr, p.errs.ErrorLine(err))
}
