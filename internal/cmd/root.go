package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/vanpelt/ccat/internal/ui"
)

// Version is overridden at build time with -ldflags.
var Version = "0.5.0"

// errReported marks failures whose details were already written to stderr.
var errReported = errors.New("errors were reported")

type options struct {
	background     string
	colors         bool
	noColors       bool
	debug          bool
	format         string
	listFormatters bool
	guess          bool
	lexer          string
	listLexers     bool
	lineNumbers    bool
	noLineNumbers  bool
	noSave         bool
	printNames     bool
	style          string
	listStyles     bool
}

const longHelp = `# 🐱 ccat

**Print files with automatic syntax highlighting.**

When no FILE is given, or FILE is **-**, standard input is read.

## ✨ Features

- 🎨 **Highlighting** for hundreds of languages, detected by file name or content
- 💾 **Remembered preferences**: style, background, format and line numbers are saved
- 🔢 **Line numbers** with **-n**, turned back off with **-N**
- 🚰 **Pipe friendly**: colors are dropped when output is not a terminal, unless **-c** is given

## 📁 Configuration

Preferences are stored as JSON in **$XDG_CONFIG_HOME/ccat/ccat.json**.
Set **CCAT_CONFIG** to use another file, or pass **--nosave** to leave it untouched.

## 💡 Examples

` + "```bash\nccat main.go\nccat -n -s dracula *.py\ncurl -s https://example.com/data.json | ccat -l json\nccat -L python\n```"

// NewRootCmd builds the ccat command with its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ccat [FILE...]",
		Short:         "🐱 ccat - cat with syntax highlighting",
		Long:          longHelp,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listLexers || opts.listStyles || opts.listFormatters {
				return runList(cmd, opts, args)
			}
			return runPrint(cmd, opts, args)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("ccat v. {{.Version}}\n")

	// Set custom help function to use glamour for markdown rendering
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})

	flags := rootCmd.Flags()
	flags.SortFlags = false
	flags.StringVarP(&opts.background, "background", "b", "", "Either 'light' or 'dark'. Picks the style for 'auto'")
	flags.BoolVarP(&opts.colors, "colors", "c", false, "Force colors, even when piping output")
	flags.BoolVarP(&opts.noColors, "nocolors", "C", false, "Don't use colors")
	flags.BoolVarP(&opts.debug, "debug", "D", false, "Debug mode. Show more info")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: terminal, 256, 16m or html")
	flags.BoolVarP(&opts.listFormatters, "formatters", "F", false, "List all available formats")
	flags.BoolVarP(&opts.guess, "guess", "g", false, "Guess lexer by file content")
	flags.StringVarP(&opts.lexer, "lexer", "l", "", "Use this language/lexer name")
	flags.BoolVarP(&opts.listLexers, "lexers", "L", false, "List all known lexer names")
	flags.BoolVarP(&opts.lineNumbers, "linenos", "n", false, "Print line numbers")
	flags.BoolVarP(&opts.noLineNumbers, "nolinenos", "N", false, "Don't print line numbers")
	flags.BoolVar(&opts.noSave, "nosave", false, "Don't save options in the config file")
	flags.BoolVarP(&opts.printNames, "printnames", "p", false, "Print file names")
	flags.StringVarP(&opts.style, "style", "s", "", "Use this style name ('auto' follows the background)")
	flags.BoolVarP(&opts.listStyles, "styles", "S", false, "List all known style names")

	rootCmd.MarkFlagsMutuallyExclusive("linenos", "nolinenos")
	rootCmd.MarkFlagsMutuallyExclusive("guess", "lexer")
	rootCmd.MarkFlagsMutuallyExclusive("colors", "nocolors")
	rootCmd.MarkFlagsMutuallyExclusive("formatters", "lexers", "styles")

	return rootCmd
}

// Execute runs ccat with the process arguments and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, ui.NewStyles(isTerminal(os.Stderr)).ErrorLine(err))
		}
		os.Exit(1)
	}
}

// renderMarkdownHelp renders command help using glamour
func renderMarkdownHelp(cmd *cobra.Command) {
	var helpContent strings.Builder

	if cmd.Long != "" {
		helpContent.WriteString(cmd.Long)
		helpContent.WriteString("\n\n")
	} else if cmd.Short != "" {
		helpContent.WriteString("# " + cmd.Short)
		helpContent.WriteString("\n\n")
	}

	helpContent.WriteString("## 📖 Usage\n\n")
	helpContent.WriteString("```bash\n")
	helpContent.WriteString("ccat [FILE...] [-b style] [-f name] [-g | -l name] [-s name] [-c | -C] [-D] [-n | -N] [-p] [--nosave]\n")
	helpContent.WriteString("ccat (-F | -L | -S) [PATTERN]\n")
	helpContent.WriteString("ccat -h | -v\n")
	helpContent.WriteString("```\n\n")

	if cmd.HasAvailableFlags() {
		helpContent.WriteString("## ⚙️  Flags\n\n")
		flagUsages := cmd.Flags().FlagUsages()
		if flagUsages != "" {
			helpContent.WriteString("```\n")
			helpContent.WriteString(flagUsages)
			helpContent.WriteString("```\n\n")
		}
	}

	out := cmd.OutOrStdout()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to the raw markdown
		fmt.Fprint(out, helpContent.String())
		return
	}

	rendered, err := renderer.Render(helpContent.String())
	if err != nil {
		fmt.Fprint(out, helpContent.String())
		return
	}

	fmt.Fprint(out, rendered)
}
