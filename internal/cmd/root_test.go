package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vanpelt/ccat/internal/config"
	"github.com/vanpelt/ccat/internal/render"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolate points the config at a fresh temp file.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ccat.json")
	t.Setenv(config.PathEnv, path)
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadPrefs(t *testing.T, path string) config.Preferences {
	t.Helper()
	prefs, loaded, err := config.NewStore(path).Load()
	require.NoError(t, err)
	require.True(t, loaded, "expected %s to exist", path)
	return prefs
}

func TestPrintFile(t *testing.T) {
	cfg := isolate(t)
	file := writeFile(t, "main.go", "package main\n")

	stdout, _, err := execute(t, "", file)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", stdout)
	assert.NoFileExists(t, cfg, "nothing to save without preference flags")
}

func TestPrintStdin(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "hello\nworld")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", stdout)
}

func TestStdinReadOnce(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "once\n", "-", "-")
	require.NoError(t, err)
	assert.Equal(t, "once\n", stdout)
}

func TestForceColors(t *testing.T) {
	isolate(t)
	file := writeFile(t, "main.go", "package main\n")

	stdout, _, err := execute(t, "", "-c", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\x1b[")
}

func TestStylePersists(t *testing.T) {
	cfg := isolate(t)
	file := writeFile(t, "a.txt", "a\n")

	_, _, err := execute(t, "", "-s", "dracula", file)
	require.NoError(t, err)

	prefs := loadPrefs(t, cfg)
	assert.Equal(t, "dracula", prefs.Style)
	assert.Equal(t, config.BackgroundDark, prefs.Background)
	assert.Equal(t, config.DefaultFormat, prefs.Format)
}

func TestLineNumbersToggle(t *testing.T) {
	cfg := isolate(t)
	file := writeFile(t, "a.txt", "a\nb\n")

	_, _, err := execute(t, "", "-s", "github", "-b", "light", file)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "-n", file)
	require.NoError(t, err)
	assert.Equal(t, "1: a\n2: b\n", stdout)
	prefs := loadPrefs(t, cfg)
	assert.True(t, prefs.LineNumbers)
	assert.Equal(t, "github", prefs.Style)
	assert.Equal(t, config.BackgroundLight, prefs.Background)

	// remembered on the next run
	stdout, _, err = execute(t, "", file)
	require.NoError(t, err)
	assert.Equal(t, "1: a\n2: b\n", stdout)

	stdout, _, err = execute(t, "", "-N", file)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", stdout)
	prefs = loadPrefs(t, cfg)
	assert.False(t, prefs.LineNumbers)
	assert.Equal(t, "github", prefs.Style)
	assert.Equal(t, config.BackgroundLight, prefs.Background)
}

func TestNoSave(t *testing.T) {
	cfg := isolate(t)
	file := writeFile(t, "a.txt", "a\n")

	_, _, err := execute(t, "", "-s", "dracula", "-n", "--nosave", file)
	require.NoError(t, err)
	assert.NoFileExists(t, cfg)
}

func TestMissingFileDoesNotStopOthers(t *testing.T) {
	isolate(t)
	good := writeFile(t, "good.txt", "still printed\n")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	stdout, stderr, err := execute(t, "", missing, good)
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "still printed\n", stdout)
	assert.Contains(t, stderr, "Error: file not found: "+missing)
}

func TestFailedInputStillSaves(t *testing.T) {
	cfg := isolate(t)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	_, _, err := execute(t, "", "-s", "dracula", missing)
	require.Error(t, err)
	assert.Equal(t, "dracula", loadPrefs(t, cfg).Style)
}

func TestUnknownStyleFailsEarly(t *testing.T) {
	cfg := isolate(t)
	file := writeFile(t, "a.txt", "a\n")

	stdout, stderr, err := execute(t, "", "-s", "no-such-style", file)
	require.ErrorIs(t, err, render.ErrUnknownStyle)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ccat --styles")
	assert.NoFileExists(t, cfg)
}

func TestUnknownFormatFailsEarly(t *testing.T) {
	cfg := isolate(t)

	_, _, err := execute(t, "a\n", "-f", "postscript")
	require.ErrorIs(t, err, render.ErrUnknownFormat)
	assert.NoFileExists(t, cfg)
}

func TestInvalidBackground(t *testing.T) {
	cfg := isolate(t)

	_, _, err := execute(t, "a\n", "-b", "purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid background")
	assert.NoFileExists(t, cfg)
}

func TestStoredStyleIsIgnoredWhenUnknown(t *testing.T) {
	cfg := isolate(t)
	require.NoError(t, os.WriteFile(cfg, []byte(`{"style": "gone", "linenos": true}`), 0o644))

	stdout, stderr, err := execute(t, "a\n")
	require.NoError(t, err)
	assert.Equal(t, "1: a\n", stdout)
	assert.Contains(t, stderr, "ignoring stored style")
}

func TestUnknownLexer(t *testing.T) {
	isolate(t)

	stdout, stderr, err := execute(t, "a\n", "-l", "klingon")
	require.ErrorIs(t, err, errReported)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unknown lexer: klingon")
	assert.Contains(t, stderr, "ccat --lexers")
}

func TestPrintNames(t *testing.T) {
	isolate(t)
	a := writeFile(t, "a.txt", "a\n")
	b := writeFile(t, "b.txt", "b\n")

	stdout, _, err := execute(t, "", "-p", a, b)
	require.NoError(t, err)
	assert.Equal(t, "\n"+a+":\na\n\n"+b+":\nb\n", stdout)
}

func TestDebugReportsLexer(t *testing.T) {
	isolate(t)
	file := writeFile(t, "main.go", "package main\n")

	_, stderr, err := execute(t, "", "-D", file)
	require.NoError(t, err)
	assert.Contains(t, stderr, "resolved lexer")
	assert.Contains(t, stderr, "lexer=Go")
	assert.Contains(t, stderr, "via=filename")
	assert.Contains(t, stderr, "config=defaults")
}

func TestHTMLIsAlwaysHighlighted(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "print('hi')\n", "-f", "html", "-l", "python", "--nosave")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<html")
	assert.NotContains(t, stdout, "\x1b[")
}

func TestMutuallyExclusiveFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "line numbers", args: []string{"-n", "-N"}},
		{name: "guess and lexer", args: []string{"-g", "-l", "go"}},
		{name: "colors", args: []string{"-c", "-C"}},
		{name: "listings", args: []string{"-L", "-S"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := isolate(t)
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "none of the others can be")
			assert.NoFileExists(t, cfg)
		})
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "-v")
	require.NoError(t, err)
	assert.Equal(t, "ccat v. "+Version+"\n", stdout)
}

func TestHelp(t *testing.T) {
	stdout, _, err := execute(t, "", "-h")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ccat")
	assert.Contains(t, stdout, "nosave")
}

func TestListings(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "all lexers", args: []string{"-L"}, want: []string{"Lexer names:", "Python", "names:", "types:"}},
		{name: "filtered lexers", args: []string{"-L", "PYTHON"}, want: []string{"Lexer names matching 'PYTHON':", "Python"}},
		{name: "all styles", args: []string{"-S"}, want: []string{"Style names:", "monokai"}},
		{name: "filtered styles", args: []string{"-S", "^mono"}, want: []string{"monokailight"}},
		{name: "formatters", args: []string{"-F"}, want: []string{"Available formatters:", "16m", "html", "terminal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			stdout, _, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestListingWithoutMatches(t *testing.T) {
	isolate(t)

	stdout, stderr, err := execute(t, "", "-S", "zzzz-no-style")
	require.ErrorIs(t, err, errReported)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no styles matching: 'zzzz-no-style'")
}

func TestListingBadPattern(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "", "-L", "(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PATTERN")
}

func TestIsTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	assert.True(t, isTerminal(tty))
	assert.True(t, stdinIsTerminal(tty))

	file, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer file.Close()
	assert.False(t, isTerminal(file))
	assert.False(t, stdinIsTerminal(file))

	assert.False(t, isTerminal(&bytes.Buffer{}))
	assert.False(t, stdinIsTerminal(strings.NewReader("")))
}
