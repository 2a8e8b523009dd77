package lexer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Catalog is the lookup surface of the highlighting library the resolver
// needs. Every method returns the canonical lexer id.
type Catalog interface {
	ByName(name string) (string, bool)
	ByFilename(filename string) (string, bool)
	ByMimeType(mimeType string) (string, bool)
	Analyse(text string) (string, bool)
}

// Info describes one lexer for listings.
type Info struct {
	Name      string
	Aliases   []string
	Filenames []string
}

// ChromaCatalog looks lexers up in chroma's global registry.
type ChromaCatalog struct{}

func lexerID(l chroma.Lexer) (string, bool) {
	if l == nil {
		return "", false
	}
	return l.Config().Name, true
}

// ByName finds a lexer by name or alias. Unlike chroma's Get it does not fall
// back to filename matching, so a typo is reported instead of guessed at.
func (ChromaCatalog) ByName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	for _, l := range lexers.GlobalLexerRegistry.Lexers {
		cfg := l.Config()
		if strings.ToLower(cfg.Name) == lower {
			return cfg.Name, true
		}
		for _, alias := range cfg.Aliases {
			if strings.ToLower(alias) == lower {
				return cfg.Name, true
			}
		}
	}
	return "", false
}

func (ChromaCatalog) ByFilename(filename string) (string, bool) {
	return lexerID(lexers.Match(filename))
}

func (ChromaCatalog) ByMimeType(mimeType string) (string, bool) {
	return lexerID(lexers.MatchMimeType(mimeType))
}

func (ChromaCatalog) Analyse(text string) (string, bool) {
	return lexerID(lexers.Analyse(text))
}

// Get returns the chroma lexer for an id produced by the catalog, or the
// fallback lexer when there is none.
func Get(id string) chroma.Lexer {
	if l := lexers.Get(id); l != nil {
		return l
	}
	return lexers.Fallback
}

// List returns every known lexer sorted by name. When pat is non-nil only
// lexers whose name, aliases or filename globs match are returned.
func List(pat *regexp.Regexp) []Info {
	var out []Info
	for _, l := range lexers.GlobalLexerRegistry.Lexers {
		cfg := l.Config()
		info := Info{
			Name:      cfg.Name,
			Aliases:   append([]string(nil), cfg.Aliases...),
			Filenames: append([]string(nil), cfg.Filenames...),
		}
		if pat != nil && !info.matches(pat) {
			continue
		}
		sort.Strings(info.Aliases)
		sort.Strings(info.Filenames)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (i Info) matches(pat *regexp.Regexp) bool {
	if pat.MatchString(i.Name) {
		return true
	}
	for _, s := range i.Aliases {
		if pat.MatchString(s) {
			return true
		}
	}
	for _, s := range i.Filenames {
		if pat.MatchString(s) {
			return true
		}
	}
	return false
}
