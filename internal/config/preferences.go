package config

import (
	"fmt"
	"strings"
)

// Background is the terminal background the output is tuned for.
type Background string

const (
	BackgroundDark  Background = "dark"
	BackgroundLight Background = "light"
)

const (
	// AutoStyle picks a style matching the background.
	AutoStyle = "auto"
	// DefaultFormat is the 8 colour terminal formatter.
	DefaultFormat = "terminal"
)

// ParseBackground accepts light, l, dark and d in any case.
func ParseBackground(s string) (Background, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "light":
		return BackgroundLight, nil
	case "d", "dark":
		return BackgroundDark, nil
	}
	return "", fmt.Errorf("invalid background %q: expecting 'light' or 'dark'", s)
}

// Preferences are the display settings remembered between runs.
type Preferences struct {
	Style       string            `json:"style"`
	Background  Background        `json:"background"`
	LineNumbers bool              `json:"linenos"`
	Format      string            `json:"format"`
	ExtLexers   map[string]string `json:"ext_lexers"`
}

// Defaults returns the preferences used on first run.
func Defaults() Preferences {
	return Preferences{
		Style:      AutoStyle,
		Background: BackgroundDark,
		Format:     DefaultFormat,
		ExtLexers:  map[string]string{},
	}
}

// Normalize fills empty or invalid fields with their defaults, so a saved
// document always carries every key.
func (p Preferences) Normalize() Preferences {
	d := Defaults()
	if strings.TrimSpace(p.Style) == "" {
		p.Style = d.Style
	}
	if bg, err := ParseBackground(string(p.Background)); err == nil {
		p.Background = bg
	} else {
		p.Background = d.Background
	}
	if strings.TrimSpace(p.Format) == "" {
		p.Format = d.Format
	}
	exts := make(map[string]string, len(p.ExtLexers))
	for ext, name := range p.ExtLexers {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || name == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = name
	}
	p.ExtLexers = exts
	return p
}
