package resolver

import (
	"strings"

	"github.com/standardbeagle/snr/internal/parser"
)

// NameSplit tracks the working canonical substring for one parsed input.
// Partial starts as the full canonical and loses its final word with each
// Shorten; IsOriginal records whether any shortening has happened yet.
type NameSplit struct {
	Parsed     parser.ParsedName
	Partial    string
	IsOriginal bool
}

// SplitFromParsed builds the initial split for a parsed name. Callers
// should only pass parses with a non-empty canonical; an empty canonical
// yields a zero-size split that resolves to an empty response.
func SplitFromParsed(p parser.ParsedName) NameSplit {
	canonical, _ := p.Canonized()
	return NameSplit{
		Parsed:     p,
		Partial:    canonical,
		IsOriginal: true,
	}
}

// Size is the word count of the working substring; zero when empty.
func (s NameSplit) Size() int {
	if s.Partial == "" {
		return 0
	}
	return strings.Count(s.Partial, " ") + 1
}

// IsUninomial reports a single-word working substring.
func (s NameSplit) IsUninomial() bool {
	return s.Size() == 1
}

// Shorten drops the final space-separated word. Shortening a uninomial
// (or an already-empty split) empties it. The receiver is unchanged.
func (s NameSplit) Shorten() NameSplit {
	shortened := NameSplit{Parsed: s.Parsed, IsOriginal: false}
	if idx := strings.LastIndexByte(s.Partial, ' '); idx >= 0 {
		shortened.Partial = s.Partial[:idx]
	}
	return shortened
}
