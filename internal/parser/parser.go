package parser

import (
	"strings"

	"github.com/google/uuid"

	"github.com/standardbeagle/snr/internal/types"
)

// ParsedName is the parser's view of one raw input string. ID is derived
// deterministically from the verbatim input, so the same string always
// parses to the same identity. Canonical is empty when the input could not
// be reduced to a canonical form.
type ParsedName struct {
	ID        uuid.UUID
	Verbatim  string
	Canonical string
}

// Canonized returns the canonical form and whether one exists.
func (p ParsedName) Canonized() (string, bool) {
	return p.Canonical, p.Canonical != ""
}

// Rank markers and annotations that separate epithets but carry no
// canonical content themselves.
var rankMarkers = map[string]bool{
	"var.":    true,
	"subsp.":  true,
	"ssp.":    true,
	"f.":      true,
	"fo.":     true,
	"forma":   true,
	"cf.":     true,
	"aff.":    true,
	"nothof.": true,
}

// Markers that terminate the name: everything after them is commentary,
// not epithets.
var terminators = map[string]bool{
	"sp.":     true,
	"spp.":    true,
	"sp":      true,
	"indet.":  true,
	"sect.":   true,
	"ser.":    true,
	"cv.":     true,
	"hybrid":  true,
	"species": true,
}

// Parse reduces a raw name string to its canonical form. It is total:
// unparseable input yields a ParsedName with an empty Canonical. The
// input identity is always populated.
func Parse(raw string) ParsedName {
	parsed := ParsedName{
		ID:       types.NameUUID(raw),
		Verbatim: raw,
	}
	parsed.Canonical = canonize(raw)
	return parsed
}

// canonize extracts "Genus epithet..." from a raw name, dropping subgenus
// parentheticals, hybrid signs, rank markers, authorship and years.
func canonize(raw string) string {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return ""
	}

	var words []string
	for i, tok := range tokens {
		tok = stripHybridSign(tok)
		if tok == "" {
			continue
		}

		// Subgenus or comment in parentheses contributes nothing.
		if strings.HasPrefix(tok, "(") {
			continue
		}

		lower := strings.ToLower(tok)
		if terminators[lower] {
			break
		}
		if rankMarkers[lower] {
			continue
		}

		if len(words) == 0 {
			// The genus must lead with a capital letter and be a plain
			// Latin word.
			if !isCapitalizedWord(tok) {
				return ""
			}
			words = append(words, capitalize(tok))
			continue
		}

		// Epithets are lowercase Latin words. Anything capitalized, an
		// initial, a year, or a connective starts the authorship and
		// ends the canonical.
		if isAuthorshipToken(tok) {
			break
		}
		if !isEpithet(lower) {
			// Unrecognized garbage mid-name: skip single stray symbols,
			// otherwise treat as authorship.
			if i > 0 && len(tok) == 1 {
				continue
			}
			break
		}
		words = append(words, lower)
	}

	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ")
}

// stripHybridSign removes hybrid notation from a token.
func stripHybridSign(tok string) string {
	tok = strings.TrimPrefix(tok, "×") // multiplication sign
	if tok == "x" || tok == "X" || tok == "×" {
		return ""
	}
	return tok
}

func isCapitalizedWord(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	first := rune(tok[0])
	if first < 'A' || first > 'Z' {
		return false
	}
	for _, r := range tok[1:] {
		if !isLatinLetter(r) && r != '-' {
			return false
		}
	}
	// An all-caps token is an author abbreviation, not a genus.
	return tok != strings.ToUpper(tok)
}

// isAuthorshipToken reports tokens that begin the author citation.
func isAuthorshipToken(tok string) bool {
	if tok == "&" || tok == "et" || tok == "ex" || tok == "and" {
		return true
	}
	first := rune(tok[0])
	if first >= 'A' && first <= 'Z' {
		return true
	}
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	// Abbreviated author names end with a period.
	return strings.HasSuffix(tok, ".")
}

func isEpithet(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	for _, r := range tok {
		if !isLatinLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// capitalize normalizes a genus token to leading-capital form.
func capitalize(tok string) string {
	lower := strings.ToLower(tok)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
