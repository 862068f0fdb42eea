package parser

import (
	"testing"

	"github.com/standardbeagle/snr/internal/types"
)

func TestParseBinomial(t *testing.T) {
	p := Parse("Homo sapiens")

	canonical, ok := p.Canonized()
	if !ok {
		t.Fatal("Binomial should canonize")
	}
	if canonical != "Homo sapiens" {
		t.Errorf("Expected %q, got %q", "Homo sapiens", canonical)
	}
	if p.ID != types.NameUUID("Homo sapiens") {
		t.Error("ParsedName ID must be derived from the verbatim input")
	}
}

func TestParseStripsAuthorship(t *testing.T) {
	cases := map[string]string{
		"Homo sapiens Linnaeus, 1758":        "Homo sapiens",
		"Felis catus L.":                     "Felis catus",
		"Betula alba var. pendula Roth":      "Betula alba pendula",
		"Quercus robur subsp. robur":         "Quercus robur robur",
		"Parus major major (Linnaeus, 1758)": "Parus major major",
	}

	for raw, want := range cases {
		got, ok := Parse(raw).Canonized()
		if !ok {
			t.Errorf("%q should canonize", raw)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseSubgenusAndHybrid(t *testing.T) {
	cases := map[string]string{
		"Pomatomus (Pomatomus) saltatrix": "Pomatomus saltatrix",
		"×Triticosecale rimpaui":          "Triticosecale rimpaui",
		"Salix x sepulcralis":             "Salix sepulcralis",
	}

	for raw, want := range cases {
		got, ok := Parse(raw).Canonized()
		if !ok || got != want {
			t.Errorf("Parse(%q) = %q (ok=%v), want %q", raw, got, ok, want)
		}
	}
}

func TestParseGenusOnlyAnnotations(t *testing.T) {
	for _, raw := range []string{"Homo sp.", "Abies spp.", "Carex sect. Carex"} {
		got, ok := Parse(raw).Canonized()
		if !ok {
			t.Errorf("%q should canonize to the genus", raw)
			continue
		}
		first := got
		if idx := indexByte(got, ' '); idx >= 0 {
			first = got[:idx]
		}
		if got != first {
			t.Errorf("Parse(%q) = %q, want genus only", raw, got)
		}
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func TestParseFailures(t *testing.T) {
	for _, raw := range []string{"", "   ", "lowercase name", "123 456", "?!"} {
		p := Parse(raw)
		if _, ok := p.Canonized(); ok {
			t.Errorf("%q should not canonize, got %q", raw, p.Canonical)
		}
		// Identity is still assigned for failures.
		if p.ID != types.NameUUID(raw) {
			t.Errorf("%q: ID must still derive from the raw input", raw)
		}
	}
}

func TestParseNormalizesCase(t *testing.T) {
	got, ok := Parse("HOMO SAPIENS").Canonized()
	if ok {
		// All-caps genus reads as an author abbreviation; either outcome
		// must at least not produce a shouting canonical.
		if got == "HOMO SAPIENS" {
			t.Errorf("Canonical should never preserve all-caps: %q", got)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	a := Parse("Puma concolor (Linnaeus, 1771)")
	b := Parse("Puma concolor (Linnaeus, 1771)")

	if a.ID != b.ID || a.Canonical != b.Canonical {
		t.Error("Parse must be deterministic")
	}
}
