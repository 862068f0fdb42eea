package resolver

import (
	"testing"

	"github.com/standardbeagle/snr/internal/parser"
)

func TestSplitFromParsed(t *testing.T) {
	s := SplitFromParsed(parser.Parse("Homo sapiens Linnaeus"))

	if s.Partial != "Homo sapiens" {
		t.Errorf("Expected canonical partial, got %q", s.Partial)
	}
	if !s.IsOriginal {
		t.Error("Fresh split must be original")
	}
	if s.Size() != 2 {
		t.Errorf("Expected size 2, got %d", s.Size())
	}
	if s.IsUninomial() {
		t.Error("Binomial is not uninomial")
	}
}

func TestShorten(t *testing.T) {
	s := SplitFromParsed(parser.Parse("Betula alba pendula"))

	one := s.Shorten()
	if one.Partial != "Betula alba" {
		t.Errorf("Expected %q, got %q", "Betula alba", one.Partial)
	}
	if one.IsOriginal {
		t.Error("Shortened split is never original")
	}

	two := one.Shorten()
	if two.Partial != "Betula" || !two.IsUninomial() {
		t.Errorf("Expected uninomial %q, got %q", "Betula", two.Partial)
	}

	three := two.Shorten()
	if three.Partial != "" || three.Size() != 0 {
		t.Errorf("Shortening a uninomial must empty the split, got %q", three.Partial)
	}

	four := three.Shorten()
	if four.Partial != "" {
		t.Error("Shortening an empty split stays empty")
	}

	// Shorten is pure.
	if s.Partial != "Betula alba pendula" || !s.IsOriginal {
		t.Error("Shorten must not mutate the receiver")
	}
}

func TestSizeStrictlyDecreases(t *testing.T) {
	s := SplitFromParsed(parser.Parse("Abies alba beta gamma"))
	for prev := s.Size(); prev > 0; prev = s.Size() {
		s = s.Shorten()
		if s.Size() >= prev {
			t.Fatalf("Size must strictly decrease, went %d -> %d", prev, s.Size())
		}
	}
}
