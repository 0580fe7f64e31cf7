package app

import "testing"

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("volcano", "volcano"); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
	if got := Similarity("Volcano", "vOLCANO"); got != 1.0 {
		t.Fatalf("expected case-insensitive 1.0, got %v", got)
	}
	if got := Similarity("", ""); got != 1.0 {
		t.Fatalf("expected 1.0 for two empty strings, got %v", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	if got := Similarity("abc", "xyz"); got != 0.0 {
		t.Fatalf("expected 0.0, got %v", got)
	}
	if got := Similarity("word", ""); got != 0.0 {
		t.Fatalf("expected 0.0 against empty, got %v", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "telescope", "telescop"
	if Similarity(a, b) != Similarity(b, a) {
		t.Fatalf("expected symmetry, got %v vs %v", Similarity(a, b), Similarity(b, a))
	}
}

func TestIsNearMiss(t *testing.T) {
	// One dropped letter out of nine: well above the 0.75 threshold.
	if !IsNearMiss("telescop", "telescope") {
		t.Fatalf("expected near miss for a one-letter slip")
	}
	if IsNearMiss("banana", "telescope") {
		t.Fatalf("did not expect near miss for an unrelated word")
	}
}
