package bitmask

import "testing"

func TestCornerSetPossibleBitStates(t *testing.T) {
	tests := []struct {
		c    CornerSet
		want int
	}{
		{CornerSetCardinal, 16},
		{CornerSetStandardDiagonal, 256},
		{CornerSetCornerDiagonal, 256},
	}
	for _, tt := range tests {
		if got := tt.c.PossibleBitStates(); got != tt.want {
			t.Errorf("%v.PossibleBitStates() = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestCornerSetCornersUsed(t *testing.T) {
	if got := len(CornerSetCardinal.CornersUsed()); got != 4 {
		t.Errorf("Cardinal CornersUsed() len = %d, want 4", got)
	}
	if got := len(CornerSetStandardDiagonal.CornersUsed()); got != 5 {
		t.Errorf("StandardDiagonal CornersUsed() len = %d, want 5", got)
	}
	if got := len(CornerSetCornerDiagonal.CornersUsed()); got != 13 {
		t.Errorf("CornerDiagonal CornersUsed() len = %d, want 13", got)
	}
}

func TestCornerSetOutputAdjacenciesCounts(t *testing.T) {
	if got := len(CornerSetCardinal.OutputAdjacencies()); got != 16 {
		t.Errorf("Cardinal OutputAdjacencies() len = %d, want 16", got)
	}
	if got := len(CornerSetStandardDiagonal.OutputAdjacencies()); got != 256 {
		t.Errorf("StandardDiagonal OutputAdjacencies() len = %d, want 256", got)
	}
	// CornerDiagonal adds one extra variant per diagonal-cardinal (4) and
	// per filled-diagonal (4) combination on top of the base 256 states.
	if got := len(CornerSetCornerDiagonal.OutputAdjacencies()); got != 256+8 {
		t.Errorf("CornerDiagonal OutputAdjacencies() len = %d, want %d", got, 256+8)
	}
}

func TestParseCornerSetRoundTrip(t *testing.T) {
	for _, c := range []CornerSet{CornerSetCardinal, CornerSetStandardDiagonal, CornerSetCornerDiagonal} {
		got, ok := ParseCornerSet(c.String())
		if !ok || got != c {
			t.Errorf("ParseCornerSet(%q) = (%v, %v), want (%v, true)", c.String(), got, ok, c)
		}
	}
}

func TestParseCornerSetEmptyDefaultsToCardinal(t *testing.T) {
	got, ok := ParseCornerSet("")
	if !ok || got != CornerSetCardinal {
		t.Errorf("ParseCornerSet(\"\") = (%v, %v), want (Cardinal, true)", got, ok)
	}
}

func TestParseCornerSetInvalid(t *testing.T) {
	if _, ok := ParseCornerSet("bogus"); ok {
		t.Error("expected ParseCornerSet to fail on unknown input")
	}
}

func TestCornerSetTextRoundTrip(t *testing.T) {
	for _, c := range []CornerSet{CornerSetCardinal, CornerSetStandardDiagonal, CornerSetCornerDiagonal} {
		text, err := c.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		var got CornerSet
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != c {
			t.Errorf("round trip: got %v, want %v", got, c)
		}
	}
}
