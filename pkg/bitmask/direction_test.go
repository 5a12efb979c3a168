package bitmask

import (
	"reflect"
	"testing"
)

func TestCountToStrategy(t *testing.T) {
	tests := []struct {
		count int
		want  DirectionStrategy
		ok    bool
	}{
		{1, StrategyStandard, true},
		{4, StrategyCardinals, true},
		{8, StrategyAll, true},
		{2, 0, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		got, ok := CountToStrategy(tt.count)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("CountToStrategy(%d) = (%v, %v), want (%v, %v)", tt.count, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDirectionStrategyInputVec(t *testing.T) {
	tests := []struct {
		name string
		s    DirectionStrategy
		want []Direction
	}{
		{"standard", StrategyStandard, []Direction{Standard}},
		{"cardinals rotated reads one input", StrategyCardinalsRotated, []Direction{Standard}},
		{"cardinals", StrategyCardinals, []Direction{DirS, DirN, DirE, DirW}},
		{"all", StrategyAll, []Direction{DirS, DirN, DirE, DirW, DirSE, DirSW, DirNE, DirNW}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.InputVec(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InputVec() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionStrategyOutputVec(t *testing.T) {
	if got := StrategyCardinalsRotated.OutputVec(); !reflect.DeepEqual(got, []Direction{DirS, DirN, DirE, DirW}) {
		t.Errorf("CardinalsRotated OutputVec() = %v, want 4 cardinals", got)
	}
	if got := StrategyStandard.OutputVec(); !reflect.DeepEqual(got, []Direction{Standard}) {
		t.Errorf("Standard OutputVec() = %v, want [Standard]", got)
	}
}

func TestInputPositions(t *testing.T) {
	positions := StrategyCardinals.InputPositions()
	want := map[Direction]int{DirS: 0, DirN: 1, DirE: 2, DirW: 3}
	if !reflect.DeepEqual(positions, want) {
		t.Errorf("InputPositions() = %v, want %v", positions, want)
	}
}

func TestParseDirectionStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want DirectionStrategy
		ok   bool
	}{
		{"", StrategyStandard, true},
		{"Standard", StrategyStandard, true},
		{"Cardinals", StrategyCardinals, true},
		{"CardinalsRotated", StrategyCardinalsRotated, true},
		{"All", StrategyAll, true},
		{"bogus", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirectionStrategy(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseDirectionStrategy(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDirectionStrategyTextRoundTrip(t *testing.T) {
	for _, s := range []DirectionStrategy{StrategyStandard, StrategyCardinals, StrategyCardinalsRotated, StrategyAll} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		var got DirectionStrategy
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != s {
			t.Errorf("round trip: got %v, want %v", got, s)
		}
	}
}
