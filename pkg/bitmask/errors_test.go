package bitmask

import (
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"improper width", &ImproperImageWidthError{Expected: 10, Actual: 12}, "improper image width"},
		{"off by one", &ImageWidthOffByOneError{Expected: 10, Actual: 12}, "image width off by one"},
		{"off by direction", &ImageWidthOffByDirectionError{Expected: 10, Actual: 20}, "image width off by direction count"},
		{"inconsistent prefixes", &InconsistentPrefixesError{Offenders: []string{"a", "b"}}, "inconsistent prefixes"},
		{"dropped states", &DroppedStatesError{Names: []string{"junk"}}, "dropped states"},
		{"inconsistent delays", &InconsistentDelaysError{Problems: []DelayProblem{{State: "a"}}}, "inconsistent delays"},
		{"inconsistent dirs", &InconsistentDirsError{Expected: 4, Problems: []DirProblem{{State: "a", Dirs: 1}}}, "inconsistent directions"},
		{"text too long", &TextTooLongError{Text: "hi", WidthPixels: 40, MaxWidthPixels: 32}, "too long to render"},
		{"too many lines", &TooManyLinesError{Text: "hi", HeightPixels: 40, MaxHeightPixels: 32}, "too many lines"},
		{"config error", &ConfigError{Reason: "bad stuff"}, "config error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("Error() = %q, want substring %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestExplainersProduceNonEmptyText(t *testing.T) {
	explainers := []explainer{
		&ImproperImageWidthError{Expected: 10, Actual: 12},
		&ImageWidthOffByOneError{Expected: 10, Actual: 12, ExpectedInputsPerDir: 4, ActualInputsPerDir: 3},
		&ImageWidthOffByDirectionError{Expected: 10, Actual: 20, ExpectedDirCount: 1, ActualDirCount: 2},
		&InconsistentPrefixesError{Offenders: []string{"a"}},
		&DroppedStatesError{Names: []string{"junk"}},
		&InconsistentDelaysError{Expected: []float32{1}, Problems: []DelayProblem{{State: "a", Delays: []float32{2}}}},
		&InconsistentDirsError{Expected: 4, Problems: []DirProblem{{State: "a", Dirs: 1}}},
	}
	for _, e := range explainers {
		lines := e.Explain()
		if len(lines) == 0 {
			t.Errorf("%T.Explain() returned no lines", e)
		}
		for _, l := range lines {
			if l == "" {
				t.Errorf("%T.Explain() returned an empty line", e)
			}
		}
	}
}

// explainer mirrors the CLI's local interface for pretty-printing errors
// that offer a multi-line breakdown.
type explainer interface {
	Explain() []string
}

func TestImageWidthOffByDirectionHint(t *testing.T) {
	tooFew := &ImageWidthOffByDirectionError{ExpectedDirCount: 4, ActualDirCount: 2}
	lines := tooFew.Explain()
	if !strings.Contains(lines[len(lines)-1], "forgotten") {
		t.Errorf("expected 'too few' hint, got %q", lines[len(lines)-1])
	}

	tooMany := &ImageWidthOffByDirectionError{ExpectedDirCount: 2, ActualDirCount: 4}
	lines = tooMany.Explain()
	if !strings.Contains(lines[len(lines)-1], "direction strategy") {
		t.Errorf("expected 'wrong strategy' hint, got %q", lines[len(lines)-1])
	}
}
