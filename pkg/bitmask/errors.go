package bitmask

import (
	"fmt"
	"strings"
)

// ErrImageNotFound is returned when an operation expecting a raw image is
// given a decoded icon instead.
var ErrImageNotFound = fmt.Errorf("bitmask: operation requires a raw image input")

// ErrDMINotFound is returned when an operation expecting a decoded icon is
// given a raw image instead.
var ErrDMINotFound = fmt.Errorf("bitmask: operation requires a decoded icon input")

// ImproperImageWidthError reports an atlas width that does not match the
// expected width and could not be attributed to a specific miscount.
type ImproperImageWidthError struct {
	Expected, Actual int
}

func (e *ImproperImageWidthError) Error() string {
	return fmt.Sprintf("improper image width: expected %dpx, got %dpx", e.Expected, e.Actual)
}

// Explain returns a human-readable breakdown, matching the original tool's
// reasons/helptext split.
func (e *ImproperImageWidthError) Explain() []string {
	return []string{
		fmt.Sprintf("Expected a width of %dpx, received a width of %dpx", e.Expected, e.Actual),
		"Have you made the image slightly the wrong width?",
	}
}

// ImageWidthOffByOneError reports an atlas width that is short or long by
// exactly one input tile per direction block.
type ImageWidthOffByOneError struct {
	Expected, Actual                   int
	ExpectedInputsPerDir, ActualInputsPerDir int
}

func (e *ImageWidthOffByOneError) Error() string {
	return fmt.Sprintf("image width off by one: expected %dpx (%d inputs/dir), got %dpx (%d inputs/dir)",
		e.Expected, e.ExpectedInputsPerDir, e.Actual, e.ActualInputsPerDir)
}

// Explain returns a human-readable breakdown.
func (e *ImageWidthOffByOneError) Explain() []string {
	return []string{
		fmt.Sprintf("Expected a width of %dpx, received a width of %dpx. Expected %d inputs per direction, received %d",
			e.Expected, e.Actual, e.ExpectedInputsPerDir, e.ActualInputsPerDir),
		"Have you miscounted the amount of inputs you need? Remember it's 4 for cardinals, 5 for diagonals, and 1 extra for each prefab.",
	}
}

// ImageWidthOffByDirectionError reports an atlas width that is an exact
// multiple of a single direction block's width, but the wrong multiple.
type ImageWidthOffByDirectionError struct {
	Expected, Actual                 int
	ExpectedDirCount, ActualDirCount int
}

func (e *ImageWidthOffByDirectionError) Error() string {
	return fmt.Sprintf("image width off by direction count: expected %dpx (%d dirs), got %dpx (%d dirs)",
		e.Expected, e.ExpectedDirCount, e.Actual, e.ActualDirCount)
}

// Explain returns a human-readable breakdown.
func (e *ImageWidthOffByDirectionError) Explain() []string {
	hint := "Are you using the wrong direction strategy?"
	if e.ExpectedDirCount > e.ActualDirCount {
		hint = "Have you forgotten to add a set of inputs for some of your dirs?"
	}
	return []string{
		fmt.Sprintf("Expected a width of %dpx, received a width of %dpx. Expected enough width for %d directions, found %d",
			e.Expected, e.Actual, e.ExpectedDirCount, e.ActualDirCount),
		hint,
	}
}

// InconsistentPrefixesError reports icon states whose hyphen-prefix does
// not match the prefix detected from the first state.
type InconsistentPrefixesError struct {
	Offenders []string
}

func (e *InconsistentPrefixesError) Error() string {
	return fmt.Sprintf("inconsistent prefixes: %s", strings.Join(e.Offenders, ", "))
}

// Explain returns a human-readable breakdown.
func (e *InconsistentPrefixesError) Explain() []string {
	return []string{
		fmt.Sprintf("The following icon states are named with inconsistent prefixes (with the rest of the file) [%s]", strings.Join(e.Offenders, ", ")),
		"Make sure you don't have two sets of cut icons in one file",
	}
}

// DroppedStatesError reports icon states that were neither selected for
// extraction nor parseable as an Adjacency, and so would silently
// disappear on reconstruction.
type DroppedStatesError struct {
	Names []string
}

func (e *DroppedStatesError) Error() string {
	return fmt.Sprintf("dropped states: %s", strings.Join(e.Names, ", "))
}

// Explain returns a human-readable breakdown.
func (e *DroppedStatesError) Explain() []string {
	return []string{
		fmt.Sprintf("Restoration would fail to properly capture the following icon states: [%s]", strings.Join(e.Names, ", ")),
		"You likely have a set of \"additional\" uncut icon states. Consider moving them to their own icon file.",
	}
}

// DelayProblem names one icon state whose per-frame delays could not be
// reconciled against the canonical delay sequence.
type DelayProblem struct {
	State  string
	Delays []float32
}

// InconsistentDelaysError reports every state whose delays could not be
// reconciled against the canonical delay sequence, accumulated across a
// single Reconstruct call per §7's propagation policy.
type InconsistentDelaysError struct {
	Expected []float32
	Problems []DelayProblem
}

func (e *InconsistentDelaysError) Error() string {
	return fmt.Sprintf("inconsistent delays across %d state(s)", len(e.Problems))
}

// Explain returns a human-readable breakdown.
func (e *InconsistentDelaysError) Explain() []string {
	out := []string{fmt.Sprintf("The default delays are %s", textDelays(e.Expected, "ds"))}
	for _, p := range e.Problems {
		out = append(out, fmt.Sprintf("Icon state %s's delays %s do not match", p.State, textDelays(p.Delays, "ds")))
	}
	return out
}

// DirProblem names one icon state whose direction count did not match the
// canonical direction count.
type DirProblem struct {
	State string
	Dirs  int
}

// InconsistentDirsError reports every state whose direction count differed
// from the canonical direction count.
type InconsistentDirsError struct {
	Expected int
	Problems []DirProblem
}

func (e *InconsistentDirsError) Error() string {
	return fmt.Sprintf("inconsistent directions across %d state(s), expected %d", len(e.Problems), e.Expected)
}

// Explain returns a human-readable breakdown.
func (e *InconsistentDirsError) Explain() []string {
	out := []string{fmt.Sprintf("Expected %d directions", e.Expected)}
	for _, p := range e.Problems {
		out = append(out, fmt.Sprintf("Icon state %s has %d directions", p.State, p.Dirs))
	}
	return out
}

// TextTooLongError is raised by the map-icon text generator when a line of
// text is wider than the target icon can hold.
type TextTooLongError struct {
	Text          string
	WidthPixels   int
	MaxWidthPixels int
}

func (e *TextTooLongError) Error() string {
	return fmt.Sprintf("text %q is too long to render (%dpx wide, max %dpx)", e.Text, e.WidthPixels, e.MaxWidthPixels)
}

// TooManyLinesError is raised by the map-icon text generator when text has
// more lines than the target icon's height can hold.
type TooManyLinesError struct {
	Text            string
	HeightPixels    int
	MaxHeightPixels int
}

func (e *TooManyLinesError) Error() string {
	return fmt.Sprintf("text %q has too many lines (%dpx tall, max %dpx)", e.Text, e.HeightPixels, e.MaxHeightPixels)
}

// ConfigError reports a semantic configuration failure discovered after
// parsing (e.g. a direction strategy that has no matching direction
// count, or a positions table missing a required corner type).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Reason)
}

func textDelays(delays []float32, suffix string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range delays {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%g%s", d, suffix)
	}
	b.WriteByte(']')
	return b.String()
}
