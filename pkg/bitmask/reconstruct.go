package bitmask

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/hypnagogic-go/atlascutter/internal/engine/sprite"
	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
)

// PerformOperation runs Reconstruct: it requires a decoded multi-state
// icon and produces a ConfigWrapped payload pairing the rebuilt corner
// atlas with the BitmaskSlice configuration text that would re-cut it.
func (c *BitmaskSliceReconstruct) PerformOperation(input InputIcon) (ProcessorPayload, error) {
	decoded, ok := input.(DecodedIcon)
	if !ok {
		return nil, ErrDMINotFound
	}
	return c.performReconstruct(decoded.Icon)
}

type selectedEntry struct {
	suffix string
	state  dmi.IconState
}

func (c *BitmaskSliceReconstruct) performReconstruct(icon *dmi.Icon) (ProcessorPayload, error) {
	prefix, err := detectPrefix(icon.States)
	if err != nil {
		return nil, err
	}

	extractSet := make(map[string]bool, len(c.Extract))
	for _, e := range c.Extract {
		extractSet[e] = true
	}
	bespokeSet := make(map[string]bool, len(c.Bespoke))
	for _, b := range c.Bespoke {
		bespokeSet[b.Name] = true
	}

	suffixToState := make(map[string]dmi.IconState)
	for _, st := range icon.States {
		_, suffix := splitPrefix(st.Name)
		if extractSet[suffix] || bespokeSet[suffix] {
			suffixToState[suffix] = st
		}
	}

	order := make([]string, 0, len(c.Extract)+len(c.Bespoke))
	order = append(order, c.Extract...)
	for _, b := range c.Bespoke {
		order = append(order, b.Name)
	}
	selectedSet := make(map[string]bool, len(order))
	for _, s := range order {
		selectedSet[s] = true
	}

	var dropped []string
	for _, st := range icon.States {
		_, suffix := splitPrefix(st.Name)
		if selectedSet[suffix] {
			continue
		}
		if _, ok := ParseAdjacency(suffix); ok {
			continue
		}
		dropped = append(dropped, st.Name)
	}
	if len(dropped) > 0 {
		return nil, &DroppedStatesError{Names: dropped}
	}

	var entries []selectedEntry
	for _, suffix := range order {
		if st, ok := suffixToState[suffix]; ok {
			entries = append(entries, selectedEntry{suffix: suffix, state: st})
		}
	}
	if len(entries) == 0 {
		return nil, &ConfigError{Reason: "no icon states matched extract/bespoke"}
	}

	mostDirections, longestFrame, canonicalDelay := canonicalShape(entries)

	expanded, rewind, err := expandToCanonical(entries, mostDirections, canonicalDelay)
	if err != nil {
		return nil, err
	}

	var strategy DirectionStrategy
	if mostDirections != 1 {
		s, ok := CountToStrategy(mostDirections)
		if !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("reconstruct: %d directions has no matching direction strategy", mostDirections)}
		}
		strategy = s
	}

	atlas := paintAtlas(entries, expanded, mostDirections, longestFrame, icon.Width, icon.Height)
	text := c.emitConfigText(prefix, strategy, mostDirections, canonicalDelay, rewind, icon.Width, icon.Height)

	return ConfigWrappedPayload{
		Payload: SinglePayload{Image: PNGImage{Image: atlas}},
		Text:    PNGConfig{Text: text},
	}, nil
}

// detectPrefix runs Phase 1: the first state's hyphen-prefix (or none)
// becomes canonical; every other hyphenated name must share it.
func detectPrefix(states []dmi.IconState) (string, error) {
	if len(states) == 0 {
		return "", nil
	}
	prefix, _ := splitPrefix(states[0].Name)

	var offenders []string
	for _, st := range states[1:] {
		if !strings.Contains(st.Name, "-") {
			continue
		}
		p, _ := splitPrefix(st.Name)
		if p != prefix {
			offenders = append(offenders, st.Name)
		}
	}
	if len(offenders) > 0 {
		return "", &InconsistentPrefixesError{Offenders: offenders}
	}
	return prefix, nil
}

// splitPrefix splits a name at its first hyphen. With no hyphen, the
// whole name is the suffix and the prefix is empty.
func splitPrefix(name string) (prefix, suffix string) {
	idx := strings.Index(name, "-")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

// canonicalShape computes Phase 3's most_directions, longest_frame, and
// the selected state's longest delay vector (ties keep the first seen).
func canonicalShape(entries []selectedEntry) (mostDirections, longestFrame int, canonicalDelay []float32) {
	mostDirections, longestFrame = 1, 1
	for _, e := range entries {
		if e.state.Dirs > mostDirections {
			mostDirections = e.state.Dirs
		}
		if e.state.Frames > longestFrame {
			longestFrame = e.state.Frames
		}
		if len(e.state.Delay) > len(canonicalDelay) {
			canonicalDelay = e.state.Delay
		}
	}
	return mostDirections, longestFrame, canonicalDelay
}

// expandToCanonical runs the rest of Phase 3: every selected state's
// frames are expanded (by duplicating frame blocks) to align with the
// canonical delay sequence, accumulating every problem before failing so
// a caller sees every offending state in one error, not just the first.
func expandToCanonical(entries []selectedEntry, mostDirections int, canonicalDelay []float32) (map[string][]image.Image, bool, error) {
	var delayProblems []DelayProblem
	var dirProblems []DirProblem
	expanded := make(map[string][]image.Image, len(entries))
	rewind := false

	for _, e := range entries {
		st := e.state
		if st.Rewind {
			rewind = true
		}
		if st.Dirs != mostDirections {
			dirProblems = append(dirProblems, DirProblem{State: st.Name, Dirs: st.Dirs})
		}
		if len(canonicalDelay) > 0 && !delaysEqual(st.Delay, canonicalDelay) {
			counts, ok := expandDelayCounts(st.Delay, canonicalDelay)
			if !ok {
				delayProblems = append(delayProblems, DelayProblem{State: st.Name, Delays: st.Delay})
				continue
			}
			expanded[e.suffix] = expandImages(st.Images, st.Dirs, counts)
		} else {
			expanded[e.suffix] = st.Images
		}
	}

	if len(delayProblems) > 0 {
		return nil, false, &InconsistentDelaysError{Expected: canonicalDelay, Problems: delayProblems}
	}
	if len(dirProblems) > 0 {
		return nil, false, &InconsistentDirsError{Expected: mostDirections, Problems: dirProblems}
	}
	return expanded, rewind, nil
}

// expandDelayCounts walks a state's own per-frame delays against the
// canonical sequence, returning how many canonical slots each of the
// state's frames should be duplicated into. It fails if a frame's delay
// doesn't land exactly on a canonical boundary, or if the two sequences'
// totals don't match.
func expandDelayCounts(stateDelays, canonical []float32) ([]int, bool) {
	if len(stateDelays) == 0 {
		stateDelays = []float32{1}
	}
	const eps = 1e-3

	counts := make([]int, len(stateDelays))
	ci := 0
	for si, d := range stateDelays {
		remaining := d
		count := 0
		for remaining > eps && ci < len(canonical) {
			remaining -= canonical[ci]
			ci++
			count++
		}
		if remaining < -eps || remaining > eps {
			return nil, false
		}
		counts[si] = count
	}
	if ci != len(canonical) {
		return nil, false
	}
	return counts, true
}

// expandImages duplicates each frame-group (dirs images) counts[frame]
// times, producing a frame-major, dir-minor image sequence of the
// canonical frame count.
func expandImages(images []image.Image, dirs int, counts []int) []image.Image {
	total := 0
	for _, n := range counts {
		total += n
	}
	out := make([]image.Image, 0, total*dirs)
	for frame, n := range counts {
		group := images[frame*dirs : (frame+1)*dirs]
		for i := 0; i < n; i++ {
			out = append(out, group...)
		}
	}
	return out
}

func delaysEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > 1e-3 {
			return false
		}
	}
	return true
}

// paintAtlas runs Phase 4: the atlas is mostDirections direction blocks
// side by side, each block one column per distinct suffix (in entries
// order) and longestFrame rows tall; direction i of state x lands in
// column x of block i. The result can be re-sliced by a BitmaskSlice
// configuration with matching positions.
func paintAtlas(entries []selectedEntry, expanded map[string][]image.Image, mostDirections, longestFrame, iconW, iconH int) image.Image {
	n := len(entries)
	width := iconW * n * mostDirections
	height := iconH * longestFrame

	atlas := sprite.NewCanvas(width, height)
	for x, e := range entries {
		imgs := expanded[e.suffix]
		for y := 0; y < longestFrame; y++ {
			for i := 0; i < mostDirections; i++ {
				idx := y*mostDirections + i
				if idx >= len(imgs) {
					continue
				}
				pos := image.Point{X: x*iconW + i*n*iconW, Y: y * iconH}
				sprite.Replace(atlas, imgs[idx], pos)
			}
		}
	}
	return atlas
}

// emitConfigText runs Phase 5: a key-ordered BitmaskSlice configuration
// text that would re-cut the atlas paintAtlas produced.
func (c *BitmaskSliceReconstruct) emitConfigText(prefix string, strategy DirectionStrategy, mostDirections int, canonicalDelay []float32, rewind bool, iconW, iconH int) string {
	var b strings.Builder

	if prefix != "" {
		fmt.Fprintf(&b, "output_name = %q\n", prefix)
	}

	setKeys := make([]string, 0, len(c.Set))
	for k := range c.Set {
		setKeys = append(setKeys, k)
	}
	sort.Strings(setKeys)
	for _, k := range setKeys {
		fmt.Fprintf(&b, "%s = %q\n", k, c.Set[k])
	}

	if mostDirections != 1 {
		fmt.Fprintf(&b, "direction_strategy = %q\n", strategy.String())
	}

	if len(c.Bespoke) > 0 {
		b.WriteString("\n[prefabs]\n")
		for i, be := range c.Bespoke {
			fmt.Fprintf(&b, "%s = %d\n", be.Label, len(c.Extract)+i)
		}
	}

	if len(canonicalDelay) > 0 {
		b.WriteString("\n[animation]\n")
		parts := make([]string, len(canonicalDelay))
		for i, d := range canonicalDelay {
			parts[i] = strconv.FormatFloat(float64(d), 'g', -1, 32)
		}
		fmt.Fprintf(&b, "delays = [%s]\n", strings.Join(parts, ", "))
		if rewind {
			b.WriteString("rewind = true\n")
		}
	}

	fmt.Fprintf(&b, "\n[icon_size]\nx = %d\ny = %d\n", iconW, iconH)
	fmt.Fprintf(&b, "\n[output_icon_size]\nx = %d\ny = %d\n", iconW, iconH)
	// Integer division, per the §9 open question: the original split
	// point is not recoverable from the icon, and for odd dimensions the
	// halves are unequal, so reconstruct always rounds down rather than
	// guessing.
	fmt.Fprintf(&b, "\n[cut_pos]\nx = %d\ny = %d\n", iconW/2, iconH/2)

	return b.String()
}
