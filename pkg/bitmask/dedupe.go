package bitmask

import (
	"image"

	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
)

// dedupeFrames implements §4.6: an IconState's images are grouped into
// Frames direction-groups of size Dirs; identical consecutive groups are
// folded together, their delay added onto the surviving group's. States
// with one frame or no delay vector pass through unchanged.
func dedupeFrames(st dmi.IconState) dmi.IconState {
	if st.Frames <= 1 || len(st.Delay) == 0 || st.Dirs <= 0 {
		return st
	}

	groups := make([][]image.Image, st.Frames)
	for f := 0; f < st.Frames; f++ {
		groups[f] = st.Images[f*st.Dirs : (f+1)*st.Dirs]
	}

	outGroups := make([][]image.Image, 0, st.Frames)
	outDelays := make([]float32, 0, len(st.Delay))

	for i, g := range groups {
		delay := float32(1)
		if i < len(st.Delay) {
			delay = st.Delay[i]
		}
		if len(outGroups) > 0 && groupsEqual(outGroups[len(outGroups)-1], g) {
			outDelays[len(outDelays)-1] += delay
			continue
		}
		outGroups = append(outGroups, g)
		outDelays = append(outDelays, delay)
	}

	images := make([]image.Image, 0, len(outGroups)*st.Dirs)
	for _, g := range outGroups {
		images = append(images, g...)
	}

	st.Images = images
	st.Frames = len(outGroups)
	st.Delay = outDelays
	return st
}

func groupsEqual(a, b []image.Image) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !imagesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// imagesEqual reports whether two images have the same bounds and
// pixel-for-pixel identical RGBA content.
func imagesEqual(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ar, ag, abv, aa := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			br, bg, bbv, ba := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if ar != br || ag != bg || abv != bbv || aa != ba {
				return false
			}
		}
	}
	return true
}
