package bitmask

import (
	"image"
	"testing"

	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
)

// TestDedupeFramesCollapsesIdenticalGroups covers Scenario F: three
// consecutive frame-groups with identical pixel content collapse into one,
// with the dropped frames' delays folded onto the surviving one.
func TestDedupeFramesCollapsesIdenticalGroups(t *testing.T) {
	a := solidAtlas(4, 4)
	st := dmi.IconState{
		Dirs:   1,
		Frames: 3,
		Images: []image.Image{a, a, a},
		Delay:  []float32{1, 1, 1},
	}
	got := dedupeFrames(st)
	if got.Frames != 1 {
		t.Fatalf("Frames = %d, want 1", got.Frames)
	}
	if len(got.Images) != 1 {
		t.Fatalf("len(Images) = %d, want 1", len(got.Images))
	}
	if len(got.Delay) != 1 || got.Delay[0] != 3 {
		t.Errorf("Delay = %v, want [3]", got.Delay)
	}
}

func TestDedupeFramesKeepsDistinctGroups(t *testing.T) {
	a := solidAtlas(4, 4)
	b := image.NewNRGBA(image.Rect(0, 0, 4, 4)) // all-zero, distinct from a
	st := dmi.IconState{
		Dirs:   1,
		Frames: 2,
		Images: []image.Image{a, b},
		Delay:  []float32{1, 1},
	}
	got := dedupeFrames(st)
	if got.Frames != 2 {
		t.Errorf("Frames = %d, want 2 (distinct frames must not collapse)", got.Frames)
	}
}

func TestDedupeFramesPassthroughSingleFrame(t *testing.T) {
	a := solidAtlas(4, 4)
	st := dmi.IconState{Dirs: 1, Frames: 1, Images: []image.Image{a}}
	got := dedupeFrames(st)
	if got.Frames != 1 || len(got.Images) != 1 {
		t.Errorf("expected single-frame state to pass through unchanged, got %+v", got)
	}
}

func TestDedupeFramesPassthroughNoDelay(t *testing.T) {
	a := solidAtlas(4, 4)
	st := dmi.IconState{Dirs: 1, Frames: 2, Images: []image.Image{a, a}}
	got := dedupeFrames(st)
	if got.Frames != 2 {
		t.Errorf("expected no-delay state to pass through unchanged, got Frames=%d", got.Frames)
	}
}

func TestImagesEqual(t *testing.T) {
	a := solidAtlas(4, 4)
	b := solidAtlas(4, 4)
	if !imagesEqual(a, b) {
		t.Error("expected two identically-painted images to compare equal")
	}
	c := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if imagesEqual(a, c) {
		t.Error("expected differently-painted images to compare unequal")
	}
	d := solidAtlas(2, 2)
	if imagesEqual(a, d) {
		t.Error("expected differently-sized images to compare unequal")
	}
}
