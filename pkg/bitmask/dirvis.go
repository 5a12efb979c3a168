package bitmask

import (
	"fmt"
	"image"

	"github.com/hypnagogic-go/atlascutter/internal/engine/sprite"
	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
	"github.com/hypnagogic-go/atlascutter/pkg/geom"
)

// PerformOperation runs the directional-visibility variant of Slice:
// instead of BitmaskSlice's full per-adjacency states, it emits
// per-(adjacency, Side) partial tiles and per-Corner inner-corner tiles
// (plus the map icon, if configured), for tiles whose visibility is
// masked by neighboring opaque geometry.
func (c *BitmaskDirectionalVis) PerformOperation(input InputIcon) (ProcessorPayload, error) {
	raw, ok := input.(RawImage)
	if !ok {
		return nil, ErrImageNotFound
	}
	return c.performDirVis(raw.Image)
}

func (c *BitmaskDirectionalVis) performDirVis(atlas image.Image) (ProcessorPayload, error) {
	inputDirs := c.DirectionStrategy.InputVec()
	dirCount := len(inputDirs)

	bounds := atlas.Bounds()
	if err := c.BitmaskSlice.validateWidth(bounds.Dx(), dirCount); err != nil {
		return nil, err
	}
	numFrames := bounds.Dy() / int(c.IconSize.Y)
	if numFrames == 0 {
		numFrames = 1
	}

	corners, prefabs := c.BitmaskSlice.buildLibraries(atlas, inputDirs, numFrames)

	assembled := make(map[Direction]map[Adjacency][]image.Image, dirCount)
	for _, dir := range inputDirs {
		assembled[dir] = c.BitmaskSlice.composeFrames(corners, prefabs, dir, numFrames)
	}

	outDirs := c.DirectionStrategy.OutputVec()
	outSize := c.effectiveOutputIconSize()
	delays := repeatDelays(c.animationDelays(), numFrames)
	rewind := c.animationRewind()

	var states []dmi.IconState

	for _, adj := range c.OutputType.OutputAdjacencies() {
		if !adj.HasNoOrphanedCorner() {
			continue
		}
		for _, side := range AllSides() {
			rect := sideSpacingRect(side, c.SlicePoint[side], outSize)
			images := make([]image.Image, 0, numFrames*len(outDirs))
			for frame := 0; frame < numFrames; frame++ {
				for _, od := range outDirs {
					var src image.Image
					if c.DirectionStrategy == StrategyCardinalsRotated {
						rotated := adj.RotateTo(od)
						src = assembled[Standard][rotated][frame]
					} else {
						src = assembled[od][adj][frame]
					}
					canvas := sprite.NewCanvas(int(outSize.X), int(outSize.Y))
					sprite.Replace(canvas, cropImage(src, rect), image.Point{X: int(rect.X), Y: int(rect.Y)})
					images = append(images, canvas)
				}
			}

			name := fmt.Sprintf("%s-%d", adj.PrettyPrint(), side.ByondDir())
			if c.OutputName != "" {
				name = c.OutputName + "-" + name
			}
			st := dmi.IconState{Name: name, Dirs: len(outDirs), Frames: numFrames, Images: images, Delay: delays, Rewind: rewind}
			states = append(states, dedupeFrames(st))
		}
	}

	// Inner-corner states are direction-agnostic: they're cropped from the
	// fully-cardinal (no diagonal, no edge) composed tile of the first
	// input direction, since a corner's own visibility mask never depends
	// on which output direction it's drawn for.
	baseDir := inputDirs[0]
	cardinalFrames := assembled[baseDir][Cardinals]
	for _, corner := range AllCorners() {
		rect := cornerSubrect(corner, geom.Point{}, outSize, c.CutPos)
		images := make([]image.Image, numFrames)
		for frame := 0; frame < numFrames; frame++ {
			canvas := sprite.NewCanvas(int(outSize.X), int(outSize.Y))
			sprite.Replace(canvas, cropImage(cardinalFrames[frame], rect), image.Point{X: int(rect.X), Y: int(rect.Y)})
			images[frame] = canvas
		}
		name := fmt.Sprintf("innercorner-%d", corner.ByondDir())
		if c.OutputName != "" {
			name = c.OutputName + "-" + name
		}
		states = append(states, dmi.IconState{Name: name, Dirs: 1, Frames: numFrames, Images: images, Delay: delays, Rewind: rewind})
	}

	if c.MapIcon != nil {
		frame, err := generateMapIcon(int(outSize.X), int(outSize.Y), c.MapIcon.Text)
		if err != nil {
			return nil, err
		}
		name := "map_icon"
		if c.OutputName != "" {
			name = c.OutputName + "-" + name
		}
		states = append(states, dmi.IconState{Name: name, Dirs: 1, Frames: 1, Images: []image.Image{frame}})
	}

	icon := &dmi.Icon{Width: int(outSize.X), Height: int(outSize.Y), States: states}
	return SinglePayload{Image: DMIImage{Icon: icon}}, nil
}

// sideSpacingRect returns a Side's partial-tile rectangle within a
// size-shaped canvas, split at point: vertical sides (N/S) take the full
// width and a vertical sub-span; horizontal sides (E/W) take the full
// height and a horizontal sub-span.
func sideSpacingRect(side Side, point, size geom.Point) geom.Rect {
	switch side {
	case North:
		return geom.Rect{X: 0, Y: 0, W: size.X, H: point.Y}
	case South:
		return geom.Rect{X: 0, Y: point.Y, W: size.X, H: size.Y - point.Y}
	case East:
		return geom.Rect{X: point.X, Y: 0, W: size.X - point.X, H: size.Y}
	case West:
		return geom.Rect{X: 0, Y: 0, W: point.X, H: size.Y}
	default:
		panic("bitmask: invalid side")
	}
}
