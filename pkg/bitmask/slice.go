package bitmask

import (
	"image"

	"github.com/hypnagogic-go/atlascutter/internal/engine/sprite"
	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
	"github.com/hypnagogic-go/atlascutter/pkg/geom"
)

// cornerLibrary holds, per input direction, per CornerType in use, per
// Corner, the per-frame cropped sub-images extracted from the atlas.
type cornerLibrary map[Direction]map[CornerType]map[Corner][]image.Image

// prefabLibrary holds, per input direction, per prefab Adjacency, the
// per-frame full input tiles extracted from the atlas.
type prefabLibrary map[Direction]map[Adjacency][]image.Image

// PerformOperation runs the Slice operation: it requires a raw atlas
// image, and returns a Single DMI payload (or, with debug output
// enabled, a MultipleNamed payload carrying the corner library dump
// alongside the composed icon).
func (c *BitmaskSlice) PerformOperation(input InputIcon) (ProcessorPayload, error) {
	raw, ok := input.(RawImage)
	if !ok {
		return nil, ErrImageNotFound
	}
	return c.performSlice(raw.Image, false)
}

// PerformDebugOperation is the Step 6 debug variant: it additionally
// returns the per-direction, per-corner-type crop library as named PNGs,
// grounded on the original tool's generate_debug_icons.
func (c *BitmaskSlice) PerformDebugOperation(input InputIcon) (ProcessorPayload, error) {
	raw, ok := input.(RawImage)
	if !ok {
		return nil, ErrImageNotFound
	}
	return c.performSlice(raw.Image, true)
}

func (c *BitmaskSlice) effectiveOutputIconSize() geom.Point {
	if c.OutputIconSize.X == 0 && c.OutputIconSize.Y == 0 {
		return c.IconSize
	}
	return c.OutputIconSize
}

func (c *BitmaskSlice) animationDelays() []float32 {
	if c.Animation == nil {
		return nil
	}
	if len(c.Animation.Delays) == 0 {
		return []float32{1}
	}
	return c.Animation.Delays
}

func (c *BitmaskSlice) animationRewind() bool {
	return c.Animation != nil && c.Animation.Rewind
}

func (c *BitmaskSlice) performSlice(atlas image.Image, debug bool) (ProcessorPayload, error) {
	inputDirs := c.DirectionStrategy.InputVec()
	dirCount := len(inputDirs)

	bounds := atlas.Bounds()
	if err := c.validateWidth(bounds.Dx(), dirCount); err != nil {
		return nil, err
	}
	if c.IconSize.Y == 0 {
		return nil, &ConfigError{Reason: "icon_size.y must be non-zero"}
	}
	numFrames := bounds.Dy() / int(c.IconSize.Y)
	if numFrames == 0 {
		numFrames = 1
	}

	corners, prefabs := c.buildLibraries(atlas, inputDirs, numFrames)

	assembled := make(map[Direction]map[Adjacency][]image.Image, dirCount)
	for _, dir := range inputDirs {
		assembled[dir] = c.composeFrames(corners, prefabs, dir, numFrames)
	}

	states := c.flattenStates(assembled, numFrames)

	if c.MapIcon != nil {
		outSize := c.effectiveOutputIconSize()
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

	outSize := c.effectiveOutputIconSize()
	icon := &dmi.Icon{Width: int(outSize.X), Height: int(outSize.Y), States: states}

	if !debug {
		return SinglePayload{Image: DMIImage{Icon: icon}}, nil
	}
	return MultipleNamedPayload{Icons: append(
		c.debugIcons(corners),
		NamedIcon{Name: c.OutputName, Image: DMIImage{Icon: icon}},
	)}, nil
}

// validateWidth checks the atlas width against the expected
// D·(P+F)·icon_size.x per §3, classifying any mismatch per §7.
func (c *BitmaskSlice) validateWidth(actualWidth, dirCount int) error {
	p := len(c.Positions)
	f := len(c.Prefabs)
	iconWidth := int(c.IconSize.X)
	perDirWidth := (p + f) * iconWidth
	expected := dirCount * perDirWidth
	if actualWidth == expected {
		return nil
	}

	if iconWidth > 0 {
		diffOneDir := dirCount * iconWidth
		diff := expected - actualWidth
		if diff < 0 {
			diff = -diff
		}
		if diff == diffOneDir && dirCount > 0 {
			actualPerDirWidth := actualWidth / dirCount
			actualInputsPerDir := actualPerDirWidth / iconWidth
			return &ImageWidthOffByOneError{
				Expected:             expected,
				Actual:               actualWidth,
				ExpectedInputsPerDir: p + f,
				ActualInputsPerDir:   actualInputsPerDir,
			}
		}
	}

	if perDirWidth > 0 && actualWidth%perDirWidth == 0 {
		actualDirCount := actualWidth / perDirWidth
		return &ImageWidthOffByDirectionError{
			Expected:         expected,
			Actual:           actualWidth,
			ExpectedDirCount: dirCount,
			ActualDirCount:   actualDirCount,
		}
	}

	return &ImproperImageWidthError{Expected: expected, Actual: actualWidth}
}

// buildLibraries extracts, per §4.3 Step 2, every corner sub-image and
// prefab tile the composition step will need.
func (c *BitmaskSlice) buildLibraries(atlas image.Image, inputDirs []Direction, numFrames int) (cornerLibrary, prefabLibrary) {
	p := uint32(len(c.Positions))
	f := uint32(len(c.Prefabs))
	cornersUsed := c.OutputType.CornersUsed()

	corners := make(cornerLibrary, len(inputDirs))
	prefabs := make(prefabLibrary, len(inputDirs))

	for dirIdx, dir := range inputDirs {
		byCornerType := make(map[CornerType]map[Corner][]image.Image, len(cornersUsed))
		for _, ct := range cornersUsed {
			col := uint32(c.Positions[ct])
			perCorner := make(map[Corner][]image.Image, 4)
			for _, corner := range AllCorners() {
				frames := make([]image.Image, numFrames)
				for frame := 0; frame < numFrames; frame++ {
					origin := tileOrigin(uint32(dirIdx), col, p, f, uint32(frame), c.IconSize)
					rect := cornerSubrect(corner, origin, c.IconSize, c.CutPos)
					frames[frame] = cropImage(atlas, rect)
				}
				perCorner[corner] = frames
			}
			byCornerType[ct] = perCorner
		}
		corners[dir] = byCornerType

		byAdjacency := make(map[Adjacency][]image.Image, len(c.Prefabs))
		for adj, col := range c.Prefabs {
			frames := make([]image.Image, numFrames)
			for frame := 0; frame < numFrames; frame++ {
				origin := tileOrigin(uint32(dirIdx), uint32(col), p, f, uint32(frame), c.IconSize)
				rect := geom.Rect{X: origin.X, Y: origin.Y, W: c.IconSize.X, H: c.IconSize.Y}
				frames[frame] = cropImage(atlas, rect)
			}
			byAdjacency[adj] = frames
		}
		prefabs[dir] = byAdjacency
	}
	return corners, prefabs
}

// composeFrames runs §4.3 Step 3 for a single input direction: every
// output adjacency's per-frame composed tile, either a verbatim prefab
// replace or an alpha-overlaid corner composition.
func (c *BitmaskSlice) composeFrames(corners cornerLibrary, prefabs prefabLibrary, dir Direction, numFrames int) map[Adjacency][]image.Image {
	outSize := c.effectiveOutputIconSize()
	out := make(map[Adjacency][]image.Image, c.OutputType.PossibleBitStates())

	for _, adj := range c.OutputType.OutputAdjacencies() {
		frames := make([]image.Image, numFrames)
		if prefabFrames, ok := prefabs[dir][adj]; ok {
			for i := 0; i < numFrames; i++ {
				canvas := sprite.NewCanvas(int(outSize.X), int(outSize.Y))
				pos := image.Point{X: int(c.OutputIconPos.X), Y: int(c.OutputIconPos.Y)}
				sprite.Replace(canvas, prefabFrames[i], pos)
				frames[i] = canvas
			}
		} else {
			for i := 0; i < numFrames; i++ {
				canvas := sprite.NewCanvas(int(outSize.X), int(outSize.Y))
				for _, corner := range AllCorners() {
					ct := adj.GetCornerType(corner)
					sub := corners[dir][ct][corner][i]
					h, v := corner.SidesOfCorner()
					hSpan := sideInfo(h, c.IconSize, c.CutPos)
					vSpan := sideInfo(v, c.IconSize, c.CutPos)
					sprite.Overlay(canvas, sub, image.Point{X: int(hSpan.Start), Y: int(vSpan.Start)})
				}
				frames[i] = canvas
			}
		}
		out[adj] = frames
	}
	return out
}

// flattenStates runs §4.3 Step 4: for every topologically valid output
// adjacency, assembles the final multi-direction animated icon state.
func (c *BitmaskSlice) flattenStates(assembled map[Direction]map[Adjacency][]image.Image, numFrames int) []dmi.IconState {
	outDirs := c.DirectionStrategy.OutputVec()
	delays := repeatDelays(c.animationDelays(), numFrames)
	rewind := c.animationRewind()

	states := make([]dmi.IconState, 0, c.OutputType.PossibleBitStates())
	for _, adj := range c.OutputType.OutputAdjacencies() {
		if !adj.HasNoOrphanedCorner() {
			continue
		}

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
				images = append(images, src)
			}
		}

		name := adj.PrettyPrint()
		if c.OutputName != "" {
			name = c.OutputName + "-" + name
		}

		st := dmi.IconState{
			Name:   name,
			Dirs:   len(outDirs),
			Frames: numFrames,
			Images: images,
			Delay:  delays,
			Rewind: rewind,
		}
		states = append(states, dedupeFrames(st))
	}
	return states
}

// debugIcons renders the raw corner library as named PNGs, one state per
// (direction, CornerType, Corner) triple, matching the original
// generate_debug_icons helper.
func (c *BitmaskSlice) debugIcons(corners cornerLibrary) []NamedIcon {
	var out []NamedIcon
	for dir, byType := range corners {
		for ct, byCorner := range byType {
			for corner, frames := range byCorner {
				name := "debug-" + dir.String() + "-" + ct.String() + "-" + corner.String()
				out = append(out, NamedIcon{Name: name, Image: PNGImage{Image: frames[0]}})
			}
		}
	}
	return out
}

// cropImage returns a new NRGBA image holding the pixels of src within
// rect, re-origined to (0,0).
func cropImage(src image.Image, rect geom.Rect) *image.NRGBA {
	sb := src.Bounds()
	origin := image.Point{X: sb.Min.X + int(rect.X), Y: sb.Min.Y + int(rect.Y)}
	full := image.Rect(origin.X, origin.Y, origin.X+int(rect.W), origin.Y+int(rect.H))
	return sprite.Crop(src, full)
}

// repeatDelays expands or truncates delays to exactly n entries by
// cycling through it, per §4.3 Step 4's repeat_for helper.
func repeatDelays(delays []float32, n int) []float32 {
	if n <= 0 || len(delays) == 0 {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = delays[i%len(delays)]
	}
	return out
}
