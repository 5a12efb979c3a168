package bitmask

import "github.com/hypnagogic-go/atlascutter/pkg/geom"

// SideSpacing is the [start, end) pixel span a side occupies within one
// input tile, measured against a configuration's cut point.
type SideSpacing struct {
	Start, End uint32
}

// Step returns the span's pixel length.
func (s SideSpacing) Step() uint32 {
	return s.End - s.Start
}

// sideInfo maps a side to its pixel span within one tile of size iconSize,
// split at cutPos, per §4.2's table.
func sideInfo(side Side, iconSize, cutPos geom.Point) SideSpacing {
	switch side {
	case North:
		return SideSpacing{Start: 0, End: cutPos.Y}
	case South:
		return SideSpacing{Start: cutPos.Y, End: iconSize.Y}
	case East:
		return SideSpacing{Start: cutPos.X, End: iconSize.X}
	case West:
		return SideSpacing{Start: 0, End: cutPos.X}
	default:
		panic("bitmask: invalid side")
	}
}

// tileOrigin returns the top-left pixel of the input tile at direction
// index dirIndex, column index, within an atlas whose direction blocks are
// (positionCount+prefabCount) tiles wide, at the given animation frame.
func tileOrigin(dirIndex, column, positionCount, prefabCount, frame uint32, iconSize geom.Point) geom.Point {
	index := dirIndex*(positionCount+prefabCount) + column
	return geom.Point{
		X: index * iconSize.X,
		Y: frame * iconSize.Y,
	}
}

// cornerSubrect returns the subrect of the input atlas a corner's sub-image
// occupies for the tile at tileOrigin.
func cornerSubrect(corner Corner, tileOrigin geom.Point, iconSize, cutPos geom.Point) geom.Rect {
	h, v := corner.SidesOfCorner()
	xSpan := sideInfo(h, iconSize, cutPos)
	ySpan := sideInfo(v, iconSize, cutPos)
	return geom.Rect{
		X: tileOrigin.X + xSpan.Start,
		Y: tileOrigin.Y + ySpan.Start,
		W: xSpan.Step(),
		H: ySpan.Step(),
	}
}

// expectedAtlasWidth returns D·(P+F)·icon_size.x, per §3's invariant.
func expectedAtlasWidth(directionCount, positionCount, prefabCount, iconSizeX int) int {
	return directionCount * (positionCount + prefabCount) * iconSizeX
}
