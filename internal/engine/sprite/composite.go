// Package sprite holds the low-level raster compositing primitives
// pkg/bitmask builds composed icon tiles out of: alpha-overlay for
// corner composition, and verbatim replace for prefab tiles.
package sprite

import (
	"image"
	"image/draw"
)

// Overlay alpha-blends src onto dst at pos, using the destination's
// existing alpha where src is transparent. This is the "alpha-overlay"
// compositing mode corner sub-images are drawn with.
func Overlay(dst draw.Image, src image.Image, pos image.Point) {
	sb := src.Bounds()
	rect := image.Rect(pos.X, pos.Y, pos.X+sb.Dx(), pos.Y+sb.Dy())
	draw.Draw(dst, rect, src, sb.Min, draw.Over)
}

// Replace copies src onto dst at pos verbatim, overwriting whatever was
// there including alpha. This is the "replace, not alpha-blend" mode
// prefab tiles are drawn with.
func Replace(dst draw.Image, src image.Image, pos image.Point) {
	sb := src.Bounds()
	rect := image.Rect(pos.X, pos.Y, pos.X+sb.Dx(), pos.Y+sb.Dy())
	draw.Draw(dst, rect, src, sb.Min, draw.Src)
}

// Crop returns a new NRGBA image holding the pixels of src within rect
// (specified in src's own coordinate space), re-origined to (0,0).
func Crop(src image.Image, rect image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

// NewCanvas allocates a transparent w×h NRGBA canvas, the blank surface
// every composed tile starts from.
func NewCanvas(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}
