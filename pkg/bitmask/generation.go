package bitmask

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// generateMapIcon renders a horizontally centered text label, split into
// lines at "\n" only (no automatic wrapping), onto a transparent
// width×height canvas, the external generator §4.3 Step 5 appends as a
// map_icon state. It raises TextTooLongError when a single
// line would overflow the canvas width, and TooManyLinesError when the
// whole block would overflow the canvas height.
func generateMapIcon(width, height int, text string) (image.Image, error) {
	face := basicfont.Face7x13
	lines := strings.Split(text, "\n")

	lineHeight := face.Metrics().Height.Ceil()
	totalHeight := lineHeight * len(lines)
	if totalHeight > height {
		return nil, &TooManyLinesError{Text: text, HeightPixels: totalHeight, MaxHeightPixels: height}
	}
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		if w > width {
			return nil, &TextTooLongError{Text: line, WidthPixels: w, MaxWidthPixels: width}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	y := face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		x := (width - w) / 2
		if x < 0 {
			x = 0
		}
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
		y += lineHeight
	}
	return img, nil
}
