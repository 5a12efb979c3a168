// Package geom provides small 2D pixel-geometry value types shared by the
// atlas slicer and its codecs.
package geom

// Point is an integer pixel coordinate or pixel extent.
type Point struct {
	X uint32 `toml:"x"`
	Y uint32 `toml:"y"`
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Rect is an axis-aligned pixel rectangle in (origin, extent) form.
type Rect struct {
	X, Y, W, H uint32
}

// Origin returns the rectangle's top-left corner as a Point.
func (r Rect) Origin() Point {
	return Point{r.X, r.Y}
}

// Size returns the rectangle's extent as a Point.
func (r Rect) Size() Point {
	return Point{r.W, r.H}
}
