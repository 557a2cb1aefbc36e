package model

// BBox is an axis-aligned bounding box in top-referenced device units.
// X0,Y0 is the top-left corner and X1,Y1 the bottom-right corner, so a
// valid box has X0 <= X1 and Y0 <= Y1.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// IsEmpty returns true if the box has zero or negative area.
func (b BBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// IsValid returns true if the corners are ordered.
func (b BBox) IsValid() bool {
	return b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// Contains reports whether the point (x, y) lies inside the box,
// inclusive of edges.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects reports whether the two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.X0 <= other.X1 && b.X1 >= other.X0 &&
		b.Y0 <= other.Y1 && b.Y1 >= other.Y0
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// Expand grows the box by delta in every direction.
func (b BBox) Expand(delta float64) BBox {
	return BBox{
		X0: b.X0 - delta,
		Y0: b.Y0 - delta,
		X1: b.X1 + delta,
		Y1: b.Y1 + delta,
	}
}
