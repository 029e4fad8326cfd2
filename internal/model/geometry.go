package model

import "math"

// Point is a position in world units.
// Value type, passed by value.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance returns the euclidean distance to o.
func (p Point) Distance(o Point) float64 {
	return math.Sqrt(p.DistanceSquared(o))
}

// DistanceSquared returns the squared distance to o (no sqrt for hot paths).
func (p Point) DistanceSquared(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// Rect is an axis-aligned rectangle. X/Y is the top-left corner.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r (right/bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Facing is an 8-way direction used by sprites.
type Facing uint8

const (
	FacingSouth Facing = iota
	FacingSouthWest
	FacingWest
	FacingNorthWest
	FacingNorth
	FacingNorthEast
	FacingEast
	FacingSouthEast
)

// FacingFromDelta returns the octant closest to the direction (dx, dy).
// Y grows downwards (screen space). A zero delta yields FacingSouth.
func FacingFromDelta(dx, dy float64) Facing {
	if dx == 0 && dy == 0 {
		return FacingSouth
	}
	// atan2 with south = 0, rotating clockwise through west.
	angle := math.Atan2(-dx, dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	octant := int(math.Round(angle/(math.Pi/4))) % 8
	return Facing(octant)
}
