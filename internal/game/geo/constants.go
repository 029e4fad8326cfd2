package geo

import "math"

// Grid defaults.
const (
	DefaultCellSize = 20.0

	// DefaultMaxExpansions bounds a single A* search. Exceeding it yields an
	// empty path ("unreachable for now").
	DefaultMaxExpansions = 4000

	// ShortHopCells is the distance (in cells) under which callers may try a
	// straight-line hop when the search comes back empty.
	ShortHopCells = 3
)

// A* step costs. Diagonal is strictly more expensive than orthogonal so the
// search prefers straight runs over zig-zags.
const (
	CostOrthogonal = 1.0
	CostDiagonal   = math.Sqrt2
)
