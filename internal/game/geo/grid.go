package geo

import (
	"math"

	"github.com/udisondev/hearth/internal/model"
)

// GridConfig describes the grid geometry and search budget.
type GridConfig struct {
	Width         float64
	Height        float64
	CellSize      float64
	MaxExpansions int
}

// Grid is a dense obstacle bitmap over fixed-size cells.
// A Grid is immutable once built: the world swaps in a freshly built grid
// whenever its object set changes, so a search never sees a half-built map.
type Grid struct {
	cellSize      float64
	cols, rows    int
	blocked       []uint64 // bitset, cell index = cy*cols + cx
	maxExpansions int
}

// BuildGrid rasterizes obstacles into a new grid.
func BuildGrid(cfg GridConfig, obstacles []model.Rect) *Grid {
	cs := cfg.CellSize
	if cs <= 0 {
		cs = DefaultCellSize
	}
	cols := int(math.Ceil(cfg.Width / cs))
	rows := int(math.Ceil(cfg.Height / cs))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	budget := cfg.MaxExpansions
	if budget <= 0 {
		budget = DefaultMaxExpansions
	}

	g := &Grid{
		cellSize:      cs,
		cols:          cols,
		rows:          rows,
		blocked:       make([]uint64, (cols*rows+63)/64),
		maxExpansions: budget,
	}
	for _, r := range obstacles {
		g.markRect(r)
	}
	return g
}

// markRect blocks every cell whose interior overlaps r.
func (g *Grid) markRect(r model.Rect) {
	if r.Empty() {
		return
	}
	x0 := int(math.Floor(r.X / g.cellSize))
	y0 := int(math.Floor(r.Y / g.cellSize))
	x1 := int(math.Ceil((r.X+r.W)/g.cellSize)) - 1
	y1 := int(math.Ceil((r.Y+r.H)/g.cellSize)) - 1
	for cy := max(y0, 0); cy <= min(y1, g.rows-1); cy++ {
		for cx := max(x0, 0); cx <= min(x1, g.cols-1); cx++ {
			i := cy*g.cols + cx
			g.blocked[i>>6] |= 1 << (uint(i) & 63)
		}
	}
}

// CellSize returns the side of a cell in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Cols returns the number of cell columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of cell rows.
func (g *Grid) Rows() int { return g.rows }

// MaxExpansions returns the search budget.
func (g *Grid) MaxExpansions() int { return g.maxExpansions }

// InBounds reports whether the cell exists.
func (g *Grid) InBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows
}

// Walkable reports whether the cell exists and is not blocked.
func (g *Grid) Walkable(cx, cy int) bool {
	if !g.InBounds(cx, cy) {
		return false
	}
	i := cy*g.cols + cx
	return g.blocked[i>>6]&(1<<(uint(i)&63)) == 0
}

// WalkableAt reports whether the cell containing p is walkable.
func (g *Grid) WalkableAt(p model.Point) bool {
	cx, cy := g.CellOf(p)
	return g.Walkable(cx, cy)
}

// CellOf returns the cell containing p, clamped into the grid.
func (g *Grid) CellOf(p model.Point) (int, int) {
	cx := int(math.Floor(p.X / g.cellSize))
	cy := int(math.Floor(p.Y / g.cellSize))
	return clampInt(cx, 0, g.cols-1), clampInt(cy, 0, g.rows-1)
}

// CellCenter returns the world position of the center of a cell.
func (g *Grid) CellCenter(cx, cy int) model.Point {
	return model.Point{
		X: (float64(cx) + 0.5) * g.cellSize,
		Y: (float64(cy) + 0.5) * g.cellSize,
	}
}

// BlockedCount returns the number of blocked cells (diagnostics).
func (g *Grid) BlockedCount() int {
	n := 0
	for cy := range g.rows {
		for cx := range g.cols {
			if !g.Walkable(cx, cy) {
				n++
			}
		}
	}
	return n
}

// NearestWalkable scans expanding square rings around (cx, cy) and returns the
// closest walkable cell. Within a ring the euclidean-closest cell wins; ties go
// to the first cell in scan order.
func (g *Grid) NearestWalkable(cx, cy int) (int, int, bool) {
	cx = clampInt(cx, 0, g.cols-1)
	cy = clampInt(cy, 0, g.rows-1)
	if g.Walkable(cx, cy) {
		return cx, cy, true
	}

	maxRing := max(g.cols, g.rows)
	for r := 1; r <= maxRing; r++ {
		bestX, bestY := -1, -1
		bestD := math.MaxInt
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue // interior already scanned
				}
				nx, ny := cx+dx, cy+dy
				if !g.Walkable(nx, ny) {
					continue
				}
				if d := dx*dx + dy*dy; d < bestD {
					bestD, bestX, bestY = d, nx, ny
				}
			}
		}
		if bestX >= 0 {
			return bestX, bestY, true
		}
	}
	return 0, 0, false
}

// NearestWalkablePoint returns the center of the walkable cell nearest to p.
func (g *Grid) NearestWalkablePoint(p model.Point) (model.Point, bool) {
	cx, cy := g.CellOf(p)
	nx, ny, ok := g.NearestWalkable(cx, cy)
	if !ok {
		return model.Point{}, false
	}
	return g.CellCenter(nx, ny), true
}

// LineClear reports whether every cell on the Bresenham line from a to b is walkable.
func (g *Grid) LineClear(a, b model.Point) bool {
	ax, ay := g.CellOf(a)
	bx, by := g.CellOf(b)
	it := NewLineIterator(ax, ay, bx, by)
	for it.Next() {
		if !g.Walkable(it.X(), it.Y()) {
			return false
		}
	}
	return true
}

// IntSource yields uniform ints in [0, n). *rand.Rand satisfies it.
type IntSource interface {
	IntN(n int) int
}

// RandomWalkableNear picks a random walkable cell center within radius cells of p.
// It makes a bounded number of attempts and then falls back to the nearest walkable cell.
func (g *Grid) RandomWalkableNear(p model.Point, radius int, rnd IntSource) (model.Point, bool) {
	if radius < 1 {
		radius = 1
	}
	cx, cy := g.CellOf(p)
	for range 16 {
		nx := cx + rnd.IntN(2*radius+1) - radius
		ny := cy + rnd.IntN(2*radius+1) - radius
		if (nx != cx || ny != cy) && g.Walkable(nx, ny) {
			return g.CellCenter(nx, ny), true
		}
	}
	return g.NearestWalkablePoint(p)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
