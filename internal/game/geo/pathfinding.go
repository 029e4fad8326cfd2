package geo

import (
	"container/heap"
	"math"

	"github.com/udisondev/hearth/internal/model"
)

// FindPath finds a path from start to end using A* over the obstacle grid.
//
// Movement is 8-directional; a diagonal step is only taken when both adjacent
// orthogonal cells are open. A start or end inside an obstacle is moved to the
// nearest walkable cell first. The search stops after MaxExpansions node
// expansions and returns nil: callers treat that as "unreachable for now".
//
// The first waypoint is the center of the (possibly relocated) start cell.
// Collinear intermediate points are dropped; every direction change is kept.
// The last waypoint is the exact requested end when the end cell is walkable,
// otherwise the center of the walkable cell nearest to it.
func (g *Grid) FindPath(start, end model.Point) []model.Point {
	cells := g.findCells(start, end)
	if len(cells) == 0 {
		return nil
	}
	return g.toWaypoints(cells, end)
}

// cell is a grid coordinate.
type cell struct {
	x, y int
}

// findCells runs A* and returns the raw cell path (start and goal included).
func (g *Grid) findCells(start, end model.Point) []cell {
	scx, scy := g.CellOf(start)
	ecx, ecy := g.CellOf(end)

	sx, sy, ok := g.NearestWalkable(scx, scy)
	if !ok {
		return nil
	}
	ex, ey, ok := g.NearestWalkable(ecx, ecy)
	if !ok {
		return nil
	}

	// Same cell, already there
	if sx == ex && sy == ey {
		return []cell{{sx, sy}}
	}

	result := g.astar(sx, sy, ex, ey)
	if result == nil {
		return nil // No path found or budget exceeded
	}

	cells := make([]cell, 0, 32)
	for n := result; n != nil; n = n.parent {
		cells = append(cells, cell{n.x, n.y})
	}

	// Reverse (A* builds path backward)
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// toWaypoints drops collinear cells and converts to world coordinates.
func (g *Grid) toWaypoints(cells []cell, end model.Point) []model.Point {
	ecx, ecy := g.CellOf(end)
	endWalkable := g.Walkable(ecx, ecy)

	if len(cells) == 1 {
		if endWalkable {
			return []model.Point{end}
		}
		return []model.Point{g.CellCenter(cells[0].x, cells[0].y)}
	}

	kept := make([]cell, 0, len(cells))
	kept = append(kept, cells[0])
	for i := 1; i < len(cells)-1; i++ {
		dx1, dy1 := cells[i].x-cells[i-1].x, cells[i].y-cells[i-1].y
		dx2, dy2 := cells[i+1].x-cells[i].x, cells[i+1].y-cells[i].y
		if dx1 == dx2 && dy1 == dy2 {
			continue // collinear
		}
		kept = append(kept, cells[i])
	}
	kept = append(kept, cells[len(cells)-1])

	path := make([]model.Point, len(kept))
	for i, c := range kept {
		path[i] = g.CellCenter(c.x, c.y)
	}
	if endWalkable {
		path[len(path)-1] = end
	}
	return path
}

// pathNode represents a node in the A* search graph.
type pathNode struct {
	x, y   int
	parent *pathNode
	gCost  float64 // Actual cost from start
	hCost  float64 // Heuristic cost to target
	fCost  float64 // gCost + hCost
	index  int     // heap index
}

// neighbour offsets: cardinals first (N, E, S, W), then diagonals.
var (
	cardinals = [4]cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	diagonals = [4]struct {
		d          cell
		adj1, adj2 int // indices into cardinals that must both be open
	}{
		{cell{1, -1}, 0, 1},  // NE: need N and E
		{cell{1, 1}, 1, 2},   // SE: need E and S
		{cell{-1, 1}, 2, 3},  // SW: need S and W
		{cell{-1, -1}, 3, 0}, // NW: need W and N
	}
)

// astar implements the A* algorithm on grid cells.
func (g *Grid) astar(sx, sy, tx, ty int) *pathNode {
	start := &pathNode{x: sx, y: sy}
	start.hCost = octile(sx, sy, tx, ty)
	start.fCost = start.hCost

	openList := &nodeHeap{}
	heap.Init(openList)
	heap.Push(openList, start)

	best := map[int]float64{g.index(sx, sy): 0}
	closed := make(map[int]struct{}, 256)

	for range g.maxExpansions {
		if openList.Len() == 0 {
			return nil
		}

		current := heap.Pop(openList).(*pathNode)

		if current.x == tx && current.y == ty {
			return current
		}

		key := g.index(current.x, current.y)
		if _, exists := closed[key]; exists {
			continue
		}
		closed[key] = struct{}{}

		var open [4]bool
		for i, d := range cardinals {
			nx, ny := current.x+d.x, current.y+d.y
			if !g.Walkable(nx, ny) {
				continue
			}
			open[i] = true
			g.relax(current, nx, ny, CostOrthogonal, tx, ty, openList, best, closed)
		}

		// Anti-corner-cut: both adjacent cardinals must be passable
		for _, d := range diagonals {
			if !open[d.adj1] || !open[d.adj2] {
				continue
			}
			nx, ny := current.x+d.d.x, current.y+d.d.y
			if !g.Walkable(nx, ny) {
				continue
			}
			g.relax(current, nx, ny, CostDiagonal, tx, ty, openList, best, closed)
		}
	}

	return nil // Max expansions exceeded
}

// relax pushes (nx, ny) if reaching it through current improves its cost.
func (g *Grid) relax(
	current *pathNode,
	nx, ny int,
	step float64,
	tx, ty int,
	openList *nodeHeap,
	best map[int]float64,
	closed map[int]struct{},
) {
	key := g.index(nx, ny)
	if _, exists := closed[key]; exists {
		return
	}
	gCost := current.gCost + step
	if prev, seen := best[key]; seen && prev <= gCost {
		return
	}
	best[key] = gCost

	node := &pathNode{
		x: nx, y: ny,
		parent: current,
		gCost:  gCost,
		hCost:  octile(nx, ny, tx, ty),
	}
	node.fCost = node.gCost + node.hCost
	heap.Push(openList, node)
}

func (g *Grid) index(cx, cy int) int {
	return cy*g.cols + cx
}

// octile is the exact cost of an unobstructed 8-directional walk.
func octile(x, y, tx, ty int) float64 {
	dx := float64(abs(x - tx))
	dy := float64(abs(y - ty))
	return CostOrthogonal*(dx+dy) + (CostDiagonal-2*CostOrthogonal)*math.Min(dx, dy)
}

// nodeHeap implements container/heap for the A* open list (min-heap by fCost,
// ties broken by the smaller heuristic so the search runs towards the goal).
type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].fCost != h[j].fCost {
		return h[i].fCost < h[j].fCost
	}
	return h[i].hCost < h[j].hCost
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any)   { n := x.(*pathNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}
