package geo

// LineIterator implements the 2D Bresenham line algorithm over grid cells.
// Used to approve straight short hops when A* gives up.
type LineIterator struct {
	currentX, currentY int
	targetX, targetY   int
	deltaX, deltaY     int
	stepX, stepY       int
	err                int
	started            bool
}

// NewLineIterator creates a line iterator from (sx, sy) to (ex, ey), both inclusive.
func NewLineIterator(sx, sy, ex, ey int) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
	}

	it.deltaX = abs(ex - sx)
	it.deltaY = -abs(ey - sy)

	if sx < ex {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if sy < ey {
		it.stepY = 1
	} else {
		it.stepY = -1
	}
	it.err = it.deltaX + it.deltaY

	return it
}

// Next advances the iterator to the next cell.
// Returns false once the target has been returned.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // Return start point
	}

	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	e2 := 2 * it.err
	if e2 >= it.deltaY {
		it.err += it.deltaY
		it.currentX += it.stepX
	}
	if e2 <= it.deltaX {
		it.err += it.deltaX
		it.currentY += it.stepY
	}

	return true
}

// X returns current cell X.
func (it *LineIterator) X() int { return it.currentX }

// Y returns current cell Y.
func (it *LineIterator) Y() int { return it.currentY }
