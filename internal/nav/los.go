package nav

// LineOfSight reports whether the straight line between two cells is free of
// solid cells. The trace is a 2D Bresenham walk over grid cells; the endpoint
// cells themselves are not tested, only the cells strictly between them, so a
// sighting onto a wall surface still counts as blocked by anything in front
// of it.
func (g *Grid) LineOfSight(a, b Cell) bool {
	if a == b {
		return true
	}

	it := newLineIterator(a, b)
	it.next() // skip start cell

	for it.next() {
		c := it.cell()
		if c == b {
			return true
		}
		if g.IsSolid(c) {
			return false
		}
	}
	return true
}

// lineIterator steps through grid cells along a 2D Bresenham line.
type lineIterator struct {
	cur, target  Cell
	dx, dy       int32
	stepX, stepY int32
	err          int32
	started      bool
}

func newLineIterator(from, to Cell) *lineIterator {
	it := &lineIterator{cur: from, target: to}
	it.dx = abs32(to.X - from.X)
	it.dy = abs32(to.Y - from.Y)

	if from.X < to.X {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if from.Y < to.Y {
		it.stepY = 1
	} else {
		it.stepY = -1
	}

	it.err = it.dx - it.dy
	return it
}

// next advances the iterator. Returns false once the target has been yielded.
func (it *lineIterator) next() bool {
	if !it.started {
		it.started = true
		return true // yield start cell
	}
	if it.cur == it.target {
		return false
	}

	e2 := 2 * it.err
	if e2 > -it.dy {
		it.err -= it.dy
		it.cur.X += it.stepX
	}
	if e2 < it.dx {
		it.err += it.dx
		it.cur.Y += it.stepY
	}
	return true
}

func (it *lineIterator) cell() Cell { return it.cur }
