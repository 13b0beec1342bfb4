package masonry

import "math"

const (
	// Quantum is the number of internal units per cell along each axis.
	Quantum = 4

	// avgCardCells is the assumed average card area, in cells, used to
	// over-provision rows before placement.
	avgCardCells = 9

	// viewportRowFactor and estimateFactor set the initial row budget.
	viewportRowFactor = 3
	estimateFactor    = 1.5
)

// gridSize is the internal grid in units.
type gridSize struct {
	cols, rows int
}

// sizeGrid quantizes a container into internal units. The second return
// value is false when the container cannot hold a single cell.
func sizeGrid(width, height, baseSize, gap float64, items int) (gridSize, bool) {
	cols, rows := gridCells(width, height, baseSize, gap, items)
	if cols == 0 || cols*rows*Quantum*Quantum > math.MaxInt {
		return gridSize{}, false
	}
	return gridSize{cols: int(cols) * Quantum, rows: int(rows) * Quantum}, true
}

// GridUnits returns the size, in internal units, of the occupancy table
// [Layout] allocates before any growth. It is 0 when the container cannot
// hold a single cell.
func GridUnits(width, height, baseSize, gap float64, items int) float64 {
	cols, rows := gridCells(width, height, baseSize, gap, items)
	return cols * rows * Quantum * Quantum
}

// gridCells computes the grid in cells. It works in floats so that absurd
// inputs yield huge or infinite sizes instead of overflowing.
func gridCells(width, height, baseSize, gap float64, items int) (cols, rows float64) {
	cell := baseSize + gap
	if !(cell > 0) || !(width > 0) || !(height > 0) {
		return 0, 0
	}

	cols = math.Floor(width / cell)
	viewportRows := math.Floor(height / cell)
	if cols < 1 || viewportRows < 1 {
		return 0, 0
	}

	estimated := math.Ceil(float64(items) * avgCardCells / cols)
	rows = max(viewportRows*viewportRowFactor, math.Ceil(estimated*estimateFactor))
	return cols, rows
}

// rect is an axis-aligned rectangle in internal units.
type rect struct {
	col, row      int
	width, height int
}

func (r rect) right() int  { return r.col + r.width }
func (r rect) bottom() int { return r.row + r.height }
func (r rect) area() int   { return r.width * r.height }

// overlaps reports whether r and o share at least one unit.
func (r rect) overlaps(o rect) bool {
	return r.col < o.right() && o.col < r.right() && r.row < o.bottom() && o.row < r.bottom()
}

// occupancy is a dense row-major table of taken units. Rows are appended
// in place when the grid grows.
type occupancy struct {
	cols, rows int
	cells      []bool
}

func newOccupancy(cols, rows int) *occupancy {
	return &occupancy{cols: cols, rows: rows, cells: make([]bool, cols*rows)}
}

func (o *occupancy) at(col, row int) bool { return o.cells[row*o.cols+col] }

// inside reports whether r lies entirely within the grid.
func (o *occupancy) inside(r rect) bool {
	return r.col >= 0 && r.row >= 0 && r.width > 0 && r.height > 0 &&
		r.right() <= o.cols && r.bottom() <= o.rows
}

// free reports whether every unit of r is inside the grid and untaken.
func (o *occupancy) free(r rect) bool {
	if !o.inside(r) {
		return false
	}
	for y := r.row; y < r.bottom(); y++ {
		row := o.cells[y*o.cols : (y+1)*o.cols]
		for x := r.col; x < r.right(); x++ {
			if row[x] {
				return false
			}
		}
	}
	return true
}

func (o *occupancy) set(r rect, v bool) {
	for y := r.row; y < r.bottom(); y++ {
		row := o.cells[y*o.cols : (y+1)*o.cols]
		for x := r.col; x < r.right(); x++ {
			row[x] = v
		}
	}
}

func (o *occupancy) fill(r rect)  { o.set(r, true) }
func (o *occupancy) clear(r rect) { o.set(r, false) }

// grow appends n empty rows.
func (o *occupancy) grow(n int) {
	if n <= 0 {
		return
	}
	o.cells = append(o.cells, make([]bool, n*o.cols)...)
	o.rows += n
}

// firstFit scans row-major from the top-left for a free w×h rectangle.
func (o *occupancy) firstFit(w, h int) (rect, bool) {
	if w <= 0 || h <= 0 || w > o.cols || h > o.rows {
		return rect{}, false
	}
	for y := 0; y+h <= o.rows; y++ {
		for x := 0; x+w <= o.cols; {
			blocked := o.blockedAt(rect{col: x, row: y, width: w, height: h})
			if blocked < 0 {
				return rect{col: x, row: y, width: w, height: h}, true
			}
			x = blocked + 1
		}
	}
	return rect{}, false
}

// blockedAt returns the rightmost taken column inside r, or -1 if r is free.
// Candidates starting at or left of that column cannot fit either.
func (o *occupancy) blockedAt(r rect) int {
	last := -1
	for y := r.row; y < r.bottom(); y++ {
		row := o.cells[y*o.cols : (y+1)*o.cols]
		for x := r.right() - 1; x >= r.col && x > last; x-- {
			if row[x] {
				last = x
				break
			}
		}
	}
	return last
}
