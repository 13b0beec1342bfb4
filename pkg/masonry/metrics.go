package masonry

import (
	"cmp"
	"slices"
)

// utilization is the share of the cols×rows grid covered by cards,
// clamped to [0, 1].
func utilization(cards []placed, cols, rows int) float64 {
	total := cols * rows
	if total <= 0 {
		return 0
	}
	var used int
	for _, c := range cards {
		used += c.area()
	}
	return min(1, max(0, float64(used)/float64(total)))
}

// orderFidelity compares reading order (row, then column) with input
// order. It is 1 minus the worst displacement over n, so one badly placed
// card dominates the score.
func orderFidelity(cards []placed, n int) float64 {
	if n == 0 {
		return 1
	}
	reading := slices.Clone(cards)
	slices.SortStableFunc(reading, func(a, b placed) int {
		if c := cmp.Compare(a.row, b.row); c != 0 {
			return c
		}
		return cmp.Compare(a.col, b.col)
	})

	worst := 0
	for pos, c := range reading {
		worst = max(worst, abs(pos-c.index))
	}
	return min(1, max(0, 1-float64(worst)/float64(n)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
