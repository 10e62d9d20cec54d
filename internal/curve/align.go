package curve

import "math"

// StartIndex returns the index of the first iteration strictly greater than
// skip, dropping every iteration at or below it. skip <= 0 keeps everything.
// When every iteration is at or below skip the result is len(iters).
func StartIndex(iters []int, skip int) int {
	if skip <= 0 {
		return 0
	}
	for i, it := range iters {
		if it > skip {
			return i
		}
	}
	return len(iters)
}

// Point is one logged (iteration, value) pair.
type Point struct {
	Iteration int
	Value     float64
}

// Series pairs the phase's iterations with metric name's values from start
// on. Pairs run until either sequence ends.
func (p Phase) Series(name string, start int) []Point {
	values := p.Metrics[name]
	n := len(p.Iterations)
	if len(values) < n {
		n = len(values)
	}
	if start >= n {
		return nil
	}
	if start < 0 {
		start = 0
	}

	pts := make([]Point, 0, n-start)
	for i := start; i < n; i++ {
		pts = append(pts, Point{Iteration: p.Iterations[i], Value: values[i]})
	}
	return pts
}

// Segments splits a series at NaN values, so gaps are drawn as gaps.
func Segments(pts []Point) [][]Point {
	var (
		segs [][]Point
		cur  []Point
	)
	for _, pt := range pts {
		if math.IsNaN(pt.Value) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, pt)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}
