package curve

import "sort"

// Phase holds the iterations and metric values of one phase (training or
// validation) in the order they were logged.
//
// Iterations and each metric's values are parallel by index; they may
// differ in length when the log was cut off mid-block.
type Phase struct {
	Iterations []int
	Metrics    map[string][]float64
}

// Log is everything extracted from one training log.
type Log struct {
	Train Phase
	Valid Phase
}

func newPhase() Phase {
	return Phase{Metrics: make(map[string][]float64)}
}

// NewLog returns an empty log ready for scanning.
func NewLog() *Log {
	return &Log{Train: newPhase(), Valid: newPhase()}
}

// MetricNames returns the union of training and validation metric names, sorted.
func (l *Log) MetricNames() []string {
	seen := make(map[string]struct{})
	for name := range l.Train.Metrics {
		seen[name] = struct{}{}
	}
	for name := range l.Valid.Metrics {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the i-th value of metric name, if it was logged.
func (p Phase) Value(name string, i int) (float64, bool) {
	values := p.Metrics[name]
	if i < 0 || i >= len(values) {
		return 0, false
	}
	return values[i], true
}

// IndexOf returns the first index of iteration it, or -1.
func (p Phase) IndexOf(it int) int {
	for i, v := range p.Iterations {
		if v == it {
			return i
		}
	}
	return -1
}
