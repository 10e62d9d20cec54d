package curve

import (
	"bufio"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformedValue is returned when a metric line matches but its value
// cannot be parsed as a float.
var ErrMalformedValue = errors.New("malformed metric value")

const (
	metricName  = `(loss_?x?[0-9]*)`
	metricValue = `([0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?|nan|-nan)`
)

// Line patterns of Caffe solver output, tried in this order:
//
//	solver.cpp:331] Iteration 9400, Testing net (#0)
//	solver.cpp:398]     Test net output #0: loss_x2 = 0.00616695 (* 1 = 0.00616695 loss)
//	solver.cpp:219] Iteration 30 (0.256841 iter/s, 38.9347s/10 iters), loss = 0.0107558
//	solver.cpp:238]     Train net output #0: loss_x2 = 0.00151235 (* 1 = 0.00151235 loss)
var (
	validIterRe   = regexp.MustCompile(`(?:^|\s)Iteration ([0-9]+), Testing net`)
	validMetricRe = regexp.MustCompile(`(?:^|\s)Test net output .*? ` + metricName + ` = ` + metricValue + `(?:\s|$)`)
	trainIterRe   = regexp.MustCompile(`(?:^|\s)Iteration ([0-9]+) \(.*iters.*\), loss = `)
	trainMetricRe = regexp.MustCompile(`(?:^|\s)Train net output .*? ` + metricName + ` = ` + metricValue)
)

// Scanner accumulates a Log one line at a time.
type Scanner struct {
	log  *Log
	line int
}

// NewScanner returns a scanner with an empty log.
func NewScanner() *Scanner {
	return &Scanner{log: NewLog()}
}

// Log returns the log accumulated so far.
func (s *Scanner) Log() *Log {
	return s.log
}

// ScanLine feeds one line. Lines matching no pattern are ignored.
func (s *Scanner) ScanLine(text string) error {
	s.line++

	if m := validIterRe.FindStringSubmatch(text); m != nil {
		return s.appendIteration(&s.log.Valid, m[1])
	}
	if m := validMetricRe.FindStringSubmatch(text); m != nil {
		return s.appendMetric(&s.log.Valid, m[1], m[2])
	}
	if m := trainIterRe.FindStringSubmatch(text); m != nil {
		return s.appendIteration(&s.log.Train, m[1])
	}
	if m := trainMetricRe.FindStringSubmatch(text); m != nil {
		return s.appendMetric(&s.log.Train, m[1], m[2])
	}
	return nil
}

func (s *Scanner) appendIteration(p *Phase, token string) error {
	it, err := strconv.Atoi(token)
	if err != nil {
		return errors.Wrapf(ErrMalformedValue, "line %d: iteration %q", s.line, token)
	}
	p.Iterations = append(p.Iterations, it)
	return nil
}

func (s *Scanner) appendMetric(p *Phase, name, token string) error {
	v, err := parseValue(token)
	if err != nil {
		return errors.Wrapf(ErrMalformedValue, "line %d: %s = %q", s.line, name, token)
	}
	p.Metrics[name] = append(p.Metrics[name], v)
	return nil
}

// parseValue parses a matched metric token; nan and -nan both become NaN.
func parseValue(token string) (float64, error) {
	if token == "nan" || token == "-nan" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(token, 64)
}

// Scan reads a whole log.
func Scan(r io.Reader) (*Log, error) {
	s := NewScanner()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := s.ScanLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read log")
	}
	return s.Log(), nil
}

// ScanFile reads the log at path.
func ScanFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open log")
	}
	defer f.Close()

	l, err := Scan(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return l, nil
}
