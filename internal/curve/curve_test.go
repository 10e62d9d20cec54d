package curve

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `I0101 10:00:00.000000  1234 solver.cpp:219] Iteration 10 (0.25 iter/s, 40s/10 iters), loss = 0.5
I0101 10:00:00.000000  1234 solver.cpp:238]     Train net output #0: loss_x2 = 0.4 (* 1 = 0.4 loss)
I0101 10:00:00.000000  1234 solver.cpp:238]     Train net output #1: loss_x4 = 0.6 (* 1 = 0.6 loss)
I0101 10:00:00.000000  1234 solver.cpp:331] Iteration 20, Testing net (#0)
I0101 10:00:00.000000  1234 solver.cpp:398]     Test net output #0: loss_x2 = 0.35 (* 1 = 0.35 loss)
I0101 10:00:00.000000  1234 solver.cpp:398]     Test net output #1: loss_x4 = -nan (* 1 = -nan loss)
I0101 10:00:00.000000  1234 solver.cpp:219] Iteration 20 (0.25 iter/s, 40s/10 iters), loss = 0.4
I0101 10:00:00.000000  1234 solver.cpp:238]     Train net output #0: loss_x2 = 0.3 (* 1 = 0.3 loss)
I0101 10:00:00.000000  1234 solver.cpp:238]     Train net output #1: loss_x4 = 5e-01 (* 1 = 0.5 loss)
I0101 10:00:00.000000  1234 sgd_solver.cpp:105] Iteration 20, lr = 0.001
I0101 10:00:00.000000  1234 solver.cpp:331] Iteration 50, Testing net (#0)
I0101 10:00:00.000000  1234 solver.cpp:398]     Test net output #0: loss_x2 = 0.2 (* 1 = 0.2 loss)
I0101 10:00:00.000000  1234 solver.cpp:398]     Test net output #1: loss_x4 = 0.25 (* 1 = 0.25 loss)
`

func scanString(t *testing.T, s string) *Log {
	t.Helper()
	l, err := Scan(strings.NewReader(s))
	require.NoError(t, err)
	return l
}

func TestScan_TrainingSample(t *testing.T) {
	l := scanString(t, "Iteration 30 (0.1 iter/s, 1s/10 iters), loss = 0.01\n"+
		"Train net output #0: loss = 0.01\n")

	assert.Equal(t, []int{30}, l.Train.Iterations)
	assert.Equal(t, []float64{0.01}, l.Train.Metrics["loss"])
	assert.Empty(t, l.Valid.Iterations)
}

func TestScan_ValidationNaN(t *testing.T) {
	l := scanString(t, "Iteration 100, Testing net (#0)\n"+
		"Test net output #0: loss = nan\n")

	assert.Equal(t, []int{100}, l.Valid.Iterations)
	require.Len(t, l.Valid.Metrics["loss"], 1)
	assert.True(t, math.IsNaN(l.Valid.Metrics["loss"][0]), "NaN must be preserved")
	assert.Empty(t, l.Train.Iterations)
}

func TestScan_CaffeLog(t *testing.T) {
	l := scanString(t, sampleLog)

	assert.Equal(t, []int{10, 20}, l.Train.Iterations)
	assert.Equal(t, []int{20, 50}, l.Valid.Iterations)
	assert.Equal(t, []float64{0.4, 0.3}, l.Train.Metrics["loss_x2"])
	assert.Equal(t, []float64{0.6, 0.5}, l.Train.Metrics["loss_x4"])
	assert.Equal(t, []float64{0.35, 0.2}, l.Valid.Metrics["loss_x2"])

	x4 := l.Valid.Metrics["loss_x4"]
	require.Len(t, x4, 2)
	assert.True(t, math.IsNaN(x4[0]))
	assert.Equal(t, 0.25, x4[1])

	assert.Equal(t, []string{"loss_x2", "loss_x4"}, l.MetricNames())
}

func TestScan_IgnoresOtherLines(t *testing.T) {
	l := scanString(t, strings.Join([]string{
		"Solving VGG",
		"Iteration 20, lr = 0.001",
		"Test net output #0: accuracy = 0.9",
		"Train net output #0: loss = abc",
		"",
	}, "\n"))

	assert.Empty(t, l.Train.Iterations)
	assert.Empty(t, l.Valid.Iterations)
	assert.Empty(t, l.Train.Metrics)
	assert.Empty(t, l.Valid.Metrics)
}

func TestScan_OutOfRangeValue(t *testing.T) {
	_, err := Scan(strings.NewReader("Iteration 1 (1 iter/s, 1s/1 iters), loss = 1\n" +
		"Train net output #0: loss = 1e999 (* 1 = 1e999 loss)\n"))
	require.ErrorIs(t, err, ErrMalformedValue)
	assert.Contains(t, err.Error(), "line 2")
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))

	l, err := ScanFile(path)
	require.NoError(t, err)
	assert.Len(t, l.Train.Iterations, 2)

	_, err = ScanFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestStartIndex(t *testing.T) {
	iters := []int{10, 20, 30, 40}
	tests := []struct {
		name string
		skip int
		want int
	}{
		{"no skip", 0, 0},
		{"negative", -5, 0},
		{"between", 25, 2},
		{"on an iteration", 20, 2},
		{"below first", 5, 0},
		{"past the end", 40, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartIndex(iters, tt.skip))
		})
	}
	assert.Equal(t, 0, StartIndex(nil, 10))
}

func TestPhaseSeries(t *testing.T) {
	p := Phase{
		Iterations: []int{10, 20, 30, 40},
		Metrics:    map[string][]float64{"loss": {4, 3, 2}},
	}

	got := p.Series("loss", StartIndex(p.Iterations, 15))
	want := []Point{{20, 3}, {30, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Series mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, p.Series("loss", 3))
	assert.Nil(t, p.Series("missing", 0))
}

func TestSegments(t *testing.T) {
	nan := math.NaN()
	pts := []Point{{1, nan}, {2, 1}, {3, 2}, {4, nan}, {5, nan}, {6, 3}, {7, nan}}

	got := Segments(pts)
	want := [][]Point{{{2, 1}, {3, 2}}, {{6, 3}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segments mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Segments([]Point{{1, nan}}))
}

func TestWriteCSV(t *testing.T) {
	l := scanString(t, sampleLog)
	hook := test.NewGlobal()
	defer hook.Reset()

	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, l)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	want := "iter loss_x2_train loss_x2_valid loss_x4_train loss_x4_valid\n" +
		"20 0.300000 0.350000 0.500000 nan\n"
	assert.Equal(t, want, buf.String())

	// validation iteration 50 has no training counterpart
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "50")
}

func TestWriteCSV_AbsentValue(t *testing.T) {
	l := NewLog()
	l.Train.Iterations = []int{10}
	l.Train.Metrics["loss"] = []float64{1.5}
	l.Valid.Iterations = []int{10}
	l.Valid.Metrics["loss_x2"] = []float64{0.25}

	var buf bytes.Buffer
	_, err := WriteCSV(&buf, l)
	require.NoError(t, err)
	assert.Equal(t, "iter loss_train loss_valid loss_x2_train loss_x2_valid\n"+
		"10 1.500000 nan nan 0.250000\n", buf.String())
}

func TestPlotSeries(t *testing.T) {
	l := scanString(t, sampleLog)

	got := l.plotSeries(0)
	require.Len(t, got, 4)

	labels := make([]string, len(got))
	for i, s := range got {
		labels[i] = s.Label
	}
	assert.Equal(t, []string{"loss_x2 train", "loss_x4 train", "loss_x2 valid", "loss_x4 valid"}, labels)
	assert.Equal(t, Palette[0], got[0].Color)
	assert.Equal(t, Palette[1], got[1].Color)
	assert.Equal(t, got[0].Color, got[2].Color)
	assert.False(t, got[0].Valid)
	assert.True(t, got[3].Valid)

	// train and valid start indices are computed independently
	skipped := l.plotSeries(15)
	assert.Equal(t, []Point{{20, 0.3}}, skipped[0].Points)
	assert.Equal(t, []Point{{20, 0.35}, {50, 0.2}}, skipped[2].Points)

	skipped = l.plotSeries(30)
	require.Len(t, skipped, 2, "no training iteration above 30")
	assert.Equal(t, "loss_x2 valid", skipped[0].Label)
	assert.Equal(t, []Point{{50, 0.2}}, skipped[0].Points)
}

func TestPlotSeries_NoValidation(t *testing.T) {
	l := scanString(t, "Iteration 30 (0.1 iter/s, 1s/10 iters), loss = 0.01\n"+
		"Train net output #0: loss = 0.01\n")

	got := l.plotSeries(0)
	require.Len(t, got, 1)
	assert.Equal(t, "loss train", got[0].Label)
}

func TestChart_YLimit(t *testing.T) {
	l := scanString(t, sampleLog)

	p, err := Chart(l, Options{Title: "run", YLimit: 0.45})
	require.NoError(t, err)
	assert.Equal(t, "run", p.Title.Text)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 0.45, p.Y.Max)

	p, err = Chart(l, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 0.6, p.Y.Max)
}

func TestChart_Empty(t *testing.T) {
	p, err := Chart(NewLog(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 1.0, p.Y.Max)
}

func TestWriteHTML(t *testing.T) {
	l := scanString(t, sampleLog)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, l, Options{Title: "vgg run"}))

	html := buf.String()
	assert.Contains(t, html, "vgg run")
	assert.Contains(t, html, "loss_x2 train")
	assert.Contains(t, html, "loss_x4 valid")
	assert.Contains(t, html, "dashed")
	assert.Contains(t, html, `"-"`)
	assert.NotContains(t, html, "NaN")
}

func TestExport(t *testing.T) {
	l := scanString(t, sampleLog)
	out := filepath.Join(t.TempDir(), "curve")

	require.NoError(t, Export(l, out, Options{Title: "run", Skip: 5}))
	for _, ext := range []string{".pdf", ".png", ".csv", ".html"} {
		assert.FileExists(t, out+ext)
	}

	csvData, err := os.ReadFile(out + ".csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvData), "iter loss_x2_train"))
}
