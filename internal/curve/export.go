package curve

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"
)

// WriteCSV writes one space-separated row per validation iteration that was
// also a training iteration, and returns the number of rows written.
//
// Columns are iter followed by <metric>_train <metric>_valid for every
// metric in sorted order. NaN and values that were never logged are
// written as nan. Validation iterations missing from training are skipped
// with a warning.
func WriteCSV(w io.Writer, l *Log) (int, error) {
	names := l.MetricNames()

	cw := csv.NewWriter(w)
	cw.Comma = ' '

	header := []string{"iter"}
	for _, name := range names {
		header = append(header, name+"_train", name+"_valid")
	}
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	rows := 0
	for i, it := range l.Valid.Iterations {
		j := l.Train.IndexOf(it)
		if j < 0 {
			log.Warnf("Iteration %d not in training iterations", it)
			continue
		}

		record := []string{strconv.Itoa(it)}
		for _, name := range names {
			record = append(record,
				formatValue(l.Train.Value(name, j)),
				formatValue(l.Valid.Value(name, i)),
			)
		}
		if err := cw.Write(record); err != nil {
			return rows, err
		}
		rows++
	}

	cw.Flush()
	return rows, cw.Error()
}

func formatValue(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteHTML renders an interactive version of the chart.
func WriteHTML(w io.Writer, l *Log, o Options) error {
	yAxis := opts.YAxis{Name: "loss", Min: 0}
	if o.YLimit > 0 {
		yAxis.Max = o.YLimit
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle(o.Title), Width: "1200px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "iteration", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(yAxis),
	)

	for _, s := range l.plotSeries(o.Skip) {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, pt := range s.Points {
			// "-" is an empty point in echarts; JSON has no NaN
			var v interface{} = pt.Value
			if math.IsNaN(pt.Value) {
				v = "-"
			}
			data = append(data, opts.LineData{Value: []interface{}{pt.Iteration, v}})
		}

		style := opts.LineStyle{Color: s.Color}
		if s.Valid {
			style.Type = "dashed"
			style.Width = 2
		}
		line.AddSeries(s.Label, data,
			charts.WithLineStyleOpts(style),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	return line.Render(w)
}

func pageTitle(title string) string {
	if title == "" {
		return "Learning curve"
	}
	return title
}

// Export writes out.pdf, out.png, out.csv and out.html.
func Export(l *Log, out string, o Options) error {
	p, err := Chart(l, o)
	if err != nil {
		return err
	}
	if err := SaveChart(p, out); err != nil {
		return err
	}

	if err := writeFile(out+".csv", func(w io.Writer) error {
		rows, err := WriteCSV(w, l)
		log.Debugf("Wrote %d rows", rows)
		return err
	}); err != nil {
		return err
	}

	if err := writeFile(out+".html", func(w io.Writer) error {
		return WriteHTML(w, l, o)
	}); err != nil {
		return err
	}

	log.Infof("Plots saved to: %s", out)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
