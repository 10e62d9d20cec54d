package curve

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/detection-tools/internal/labels"
)

// Palette is cycled by metric index; train and valid of a metric share a colour.
var Palette = []string{"#3399FF", "#FF3300", "#40BF0D", "#FFE300", "#FF33CC", "#000000"}

// Options control the chart.
type Options struct {
	Title string
	// Skip drops iterations at or below this number from the chart.
	Skip int
	// YLimit clips the y axis; zero or less means the data maximum.
	YLimit float64
}

// series is one plotted line: a metric in one phase.
type series struct {
	Label  string
	Color  string
	Valid  bool
	Points []Point
}

// plotSeries lists the non-empty series in legend order: every metric's
// train line, then every metric's valid line when validation ran.
func (l *Log) plotSeries(skip int) []series {
	names := l.MetricNames()
	trainStart := StartIndex(l.Train.Iterations, skip)
	validStart := StartIndex(l.Valid.Iterations, skip)

	var out []series
	for i, name := range names {
		pts := l.Train.Series(name, trainStart)
		if len(pts) == 0 {
			continue
		}
		out = append(out, series{
			Label:  name + " train",
			Color:  Palette[i%len(Palette)],
			Points: pts,
		})
	}
	if len(l.Valid.Iterations) == 0 {
		return out
	}
	for i, name := range names {
		pts := l.Valid.Series(name, validStart)
		if len(pts) == 0 {
			continue
		}
		out = append(out, series{
			Label:  name + " valid",
			Color:  Palette[i%len(Palette)],
			Valid:  true,
			Points: pts,
		})
	}
	return out
}

func toXYs(pts []Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: float64(p.Iteration), Y: p.Value}
	}
	return xys
}

// Chart builds the learning curve plot.
func Chart(l *Log, o Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "loss"
	p.Add(plotter.NewGrid())

	plotted := 0
	for _, s := range l.plotSeries(o.Skip) {
		col := color.Color(labels.MustParseHex(s.Color))

		for j, seg := range Segments(s.Points) {
			var thumb plot.Thumbnailer
			if len(seg) == 1 {
				sc, err := plotter.NewScatter(toXYs(seg))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", s.Label, err)
				}
				sc.GlyphStyle.Color = col
				p.Add(sc)
				thumb = sc
			} else {
				line, err := plotter.NewLine(toXYs(seg))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", s.Label, err)
				}
				line.Color = col
				line.Width = vg.Points(1)
				if s.Valid {
					line.Width = vg.Points(2)
					line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
				}
				p.Add(line)
				thumb = line
			}
			if j == 0 {
				p.Legend.Add(s.Label, thumb)
			}
			plotted++
		}
	}

	if plotted == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
	}
	p.Y.Min = 0
	if o.YLimit > 0 {
		p.Y.Max = o.YLimit
	} else if p.Y.Max <= 0 {
		p.Y.Max = 1
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SaveChart writes base.pdf and base.png.
func SaveChart(p *plot.Plot, base string) error {
	for _, ext := range []string{".pdf", ".png"} {
		if err := p.Save(10*vg.Inch, 6*vg.Inch, base+ext); err != nil {
			return fmt.Errorf("save chart %s: %w", ext, err)
		}
	}
	return nil
}
