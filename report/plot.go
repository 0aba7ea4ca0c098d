// SPDX-License-Identifier: MIT
package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/lvmarkov/simulate"
)

// Chart size.
const (
	ChartWidth  = 8 * vg.Inch
	ChartHeight = 5 * vg.Inch
)

// PlotHistory draws one line per state (count against step) and saves the
// chart to path. The image format is chosen by the extension of path.
func PlotHistory(path, title string, states []string, history simulate.History) error {
	if len(history) == 0 {
		return ErrNoData
	}
	series := make([][]float64, len(states))
	for i := range states {
		series[i] = make([]float64, len(history))
	}
	for t, row := range history {
		if len(row) != len(states) {
			return fmt.Errorf("step %d has %d counts for %d states: %w", t, len(row), len(states), ErrShape)
		}
		for i, c := range row {
			series[i][t] = float64(c)
		}
	}

	p := newChart(title, "count")
	for i, name := range states {
		line, err := plotter.NewLine(xys(series[i]))
		if err != nil {
			return fmt.Errorf("state %q: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p.Save(ChartWidth, ChartHeight, path)
}

// PlotEnsemble draws the mean of every state as a solid line framed by its
// lower and upper quantiles as dashed lines.
func PlotEnsemble(path, title string, states []string, ens *simulate.Ensemble) error {
	if ens == nil || len(ens.Mean) == 0 {
		return ErrNoData
	}
	steps := len(ens.Mean)
	column := func(src [][]float64, i int) []float64 {
		out := make([]float64, steps)
		for t := range src {
			out[t] = src[t][i]
		}

		return out
	}
	for t := range ens.Mean {
		if len(ens.Mean[t]) != len(states) {
			return fmt.Errorf("step %d has %d states, want %d: %w", t, len(ens.Mean[t]), len(states), ErrShape)
		}
	}

	p := newChart(title, "count")
	for i, name := range states {
		col := plotutil.Color(i)
		mean, err := plotter.NewLine(xys(column(ens.Mean, i)))
		if err != nil {
			return fmt.Errorf("state %q: %w", name, err)
		}
		mean.Color = col
		p.Add(mean)
		p.Legend.Add(name, mean)

		for _, band := range [][][]float64{ens.Lower, ens.Upper} {
			l, err := plotter.NewLine(xys(column(band, i)))
			if err != nil {
				return fmt.Errorf("state %q: %w", name, err)
			}
			l.Color = col
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(l)
		}
	}

	return p.Save(ChartWidth, ChartHeight, path)
}

func newChart(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	return p
}

func xys(ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for t, y := range ys {
		pts[t].X = float64(t)
		pts[t].Y = y
	}

	return pts
}
