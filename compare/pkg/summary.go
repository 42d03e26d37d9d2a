package compare

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/montanaflynn/stats"
	"github.com/sajari/regression"
)

type ColumnStats struct {
	Name   string
	N      int
	Mean   float64
	Median float64
	SD     float64
}

// Summary describes how two numeric columns of a merged table relate, by
// default structural RMSD against sequence identity.
type Summary struct {
	X, Y        ColumnStats
	Correlation float64
	Intercept   float64
	Slope       float64
	R2          float64
	Fitted      bool
}

func floats(m *Merged, name string) ([]float64, error) {
	col := m.Column(name)
	if len(col) != m.Len() {
		return nil, fmt.Errorf("column %v missing from %v of %v rows", name, m.Len()-len(col), m.Len())
	}
	out := make([]float64, 0, len(col))
	for i, v := range col {
		f, e := strconv.ParseFloat(v, 64)
		if e != nil {
			return nil, fmt.Errorf("column %v row %v: %w", name, i, e)
		}
		out = append(out, f)
	}
	return out, nil
}

func columnStats(name string, data []float64) (ColumnStats, error) {
	cs := ColumnStats{Name: name, N: len(data)}
	var e error
	if cs.Mean, e = stats.Mean(data); e != nil {
		return cs, e
	}
	if cs.Median, e = stats.Median(data); e != nil {
		return cs, e
	}
	if cs.SD, e = stats.StandardDeviation(data); e != nil {
		return cs, e
	}
	return cs, nil
}

// Summarize computes per-column statistics, the Pearson correlation and a
// least-squares fit of y on x. The fit needs at least three pairs.
func Summarize(m *Merged, x, y string) (Summary, error) {
	h := handle("Summarize: %w")
	var s Summary

	xs, e := floats(m, x)
	if e != nil {
		return s, h(e)
	}
	ys, e := floats(m, y)
	if e != nil {
		return s, h(e)
	}
	if len(xs) == 0 {
		return s, h(fmt.Errorf("no rows"))
	}

	if s.X, e = columnStats(x, xs); e != nil {
		return s, h(e)
	}
	if s.Y, e = columnStats(y, ys); e != nil {
		return s, h(e)
	}
	if len(xs) < 3 {
		return s, nil
	}

	if s.Correlation, e = stats.Correlation(xs, ys); e != nil {
		return s, h(e)
	}

	r := new(regression.Regression)
	r.SetObserved(y)
	r.SetVar(0, x)
	points := make(regression.DataPoints, 0, len(xs))
	for i := range xs {
		points = append(points, regression.DataPoint(ys[i], []float64{xs[i]}))
	}
	r.Train(points...)
	if e := r.Run(); e != nil {
		// Degenerate data, e.g. every x identical; keep the column stats.
		return s, nil
	}
	s.Intercept = r.Coeff(0)
	s.Slope = r.Coeff(1)
	s.R2 = r.R2
	s.Fitted = true
	return s, nil
}

func WriteSummary(w io.Writer, runID string, s Summary) error {
	h := handle("WriteSummary: %w")
	lines := [][2]any{
		{"run", runID},
		{"pairs", s.X.N},
	}
	for _, c := range []ColumnStats{s.X, s.Y} {
		lines = append(lines,
			[2]any{c.Name + "_mean", c.Mean},
			[2]any{c.Name + "_median", c.Median},
			[2]any{c.Name + "_sd", c.SD},
		)
	}
	lines = append(lines, [2]any{"correlation", s.Correlation})
	if s.Fitted {
		lines = append(lines,
			[2]any{"intercept", s.Intercept},
			[2]any{"slope", s.Slope},
			[2]any{"r2", s.R2},
		)
	}

	for _, l := range lines {
		if _, e := fmt.Fprintf(w, "%v\t%v\n", l[0], l[1]); e != nil {
			return h(e)
		}
	}
	return nil
}

func WriteSummaryPath(path, runID string, s Summary) (err error) {
	w, e := csvh.CreateMaybeGz(path)
	if e != nil {
		return fmt.Errorf("WriteSummaryPath: %w", e)
	}
	defer func() { csvh.DeferE(&err, w.Close()) }()
	bw := bufio.NewWriter(w)
	defer func() { csvh.DeferE(&err, bw.Flush()) }()

	return WriteSummary(bw, runID, s)
}
