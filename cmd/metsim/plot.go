package main

import (
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/metsim/datasets"
	"github.com/Noofbiz/metsim/grid"
	"github.com/Noofbiz/metsim/monte"
)

// plotDiagnostics writes candidates.png, a histogram of candidate-list sizes,
// and days.png, the day-of-year of each observation against the day-of-year
// of the observation it was resampled from.
func plotDiagnostics(outDir string, ds *datasets.ObservationDataset, res *monte.Result) error {
	if err := ensureDir(outDir); err != nil {
		return err
	}
	if err := plotCandidates(filepath.Join(outDir, "candidates.png"), res); err != nil {
		return err
	}
	return plotDays(filepath.Join(outDir, "days.png"), ds.DayOfYear(), res)
}

func plotCandidates(path string, res *monte.Result) error {
	p := plot.New()
	p.Title.Text = "Candidate list size per observation"
	p.X.Label.Text = "candidates"
	p.Y.Label.Text = "observations"

	vals := make(plotter.Values, len(res.CandidateCounts))
	for i, c := range res.CandidateCounts {
		vals[i] = float64(c)
	}
	if len(vals) == 0 {
		vals = plotter.Values{0}
	}
	h, err := plotter.NewHist(vals, 30)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 20, G: 80, B: 200, A: 200}
	p.Add(h)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func plotDays(path string, doy []int, res *monte.Result) error {
	p := plot.New()
	p.Title.Text = "Observation day vs resampled source day"
	p.X.Label.Text = "day of year"
	p.Y.Label.Text = "source day of year"

	pts := make(plotter.XYs, 0, len(res.Indices))
	for i, src := range res.Indices {
		if src == monte.NoCandidate {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(doy[i]), Y: float64(doy[src-1])})
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 120}
	sc.GlyphStyle.Radius = vg.Points(1.2)
	p.Add(sc)
	p.Add(plotter.NewGrid())

	p.X.Min, p.X.Max = 0, grid.MaxDay+1
	p.Y.Min, p.Y.Max = 0, grid.MaxDay+1

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}
