package decomposition

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/ridgepca/pkg/errors"
)

// ScreePlot builds a scree plot: eigenvalue against component index, with
// the cumulative explained-variance ratio on the same axes scaled to the
// largest eigenvalue.
func ScreePlot(eigenvalues []float64) (*plot.Plot, error) {
	if len(eigenvalues) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ScreePlot")
	}

	res := &Result{Eigenvalues: eigenvalues}
	cumulative := res.CumulativeVarianceRatio()

	eig := make(plotter.XYs, len(eigenvalues))
	cum := make(plotter.XYs, len(eigenvalues))
	for i, ev := range eigenvalues {
		eig[i].X = float64(i + 1)
		eig[i].Y = ev
		cum[i].X = float64(i + 1)
		cum[i].Y = cumulative[i] * eigenvalues[0]
	}

	p := plot.New()
	p.Title.Text = "Scree plot"
	p.X.Label.Text = "Component"
	p.Y.Label.Text = "Eigenvalue"

	eigLine, eigPoints, err := plotter.NewLinePoints(eig)
	if err != nil {
		return nil, errors.Wrap(err, "ScreePlot")
	}
	cumLine, err := plotter.NewLine(cum)
	if err != nil {
		return nil, errors.Wrap(err, "ScreePlot")
	}
	cumLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(eigLine, eigPoints, cumLine, plotter.NewGrid())
	p.Legend.Add("eigenvalue", eigLine, eigPoints)
	p.Legend.Add("cumulative (scaled)", cumLine)
	return p, nil
}

// SaveScreePlot writes a scree plot to path. The image format follows the
// file extension (.png, .svg, .pdf, ...).
func SaveScreePlot(eigenvalues []float64, path string) error {
	p, err := ScreePlot(eigenvalues)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, path), "SaveScreePlot %s", path)
}
