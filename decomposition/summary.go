package decomposition

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/YuminosukeSato/ridgepca/pkg/errors"
)

// WriteSummary renders an explained-variance table, one row per component.
func WriteSummary(w io.Writer, eigenvalues []float64) error {
	if len(eigenvalues) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "WriteSummary")
	}

	res := &Result{Eigenvalues: eigenvalues}
	ratio := res.ExplainedVarianceRatio()
	cumulative := res.CumulativeVarianceRatio()

	table := tablewriter.NewWriter(w)
	table.Header("Component", "Eigenvalue", "Explained", "Cumulative")
	for i, ev := range eigenvalues {
		row := []string{
			fmt.Sprintf("PC%d", i+1),
			fmt.Sprintf("%.6g", ev),
			fmt.Sprintf("%.2f%%", 100*ratio[i]),
			fmt.Sprintf("%.2f%%", 100*cumulative[i]),
		}
		if err := table.Append(row); err != nil {
			return errors.Wrap(err, "WriteSummary")
		}
	}
	return errors.Wrap(table.Render(), "WriteSummary")
}
