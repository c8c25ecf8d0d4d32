package decomposition

import (
	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"github.com/YuminosukeSato/ridgepca/preprocessing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result is the output of PCA.Apply.
type Result struct {
	// Transformed holds the data in principal component space,
	// one row per component and one column per observation.
	Transformed *mat.Dense

	// Eigenvalues of the covariance matrix in non-increasing order.
	Eigenvalues []float64

	// Coefficients holds one principal direction per column, in the same
	// order as Eigenvalues.
	Coefficients *mat.Dense

	// Mean and Scale are the per-feature statistics removed before the
	// decomposition. Scale is all ones when the PCA does not scale data.
	Mean  []float64
	Scale []float64
}

// CumulativeVarianceRatio returns, for each k, the fraction of the total
// variance held by the first k+1 components. The last entry is exactly 1.
// Data without variance is fully described by any number of components.
func (r *Result) CumulativeVarianceRatio() []float64 {
	cumulative := floats.CumSum(make([]float64, len(r.Eigenvalues)), r.Eigenvalues)
	total := cumulative[len(cumulative)-1]
	if total == 0 {
		for i := range cumulative {
			cumulative[i] = 1
		}
		return cumulative
	}
	floats.Scale(1/total, cumulative)
	cumulative[len(cumulative)-1] = 1
	return cumulative
}

// ExplainedVarianceRatio returns the fraction of the total variance held by
// each component.
func (r *Result) ExplainedVarianceRatio() []float64 {
	cumulative := r.CumulativeVarianceRatio()
	ratio := make([]float64, len(cumulative))
	prev := 0.0
	for i, c := range cumulative {
		ratio[i] = c - prev
		prev = c
	}
	return ratio
}

// Reconstruct maps the first k components back to the original feature
// space, undoing scaling and centering.
func (r *Result) Reconstruct(k int) (*mat.Dense, error) {
	nFeatures, nSamples := r.Transformed.Dims()
	if k < 1 || k > nFeatures {
		return nil, errors.NewValidationError("k", "must be in [1, number of features]", k)
	}

	out := mat.NewDense(nFeatures, nSamples, nil)
	out.Mul(r.Coefficients.Slice(0, nFeatures, 0, k), r.Transformed.Slice(0, k, 0, nSamples))
	preprocessing.UnscaleRows(out, r.Scale, r.Mean)
	return out, nil
}

func (r *Result) truncate(k int) (*mat.Dense, float64) {
	_, nSamples := r.Transformed.Dims()
	reduced := mat.DenseCopyOf(r.Transformed.Slice(0, k, 0, nSamples))
	return reduced, r.CumulativeVarianceRatio()[k-1]
}
