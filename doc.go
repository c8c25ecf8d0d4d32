// Package ridgepca provides ridge-regularized linear regression and principal
// component analysis for Go, built on gonum.
//
// All matrices are feature-major: each row is one feature (variable) and each
// column one observation. This matches the layout of the CSV helpers in
// dataio when loading with transpose set.
//
// # Installation
//
//	go get github.com/YuminosukeSato/ridgepca
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/ridgepca/decomposition"
//	    "github.com/YuminosukeSato/ridgepca/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // 2 features, 4 observations
//	    X := mat.NewDense(2, 4, []float64{
//	        1, 2, 3, 4,
//	        0, 1, 0, 1,
//	    })
//	    y := mat.NewVecDense(4, []float64{3, 6, 7, 10})
//
//	    ridge, err := linear.FitRidge(X, y, 0.1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("parameters:", mat.Formatted(ridge.Parameters().T()))
//
//	    reduced, retained, err := decomposition.New(true).ReduceToVariance(X, 0.9)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(reduced), retained)
//	}
//
// # Packages
//
//   - linear: ridge regression solved with QR (minimum-norm SVD fallback)
//   - decomposition: PCA with fixed-dimension and variance-target reduction
//   - preprocessing: per-feature centering and scaling
//   - metrics: regression metrics (MSE, RMSE, MAE, R²)
//   - dataio: CSV loading and saving of matrices and vectors
//   - core/model: shared interfaces and the versioned weight format
//   - core/parallel: row-parallel helpers
//   - pkg/errors, pkg/log: structured errors and logging
//
// # Performance
//
// Design matrix construction and per-feature statistics are parallelized
// above a size threshold. Fitted models are immutable and safe for
// concurrent use.
package ridgepca
