package linear

import (
	"math"

	"github.com/YuminosukeSato/ridgepca/core/parallel"
	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	solverQR  = "qr"
	solverSVD = "svd"
)

// epsilon is the float64 machine epsilon.
const epsilon = 0x1p-52

// buildDesign は特徴量優先の predictors から観測優先の計画行列を作る
//
//	A = [1 | Xᵗ]            (lambda == 0)
//	A = [1 | Xᵗ ; lambda·I] (lambda > 0)
//
// lambda > 0 の場合、目的変数の下に nFeatures+1 個の0を追加する
func buildDesign(predictors mat.Matrix, responses mat.Vector, lambda float64) (*mat.Dense, *mat.VecDense) {
	nFeatures, nSamples := predictors.Dims()
	nCols := nFeatures + 1

	nRows := nSamples
	if lambda > 0 {
		nRows += nCols
	}

	design := mat.NewDense(nRows, nCols, nil)
	targets := mat.NewVecDense(nRows, nil)

	parallel.ForEach(nSamples, parallel.DefaultThreshold, func(i int) {
		row := design.RawRowView(i)
		row[0] = 1 // 切片項
		for j := 0; j < nFeatures; j++ {
			row[j+1] = predictors.At(j, i)
		}
		targets.SetVec(i, responses.AtVec(i))
	})

	if lambda > 0 {
		for k := 0; k < nCols; k++ {
			design.Set(nSamples+k, k, lambda)
		}
	}
	return design, targets
}

// solution is the result of a least-squares solve.
type solution struct {
	x      *mat.VecDense
	rank   int
	solver string
}

// solveLeastSquares は min ||A·x - b|| を解く
// A が数値的にフルランクなら QR（R·x = Qᵗ·b の後退代入）、
// そうでなければ薄いSVDによる最小ノルム解を使う
func solveLeastSquares(a *mat.Dense, b *mat.VecDense, tol float64) (solution, error) {
	m, n := a.Dims()

	if m >= n {
		var qr mat.QR
		qr.Factorize(a)

		var r mat.Dense
		qr.RTo(&r)
		if upperTriangularFullRank(&r, n, tol) {
			x := mat.NewVecDense(n, nil)
			err := qr.SolveVecTo(x, false, b)
			if err == nil {
				return solution{x: x, rank: n, solver: solverQR}, nil
			}
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return solution{}, errors.Wrap(err, "QR solve")
			}
		}
	}

	return solveMinNorm(a, b)
}

// upperTriangularFullRank は R の対角成分がすべて最大値の tol 倍より大きいかを判定する
func upperTriangularFullRank(r *mat.Dense, n int, tol float64) bool {
	var maxDiag float64
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}
	if maxDiag == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) <= tol*maxDiag {
			return false
		}
	}
	return true
}

// solveMinNorm は x = Σ (uᵢᵗb / sᵢ) vᵢ を計算する
// sᵢ <= max(m, n)·eps·s₀ の成分は捨てる
func solveMinNorm(a *mat.Dense, b *mat.VecDense) (solution, error) {
	m, n := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return solution{}, errors.Wrap(errors.ErrDecompositionFailed, "SVD of design matrix")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	x := mat.NewVecDense(n, nil)
	if len(values) == 0 || values[0] == 0 {
		return solution{x: x, rank: 0, solver: solverSVD}, nil
	}

	cutoff := float64(max(m, n)) * epsilon * values[0]
	rank := 0
	for i, s := range values {
		if s <= cutoff {
			break
		}
		rank++
		coef := mat.Dot(u.ColView(i), b) / s
		x.AddScaledVec(x, coef, v.ColView(i))
	}
	return solution{x: x, rank: rank, solver: solverSVD}, nil
}
