// Package metrics provides regression quality measures over response vectors.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// residuals は入力を検証し、yTrue - yPred を返す
func residuals(op string, yTrue, yPred mat.Vector) ([]float64, []float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 1)
	}

	truth := make([]float64, n)
	diff := make([]float64, n)
	for i := 0; i < n; i++ {
		truth[i] = yTrue.AtVec(i)
		diff[i] = truth[i] - yPred.AtVec(i)
	}
	return truth, diff, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
//
//	MSE = (1/n) * Σ(yTrue - yPred)²
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	_, diff, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// MSEMatrix は n×1 の列行列に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 1)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	return MSE(columnOf(yTrue), columnOf(yPred))
}

func columnOf(m mat.Matrix) mat.Vector {
	if v, ok := m.(mat.Vector); ok {
		return v
	}
	return mat.DenseCopyOf(m).ColView(0)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	_, diff, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(diff, 1) / float64(len(diff)), nil
}

// R2Score は決定係数（R²）を計算する
//
//	R² = 1 - RSS/TSS
//
// yTrue の分散が0の場合はエラーを返す
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	truth, diff, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	mean := stat.Mean(truth, nil)
	var tss float64
	for _, v := range truth {
		tss += (v - mean) * (v - mean)
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	rss := floats.Dot(diff, diff)
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する
// yTrue が0の観測は除外する
func MAPE(yTrue, yPred mat.Vector) (float64, error) {
	truth, diff, err := residuals("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	validCount := 0
	for i, v := range truth {
		if v == 0 {
			continue
		}
		sum += math.Abs(diff[i]) / math.Abs(v)
		validCount++
	}
	if validCount == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}

	return (sum / float64(validCount)) * 100, nil
}

// ExplainedVarianceScore は説明分散スコアを計算する
//
//	1 - Var(yTrue - yPred) / Var(yTrue)
//
// 分散は母分散（n で割る）を使う
func ExplainedVarianceScore(yTrue, yPred mat.Vector) (float64, error) {
	truth, diff, err := residuals("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	_, varTrue := stat.PopMeanVariance(truth, nil)
	if varTrue == 0 {
		return 0, errors.Newf("ExplainedVarianceScore: no variance in yTrue")
	}
	_, varDiff := stat.PopMeanVariance(diff, nil)

	return 1 - varDiff/varTrue, nil
}
