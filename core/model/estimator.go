// Package model defines the interfaces shared by the fitted models and the
// versioned weight format used to persist them.
//
// All matrices are feature-major: rows are features, columns are observations.
package model

import "gonum.org/v1/gonum/mat"

// Predictor は特徴量優先の点集合に対して予測を行うインターフェース
type Predictor interface {
	// Predict は各列（観測）に対する予測値を返す
	Predict(points mat.Matrix) (*mat.VecDense, error)
}

// ErrorEvaluator は評価データに対する平均二乗誤差を計算するインターフェース
type ErrorEvaluator interface {
	ComputeError(predictors mat.Matrix, responses mat.Vector) (float64, error)
}

// Scorer は決定係数（R²）を計算するインターフェース
type Scorer interface {
	Score(predictors mat.Matrix, responses mat.Vector) (float64, error)
}

// LinearModel は切片付き線形モデルのインターフェース
type LinearModel interface {
	Predictor
	ErrorEvaluator
	Scorer

	// Parameters は [切片, 係数...] のコピーを返す
	Parameters() *mat.VecDense
	// Intercept は切片を返す
	Intercept() float64
}

// Reducer は次元削減を行うインターフェース
type Reducer interface {
	// ReduceToDimension は上位 k 成分を残し、保持された分散率を返す
	ReduceToDimension(data mat.Matrix, k int) (*mat.Dense, float64, error)
	// ReduceToVariance は累積分散率が target 以上になる最小の成分数を残す
	ReduceToVariance(data mat.Matrix, target float64) (*mat.Dense, float64, error)
}
