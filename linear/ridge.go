// Package linear implements ridge-regularized linear regression solved
// through a QR decomposition.
//
// Predictors are feature-major: each row is one feature and each column one
// observation. A fitted Ridge is immutable and safe for concurrent use.
package linear

import (
	"math"
	"time"

	"github.com/YuminosukeSato/ridgepca/core/model"
	"github.com/YuminosukeSato/ridgepca/metrics"
	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"github.com/YuminosukeSato/ridgepca/pkg/log"
	"gonum.org/v1/gonum/mat"
)

var _ model.LinearModel = (*Ridge)(nil)

// Ridge はリッジ回帰モデル
//
// parameters[0] は切片、parameters[1:] は特徴量ごとの係数
type Ridge struct {
	parameters *mat.VecDense
	lambda     float64
}

// FitRidge はリッジ回帰モデルを学習する
//
// 計画行列 A = [1 | Xᵗ] に lambda·I を下に追加し、目的変数に0を追加した
// 拡大系を QR 分解で解く。lambda == 0 の場合は通常の最小二乗法になる。
// 切片も正則化される点に注意。
//
// 計画行列がランク落ちしている場合は最小ノルム解にフォールバックし、
// RankDeficiencyWarning を発生させる。
//
// 使用例:
//
//	ridge, err := linear.FitRidge(X, y, 0.1)
//	pred, err := ridge.Predict(Xtest)
func FitRidge(predictors mat.Matrix, responses mat.Vector, lambda float64, opts ...Option) (ridge *Ridge, err error) {
	const op = "FitRidge"
	defer errors.Recover(&err, op)

	cfg := newConfig(opts)

	nFeatures, nSamples := predictors.Dims()
	if nFeatures == 0 || nSamples == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, errors.NewValidationError("lambda", "must be a finite non-negative number", lambda)
	}
	if responses.Len() != nSamples {
		return nil, errors.NewDimensionError(op, nSamples, responses.Len(), 1)
	}

	logger := cfg.logger.With(
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, "Ridge",
	)
	start := time.Now()
	logger.Debug("fit started",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.RegularizationKey, lambda,
	)

	design, targets := buildDesign(predictors, responses, lambda)
	sol, err := solveLeastSquares(design, targets, cfg.rankTolerance)
	if err != nil {
		return nil, errors.NewModelError(op, "least-squares solve failed", err)
	}

	if _, cols := design.Dims(); sol.rank < cols {
		warning := errors.NewRankDeficiencyWarning(op, sol.rank, cols)
		errors.Warn(warning)
		logger.Warn("rank-deficient design, using minimum-norm solution",
			log.RankKey, sol.rank,
			log.ErrorCodeKey, log.ErrorRankDeficient,
		)
	}

	if err := errors.CheckNumericalStability(op, sol.x.RawVector().Data); err != nil {
		return nil, err
	}

	logger.Debug("fit finished",
		log.SolverKey, sol.solver,
		log.RankKey, sol.rank,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Ridge{parameters: sol.x, lambda: lambda}, nil
}

// NewRidgeFromParameters は [切片, 係数...] からモデルを復元する
// lambda は 0 になる
func NewRidgeFromParameters(parameters []float64) (*Ridge, error) {
	if len(parameters) < 2 {
		return nil, errors.NewValidationError("parameters", "need an intercept and at least one coefficient", len(parameters))
	}
	if err := errors.CheckNumericalStability("NewRidgeFromParameters", parameters); err != nil {
		return nil, err
	}
	data := make([]float64, len(parameters))
	copy(data, parameters)
	return &Ridge{parameters: mat.NewVecDense(len(data), data)}, nil
}

// WithParameters は同じ lambda で parameters を置き換えた新しいモデルを返す
func (r *Ridge) WithParameters(parameters []float64) (*Ridge, error) {
	next, err := NewRidgeFromParameters(parameters)
	if err != nil {
		return nil, err
	}
	next.lambda = r.lambda
	return next, nil
}

// WithLambda は lambda のみを置き換えた新しいモデルを返す
// 再学習は行わない
func (r *Ridge) WithLambda(lambda float64) (*Ridge, error) {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, errors.NewValidationError("lambda", "must be a finite non-negative number", lambda)
	}
	return &Ridge{parameters: mat.VecDenseCopyOf(r.parameters), lambda: lambda}, nil
}

// Predict は各観測（列）に対する予測値を返す
//
//	predictions = Wᵗ·points + intercept
//
// points の行数が特徴量数と異なる場合は DimensionError を返す
func (r *Ridge) Predict(points mat.Matrix) (*mat.VecDense, error) {
	rows, cols := points.Dims()
	if rows != r.NFeatures() {
		return nil, errors.NewDimensionError("Ridge.Predict", r.NFeatures(), rows, 0)
	}
	if cols == 0 {
		return nil, errors.NewModelError("Ridge.Predict", "empty data", errors.ErrEmptyData)
	}

	predictions := mat.NewVecDense(cols, nil)
	predictions.MulVec(points.T(), r.coefficientView())
	intercept := r.parameters.AtVec(0)
	for i := 0; i < cols; i++ {
		predictions.SetVec(i, predictions.AtVec(i)+intercept)
	}
	return predictions, nil
}

// MustPredict は Predict と同じだが、次元不一致の場合は panic する
func (r *Ridge) MustPredict(points mat.Matrix) *mat.VecDense {
	predictions, err := r.Predict(points)
	if err != nil {
		panic(err)
	}
	return predictions
}

// ComputeError は平均二乗誤差 (1/n)·Σ(y - ŷ)² を計算する
func (r *Ridge) ComputeError(predictors mat.Matrix, responses mat.Vector) (float64, error) {
	predictions, err := r.checkedPredict("Ridge.ComputeError", predictors, responses)
	if err != nil {
		return 0, err
	}
	return metrics.MSE(responses, predictions)
}

// Score は決定係数（R²）を計算する
func (r *Ridge) Score(predictors mat.Matrix, responses mat.Vector) (float64, error) {
	predictions, err := r.checkedPredict("Ridge.Score", predictors, responses)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(responses, predictions)
}

func (r *Ridge) checkedPredict(op string, predictors mat.Matrix, responses mat.Vector) (*mat.VecDense, error) {
	rows, cols := predictors.Dims()
	if rows != r.NFeatures() {
		return nil, errors.NewDimensionError(op, r.NFeatures(), rows, 0)
	}
	if responses.Len() != cols {
		return nil, errors.NewDimensionError(op, cols, responses.Len(), 1)
	}
	return r.Predict(predictors)
}

// Parameters は [切片, 係数...] のコピーを返す
func (r *Ridge) Parameters() *mat.VecDense {
	return mat.VecDenseCopyOf(r.parameters)
}

// Intercept は切片を返す
func (r *Ridge) Intercept() float64 {
	return r.parameters.AtVec(0)
}

// Coefficients は切片を除いた係数のコピーを返す
func (r *Ridge) Coefficients() []float64 {
	out := make([]float64, r.NFeatures())
	copy(out, r.parameters.RawVector().Data[1:])
	return out
}

// Lambda は正則化パラメータを返す
func (r *Ridge) Lambda() float64 {
	return r.lambda
}

// NFeatures は特徴量の数を返す
func (r *Ridge) NFeatures() int {
	return r.parameters.Len() - 1
}

func (r *Ridge) coefficientView() mat.Vector {
	return r.parameters.SliceVec(1, r.parameters.Len())
}
