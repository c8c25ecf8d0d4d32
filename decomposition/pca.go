// Package decomposition implements principal component analysis through a
// singular value decomposition.
//
// Data is feature-major: each row is one feature and each column one
// observation. A PCA value only records whether features are scaled to unit
// variance, so every method is a pure transform and a PCA is safe for
// concurrent use.
package decomposition

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/YuminosukeSato/ridgepca/core/model"
	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"github.com/YuminosukeSato/ridgepca/pkg/log"
	"github.com/YuminosukeSato/ridgepca/preprocessing"
	"gonum.org/v1/gonum/mat"
)

var _ model.Reducer = (*PCA)(nil)

// PCA は主成分分析
type PCA struct {
	scaleData bool
	logger    log.Logger
}

// Option は PCA の設定を行う関数
type Option func(*PCA)

// WithLogger は診断ログの出力先を設定する
func WithLogger(logger log.Logger) Option {
	return func(p *PCA) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New は新しい PCA を作成する
//
// scaleData が true の場合、中心化の後に各特徴量を標本標準偏差で割る。
//
// 使用例:
//
//	pca := decomposition.New(true)
//	reduced, retained, err := pca.ReduceToVariance(data, 0.95)
func New(scaleData bool, opts ...Option) *PCA {
	p := &PCA{
		scaleData: scaleData,
		logger:    log.GetLoggerWithName("decomposition.pca"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScaleData は特徴量をスケーリングするかどうかを返す
func (p *PCA) ScaleData() bool {
	return p.scaleData
}

// Apply はデータ全体を主成分空間に変換する
//
// 結果はすべて新しく確保され、data は変更されない。
// 少なくとも2つの観測が必要。
func (p *PCA) Apply(data mat.Matrix) (res *Result, err error) {
	const op = "PCA.Apply"
	defer errors.Recover(&err, op)

	return p.apply(op, data)
}

// ApplyInPlace は Apply の結果の変換済み行列で data を上書きする
// 計算は一時領域で行い、最後に書き戻すので入力と出力が同じバッファでも安全
func (p *PCA) ApplyInPlace(data *mat.Dense) (*Result, error) {
	res, err := p.Apply(data)
	if err != nil {
		return nil, err
	}
	data.CloneFrom(res.Transformed)
	return res, nil
}

// ReduceToDimension は上位 k 主成分のみを残す
//
// 戻り値は k×観測数 の行列と、保持された分散の割合。
// k は 1 以上、特徴量数以下でなければならない。
func (p *PCA) ReduceToDimension(data mat.Matrix, k int) (reduced *mat.Dense, retained float64, err error) {
	const op = "PCA.ReduceToDimension"
	defer errors.Recover(&err, op)

	nFeatures, _ := data.Dims()
	if k < 1 {
		return nil, 0, errors.NewValidationError("newDimension", "must be at least 1", k)
	}
	if k > nFeatures {
		return nil, 0, errors.NewValidationError("newDimension",
			fmt.Sprintf("must not exceed the number of features (%d)", nFeatures), k)
	}

	res, err := p.apply(op, data)
	if err != nil {
		return nil, 0, err
	}

	reduced, retained = res.truncate(k)
	p.logReduce(k, retained)
	return reduced, retained, nil
}

// ReduceToDimensionInPlace は ReduceToDimension の結果で data を上書きする
func (p *PCA) ReduceToDimensionInPlace(data *mat.Dense, k int) (float64, error) {
	reduced, retained, err := p.ReduceToDimension(data, k)
	if err != nil {
		return 0, err
	}
	data.CloneFrom(reduced)
	return retained, nil
}

// ReduceToVariance は累積分散率が target 以上になる最小の主成分数を残す
//
// 少なくとも1つの主成分は常に残る。target が 1 の場合はすべての主成分を残す。
// 戻り値の割合は実際に保持された分散率で、target 以上になる。
func (p *PCA) ReduceToVariance(data mat.Matrix, target float64) (reduced *mat.Dense, retained float64, err error) {
	const op = "PCA.ReduceToVariance"
	defer errors.Recover(&err, op)

	if math.IsNaN(target) || target < 0 || target > 1 {
		return nil, 0, errors.NewValidationError("varRetained", "must be in [0, 1]", target)
	}

	res, err := p.apply(op, data)
	if err != nil {
		return nil, 0, err
	}

	k := componentsForVariance(res.CumulativeVarianceRatio(), target)
	reduced, retained = res.truncate(k)
	p.logReduce(k, retained)
	return reduced, retained, nil
}

// ReduceToVarianceInPlace は ReduceToVariance の結果で data を上書きする
func (p *PCA) ReduceToVarianceInPlace(data *mat.Dense, target float64) (float64, error) {
	reduced, retained, err := p.ReduceToVariance(data, target)
	if err != nil {
		return 0, err
	}
	data.CloneFrom(reduced)
	return retained, nil
}

// componentsForVariance は cumulative[k-1] >= target となる最小の k を返す
func componentsForVariance(cumulative []float64, target float64) int {
	if target >= 1 {
		return len(cumulative)
	}
	for i, c := range cumulative {
		if c >= target {
			return i + 1
		}
	}
	return len(cumulative)
}

func (p *PCA) apply(op string, data mat.Matrix) (*Result, error) {
	nFeatures, nSamples := data.Dims()
	if nFeatures == 0 || nSamples == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if nSamples < 2 {
		return nil, errors.NewValidationError("data", "need at least two observations", nSamples)
	}

	start := time.Now()

	centered, mean := preprocessing.CenterRows(data)
	scale := make([]float64, nFeatures)
	if p.scaleData {
		scale = preprocessing.ScaleRows(centered, preprocessing.RowStdDev(centered))
	} else {
		for i := range scale {
			scale[i] = 1
		}
	}

	// U は常に nFeatures×nFeatures。V は不要
	kind := mat.SVDFullU
	if nFeatures < nSamples {
		kind = mat.SVDThinU
	}
	var svd mat.SVD
	if ok := svd.Factorize(centered, kind); !ok {
		return nil, errors.NewModelError(op, "SVD failed", errors.ErrDecompositionFailed)
	}
	var u mat.Dense
	svd.UTo(&u)

	// 観測数が特徴量数より少ない場合、残りの固有値は0
	eigenvalues := make([]float64, nFeatures)
	for i, s := range svd.Values(nil) {
		eigenvalues[i] = s * s / float64(nSamples-1)
	}

	order := make([]int, nFeatures)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return eigenvalues[order[a]] > eigenvalues[order[b]]
	})

	coefficients := mat.NewDense(nFeatures, nFeatures, nil)
	sorted := make([]float64, nFeatures)
	for dst, src := range order {
		coefficients.SetCol(dst, mat.Col(nil, src, &u))
		sorted[dst] = eigenvalues[src]
	}

	transformed := mat.NewDense(nFeatures, nSamples, nil)
	transformed.Mul(coefficients.T(), centered)

	if err := errors.CheckNumericalStability(op, sorted); err != nil {
		return nil, err
	}

	p.logger.Debug("pca applied",
		log.OperationKey, log.OperationTransform,
		log.ModelNameKey, "PCA",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ScaleDataKey, p.scaleData,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		Transformed:  transformed,
		Eigenvalues:  sorted,
		Coefficients: coefficients,
		Mean:         mean,
		Scale:        scale,
	}, nil
}

func (p *PCA) logReduce(k int, retained float64) {
	p.logger.Debug("pca reduced",
		log.OperationKey, log.OperationReduce,
		log.ComponentsKey, k,
		log.VarianceRetainedKey, retained,
	)
}
