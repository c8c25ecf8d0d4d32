// Package preprocessing provides per-feature statistics for feature-major
// matrices, where each row is one feature and each column one observation.
package preprocessing

import (
	"github.com/YuminosukeSato/ridgepca/core/parallel"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ZeroScaleReplacement は標準偏差が0の特徴量に使う除数
// 定数の特徴量は中心化後すべて0になるため、結果は0のまま保たれる
const ZeroScaleReplacement = 1e-50

// rowThreshold は行単位の並列処理を開始するセル数
const rowThreshold = 1 << 14

// CenterRows は各行（特徴量）の平均を引いた新しい行列と、行ごとの平均を返す
//
// 入力行列は変更されない。
//
// 使用例:
//
//	centered, means := preprocessing.CenterRows(data)
func CenterRows(data mat.Matrix) (*mat.Dense, []float64) {
	rows, cols := data.Dims()
	centered := mat.DenseCopyOf(data)
	means := make([]float64, rows)

	forEachRow(rows, cols, func(i int) {
		row := centered.RawRowView(i)
		mean := stat.Mean(row, nil)
		means[i] = mean
		for j := range row {
			row[j] -= mean
		}
	})
	return centered, means
}

// RowStdDev は各行の標本標準偏差（N-1 で割る）を返す
// 観測が1つ以下の行は 0 を返す
func RowStdDev(data mat.Matrix) []float64 {
	rows, cols := data.Dims()
	std := make([]float64, rows)
	if cols < 2 {
		return std
	}

	forEachRow(rows, cols, func(i int) {
		row := mat.Row(nil, i, data)
		std[i] = stat.StdDev(row, nil)
	})
	return std
}

// ScaleRows は各行をその尺度で割る（インプレース）
// 尺度が0の行は ZeroScaleReplacement で割る
// 実際に使用した尺度を返す
func ScaleRows(data *mat.Dense, scale []float64) []float64 {
	rows, cols := data.Dims()
	if len(scale) != rows {
		panic(mat.ErrShape)
	}

	used := make([]float64, rows)
	forEachRow(rows, cols, func(i int) {
		s := scale[i]
		if s == 0 {
			s = ZeroScaleReplacement
		}
		used[i] = s
		row := data.RawRowView(i)
		for j := range row {
			row[j] /= s
		}
	})
	return used
}

// UnscaleRows は ScaleRows の逆変換を行い、各行の平均を足し戻す（インプレース）
// means が nil の場合は尺度のみ戻す
func UnscaleRows(data *mat.Dense, scale, means []float64) {
	rows, cols := data.Dims()
	if (scale != nil && len(scale) != rows) || (means != nil && len(means) != rows) {
		panic(mat.ErrShape)
	}

	forEachRow(rows, cols, func(i int) {
		row := data.RawRowView(i)
		for j := range row {
			if scale != nil {
				row[j] *= scale[i]
			}
			if means != nil {
				row[j] += means[i]
			}
		}
	})
}

// forEachRow は行数×列数が閾値を超える場合に並列化する
func forEachRow(rows, cols int, fn func(i int)) {
	threshold := rows + 1
	if rows*cols >= rowThreshold {
		threshold = 1
	}
	parallel.ForEach(rows, threshold, fn)
}
