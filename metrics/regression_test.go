package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ridgepca/pkg/errors"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestRegressionMetrics(t *testing.T) {
	type metricFunc func(yTrue, yPred mat.Vector) (float64, error)

	tests := []struct {
		name   string
		metric metricFunc
		yTrue  mat.Vector
		yPred  mat.Vector
		want   float64
	}{
		{"MSE perfect", MSE, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 0},
		// ((0.5)^2 * 4) / 4
		{"MSE simple", MSE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25},
		// (4 + 4 + 9) / 3
		{"MSE larger errors", MSE, vec(10, 20, 30), vec(12, 18, 33), 17.0 / 3.0},
		{"RMSE unit offset", RMSE, vec(0, 0, 0, 0), vec(1, 1, 1, 1), 1},
		{"MAE simple", MAE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.5},
		{"MAE mixed signs", MAE, vec(1, 2, 3, 4), vec(2, 1, 4, 3), 1},
		{"R2 perfect", R2Score, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 1},
		{"R2 worse than mean", R2Score, vec(1, 2, 3, 4), vec(4, 3, 2, 1), -3},
		// skips the zero truth value: (0.5/1 + 1/2) / 2 * 100
		{"MAPE skips zeros", MAPE, vec(0, 1, 2), vec(3, 1.5, 1), 50},
		// residual has zero variance
		{"explained variance constant offset", ExplainedVarianceScore, vec(1, 2, 3), vec(2, 3, 4), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestRegressionMetricsErrors(t *testing.T) {
	t.Run("dimension mismatch", func(t *testing.T) {
		for _, metric := range []func(yTrue, yPred mat.Vector) (float64, error){MSE, RMSE, MAE, R2Score, MAPE, ExplainedVarianceScore} {
			_, err := metric(vec(1, 2, 3), vec(1, 2))
			var dimErr *errors.DimensionError
			require.True(t, errors.As(err, &dimErr))
			assert.Equal(t, 3, dimErr.Expected)
			assert.Equal(t, 2, dimErr.Got)
		}
	})

	t.Run("empty vectors", func(t *testing.T) {
		_, err := MSE(&mat.VecDense{}, &mat.VecDense{})
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("no variance in truth", func(t *testing.T) {
		_, err := R2Score(vec(3, 3, 3), vec(2, 3, 4))
		assert.Error(t, err)
		_, err = ExplainedVarianceScore(vec(3, 3, 3), vec(2, 3, 4))
		assert.Error(t, err)
	})

	t.Run("all zero truth", func(t *testing.T) {
		_, err := MAPE(vec(0, 0), vec(1, 1))
		assert.Error(t, err)
	})
}

func TestMSEMatrix(t *testing.T) {
	got, err := MSEMatrix(
		mat.NewDense(4, 1, []float64{1, 2, 3, 4}),
		mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-10)

	_, err = MSEMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	assert.Error(t, err, "multiple columns should error")
}

func BenchmarkMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
