package linear

import (
	"bytes"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"github.com/YuminosukeSato/ridgepca/pkg/log"
)

// linearData returns feature-major predictors and responses
// y = intercept + Σ coef[j]·x[j] + noise·N(0,1).
func linearData(rng *rand.Rand, nSamples int, intercept float64, coef []float64, noise float64) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(len(coef), nSamples, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		v := intercept
		for j, c := range coef {
			x := rng.Float64()*10 - 5
			X.Set(j, i, x)
			v += c * x
		}
		y.SetVec(i, v+noise*rng.NormFloat64())
	}
	return X, y
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var (
		mu       sync.Mutex
		warnings []error
	)
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &warnings
}

func TestFitRidgeCollinearExactFit(t *testing.T) {
	warnings := captureWarnings(t)

	// feature 2 = feature 1 + 3, responses = feature 1
	X := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	ridge, err := FitRidge(X, y, 0)
	require.NoError(t, err)

	pred, err := ridge.Predict(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, pred.RawVector().Data, 1e-10)

	mse, err := ridge.ComputeError(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 0, mse, 1e-18)

	// minimum-norm solution of b0 + b1·x + b2·(x+3) = x
	assert.InDeltaSlice(t, []float64{-3.0 / 11, 10.0 / 11, 1.0 / 11}, ridge.Parameters().RawVector().Data, 1e-10)

	require.Len(t, *warnings, 1)
	var rankWarning *errors.RankDeficiencyWarning
	require.True(t, errors.As((*warnings)[0], &rankWarning))
	assert.Equal(t, 2, rankWarning.Rank)
	assert.Equal(t, 3, rankWarning.Columns)
}

func TestFitRidgeRecoversExactRelationship(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	X, y := linearData(rng, 20, 2, []float64{3, -1.5}, 0)
	logger, _ := log.NewTestLogger(log.LevelDebug)

	ridge, err := FitRidge(X, y, 0, WithLogger(logger))
	require.NoError(t, err)

	assert.InDelta(t, 2, ridge.Intercept(), 1e-9)
	assert.InDeltaSlice(t, []float64{3, -1.5}, ridge.Coefficients(), 1e-9)
	assert.Equal(t, 2, ridge.NFeatures())
	assert.Equal(t, 0.0, ridge.Lambda())

	score, err := ridge.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1, score, 1e-12)

	assert.True(t, logger.ContainsMessage("fit finished"))
	assert.True(t, logger.ContainsField(log.SolverKey, solverQR))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(20)))
}

func TestFitRidgeMatchesAugmentedNormalEquations(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	X, y := linearData(rng, 30, 1, []float64{0.5, 2, -1}, 0.3)
	const lambda = 1.5

	ridge, err := FitRidge(X, y, lambda)
	require.NoError(t, err)

	// (AᵗA + lambda²·I)·b = Aᵗy, with A = [1 | Xᵗ]
	nFeatures, nSamples := X.Dims()
	A := mat.NewDense(nSamples, nFeatures+1, nil)
	for i := 0; i < nSamples; i++ {
		A.Set(i, 0, 1)
		for j := 0; j < nFeatures; j++ {
			A.Set(i, j+1, X.At(j, i))
		}
	}
	var gram mat.Dense
	gram.Mul(A.T(), A)
	for k := 0; k <= nFeatures; k++ {
		gram.Set(k, k, gram.At(k, k)+lambda*lambda)
	}
	var rhs, want mat.VecDense
	rhs.MulVec(A.T(), y)
	require.NoError(t, want.SolveVec(&gram, &rhs))

	assert.InDeltaSlice(t, want.RawVector().Data, ridge.Parameters().RawVector().Data, 1e-9)
	assert.Equal(t, lambda, ridge.Lambda())
}

func TestFitRidgeTrainingErrorGrowsWithLambda(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	X, y := linearData(rng, 50, -1, []float64{1, 4, -2, 0.5}, 1)

	prevErr := -1.0
	prevNorm := math.Inf(1)
	for _, lambda := range []float64{0, 0.1, 1, 5, 25} {
		ridge, err := FitRidge(X, y, lambda)
		require.NoError(t, err)

		mse, err := ridge.ComputeError(X, y)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, mse, prevErr-1e-12, "lambda=%v", lambda)
		prevErr = mse

		norm := floats.Norm(ridge.Parameters().RawVector().Data, 2)
		assert.LessOrEqual(t, norm, prevNorm+1e-12, "lambda=%v", lambda)
		prevNorm = norm
	}
}

func TestFitRidgeRankToleranceForcesSVD(t *testing.T) {
	warnings := captureWarnings(t)
	rng := rand.New(rand.NewPCG(9, 9))
	X, y := linearData(rng, 15, 0.5, []float64{2, -3}, 0)
	logger, _ := log.NewTestLogger(log.LevelDebug)

	ridge, err := FitRidge(X, y, 0, WithRankTolerance(10), WithLogger(logger))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.5, 2, -3}, ridge.Parameters().RawVector().Data, 1e-9)
	assert.True(t, logger.ContainsField(log.SolverKey, solverSVD))
	assert.Empty(t, *warnings, "full-rank design must not warn")
}

func TestFitRidgeValidation(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 7})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	t.Run("negative lambda", func(t *testing.T) {
		_, err := FitRidge(X, y, -0.1)
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "lambda", valErr.ParamName)
	})

	t.Run("NaN lambda", func(t *testing.T) {
		_, err := FitRidge(X, y, math.NaN())
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("response length", func(t *testing.T) {
		_, err := FitRidge(X, mat.NewVecDense(2, []float64{1, 2}), 0)
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 1, dimErr.Axis)
		assert.Equal(t, 3, dimErr.Expected)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := FitRidge(&mat.Dense{}, &mat.VecDense{}, 0)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})
}

func TestPredictDimensionMismatch(t *testing.T) {
	ridge, err := NewRidgeFromParameters([]float64{1, 2, 3})
	require.NoError(t, err)

	wrong := mat.NewDense(3, 2, nil)
	_, err = ridge.Predict(wrong)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 0, dimErr.Axis)
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)

	assert.Panics(t, func() { ridge.MustPredict(wrong) })

	_, err = ridge.ComputeError(mat.NewDense(2, 2, nil), mat.NewVecDense(3, nil))
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 1, dimErr.Axis)
}

func TestPredictDoesNotMutateInput(t *testing.T) {
	ridge, err := NewRidgeFromParameters([]float64{1, 2, -1})
	require.NoError(t, err)
	points := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	original := mat.DenseCopyOf(points)

	pred := ridge.MustPredict(points)

	// 1 + 2·x1 - x2
	assert.Equal(t, []float64{0, 1}, pred.RawVector().Data)
	assert.True(t, mat.Equal(original, points))
}

func TestRidgeIsImmutable(t *testing.T) {
	ridge, err := NewRidgeFromParameters([]float64{1, 2, 3})
	require.NoError(t, err)

	params := ridge.Parameters()
	params.SetVec(0, 100)
	ridge.Coefficients()[0] = 100
	assert.Equal(t, 1.0, ridge.Intercept())
	assert.Equal(t, []float64{2, 3}, ridge.Coefficients())

	withLambda, err := ridge.WithLambda(0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ridge.Lambda())
	assert.Equal(t, 0.5, withLambda.Lambda())

	replaced, err := withLambda.WithParameters([]float64{-1, 0, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.5, replaced.Lambda())
	assert.Equal(t, -1.0, replaced.Intercept())
	assert.Equal(t, 1.0, withLambda.Intercept())

	_, err = ridge.WithLambda(-1)
	assert.Error(t, err)
	_, err = NewRidgeFromParameters([]float64{1})
	assert.Error(t, err)
}

func TestConcurrentPredict(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	X, y := linearData(rng, 100, 0, []float64{1, 2}, 0.1)
	ridge, err := FitRidge(X, y, 0.2)
	require.NoError(t, err)
	want := ridge.MustPredict(X)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ridge.Predict(X)
			assert.NoError(t, err)
			assert.True(t, mat.Equal(want, got))
		}()
	}
	wg.Wait()
}

func BenchmarkFitRidge(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	X, y := linearData(rng, 5000, 1, []float64{1, -2, 3, 0.5, 0.1, 2, -1, 4}, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FitRidge(X, y, 0.1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPredict(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	X, y := linearData(rng, 5000, 1, []float64{1, -2, 3, 0.5}, 0.5)
	ridge, err := FitRidge(X, y, 0.1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ridge.Predict(X)
	}
}

func TestPersistence(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	X, y := linearData(rng, 25, 3, []float64{1, -1, 0.25}, 0.2)
	ridge, err := FitRidge(X, y, 0.7)
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ridge.SaveJSON(&buf))
		assert.Contains(t, buf.String(), `"model_type": "Ridge"`)

		loaded, err := LoadRidgeJSON(&buf)
		require.NoError(t, err)
		assert.Equal(t, ridge.Parameters().RawVector().Data, loaded.Parameters().RawVector().Data)
		assert.Equal(t, 0.7, loaded.Lambda())
	})

	t.Run("parameters file", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ridge.SaveParameters(&buf))

		loaded, err := LoadRidgeParameters(&buf)
		require.NoError(t, err)
		assert.Equal(t, ridge.Parameters().RawVector().Data, loaded.Parameters().RawVector().Data)
		assert.Equal(t, 0.0, loaded.Lambda())
	})

	t.Run("wrong model type", func(t *testing.T) {
		weights := ridge.ExportWeights()
		weights.ModelType = "PCA"
		_, err := ImportWeights(weights)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})
}
