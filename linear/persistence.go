package linear

import (
	"io"

	"github.com/YuminosukeSato/ridgepca/core/model"
	"github.com/YuminosukeSato/ridgepca/dataio"
	"github.com/YuminosukeSato/ridgepca/pkg/errors"
)

const (
	modelTypeRidge = "Ridge"
	lambdaKey      = "lambda"
)

// ExportWeights はモデルを ModelWeights に変換する
func (r *Ridge) ExportWeights() *model.ModelWeights {
	return &model.ModelWeights{
		ModelType:       modelTypeRidge,
		Version:         model.WeightsFormatVersion,
		Coefficients:    r.Coefficients(),
		Intercept:       r.Intercept(),
		Hyperparameters: map[string]interface{}{lambdaKey: r.lambda},
		Metadata:        map[string]interface{}{"n_features": r.NFeatures()},
	}
}

// ImportWeights は ModelWeights からモデルを復元する
func ImportWeights(weights *model.ModelWeights) (*Ridge, error) {
	if err := weights.Validate(); err != nil {
		return nil, errors.NewModelError("ImportWeights", "invalid weights", err)
	}
	if weights.ModelType != modelTypeRidge {
		return nil, errors.NewValidationError("model_type", "expected "+modelTypeRidge, weights.ModelType)
	}

	params := make([]float64, 0, len(weights.Coefficients)+1)
	params = append(params, weights.Intercept)
	params = append(params, weights.Coefficients...)

	ridge, err := NewRidgeFromParameters(params)
	if err != nil {
		return nil, err
	}
	if lambda, ok := weights.Float(lambdaKey); ok {
		return ridge.WithLambda(lambda)
	}
	return ridge, nil
}

// SaveJSON はモデルをバージョン付きJSONとして書き出す
func (r *Ridge) SaveJSON(w io.Writer) error {
	return model.WriteWeights(w, r.ExportWeights())
}

// LoadRidgeJSON は SaveJSON で書き出したモデルを読み込む
func LoadRidgeJSON(rd io.Reader) (*Ridge, error) {
	weights, err := model.ReadWeights(rd)
	if err != nil {
		return nil, errors.Wrap(err, "LoadRidgeJSON")
	}
	return ImportWeights(weights)
}

// SaveParameters は [切片, 係数...] を1行1値で書き出す
// lambda は保存されない
func (r *Ridge) SaveParameters(w io.Writer) error {
	return dataio.SaveVector(w, r.parameters)
}

// LoadRidgeParameters は SaveParameters で書き出したパラメータからモデルを復元する
// lambda は 0 になる
func LoadRidgeParameters(rd io.Reader) (*Ridge, error) {
	v, err := dataio.LoadVector(rd)
	if err != nil {
		return nil, errors.Wrap(err, "LoadRidgeParameters")
	}
	return NewRidgeFromParameters(v.RawVector().Data)
}
