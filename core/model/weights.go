package model

import (
	"encoding/json"
	"fmt"
)

// WeightsFormatVersion は現在の重みフォーマットのバージョン
const WeightsFormatVersion = "1.0"

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（Ridge 等）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は切片を除いた重み係数（特徴量の順）
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Hyperparameters はモデルのハイパーパラメータ（lambda 等）
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時のサンプル数等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}
	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}
	if mw.Version != WeightsFormatVersion {
		return fmt.Errorf("unsupported weights version %q (want %q)", mw.Version, WeightsFormatVersion)
	}
	if len(mw.Coefficients) == 0 {
		return fmt.Errorf("fitted model must have coefficients")
	}
	return nil
}

// Float は Hyperparameters から数値を取り出す。JSON 由来の値は float64 になる。
func (mw *ModelWeights) Float(key string) (float64, bool) {
	v, ok := mw.Hyperparameters[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		Coefficients:    make([]float64, len(mw.Coefficients)),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}
	copy(clone.Coefficients, mw.Coefficients)
	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
