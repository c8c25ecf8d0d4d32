package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteWeights は重みをインデント付きJSONとして w に書き出す
//
// 使用例:
//
//	weights := ridge.ExportWeights()
//	err := model.WriteWeights(file, weights)
func WriteWeights(w io.Writer, weights *ModelWeights) error {
	if err := weights.Validate(); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(weights); err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	return nil
}

// ReadWeights は r からJSONの重みを読み込み、検証する
func ReadWeights(r io.Reader) (*ModelWeights, error) {
	var weights ModelWeights
	if err := json.NewDecoder(r).Decode(&weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &weights, nil
}
