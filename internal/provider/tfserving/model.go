package tfserving

import (
	"context"
	"fmt"

	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/emotion"
)

// Model implements emotion.Model on top of a remote model server
type Model struct {
	client *Client
}

// NewModel creates a Model backed by a TF Serving endpoint
func NewModel(config Config) *Model {
	return &Model{client: NewClient(config)}
}

// Predict sends one 75x75x3 instance and returns its 7 scores
func (m *Model) Predict(ctx context.Context, face emotion.NormalizedFace) ([]float32, error) {
	if len(face.Pixels) != emotion.InputSize*emotion.InputSize*emotion.Channels {
		return nil, fmt.Errorf("unexpected input length %d", len(face.Pixels))
	}

	resp, err := m.client.Predict(ctx, PredictRequest{
		Instances: [][][][]float32{toInstance(face)},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Predictions) != 1 {
		return nil, fmt.Errorf("%w: %d predictions for 1 instance", ErrInvalidResponse, len(resp.Predictions))
	}
	if len(resp.Predictions[0]) != domain.EmotionCount {
		return nil, fmt.Errorf("%w: got %d values", emotion.ErrOutputShape, len(resp.Predictions[0]))
	}

	return resp.Predictions[0], nil
}

// Close is a no-op for the HTTP model
func (m *Model) Close() error {
	return nil
}

func toInstance(face emotion.NormalizedFace) [][][]float32 {
	rows := make([][][]float32, emotion.InputSize)
	for y := range rows {
		rows[y] = make([][]float32, emotion.InputSize)
		for x := range rows[y] {
			i := (y*emotion.InputSize + x) * emotion.Channels
			rows[y][x] = face.Pixels[i : i+emotion.Channels : i+emotion.Channels]
		}
	}
	return rows
}

var _ emotion.Model = (*Model)(nil)
