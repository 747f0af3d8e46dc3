// Package emotion turns a single face crop into an emotion label.
package emotion

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/emotune/emotune/internal/domain"
)

var (
	ErrOutputShape = errors.New("model output does not match the emotion label set")
	ErrOutputValue = errors.New("model output contains a non-finite probability")
	ErrEmptyFace   = errors.New("face crop has no pixels")
)

// Model is the opaque scoring function: one normalized face in, one
// probability per emotion out, indexed in domain.Emotion order.
type Model interface {
	Predict(ctx context.Context, face NormalizedFace) ([]float32, error)
	Close() error
}

type Classifier struct {
	model Model
}

func NewClassifier(model Model) *Classifier {
	return &Classifier{model: model}
}

// Classify normalizes the crop, scores it and returns the arg-max label.
func (c *Classifier) Classify(ctx context.Context, face image.Image) (domain.Detection, error) {
	if face.Bounds().Empty() {
		return domain.Detection{}, ErrEmptyFace
	}

	probs, err := c.model.Predict(ctx, Normalize(face))
	if err != nil {
		return domain.Detection{}, fmt.Errorf("predict: %w", err)
	}

	return Decide(probs)
}

// Decide maps a distribution back through the fixed label order. The first
// maximum wins, and the confidence is clamped to [0,1].
func Decide(probs []float32) (domain.Detection, error) {
	if len(probs) != domain.EmotionCount {
		return domain.Detection{}, fmt.Errorf("%w: got %d values, want %d", ErrOutputShape, len(probs), domain.EmotionCount)
	}

	best := 0
	for i, p := range probs {
		if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
			return domain.Detection{}, fmt.Errorf("%w at index %d", ErrOutputValue, i)
		}
		if p > probs[best] {
			best = i
		}
	}

	label, err := domain.EmotionFromIndex(best)
	if err != nil {
		return domain.Detection{}, err
	}

	confidence := math.Min(1, math.Max(0, float64(probs[best])))

	return domain.Detection{
		Emotion:    label,
		Confidence: confidence,
	}, nil
}
