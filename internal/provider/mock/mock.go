package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/emotion"
	"github.com/emotune/emotune/internal/frame"
	"github.com/emotune/emotune/internal/provider"
)

// Locator implementa provider.FaceLocator para testes e desenvolvimento.
// It reports one centered face covering 80% of the frame.
type Locator struct{}

// NewLocator cria uma nova instância do mock Locator
func NewLocator() *Locator {
	return &Locator{}
}

// Locate simula detecção de faces
func (l *Locator) Locate(ctx context.Context, f *frame.Frame) ([]domain.FaceRegion, error) {
	w, h := f.Width(), f.Height()
	region := domain.FaceRegion{
		X:      w / 10,
		Y:      h / 10,
		Width:  w * 8 / 10,
		Height: h * 8 / 10,
	}

	if !provider.LargeEnough(region) {
		return nil, nil
	}
	return []domain.FaceRegion{region}, nil
}

func (l *Locator) Close() error {
	return nil
}

// Model implementa emotion.Model com distribuição determinística baseada no
// hash do tensor normalizado.
type Model struct{}

// NewModel cria uma nova instância do mock Model
func NewModel() *Model {
	return &Model{}
}

// Predict gera probabilidades determinísticas que somam 1
func (m *Model) Predict(ctx context.Context, face emotion.NormalizedFace) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return generateDistribution(face.Pixels), nil
}

func (m *Model) Close() error {
	return nil
}

func generateDistribution(pixels []float32) []float32 {
	buf := make([]byte, 4*len(pixels))
	for i, v := range pixels {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	hash := sha256.Sum256(buf)

	probs := make([]float32, domain.EmotionCount)
	var sum float32
	for i := range probs {
		probs[i] = float32(hash[i]) + 1
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

var (
	_ provider.FaceLocator = (*Locator)(nil)
	_ emotion.Model        = (*Model)(nil)
)
