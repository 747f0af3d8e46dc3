package emotion

import (
	"image"

	"github.com/disintegration/imaging"
)

// InputSize is the square edge the expression model was trained on. It must
// match the exported model exactly; a mismatch produces wrong labels, not errors.
const InputSize = 75

// Channels of a normalized face, in RGB order.
const Channels = 3

// NormalizedFace is a 75x75x3 tensor in HWC layout, RGB, values in [0,1].
type NormalizedFace struct {
	Pixels []float32
}

func (f NormalizedFace) At(x, y, c int) float32 {
	return f.Pixels[(y*InputSize+x)*Channels+c]
}

// Normalize resizes a face crop to InputSize with bilinear resampling and
// scales every 8-bit channel by 1/255. A zero-area crop yields an all-zero
// tensor of the usual length; Classify rejects such crops before scoring.
func Normalize(face image.Image) NormalizedFace {
	px := make([]float32, 0, InputSize*InputSize*Channels)
	if face.Bounds().Empty() {
		return NormalizedFace{Pixels: px[:cap(px)]}
	}

	resized := imaging.Resize(face, InputSize, InputSize, imaging.Linear)
	for y := 0; y < InputSize; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+InputSize*4]
		for x := 0; x < InputSize; x++ {
			p := row[x*4 : x*4+3]
			px = append(px,
				float32(p[0])/255,
				float32(p[1])/255,
				float32(p[2])/255,
			)
		}
	}

	return NormalizedFace{Pixels: px}
}
