package domain

import (
	"fmt"
	"image"
	"strings"
)

// Emotion is one of the seven classes the expression model was trained on.
// The numeric value is the model output index; reordering the constants
// silently breaks every prediction.
type Emotion int

const (
	EmotionAngry Emotion = iota
	EmotionDisgust
	EmotionFear
	EmotionHappy
	EmotionNeutral
	EmotionSad
	EmotionSurprise
)

// EmotionCount is the length of the model's output distribution.
const EmotionCount = 7

var emotionLabels = [EmotionCount]string{
	"angry",
	"disgust",
	"fear",
	"happy",
	"neutral",
	"sad",
	"surprise",
}

func (e Emotion) String() string {
	if !e.Valid() {
		return fmt.Sprintf("emotion(%d)", int(e))
	}
	return emotionLabels[e]
}

func (e Emotion) Valid() bool {
	return e >= 0 && int(e) < EmotionCount
}

func (e Emotion) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid emotion index %d", int(e))
	}
	return []byte(emotionLabels[e]), nil
}

// Emotions returns the labels in model-index order.
func Emotions() []Emotion {
	out := make([]Emotion, EmotionCount)
	for i := range out {
		out[i] = Emotion(i)
	}
	return out
}

// ParseEmotion resolves a label case-insensitively.
func ParseEmotion(s string) (Emotion, bool) {
	s = strings.ToLower(s)
	for i, label := range emotionLabels {
		if label == s {
			return Emotion(i), true
		}
	}
	return 0, false
}

func EmotionFromIndex(i int) (Emotion, error) {
	e := Emotion(i)
	if !e.Valid() {
		return 0, fmt.Errorf("emotion index %d out of range [0,%d)", i, EmotionCount)
	}
	return e, nil
}

// Detection is the classifier verdict for a single face.
// Confidence is the probability mass of the chosen label, not a calibrated score.
type Detection struct {
	Emotion    Emotion `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// FaceRegion is a face rectangle in pixel coordinates of the decoded image.
type FaceRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r FaceRegion) Area() int {
	return r.Width * r.Height
}

func (r FaceRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func RegionFromRect(rect image.Rectangle) FaceRegion {
	return FaceRegion{
		X:      rect.Min.X,
		Y:      rect.Min.Y,
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}
}
