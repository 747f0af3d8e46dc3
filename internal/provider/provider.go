package provider

import (
	"context"

	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/frame"
)

// Fixed detection parameters shared by every locator.
const (
	ScaleFactor  = 1.1
	MinNeighbors = 5
	MinFaceSize  = 60
)

// FaceLocator finds candidate face regions in a decoded frame
type FaceLocator interface {
	// Locate returns every region at least MinFaceSize on both sides, in
	// pixel coordinates of the frame. An empty result is not an error.
	Locate(ctx context.Context, f *frame.Frame) ([]domain.FaceRegion, error)

	// Close releases native resources held by the locator
	Close() error
}

// LargeEnough reports whether a region satisfies the minimum face size.
func LargeEnough(r domain.FaceRegion) bool {
	return r.Width >= MinFaceSize && r.Height >= MinFaceSize
}
