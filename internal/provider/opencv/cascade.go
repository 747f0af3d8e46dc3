// Package opencv implements face location and expression scoring with gocv.
// gocv objects are not safe for concurrent use, so each type keeps a fixed
// pool of native instances loaded at startup.
package opencv

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/frame"
	"github.com/emotune/emotune/internal/provider"
)

var ErrCascadeLoad = errors.New("failed to load cascade classifier")

// DefaultPoolSize is used when a pool size of zero or less is requested.
const DefaultPoolSize = 4

// CascadeLocator runs a Haar cascade over the grayscale plane.
type CascadeLocator struct {
	pool chan *gocv.CascadeClassifier
}

// NewCascadeLocator loads poolSize copies of the cascade file.
func NewCascadeLocator(path string, poolSize int) (*CascadeLocator, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCascadeLoad, path, err)
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	l := &CascadeLocator{pool: make(chan *gocv.CascadeClassifier, poolSize)}
	for i := 0; i < poolSize; i++ {
		classifier := gocv.NewCascadeClassifier()
		if !classifier.Load(path) {
			classifier.Close()
			_ = l.Close()
			return nil, fmt.Errorf("%w: %s", ErrCascadeLoad, path)
		}
		l.pool <- &classifier
	}

	return l, nil
}

// Locate detects faces with scale 1.1, 5 neighbours and a 60x60 minimum.
func (l *CascadeLocator) Locate(ctx context.Context, f *frame.Frame) ([]domain.FaceRegion, error) {
	var classifier *gocv.CascadeClassifier
	select {
	case classifier = <-l.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { l.pool <- classifier }()

	gray, err := gocv.NewMatFromBytes(f.Height(), f.Width(), gocv.MatTypeCV8U, f.Gray())
	if err != nil {
		return nil, fmt.Errorf("gray mat: %w", err)
	}
	defer gray.Close()

	rects := classifier.DetectMultiScaleWithParams(
		gray,
		provider.ScaleFactor,
		provider.MinNeighbors,
		0,
		image.Pt(provider.MinFaceSize, provider.MinFaceSize),
		image.Pt(0, 0),
	)

	regions := make([]domain.FaceRegion, 0, len(rects))
	for _, r := range rects {
		region := domain.RegionFromRect(r)
		if provider.LargeEnough(region) {
			regions = append(regions, region)
		}
	}

	return regions, nil
}

// Close releases every pooled classifier. It must not race with Locate.
func (l *CascadeLocator) Close() error {
	for {
		select {
		case c := <-l.pool:
			c.Close()
		default:
			return nil
		}
	}
}

var _ provider.FaceLocator = (*CascadeLocator)(nil)
