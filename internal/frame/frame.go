// Package frame decodes uploaded image buffers into pixel grids.
package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/emotune/emotune/internal/domain"
)

var ErrUndecodable = errors.New("image could not be decoded")

// MaxPixels bounds width*height as declared in the image header. Larger
// images are rejected before any pixel buffer is allocated.
const MaxPixels = 50_000_000

// Frame is a decoded upload. Raw keeps the original bytes for locators that
// work on the encoded form.
type Frame struct {
	Raw   []byte
	Image *image.NRGBA
}

// Decode parses JPEG, PNG, GIF, BMP or TIFF bytes. Malformed input and
// headers declaring more than MaxPixels yield ErrUndecodable, never a panic.
func Decode(raw []byte) (f *Frame, err error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrUndecodable)
	}
	if err := checkDimensions(raw); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = fmt.Errorf("%w: decoder panic: %v", ErrUndecodable, r)
		}
	}()

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero-area image", ErrUndecodable)
	}

	return &Frame{
		Raw:   raw,
		Image: imaging.Clone(img),
	}, nil
}

func checkDimensions(raw []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: zero-area image", ErrUndecodable)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUndecodable, cfg.Width, cfg.Height, MaxPixels)
	}
	return nil
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image) *Frame {
	return &Frame{Image: imaging.Clone(img)}
}

func (f *Frame) Width() int {
	return f.Image.Bounds().Dx()
}

func (f *Frame) Height() int {
	return f.Image.Bounds().Dy()
}

// Gray returns the row-major single-channel intensity plane.
func (f *Frame) Gray() []byte {
	gray := imaging.Grayscale(f.Image)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		for x := 0; x < w; x++ {
			out[y*w+x] = row[x*4]
		}
	}
	return out
}

// Clip intersects region with the frame. ok is false when nothing of the
// region lies inside the frame.
func (f *Frame) Clip(region domain.FaceRegion) (clipped domain.FaceRegion, ok bool) {
	r := region.Rect().Intersect(f.Image.Bounds())
	if r.Empty() {
		return domain.FaceRegion{}, false
	}
	return domain.RegionFromRect(r), true
}

// Crop returns the pixels under region, clamped to the frame.
func (f *Frame) Crop(region domain.FaceRegion) *image.NRGBA {
	return imaging.Crop(f.Image, region.Rect())
}
