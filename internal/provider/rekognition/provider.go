package rekognition

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/disintegration/imaging"

	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/frame"
	"github.com/emotune/emotune/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
	// jpegQuality for the re-encoded frame sent to AWS
	jpegQuality = 92
)

// Locator implements provider.FaceLocator using AWS Rekognition DetectFaces.
// The decoded frame is re-encoded as JPEG so that returned boxes refer to the
// same oriented pixel grid the rest of the pipeline crops from.
type Locator struct {
	api         DetectFacesAPI
	config      Config
	auditLogger audit.Logger
}

// LocatorOption defines optional configuration for Locator
type LocatorOption func(*Locator)

// WithAuditLogger sets the audit logger for the locator
func WithAuditLogger(logger audit.Logger) LocatorOption {
	return func(l *Locator) {
		l.auditLogger = logger
	}
}

// WithAPI replaces the AWS client, mainly for tests
func WithAPI(api DetectFacesAPI) LocatorOption {
	return func(l *Locator) {
		l.api = api
	}
}

// Ensure Locator implements provider.FaceLocator interface at compile time
var _ provider.FaceLocator = (*Locator)(nil)

// NewLocator creates a Rekognition-backed face locator
func NewLocator(ctx context.Context, cfg Config, opts ...LocatorOption) (*Locator, error) {
	l := &Locator{config: cfg}
	for _, opt := range opts {
		opt(l)
	}

	if l.api == nil {
		client, err := NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create rekognition client: %w", err)
		}
		l.api = client
	}

	return l, nil
}

// logAudit logs an audit event if an audit logger is configured
// Audit failure does not affect the operation (fire-and-forget)
func (l *Locator) logAudit(ctx context.Context, success bool, err error, metadata map[string]string) {
	if l.auditLogger == nil {
		return
	}

	event := audit.Event{
		EventType: audit.EventFacesLocated,
		Provider:  "rekognition",
		Success:   success,
		Metadata:  metadata,
	}

	if err != nil {
		event.Error = err.Error()
	}

	_ = l.auditLogger.Log(ctx, event)
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// Locate detects faces and converts Rekognition's ratio boxes into pixel
// regions. Returns an empty slice if no faces are detected (not an error)
func (l *Locator) Locate(ctx context.Context, f *frame.Frame) ([]domain.FaceRegion, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.Image, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	image := buf.Bytes()

	if err := validateImage(image); err != nil {
		l.logAudit(ctx, false, err, map[string]string{
			"image_size": strconv.Itoa(len(image)),
		})
		return nil, err
	}

	output, err := l.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		err = ParseAPIError(err)
		l.logAudit(ctx, false, err, map[string]string{
			"image_size": strconv.Itoa(len(image)),
		})
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	width, height := f.Width(), f.Height()
	regions := make([]domain.FaceRegion, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}
		if detail.Confidence != nil && *detail.Confidence < l.config.MinConfidence {
			continue
		}

		region := toRegion(detail.BoundingBox, width, height)
		if provider.LargeEnough(region) {
			regions = append(regions, region)
		}
	}

	l.logAudit(ctx, true, nil, map[string]string{
		"faces_count": strconv.Itoa(len(regions)),
		"image_size":  strconv.Itoa(len(image)),
	})

	return regions, nil
}

// Close is a no-op; the AWS client holds no native resources
func (l *Locator) Close() error {
	return nil
}

// toRegion converts a ratio bounding box into pixels, clamped to the frame.
// Rekognition may report boxes that extend past the image edges.
func toRegion(box *types.BoundingBox, width, height int) domain.FaceRegion {
	ratio := func(v *float32) float64 {
		if v == nil {
			return 0
		}
		return float64(*v)
	}

	x0 := clamp(int(math.Round(ratio(box.Left)*float64(width))), 0, width)
	y0 := clamp(int(math.Round(ratio(box.Top)*float64(height))), 0, height)
	x1 := clamp(int(math.Round((ratio(box.Left)+ratio(box.Width))*float64(width))), 0, width)
	y1 := clamp(int(math.Round((ratio(box.Top)+ratio(box.Height))*float64(height))), 0, height)

	return domain.FaceRegion{
		X:      x0,
		Y:      y0,
		Width:  x1 - x0,
		Height: y1 - y0,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
