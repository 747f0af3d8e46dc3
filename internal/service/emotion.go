package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/emotion"
	"github.com/emotune/emotune/internal/frame"
)

type EmotionService struct {
	pipeline    *emotion.Pipeline
	auditLogger audit.Logger
}

func NewEmotionService(pipeline *emotion.Pipeline, auditLogger audit.Logger) *EmotionService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &EmotionService{
		pipeline:    pipeline,
		auditLogger: auditLogger,
	}
}

// Available reports whether the detector and the model loaded at startup
func (s *EmotionService) Available() bool {
	return s.pipeline.Available()
}

// Detect decodes raw, classifies the largest face and returns its label.
// Each failure is terminal and no partial result is returned.
func (s *EmotionService) Detect(ctx context.Context, raw []byte) (*domain.Detection, error) {
	if !s.pipeline.Available() {
		return nil, s.fail(ctx, domain.ErrClassifierUnavailable.WithError(s.pipeline.Err()))
	}

	f, err := frame.Decode(raw)
	if err != nil {
		return nil, s.fail(ctx, domain.ErrInvalidImage.WithError(err))
	}

	regions, err := s.pipeline.Locator.Locate(ctx, f)
	if err != nil {
		return nil, s.fail(ctx, domain.ErrClassificationFailed.WithError(fmt.Errorf("locate faces: %w", err)))
	}

	// Locators report frame coordinates, but nothing outside the frame can be classified
	visible := make([]domain.FaceRegion, 0, len(regions))
	for _, r := range regions {
		if clipped, ok := f.Clip(r); ok {
			visible = append(visible, clipped)
		}
	}

	region, ok := emotion.SelectLargest(visible)
	if !ok {
		return nil, s.fail(ctx, domain.ErrNoFaceDetected)
	}

	detection, err := s.pipeline.Classifier.Classify(ctx, f.Crop(region))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, s.fail(ctx, err)
		}
		return nil, s.fail(ctx, domain.ErrClassificationFailed.WithError(err))
	}

	_ = s.auditLogger.Log(ctx, audit.Event{
		EventType: audit.EventEmotionDetected,
		Success:   true,
		Metadata: map[string]string{
			"emotion":    detection.Emotion.String(),
			"confidence": strconv.FormatFloat(detection.Confidence, 'f', 4, 64),
			"faces":      strconv.Itoa(len(visible)),
		},
	})

	return &detection, nil
}

func (s *EmotionService) fail(ctx context.Context, err error) error {
	// Audit log - error is intentionally not returned
	_ = s.auditLogger.Log(ctx, audit.Event{
		EventType: audit.EventEmotionDetected,
		Success:   false,
		Error:     err.Error(),
	})
	return err
}
