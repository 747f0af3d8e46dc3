package face

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/config"
	"github.com/emotune/emotune/internal/emotion"
	"github.com/emotune/emotune/internal/provider"
	"github.com/emotune/emotune/internal/provider/mock"
	"github.com/emotune/emotune/internal/provider/opencv"
	"github.com/emotune/emotune/internal/provider/rekognition"
	"github.com/emotune/emotune/internal/provider/tfserving"
)

// LocatorType defines supported face locator backends
type LocatorType string

const (
	// LocatorTypeCascade is the local Haar cascade (gocv)
	LocatorTypeCascade LocatorType = "cascade"
	// LocatorTypeRekognition is AWS Rekognition DetectFaces
	LocatorTypeRekognition LocatorType = "rekognition"
	// LocatorTypeMock reports one centered face, for dev/test
	LocatorTypeMock LocatorType = "mock"
)

// ModelType defines supported emotion model backends
type ModelType string

const (
	// ModelTypeOpenCV runs the exported network in-process with gocv
	ModelTypeOpenCV ModelType = "opencv"
	// ModelTypeTFServing calls a TensorFlow Serving REST endpoint
	ModelTypeTFServing ModelType = "tfserving"
	// ModelTypeMock returns a deterministic distribution, for dev/test
	ModelTypeMock ModelType = "mock"
)

// NewPipeline creates the locator and the model selected by configuration.
// Any failure is logged and yields an unavailable pipeline rather than an
// error, so the HTTP surface can still serve recommendations and accounts.
//
// Environment variables:
//   - FACE_LOCATOR: "cascade", "rekognition" or "mock" (default: "cascade")
//   - CASCADE_PATH: Haar cascade XML for the cascade locator
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - EMOTION_MODEL: "opencv", "tfserving" or "mock" (default: "opencv")
//   - MODEL_PATH / MODEL_CONFIG: network files for the opencv model
//   - MODEL_LAYOUT: input blob order of the opencv model, nhwc or nchw
//   - TFSERVING_URL / TFSERVING_MODEL: endpoint for the tfserving model
func NewPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, auditLogger audit.Logger) *emotion.Pipeline {
	locator, err := NewFaceLocator(ctx, cfg, auditLogger)
	if err != nil {
		logger.Error("face locator failed to load", "locator", cfg.FaceLocator, "error", err)
		return emotion.Unavailable(err)
	}

	model, err := NewEmotionModel(cfg)
	if err != nil {
		_ = locator.Close()
		logger.Error("emotion model failed to load", "model", cfg.EmotionModel, "error", err)
		return emotion.Unavailable(err)
	}

	logger.Info("face pipeline ready", "locator", cfg.FaceLocator, "model", cfg.EmotionModel)
	return emotion.NewPipeline(locator, model)
}

// NewFaceLocator creates a FaceLocator instance based on configuration
func NewFaceLocator(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (provider.FaceLocator, error) {
	switch LocatorType(cfg.FaceLocator) {
	case LocatorTypeCascade, "":
		return opencv.NewCascadeLocator(cfg.CascadePath, cfg.PoolSize)

	case LocatorTypeRekognition:
		return createRekognitionLocator(ctx, cfg, auditLogger)

	case LocatorTypeMock:
		return mock.NewLocator(), nil

	default:
		return nil, fmt.Errorf("unknown face locator: %s (supported: %s, %s, %s)",
			cfg.FaceLocator, LocatorTypeCascade, LocatorTypeRekognition, LocatorTypeMock)
	}
}

// NewEmotionModel creates an emotion.Model instance based on configuration
func NewEmotionModel(cfg *config.Config) (emotion.Model, error) {
	switch ModelType(cfg.EmotionModel) {
	case ModelTypeOpenCV, "":
		layout, err := opencv.ParseLayout(cfg.ModelLayout)
		if err != nil {
			return nil, err
		}
		return opencv.NewNetModel(cfg.ModelPath, cfg.ModelConfig, layout, cfg.PoolSize)

	case ModelTypeTFServing:
		return createTFServingModel(cfg), nil

	case ModelTypeMock:
		return mock.NewModel(), nil

	default:
		return nil, fmt.Errorf("unknown emotion model: %s (supported: %s, %s, %s)",
			cfg.EmotionModel, ModelTypeOpenCV, ModelTypeTFServing, ModelTypeMock)
	}
}

// createRekognitionLocator creates an AWS Rekognition locator instance
func createRekognitionLocator(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (provider.FaceLocator, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}

	var opts []rekognition.LocatorOption
	if auditLogger != nil {
		opts = append(opts, rekognition.WithAuditLogger(auditLogger))
	}

	loc, err := rekognition.NewLocator(ctx, rekogConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("create rekognition locator: %w", err)
	}

	return loc, nil
}

// createTFServingModel creates a TF Serving model client
func createTFServingModel(cfg *config.Config) emotion.Model {
	tfConfig := tfserving.DefaultConfig()

	// Use defaults for fields left empty
	if cfg.TFServingURL != "" {
		tfConfig.BaseURL = cfg.TFServingURL
	}
	if cfg.TFServingName != "" {
		tfConfig.ModelName = cfg.TFServingName
	}

	return tfserving.NewModel(tfConfig)
}
