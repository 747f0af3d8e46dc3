package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/emotune/emotune/internal/domain"
)

// EmotionDetector is implemented by *service.EmotionService
type EmotionDetector interface {
	Detect(ctx context.Context, raw []byte) (*domain.Detection, error)
}

type EmotionHandler struct {
	service EmotionDetector
	logger  *slog.Logger
}

func NewEmotionHandler(service EmotionDetector, logger *slog.Logger) *EmotionHandler {
	return &EmotionHandler{service: service, logger: logger}
}

// DetectResponse response for detect-emotion endpoint
type DetectResponse struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Detect POST /detect-emotion - classify the largest face in an uploaded image
func (h *EmotionHandler) Detect(c *fiber.Ctx) error {
	raw, err := readUpload(c)
	if err != nil {
		return err
	}

	detection, err := h.service.Detect(c.Context(), raw)
	if err != nil {
		return err
	}

	h.logger.Debug("emotion detected",
		slog.String("emotion", detection.Emotion.String()),
		slog.Float64("confidence", detection.Confidence),
	)

	return c.JSON(DetectResponse{
		Emotion:    detection.Emotion.String(),
		Confidence: detection.Confidence,
	})
}
