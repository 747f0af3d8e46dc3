package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/emotune/emotune/internal/domain"
)

// TrackRecommender is implemented by *service.RecommendationService
type TrackRecommender interface {
	Recommend(ctx context.Context, emotion, language string) ([]domain.Track, error)
}

type RecommendationHandler struct {
	service TrackRecommender
}

func NewRecommendationHandler(service TrackRecommender) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// Recommend GET /recommendations?emotion=&language= - up to 10 tracks
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	emotion := strings.TrimSpace(c.Query("emotion"))
	if emotion == "" {
		return domain.ErrValidationFailed.WithError(errors.New("emotion is required"))
	}
	language := c.Query("language", domain.DefaultLanguage)

	tracks, err := h.service.Recommend(c.Context(), emotion, language)
	if err != nil {
		return err
	}

	return c.JSON(tracks)
}
