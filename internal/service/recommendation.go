package service

import (
	"context"
	"strconv"
	"time"

	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/domain"
)

// Recommender is implemented by *recommend.Strategy
type Recommender interface {
	Recommend(ctx context.Context, emotion, language string) ([]domain.Track, error)
}

type RecommendationService struct {
	recommender Recommender
	timeout     time.Duration
	auditLogger audit.Logger
}

// NewRecommendationService wraps recommender with a per-call timeout. A nil
// recommender means the catalog is not configured and every call fails with
// ErrCatalogUnavailable.
func NewRecommendationService(recommender Recommender, timeout time.Duration, auditLogger audit.Logger) *RecommendationService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &RecommendationService{
		recommender: recommender,
		timeout:     timeout,
		auditLogger: auditLogger,
	}
}

// Configured reports whether catalog credentials were supplied
func (s *RecommendationService) Configured() bool {
	return s.recommender != nil
}

func (s *RecommendationService) Recommend(ctx context.Context, emotion, language string) ([]domain.Track, error) {
	if s.recommender == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	if language == "" {
		language = domain.DefaultLanguage
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tracks, err := s.recommender.Recommend(ctx, emotion, language)

	event := audit.Event{
		EventType: audit.EventRecommendationsServed,
		Provider:  "spotify",
		Success:   err == nil,
		Metadata: map[string]string{
			"emotion":  emotion,
			"language": language,
			"tracks":   strconv.Itoa(len(tracks)),
		},
	}
	if err != nil {
		event.Error = err.Error()
	}
	_ = s.auditLogger.Log(ctx, event)

	if err != nil {
		return nil, err
	}
	return tracks, nil
}
