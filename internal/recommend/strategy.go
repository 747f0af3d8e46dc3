// Package recommend turns an emotion and a language preference into a short
// list of catalog tracks.
package recommend

import (
	"context"
	"strings"

	"github.com/emotune/emotune/internal/catalog"
	"github.com/emotune/emotune/internal/domain"
)

// Strategy runs the term loop against a catalog. It holds no mutable state
// and is safe for concurrent use.
type Strategy struct {
	searcher catalog.Searcher
}

func NewStrategy(searcher catalog.Searcher) *Strategy {
	return &Strategy{searcher: searcher}
}

// Query joins a term and a language clause, trimming surrounding spaces.
func Query(term, clause string) string {
	return strings.TrimSpace(term + " " + clause)
}

// FallbackQuery is issued once when no term produced a track. It uses the
// caller's raw strings.
func FallbackQuery(language, emotion string) string {
	return language + " " + emotion + " songs"
}

func EmbedURL(id string) string {
	return EmbedURLPrefix + id
}

// Recommend searches each term in order, stopping once MaxTracks or more
// tracks are collected, then returns the first MaxTracks. Tracks are not
// deduplicated. Any catalog error aborts the whole call and partial results
// are discarded.
func (s *Strategy) Recommend(ctx context.Context, emotion, language string) ([]domain.Track, error) {
	clause := ClauseFor(language)

	var tracks []domain.Track
	for _, term := range TermsFor(emotion) {
		hits, err := s.searcher.SearchTracks(ctx, Query(term, clause), SearchLimit)
		if err != nil {
			return nil, domain.ErrCatalogUpstream.WithError(err)
		}
		tracks = appendHits(tracks, hits)

		if len(tracks) >= MaxTracks {
			break
		}
	}

	if len(tracks) == 0 {
		hits, err := s.searcher.SearchTracks(ctx, FallbackQuery(language, emotion), SearchLimit)
		if err != nil {
			return nil, domain.ErrCatalogUpstream.WithError(err)
		}
		tracks = appendHits(tracks, hits)
	}

	if len(tracks) == 0 {
		return nil, domain.ErrNoTracksFound
	}

	if len(tracks) > MaxTracks {
		tracks = tracks[:MaxTracks]
	}
	return tracks, nil
}

func appendHits(tracks []domain.Track, hits []catalog.Hit) []domain.Track {
	for _, h := range hits {
		if h.ID == "" {
			continue
		}
		tracks = append(tracks, toTrack(h))
	}
	return tracks
}

func toTrack(h catalog.Hit) domain.Track {
	t := domain.Track{
		Title:    h.Name,
		EmbedURL: EmbedURL(h.ID),
	}
	if len(h.Artists) > 0 {
		t.Artist = h.Artists[0]
	}
	if len(h.AlbumImages) > 0 {
		art := h.AlbumImages[0]
		t.AlbumArt = &art
	}
	if h.PreviewURL != "" {
		preview := h.PreviewURL
		t.PreviewURL = &preview
	}
	return t
}
