// Package catalog searches a third-party music catalog for tracks.
package catalog

import "context"

// Hit is one track returned by a catalog search. ID may be empty when the
// catalog returns a local or unavailable item.
type Hit struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	AlbumImages []string `json:"album_images"`
	PreviewURL  string   `json:"preview_url,omitempty"`
}

// Searcher issues free-text track searches
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Hit, error)
}
