// Package spotify adapts the Spotify Web API search endpoint to catalog.Searcher.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/emotune/emotune/internal/catalog"
)

var ErrMissingCredentials = errors.New("spotify client id and secret are required")

// Config holds app credentials for the client-credentials flow
type Config struct {
	ClientID     string
	ClientSecret string
	// TokenURL and BaseURL override the public endpoints, mainly for tests
	TokenURL string
	BaseURL  string
}

// Client searches tracks with an app-level token. The token is refreshed by
// the oauth2 transport; requests are never retried.
type Client struct {
	api *spotify.Client
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	var opts []spotify.ClientOption
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, spotify.WithBaseURL(base))
	}

	return &Client{api: spotify.New(creds.Client(ctx), opts...)}, nil
}

// SearchTracks runs a track search and maps every item into a catalog.Hit
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Hit, error) {
	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search %q: %w", query, err)
	}
	if result == nil || result.Tracks == nil {
		return nil, nil
	}

	hits := make([]catalog.Hit, 0, len(result.Tracks.Tracks))
	for _, t := range result.Tracks.Tracks {
		hits = append(hits, toHit(t))
	}
	return hits, nil
}

func toHit(t spotify.FullTrack) catalog.Hit {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	images := make([]string, 0, len(t.Album.Images))
	for _, img := range t.Album.Images {
		images = append(images, img.URL)
	}

	return catalog.Hit{
		ID:          string(t.ID),
		Name:        t.Name,
		Artists:     artists,
		AlbumImages: images,
		PreviewURL:  t.PreviewURL,
	}
}

var _ catalog.Searcher = (*Client)(nil)
