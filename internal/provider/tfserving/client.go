package tfserving

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds the configuration for the TF Serving client
type Config struct {
	BaseURL       string
	ModelName     string
	SignatureName string
	Timeout       time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8501",
		ModelName: "emotion",
		Timeout:   10 * time.Second,
	}
}

// Client is the REST client for a TensorFlow Serving compatible endpoint.
// Requests are never retried.
type Client struct {
	http   *resty.Client
	config Config
}

// NewClient creates a new TF Serving client
func NewClient(config Config) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(config.BaseURL).
			SetTimeout(config.Timeout).
			SetHeader("Content-Type", "application/json"),
		config: config,
	}
}

func (c *Client) predictPath() string {
	return "/v1/models/" + url.PathEscape(c.config.ModelName) + ":predict"
}

// Predict calls POST /v1/models/{name}:predict
func (c *Client) Predict(ctx context.Context, req PredictRequest) (*PredictResponse, error) {
	if req.SignatureName == "" {
		req.SignatureName = c.config.SignatureName
	}

	var (
		result  PredictResponse
		errBody ErrorResponse
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&errBody).
		Post(c.predictPath())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("%w: %v", ErrServingUnavailable, urlErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if resp.IsError() {
		msg := errBody.Error
		if msg == "" {
			msg = resp.String()
		}
		if resp.StatusCode() >= 500 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrServingUnavailable, resp.StatusCode(), msg)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestRejected, resp.StatusCode(), msg)
	}

	return &result, nil
}
