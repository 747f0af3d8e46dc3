package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port          int      `envconfig:"PORT" default:"8000"`
	Environment   string   `envconfig:"ENV" default:"development"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimitMax  int      `envconfig:"RATE_LIMIT_MAX" default:"60"`
	UploadDir     string   `envconfig:"UPLOAD_DIR" default:"uploads"`
	PublicBaseURL string   `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8000"`

	// Database (account routes and the postgres cache are disabled without it)
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Cache
	CacheBackend    string        `envconfig:"CACHE_BACKEND" default:"none"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"1h"`

	// Face location and scoring
	FaceLocator   string `envconfig:"FACE_LOCATOR" default:"cascade"`
	CascadePath   string `envconfig:"CASCADE_PATH" default:"models/haarcascade_frontalface_default.xml"`
	AWSRegion     string `envconfig:"AWS_REGION" default:"us-east-1"`
	EmotionModel  string `envconfig:"EMOTION_MODEL" default:"opencv"`
	ModelPath     string `envconfig:"MODEL_PATH" default:"models/emotion_model.onnx"`
	ModelConfig   string `envconfig:"MODEL_CONFIG"`
	ModelLayout   string `envconfig:"MODEL_LAYOUT" default:"nhwc"`
	TFServingURL  string `envconfig:"TFSERVING_URL" default:"http://localhost:8501"`
	TFServingName string `envconfig:"TFSERVING_MODEL" default:"emotion"`
	PoolSize      int    `envconfig:"DETECTOR_POOL_SIZE" default:"4"`

	// Catalog (Spotify)
	SpotifyClientID     string        `envconfig:"SPOTIPY_CLIENT_ID"`
	SpotifyClientSecret string        `envconfig:"SPOTIPY_CLIENT_SECRET"`
	SpotifyBaseURL      string        `envconfig:"SPOTIFY_API_URL"`
	CatalogTimeout      time.Duration `envconfig:"CATALOG_TIMEOUT" default:"15s"`

	// Security
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Mail (reset links)
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	EmailUser   string `envconfig:"EMAIL_USER"`
	EmailPass   string `envconfig:"EMAIL_PASS"`
	SMTPHost    string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"587"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether account routes can be served.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// HasCatalogCredentials reports whether a Spotify client can be built.
func (c *Config) HasCatalogCredentials() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// HasMailer reports whether reset links can be emailed.
func (c *Config) HasMailer() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}
