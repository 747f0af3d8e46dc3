package api

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/emotune/emotune/internal/api/docs"
	"github.com/emotune/emotune/internal/api/handler"
	"github.com/emotune/emotune/internal/api/middleware"
	swagger "github.com/go-swagno/swagno-fiber/swagger"
)

// Dependencies are the services behind the HTTP surface. Accounts and Tokens
// are nil when no database is configured; the account routes are then not
// mounted.
type Dependencies struct {
	Emotion         handler.EmotionDetector
	Recommendations handler.TrackRecommender
	Accounts        handler.AccountService
	Tokens          middleware.TokenValidator

	// UploadDir is served read-only under /uploads
	UploadDir    string
	CORSOrigins  []string
	RateLimitMax int
	Checks       map[string]handler.ReadinessCheck
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "EmoTune API",
		// multipart overhead on top of the largest accepted image
		BodyLimit: handler.MaxImageSize + 1024*1024,
	})

	if deps == nil {
		deps = &Dependencies{}
	}

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.allowOrigins(),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: !r.allowsAnyOrigin(),
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler()
	for name, check := range r.deps.Checks {
		healthHandler.WithCheck(name, check)
	}
	r.app.Get("/", healthHandler.Root)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps.UploadDir != "" {
		r.app.Static("/uploads", r.deps.UploadDir, fiber.Static{Browse: false})
	}

	// Detection and recommendation share one per-client limiter
	config := middleware.DefaultRateLimiterConfig()
	if r.deps.RateLimitMax > 0 {
		config.Max = r.deps.RateLimitMax
	}
	r.rateLimiter = middleware.NewRateLimiter(config)
	limited := r.rateLimiter.Handler()

	if r.deps.Emotion != nil {
		emotionHandler := handler.NewEmotionHandler(r.deps.Emotion, r.logger)
		r.app.Post("/detect-emotion", limited, emotionHandler.Detect)
	}
	if r.deps.Recommendations != nil {
		recommendationHandler := handler.NewRecommendationHandler(r.deps.Recommendations)
		r.app.Get("/recommendations", limited, recommendationHandler.Recommend)
	}

	if r.deps.Accounts != nil && r.deps.Tokens != nil {
		r.setupAccountRoutes()
	} else {
		r.logger.Warn("account routes disabled: no database configured")
	}
}

func (r *Router) setupAccountRoutes() {
	accountHandler := handler.NewAccountHandler(r.deps.Accounts, r.logger)

	r.app.Post("/register", accountHandler.Register)
	r.app.Post("/login", accountHandler.Login)
	r.app.Post("/check-user", accountHandler.CheckUser)
	r.app.Post("/forgot-password", accountHandler.ForgotPassword)
	r.app.Post("/send-reset-link", accountHandler.SendResetLink)

	// Bearer token required
	authed := middleware.Auth(r.deps.Tokens, r.logger)
	r.app.Get("/profile", authed, accountHandler.Profile)
	r.app.Post("/upload-profile-pic", authed, accountHandler.UploadProfilePicture)
	r.app.Post("/change-password", authed, accountHandler.ChangePassword)
}

func (r *Router) allowOrigins() string {
	origins := make([]string, 0, len(r.deps.CORSOrigins))
	for _, o := range r.deps.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

func (r *Router) allowsAnyOrigin() bool {
	return r.allowOrigins() == "*"
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
