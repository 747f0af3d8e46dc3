package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Version is reported by /health
const Version = "1.0.0"

// ReadinessCheck returns nil when a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]ReadinessCheck
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: make(map[string]ReadinessCheck)}
}

// WithCheck registers a named dependency probed by Ready
func (h *HealthHandler) WithCheck(name string, check ReadinessCheck) *HealthHandler {
	h.checks[name] = check
	return h
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Root GET / - liveness banner
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "EmoTune Backend is running!"})
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// Ready reports 503 when any registered dependency is down
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	status := "ready"
	results := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check(c.Context()); err != nil {
			results[name] = err.Error()
			status = "degraded"
			continue
		}
		results[name] = "ok"
	}

	code := fiber.StatusOK
	if status != "ready" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(HealthResponse{
		Status: status,
		Checks: results,
	})
}
