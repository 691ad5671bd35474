// Package api exposes the webhook surface the voice runtime calls:
// one endpoint to open a call session and one to invoke an intent.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"kairos-backend/internal/agent"
	"kairos-backend/internal/config"
	"kairos-backend/internal/middleware"
	"kairos-backend/internal/session"
)

type Server struct {
	app      *fiber.App
	agent    *agent.Agent
	sessions *session.Manager
	log      *zap.Logger
}

func New(cfg *config.Config, a *agent.Agent, sessions *session.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		agent:    a,
		sessions: sessions,
		log:      log,
	}

	app := fiber.New(fiber.Config{
		AppName: "Kairos Backend",
	})
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	api := app.Group("/api", middleware.RateLimit(rl), middleware.Auth(cfg.WebhookSecret))
	api.Post("/calls", s.startCall)
	api.Post("/calls/:id/tool", s.toolCall)

	s.app = app
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
