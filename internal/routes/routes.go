package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fxledger/fxledger/internal/config"
	"github.com/fxledger/fxledger/internal/ledger"
	"github.com/fxledger/fxledger/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	Service *ledger.Service
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	handler := ledger.NewHandler(d.Service)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	api.Post("/accounts", handler.CreateAccount)
	api.Get("/accounts/:username/balances", handler.Balances)
	api.Post("/accounts/:username/credit", handler.Credit)

	api.Post("/auth/verify", handler.Verify)
	api.Post("/auth/login", middleware.LoginRateLimit(d.Cache, 5), handler.Login)
	api.Post("/auth/logout", handler.Logout)

	transfers := api.Group("/transfers")
	if d.Cache != nil {
		transfers.Use(middleware.Idempotency(d.Cache, 24*time.Hour, d.Logger))
	}
	transfers.Post("/", handler.Transfer)
	transfers.Post("/convert", handler.Convert)

	api.Get("/rates/:pair", handler.Rate)
	api.Post("/rates/refresh", handler.RefreshRates)

	api.Get("/sessions", handler.Online)

	api.Post("/requests", handler.AddRequest)
	api.Get("/requests/outgoing/:username", handler.OutgoingRequests)
	api.Get("/requests/incoming/:username", handler.IncomingRequests)
	api.Post("/requests/:id/accept", handler.AcceptRequest)
	api.Post("/requests/:id/decline", handler.DeclineRequest)

	return nil
}
