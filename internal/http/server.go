// Package httpserver assembles the fiber app: middleware order, routes and
// error handling shared by main and the HTTP tests.
package httpserver

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
)

func New(cfg config.Config, deps *handlers.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    1 << 20, // 1 MiB
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(applog.Access())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigin,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type, Authorization",
		ExposeHeaders:    "Location",
		AllowCredentials: true,
	}))

	app.Get("/healthz", deps.HealthHandler.Check)

	// ---------- API ----------
	api := app.Group("/api",
		limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.basket.hit", nil)
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, retry soon")
			},
		}),
		handlers.Authenticate([]byte(cfg.JWTSecret)),
	)
	api.Get("/basket", deps.BasketHandler.Get).Name(handlers.GetBasketRoute)
	api.Post("/basket", deps.BasketHandler.Add)
	api.Delete("/basket", deps.BasketHandler.Remove)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	})
	return app
}
