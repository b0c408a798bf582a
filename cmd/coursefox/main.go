package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/CourseFox/app/controllers"
	"github.com/ManuelReschke/CourseFox/internal/pkg/billing"
	"github.com/ManuelReschke/CourseFox/internal/pkg/cache"
	"github.com/ManuelReschke/CourseFox/internal/pkg/database"
	"github.com/ManuelReschke/CourseFox/internal/pkg/env"
	"github.com/ManuelReschke/CourseFox/internal/pkg/mail"
	"github.com/ManuelReschke/CourseFox/internal/pkg/router"
)

// Stripe payloads are small; anything above this is rejected by fiber.
const webhookBodyLimit = 1 << 20

func main() {
	app := NewApplication()
	defer func() { _ = cache.Close() }()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()

	cfg, err := billing.ConfigFromEnv()
	if err != nil {
		log.Fatalf("billing config: %v", err)
	}

	store := billing.NewRepository(database.GetDB())
	if rdb := cache.SetupCache(); rdb != nil {
		store = billing.NewCachedStore(store, rdb, billing.DefaultCustomerCacheTTL)
	}

	var notifier billing.Notifier
	if mailer := mail.NewSMTPMailerFromEnv(); mailer.Configured() {
		notifier = mailer
	} else {
		log.Print("SMTP_HOST not set, billing notifications disabled")
	}

	controllers.InitializeBillingController(billing.NewProcessor(store, notifier, cfg))

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: webhookBodyLimit,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if pass := env.GetEnv("METRICS_PASSWORD", ""); pass != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("METRICS_USER", "admin"): pass,
			},
		}), monitor.New())
	}

	// ROUTER
	router.InstallRouter(app)

	return app
}
