package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weather-mqtt-bridge/internal/api/http"
	"weather-mqtt-bridge/internal/config"
	"weather-mqtt-bridge/internal/forecast"
	"weather-mqtt-bridge/internal/mqtt"
	"weather-mqtt-bridge/internal/provider"
	"weather-mqtt-bridge/internal/scheduler"
	"weather-mqtt-bridge/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Long-lived broker connection; offline state is announced on every
	// exit path, with the MQTT last will as the crash fallback.
	bus := mqtt.New(mqtt.Options{
		Host:      cfg.MQTTHost,
		Port:      cfg.MQTTPort,
		Username:  cfg.MQTTUsername,
		Password:  cfg.MQTTPassword,
		BaseTopic: cfg.BaseTopic,
		ClientID:  "weather-mqtt-bridge",
	})
	if err := bus.Connect(); err != nil {
		log.Fatalf("failed to connect to MQTT broker: %v", err)
	}
	defer bus.Close()

	// Shared HTTP client for the upstream fetch.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	source := provider.NewMetNo(httpClient, cfg.UserAgent, cfg.Latitude, cfg.Longitude, cfg.Altitude)

	// Mirror of the last published readings, serving the status API.
	readings := store.NewMemoryStore()

	cycle := forecast.NewCycle(source, readings.Recording(bus), forecast.DefaultVariables(), cfg.ForecastHours)

	sched := scheduler.New(cycle, cfg.FetchInterval, cfg.HTTPTimeout)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-mqtt-bridge",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-mqtt-bridge",
		})
	})

	// Status routes.
	httpapi.RegisterRoutes(app, readings)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
