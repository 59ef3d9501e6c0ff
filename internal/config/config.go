package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config is the immutable process configuration, built once at startup and
// passed into the collaborators. Unknown environment keys are ignored.
type Config struct {
	MQTTHost     string `validate:"required"`
	MQTTPort     int    `validate:"min=1,max=65535"`
	MQTTUsername string
	MQTTPassword string
	BaseTopic    string `validate:"required"`

	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
	Altitude  int

	// FetchInterval controls how often a forecast cycle runs.
	FetchInterval time.Duration

	// HTTPTimeout bounds the upstream fetch of a single cycle.
	HTTPTimeout time.Duration

	// ForecastHours is the number of hourly offsets derived beyond "now".
	ForecastHours int `validate:"min=1,max=48"`

	UserAgent string
	Port      string
}

// Load reads configuration from the environment with documented defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := Config{
		MQTTHost:      getenvDefault("MQTT_HOST", "localhost"),
		MQTTPort:      getenvInt("MQTT_PORT", 1883),
		MQTTUsername:  os.Getenv("MQTT_USERNAME"),
		MQTTPassword:  os.Getenv("MQTT_PASSWORD"),
		BaseTopic:     os.Getenv("MQTT_BASE_TOPIC"),
		Altitude:      getenvInt("ALTITUDE", 0),
		ForecastHours: getenvInt("FORECAST_HOURS", 18),
		UserAgent:     getenvDefault("USER_AGENT", "weather-mqtt-bridge"),
		Port:          getenvDefault("PORT", "8080"),
	}

	lat, err := getenvFloat("LATITUDE")
	if err != nil {
		return Config{}, err
	}
	cfg.Latitude = lat

	lon, err := getenvFloat("LONGITUDE")
	if err != nil {
		return Config{}, err
	}
	cfg.Longitude = lon

	intervalStr := getenvDefault("FETCH_INTERVAL", "10m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
