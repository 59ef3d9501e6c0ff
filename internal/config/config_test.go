package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("MQTT_BASE_TOPIC", "home/weather")
	t.Setenv("LATITUDE", "59.91")
	t.Setenv("LONGITUDE", "10.75")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MQTTHost != "localhost" || cfg.MQTTPort != 1883 {
		t.Fatalf("unexpected broker defaults: %s:%d", cfg.MQTTHost, cfg.MQTTPort)
	}
	if cfg.FetchInterval != 10*time.Minute {
		t.Fatalf("expected default interval 10m, got %v", cfg.FetchInterval)
	}
	if cfg.ForecastHours != 18 {
		t.Fatalf("expected 18 forecast hours, got %d", cfg.ForecastHours)
	}
	if cfg.Latitude != 59.91 || cfg.Longitude != 10.75 {
		t.Fatalf("unexpected coordinates: %v, %v", cfg.Latitude, cfg.Longitude)
	}
}

func TestLoadMissingCoordinates(t *testing.T) {
	t.Setenv("MQTT_BASE_TOPIC", "home/weather")
	t.Setenv("LATITUDE", "")
	t.Setenv("LONGITUDE", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for missing coordinates")
	}
}

func TestLoadRejectsOutOfRangeLatitude(t *testing.T) {
	setRequired(t)
	t.Setenv("LATITUDE", "120")

	if _, err := Load(); err == nil {
		t.Fatal("expected a validation error for latitude 120")
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("FETCH_INTERVAL", "often")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unparsable interval")
	}
}

func TestLoadMissingBaseTopic(t *testing.T) {
	setRequired(t)
	t.Setenv("MQTT_BASE_TOPIC", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected a validation error for a missing base topic")
	}
}
