package forecast

import (
	"testing"
	"time"
)

var testVars = VariableMap{
	"temperature": "air_temperature",
	"wind_speed":  "wind_speed",
}

func sampleAt(t0 time.Time, offset time.Duration, values map[string]float64) Sample {
	return Sample{Time: t0.Add(offset), Values: values}
}

func TestInterpolateLinearBlend(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	series := Series{
		sampleAt(t0, 0, map[string]float64{"air_temperature": 10.0}),
		sampleAt(t0, 60*time.Minute, map[string]float64{"air_temperature": 12.0}),
	}

	reading, ok := Interpolate(series, t0.Add(30*time.Minute), testVars)
	if !ok {
		t.Fatal("expected a bracketing pair")
	}
	if got := reading["temperature"]; got != 11.0 {
		t.Fatalf("expected temperature 11.0, got %v", got)
	}
}

func TestInterpolateRoundsToOneDecimal(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	series := Series{
		sampleAt(t0, 0, map[string]float64{"air_temperature": 10.0}),
		sampleAt(t0, 60*time.Minute, map[string]float64{"air_temperature": 10.1}),
	}

	// 10 + 0.1/3 = 10.0333..., rounds to 10.0.
	reading, ok := Interpolate(series, t0.Add(20*time.Minute), testVars)
	if !ok {
		t.Fatal("expected a bracketing pair")
	}
	if got := reading["temperature"]; got != 10.0 {
		t.Fatalf("expected temperature 10.0, got %v", got)
	}
}

func TestInterpolateOpenInterval(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	series := Series{
		sampleAt(t0, 0, map[string]float64{"air_temperature": 10.0}),
		sampleAt(t0, time.Hour, map[string]float64{"air_temperature": 12.0}),
		sampleAt(t0, 2*time.Hour, map[string]float64{"air_temperature": 14.0}),
	}

	cases := []struct {
		name   string
		target time.Time
	}{
		{"before first sample", t0.Add(-time.Minute)},
		{"exactly on first sample", t0},
		{"exactly on middle sample", t0.Add(time.Hour)},
		{"exactly on last sample", t0.Add(2 * time.Hour)},
		{"after last sample", t0.Add(3 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := Interpolate(series, tc.target, testVars); ok {
				t.Fatalf("expected no reading for target %v", tc.target)
			}
		})
	}
}

func TestInterpolatePartialVariables(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	series := Series{
		sampleAt(t0, 0, map[string]float64{"air_temperature": 10.0, "wind_speed": 5.0}),
		sampleAt(t0, time.Hour, map[string]float64{"air_temperature": 12.0}),
	}

	reading, ok := Interpolate(series, t0.Add(30*time.Minute), testVars)
	if !ok {
		t.Fatal("expected a bracketing pair")
	}
	if _, present := reading["wind_speed"]; present {
		t.Fatal("wind_speed missing from one endpoint must be omitted, not defaulted")
	}
	if got := reading["temperature"]; got != 11.0 {
		t.Fatalf("expected temperature 11.0, got %v", got)
	}
}

func TestInterpolatePicksFirstBracket(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Duplicate timestamps form a zero-width bracket which can never match;
	// the scan must pass over it without dividing by zero.
	series := Series{
		sampleAt(t0, 0, map[string]float64{"air_temperature": 10.0}),
		sampleAt(t0, 0, map[string]float64{"air_temperature": 99.0}),
		sampleAt(t0, time.Hour, map[string]float64{"air_temperature": 12.0}),
	}

	reading, ok := Interpolate(series, t0.Add(30*time.Minute), testVars)
	if !ok {
		t.Fatal("expected a bracketing pair")
	}
	// Second sample starts the matching bracket: 99 + (12-99)/2 = 55.5.
	if got := reading["temperature"]; got != 55.5 {
		t.Fatalf("expected temperature 55.5, got %v", got)
	}
}

func TestInterpolateEmptyAndSingleSeries(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, ok := Interpolate(nil, t0, testVars); ok {
		t.Fatal("expected no reading from empty series")
	}

	single := Series{sampleAt(t0, 0, map[string]float64{"air_temperature": 10.0})}
	if _, ok := Interpolate(single, t0.Add(time.Minute), testVars); ok {
		t.Fatal("expected no reading from single-sample series")
	}
}
