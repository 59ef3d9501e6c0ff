package forecast

import (
	"fmt"
	"time"
)

// Sample is one timestamped set of weather variable readings from the
// upstream series. Values is keyed by SOURCE field names (e.g.
// "air_temperature"); a field absent from a given sample is simply
// unavailable for any derivation involving that sample.
type Sample struct {
	Time   time.Time
	Values map[string]float64
}

// Series is a chronologically ordered sequence of samples. The upstream
// delivers it pre-sorted; it is never re-sorted here. A Series is built
// fresh each cycle and discarded afterwards.
type Series []Sample

// RawStep is one upstream time step already parsed into generic key/value
// form. Instant holds the instantaneous details; ShortRange holds the
// nearest short-range forecast block for the same timestamp, when present.
// Adapting a provider's schema into this shape is the provider's job.
type RawStep struct {
	Time       string
	Instant    map[string]float64
	ShortRange map[string]float64
}

// NewSeries builds a Series from raw upstream steps. Short-range fields
// overlay and extend the instantaneous ones for the same timestamp. Every
// step yields exactly one sample; none are dropped for missing fields.
// A malformed timestamp fails the whole construction.
func NewSeries(steps []RawStep) (Series, error) {
	series := make(Series, 0, len(steps))
	for i, step := range steps {
		ts, err := time.Parse(time.RFC3339, step.Time)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp of step %d: %w", i, err)
		}

		values := make(map[string]float64, len(step.Instant)+len(step.ShortRange))
		for k, v := range step.Instant {
			values[k] = v
		}
		for k, v := range step.ShortRange {
			values[k] = v
		}

		series = append(series, Sample{Time: ts.UTC(), Values: values})
	}
	return series, nil
}

// VariableMap maps short output variable names to the source field names
// they are derived from. Defined once at startup, read-only afterwards.
type VariableMap map[string]string

// DefaultVariables returns the tracked variables for met.no locationforecast
// field names.
func DefaultVariables() VariableMap {
	return VariableMap{
		"temperature":                 "air_temperature",
		"pressure":                    "air_pressure_at_sea_level",
		"humidity":                    "relative_humidity",
		"clouds":                      "cloud_area_fraction",
		"wind_speed":                  "wind_speed",
		"wind_direction":              "wind_from_direction",
		"ultraviolet_index_clear_sky": "ultraviolet_index_clear_sky",
	}
}

// Reading is a derived, rounded mapping of output variable names to values,
// ready for publication.
type Reading map[string]float64
