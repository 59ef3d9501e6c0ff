package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weather-mqtt-bridge/internal/forecast"
)

const metnoBaseURL = "https://api.met.no/weatherapi/locationforecast/2.0/complete"

// MetNo fetches the met.no locationforecast time series and adapts it into
// the generic step shape the forecast core consumes.
type MetNo struct {
	name      string
	baseURL   string
	userAgent string
	lat, lon  float64
	altitude  int
	rc        *resilientClient
}

// NewMetNo creates a met.no source for the given coordinates. met.no
// rejects requests without an identifying User-Agent.
func NewMetNo(client *http.Client, userAgent string, lat, lon float64, altitude int) *MetNo {
	return &MetNo{
		name:      "met.no",
		baseURL:   metnoBaseURL,
		userAgent: userAgent,
		lat:       lat,
		lon:       lon,
		altitude:  altitude,
		rc: newResilientClient(client, "metno", Backoff{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}),
	}
}

func (m *MetNo) Name() string {
	return m.name
}

// metnoResponse mirrors the locationforecast/2.0 GeoJSON document. Details
// blocks are decoded as generic maps so that fields missing from a given
// time step stay missing instead of defaulting to zero.
type metnoResponse struct {
	Properties struct {
		Timeseries []struct {
			Time string `json:"time"`
			Data struct {
				Instant struct {
					Details map[string]float64 `json:"details"`
				} `json:"instant"`
				Next1Hours struct {
					Details map[string]float64 `json:"details"`
				} `json:"next_1_hours"`
			} `json:"data"`
		} `json:"timeseries"`
	} `json:"properties"`
}

// Fetch performs one GET against the forecast endpoint and returns the raw
// steps in upstream order. Timestamps are passed through unparsed; the
// series builder owns timestamp validation.
func (m *MetNo) Fetch(ctx context.Context) ([]forecast.RawStep, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(m.lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(m.lon, 'f', -1, 64))
		values.Set("altitude", strconv.Itoa(m.altitude))

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", m.baseURL, values.Encode()), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", m.userAgent)
		return req, nil
	}

	resp, err := m.rc.do(ctx, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload metnoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode locationforecast response: %w", err)
	}

	steps := make([]forecast.RawStep, 0, len(payload.Properties.Timeseries))
	for _, ts := range payload.Properties.Timeseries {
		steps = append(steps, forecast.RawStep{
			Time:       ts.Time,
			Instant:    ts.Data.Instant.Details,
			ShortRange: ts.Data.Next1Hours.Details,
		})
	}
	return steps, nil
}
