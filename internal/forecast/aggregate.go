package forecast

import (
	"log"
	"time"
)

// Aggregate reduces the samples falling inside the half-open window
// [start, end) into day-level summary statistics:
//
//	temperature_minimum / temperature_maximum  min and max temperature
//	wind_speed_max                             max wind speed
//	precipitation_amount                       sum; samples lacking the
//	                                           field contribute nothing
//	ultraviolet_index_actual_average           mean cloud-attenuated UV,
//	                                           (1 - clouds/100) * clear-sky UV
//
// The UV average is rounded to the nearest 0.01; it is published at finer
// precision than the per-instant readings on purpose. An empty window is
// reported by title and yields ok=false without aborting the cycle.
func Aggregate(series Series, start, end time.Time, title string, vars VariableMap) (Reading, bool) {
	var window Series
	for _, s := range series {
		if !s.Time.Before(start) && s.Time.Before(end) {
			window = append(window, s)
		}
	}
	if len(window) == 0 {
		log.Printf("ERROR: no prediction data for %s", title)
		return nil, false
	}

	var (
		tempField  = vars["temperature"]
		cloudField = vars["clouds"]
		windField  = vars["wind_speed"]
		uvField    = vars["ultraviolet_index_clear_sky"]
	)

	reading := make(Reading, 5)

	minMax(window, tempField, func(lo, hi float64) {
		reading["temperature_minimum"] = lo
		reading["temperature_maximum"] = hi
	})
	minMax(window, windField, func(_, hi float64) {
		reading["wind_speed_max"] = hi
	})

	var precip float64
	for _, s := range window {
		if v, ok := s.Values["precipitation_amount"]; ok {
			precip += v
		}
	}
	reading["precipitation_amount"] = precip

	var uvSum float64
	var uvN int
	for _, s := range window {
		clouds, cok := s.Values[cloudField]
		uv, uok := s.Values[uvField]
		if !cok || !uok {
			continue
		}
		uvSum += (1 - clouds/100) * uv
		uvN++
	}
	if uvN > 0 {
		reading["ultraviolet_index_actual_average"] = roundTo(uvSum/float64(uvN), 100)
	}

	return reading, true
}

// minMax feeds the extremes of field over the window to fn, skipping
// samples that lack the field. fn is not called when no sample has it.
func minMax(window Series, field string, fn func(lo, hi float64)) {
	var lo, hi float64
	found := false
	for _, s := range window {
		v, ok := s.Values[field]
		if !ok {
			continue
		}
		if !found {
			lo, hi = v, v
			found = true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if found {
		fn(lo, hi)
	}
}
