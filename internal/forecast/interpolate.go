package forecast

import (
	"math"
	"time"
)

// Interpolate derives a reading for target by linear interpolation between
// the first pair of consecutive samples whose timestamps strictly bracket it
// (a.Time < target < b.Time). A target at or before the first sample, at or
// after the last, or exactly on any sample's own timestamp has no bracket
// and yields ok=false; the caller skips publishing for that instant.
//
// Only variables present in both endpoints are interpolated; the rest are
// omitted from the reading. A partial reading is still valid. Values are
// rounded to the nearest 0.1, which is the declared precision of everything
// this bridge publishes per instant.
func Interpolate(series Series, target time.Time, vars VariableMap) (Reading, bool) {
	for i := 0; i+1 < len(series); i++ {
		a, b := series[i], series[i+1]
		if !(a.Time.Before(target) && target.Before(b.Time)) {
			continue
		}

		span := b.Time.Sub(a.Time)
		frac := float64(target.Sub(a.Time)) / float64(span)

		reading := make(Reading, len(vars))
		for name, field := range vars {
			av, aok := a.Values[field]
			bv, bok := b.Values[field]
			if !aok || !bok {
				continue
			}
			reading[name] = roundTo(av+(bv-av)*frac, 10)
		}
		return reading, true
	}
	return nil, false
}

// roundTo rounds v to the nearest 1/scale.
func roundTo(v float64, scale float64) float64 {
	return math.Round(v*scale) / scale
}
