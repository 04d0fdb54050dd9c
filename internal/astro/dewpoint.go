package astro

import "math"

// Magnus coefficients, valid for -45..60 C.
const (
	magnusA = 17.62
	magnusB = 243.12
)

// DewPoint approximates the dew point in Celsius with the Magnus formula.
// Returns nil when humidity is outside [0,100] or the result is non-finite
// (humidity 0 degenerates the logarithm). Callers must treat nil as
// "unavailable", not as zero degrees.
func DewPoint(tempC float64, humidityPct float64) *float64 {
	if humidityPct < 0 || humidityPct > 100 {
		return nil
	}

	gamma := math.Log(humidityPct/100) + magnusA*tempC/(magnusB+tempC)
	dp := magnusB * gamma / (magnusA - gamma)
	if math.IsNaN(dp) || math.IsInf(dp, 0) {
		return nil
	}
	return &dp
}
