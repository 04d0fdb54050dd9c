package astro

import (
	"math"
	"time"

	"github.com/Vdem07/weather-glass-app-sub000/internal/common"
)

// UVIndex estimates the UV index at a coordinate and UTC instant from the sun
// position, cloud cover and the reported weather condition. It is the
// third tier of the UV fallback chain, used when neither provider reports a
// native value.
//
// Model: clear-sky UV from the seasonal ceiling attenuated by atmospheric
// transmission (0.7^airMass), then scaled by cloud and condition factors and
// a high-latitude ozone correction. The result is clamped to [0,15] and
// rounded. Returns 0 whenever the sun is at or below the horizon, and for
// out-of-range coordinates.
func UVIndex(lat, lon float64, t time.Time, cloudinessPct int, conditionMain, conditionDesc string) int {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0
	}

	elev := SolarElevation(lat, lon, t)
	if elev <= 0 {
		return 0
	}

	uv := seasonalCeiling(lat, t) * math.Pow(0.7, airMass(elev))
	uv *= cloudFactor(cloudinessPct)
	uv *= conditionFactor(conditionMain, conditionDesc)
	uv *= ozoneCorrection(lat, t)

	return int(math.Round(clamp(uv, 0, 15)))
}

// airMass returns the relative optical air mass for a solar elevation in
// degrees (Kasten-Young approximation). Elevation must be > 0.
func airMass(elevDeg float64) float64 {
	sinElev := math.Sin(elevDeg * degToRad)
	return 1 / (sinElev + 0.50572*math.Pow(elevDeg+6.07995, -1.6364))
}

// seasonalCeiling is the latitude/season-dependent maximum UV: ~13 at the
// equator dropping toward the poles, boosted in the local summer.
func seasonalCeiling(lat float64, t time.Time) float64 {
	base := 13 - math.Abs(lat)/9

	// Day 172 is close to the June solstice; the southern hemisphere is in
	// the opposite phase.
	phase := 2 * math.Pi * (float64(t.UTC().YearDay()) - 172) / 365
	season := math.Cos(phase)
	if lat < 0 {
		season = -season
	}

	return clamp(base+2*season, 1, 14)
}

// cloudFactor attenuates UV by cloud cover. Even overcast sky passes some UV,
// so the factor bottoms out at 0.05.
func cloudFactor(cloudinessPct int) float64 {
	switch {
	case cloudinessPct < 10:
		return 1.0
	case cloudinessPct < 30:
		return 0.89
	case cloudinessPct < 50:
		return 0.73
	case cloudinessPct < 70:
		return 0.45
	case cloudinessPct < 90:
		return 0.25
	default:
		return 0.05
	}
}

// conditionFactor further attenuates UV for precipitating or obscured
// conditions, thunderstorms strongest.
func conditionFactor(main, desc string) float64 {
	text := main + " " + desc
	switch {
	case common.HasAny(text, "thunderstorm"):
		return 0.05
	case common.HasAny(text, "snow", "sleet"):
		return 0.15
	case common.HasAny(text, "heavy rain", "shower rain", "extreme rain"):
		return 0.2
	case common.HasAny(text, "rain"):
		return 0.3
	case common.HasAny(text, "drizzle"):
		return 0.5
	case common.HasAny(text, "mist", "fog", "haze", "smoke", "dust", "ash", "squall"):
		return 0.6
	default:
		return 1.0
	}
}

// ozoneCorrection bumps UV by up to 10% at high latitudes in spring, when the
// ozone column thins. No correction below |lat| 50 deg.
func ozoneCorrection(lat float64, t time.Time) float64 {
	if math.Abs(lat) <= 50 {
		return 1.0
	}

	month := int(t.UTC().Month())
	spring := month >= 3 && month <= 5
	if lat < 0 {
		spring = month >= 9 && month <= 11
	}
	if spring {
		return 1.10
	}
	return 1.03
}

// SimpleUVIndex is the last-resort UV fallback: no coordinate, no weather,
// just hour of day and month. Used only when every richer source is
// unavailable.
func SimpleUVIndex(t time.Time) int {
	hour := t.Hour()
	if hour < 6 || hour > 20 {
		return 0
	}

	// Peak 1.0 at 13:00, linear falloff toward the edges of daylight.
	dayFactor := 1 - math.Abs(float64(hour)-13)/7

	month := int(t.Month())
	seasonPeak := 3.0
	if month >= 5 && month <= 8 {
		seasonPeak = 7.0
	} else if month == 4 || month == 9 {
		seasonPeak = 5.0
	}

	return int(math.Round(seasonPeak * clamp(dayFactor, 0, 1)))
}
