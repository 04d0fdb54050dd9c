// Package astro holds the pure physical-model fallbacks of the weather core:
// solar position, sun times, a heuristic UV index model and the Magnus
// dew-point approximation. All functions are total — they never return an
// error; bad input degrades to a documented sentinel (0 or nil) because these
// functions sit at the bottom of a fallback chain that must always produce a
// value.
package astro

import (
	"math"
	"time"
)

const degToRad = math.Pi / 180

// SunTimes describes the sun events of one day at one coordinate.
type SunTimes struct {
	Sunrise       time.Time
	Sunset        time.Time
	SolarNoon     time.Time
	GoldenHour    time.Time // evening golden hour start (sun at ~6 deg)
	GoldenHourEnd time.Time // morning golden hour end
}

// solarDeclination returns the sun's declination in radians for a day of year.
func solarDeclination(dayOfYear int) float64 {
	return 23.45 * degToRad * math.Sin(2*math.Pi*float64(284+dayOfYear)/365)
}

// SolarElevation returns the sun's elevation above the horizon in degrees for
// the given coordinate and UTC instant. Negative values mean the sun is below
// the horizon.
func SolarElevation(lat, lon float64, t time.Time) float64 {
	t = t.UTC()
	decl := solarDeclination(t.YearDay())

	// Apparent solar time from UTC plus longitudinal offset (15 deg/hour).
	solarHours := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600 + lon/15
	hourAngle := (solarHours - 12) * 15 * degToRad

	latRad := lat * degToRad
	sinElev := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(hourAngle)
	return math.Asin(clamp(sinElev, -1, 1)) / degToRad
}

// ComputeSunTimes returns the sun events for the calendar day of t (UTC) at
// the coordinate, or nil when the calculation degenerates: out-of-range
// coordinates, or polar day/night where the sun never crosses the horizon.
// Callers must tolerate the nil and omit the fields.
func ComputeSunTimes(lat, lon float64, t time.Time) *SunTimes {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}

	t = t.UTC()
	decl := solarDeclination(t.YearDay())
	latRad := lat * degToRad

	// Solar noon in UTC hours, from the longitudinal offset.
	noonHours := 12 - lon/15

	// Hour angle at sunrise/sunset, with -0.833 deg for refraction and the
	// solar disc radius.
	cosH := (math.Sin(-0.833*degToRad) - math.Sin(latRad)*math.Sin(decl)) /
		(math.Cos(latRad) * math.Cos(decl))
	if cosH < -1 || cosH > 1 {
		// Polar day or polar night: no sunrise/sunset today.
		return nil
	}
	halfDayHours := math.Acos(cosH) / degToRad / 15

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	at := func(hours float64) time.Time {
		return midnight.Add(time.Duration(hours * float64(time.Hour)))
	}

	st := &SunTimes{
		SolarNoon: at(noonHours),
		Sunrise:   at(noonHours - halfDayHours),
		Sunset:    at(noonHours + halfDayHours),
	}

	// Golden hour bounds at 6 deg elevation; fall back to sunrise/sunset
	// when the sun never climbs that high.
	cosG := (math.Sin(6*degToRad) - math.Sin(latRad)*math.Sin(decl)) /
		(math.Cos(latRad) * math.Cos(decl))
	if cosG >= -1 && cosG <= 1 {
		goldenHalf := math.Acos(cosG) / degToRad / 15
		st.GoldenHourEnd = at(noonHours - goldenHalf)
		st.GoldenHour = at(noonHours + goldenHalf)
	} else {
		st.GoldenHourEnd = st.Sunrise
		st.GoldenHour = st.Sunset
	}

	return st
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
