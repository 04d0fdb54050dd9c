package weather

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/Vdem07/weather-glass-app-sub000/internal/astro"
	"github.com/Vdem07/weather-glass-app-sub000/internal/common"
)

// ErrPrimaryUnavailable is the fusion failure: the primary adapter failed and
// the core meteorological fields have no substitute. It triggers the
// orchestrator's cache-fallback path and is never surfaced to callers.
var ErrPrimaryUnavailable = errors.New("primary weather data unavailable")

const maxDailyEntries = 5

// uvCandidate is one tier of the ordered UV fallback chain. eval reports
// whether the tier could produce a value; the first success wins, values are
// never averaged across tiers.
type uvCandidate struct {
	source UVSource
	eval   func() (int, bool)
}

func resolveUV(chain []uvCandidate) (int, UVSource) {
	for _, c := range chain {
		if v, ok := c.eval(); ok {
			return clampUV(v), c.source
		}
	}
	// Unreachable as long as the chain ends with a total tier; kept so the
	// derived fields can never be left unset.
	return 0, UVSourceDefault
}

func clampUV(v int) int {
	if v < 0 {
		return 0
	}
	if v > 15 {
		return 15
	}
	return v
}

// uvChain builds the fallback order for one instant:
// secondary provider -> primary's native field -> computed model -> hour/month
// default. secondaryAt is nil for tiers where the secondary has no matching
// forecast hour.
func uvChain(secondaryAt *float64, primaryNative *float64, coord Coordinate, at time.Time, cloudinessPct int, condMain, condDesc string) []uvCandidate {
	return []uvCandidate{
		{UVSourceSecondaryAPI, func() (int, bool) {
			if secondaryAt == nil {
				return 0, false
			}
			return int(math.Round(*secondaryAt)), true
		}},
		{UVSourcePrimaryAPI, func() (int, bool) {
			if primaryNative == nil {
				return 0, false
			}
			return int(math.Round(*primaryNative)), true
		}},
		{UVSourceComputed, func() (int, bool) {
			if !coord.Valid() {
				return 0, false
			}
			return astro.UVIndex(coord.Lat, coord.Lon, at, cloudinessPct, condMain, condDesc), true
		}},
		{UVSourceDefault, func() (int, bool) {
			return astro.SimpleUVIndex(at), true
		}},
	}
}

// precipProbability is the consolidated condition heuristic, used when the
// provider reports no native probability. It is the single canonical rule;
// display layers must not carry their own variants.
func precipProbability(condMain, condDesc string, cloudinessPct int) int {
	text := condMain + " " + condDesc
	switch {
	case common.HasAny(text, "thunderstorm"):
		return 95
	case common.HasAny(text, "drizzle"):
		return 70
	case common.HasAny(text, "rain", "shower"):
		return 90
	case common.HasAny(text, "snow", "sleet"):
		return 85
	case common.HasAny(text, "clouds", "cloudy", "overcast"):
		return cloudinessPct * 30 / 100
	default:
		return 0
	}
}

// Fuse merges the adapter outputs and the physical-model fallbacks into one
// cache record: snapshot plus hourly and daily forecasts. The secondary
// report may be nil (it failed or was skipped); the primary observation must
// be present or fusion fails with ErrPrimaryUnavailable.
func Fuse(primary *PrimaryObservation, uvReport *UVReport, coord Coordinate, now time.Time) (*CacheRecord, error) {
	if primary == nil {
		return nil, ErrPrimaryUnavailable
	}

	instant := primary.Instant

	// UV for the current instant.
	var secondaryCurrent *float64
	if uvReport != nil {
		secondaryCurrent = &uvReport.Current
	}
	uvIndex, uvSource := resolveUV(uvChain(
		secondaryCurrent, primary.UVIndex,
		coord, instant.Timestamp,
		instant.CloudinessPct, instant.ConditionMain, instant.ConditionDesc,
	))

	// Dew point: native -> Magnus -> nil (unavailable).
	dewPoint := primary.DewPointC
	if dewPoint == nil {
		dewPoint = astro.DewPoint(instant.TemperatureC, float64(instant.HumidityPct))
	}

	derived := Derived{
		UVIndex:      uvIndex,
		UVProvenance: uvSource,
		DewPointC:    dewPoint,
	}

	// Sun times: computed or omitted; consumers tolerate absence.
	if st := astro.ComputeSunTimes(coord.Lat, coord.Lon, now); st != nil {
		derived.Sunrise = &st.Sunrise
		derived.Sunset = &st.Sunset
	}

	precip := primary.PrecipProbabilityPct
	if precip == nil {
		pct := precipProbability(instant.ConditionMain, instant.ConditionDesc, instant.CloudinessPct)
		precip = &pct
	}

	snapshot := WeatherSnapshot{
		Location: Location{
			Name:        primary.Location.Name,
			CountryCode: primary.Location.CountryCode,
			Coord:       coord,
		},
		Instant:              instant,
		Derived:              derived,
		PrecipProbabilityPct: precip,
	}

	hourly := fuseHourly(primary.Forecast, uvReport, coord)

	return &CacheRecord{
		Coord:     coord,
		Snapshot:  snapshot,
		Daily:     aggregateDaily(hourly),
		Hourly:    hourly,
		WrittenAt: now.UTC(),
	}, nil
}

// fuseHourly passes the primary forecast list through with per-entry UV fused
// the same way as the current instant, matched to the secondary forecast by
// hour when available.
func fuseHourly(steps []ForecastStep, uvReport *UVReport, coord Coordinate) []HourlyForecastEntry {
	if len(steps) == 0 {
		return nil
	}

	entries := make([]HourlyForecastEntry, 0, len(steps))
	for _, step := range steps {
		var secondaryAt *float64
		if v, ok := uvReport.At(step.Timestamp); ok {
			uv := v
			secondaryAt = &uv
		}

		// The primary forecast list carries no native UV field.
		uvIndex, uvSource := resolveUV(uvChain(
			secondaryAt, nil,
			coord, step.Timestamp,
			step.CloudinessPct, step.ConditionMain, step.ConditionDesc,
		))

		precip := step.PrecipProbabilityPct
		if precip == nil {
			pct := precipProbability(step.ConditionMain, step.ConditionDesc, step.CloudinessPct)
			precip = &pct
		}

		entries = append(entries, HourlyForecastEntry{
			Timestamp:            step.Timestamp,
			TemperatureC:         step.TemperatureC,
			ConditionMain:        step.ConditionMain,
			ConditionDesc:        step.ConditionDesc,
			UVIndex:              uvIndex,
			PrecipProbabilityPct: precip,
			UVProvenance:         uvSource,
		})
	}
	return entries
}

// aggregateDaily folds the hourly list into per-day entries. Day values come
// from the reading whose hour is closest to 12:00 among [9,15]; night is the
// minimum over hours {21, 0, 3}, where a day's night pools its own post-21:00
// reading with the next day's pre-03:00 readings. Days without a resolved day
// temperature are dropped, and the result is capped at 5 days.
func aggregateDaily(hourly []HourlyForecastEntry) []DailyForecastEntry {
	type dayAgg struct {
		day        *HourlyForecastEntry
		dayDist    int
		nightTemps []float64
	}

	days := make(map[time.Time]*dayAgg)
	get := func(date time.Time) *dayAgg {
		if a, ok := days[date]; ok {
			return a
		}
		a := &dayAgg{}
		days[date] = a
		return a
	}

	for i := range hourly {
		e := hourly[i]
		ts := e.Timestamp.UTC()
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		hour := ts.Hour()

		if hour >= 9 && hour <= 15 {
			a := get(date)
			dist := hour - 12
			if dist < 0 {
				dist = -dist
			}
			if a.day == nil || dist < a.dayDist {
				a.day = &hourly[i]
				a.dayDist = dist
			}
		}

		switch hour {
		case 21:
			a := get(date)
			a.nightTemps = append(a.nightTemps, e.TemperatureC)
		case 0, 3:
			// A night spans the calendar boundary; early-morning readings
			// belong to the previous day's night.
			a := get(date.AddDate(0, 0, -1))
			a.nightTemps = append(a.nightTemps, e.TemperatureC)
		}
	}

	dates := make([]time.Time, 0, len(days))
	for date, a := range days {
		if a.day == nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	result := make([]DailyForecastEntry, 0, maxDailyEntries)
	for _, date := range dates {
		if len(result) >= maxDailyEntries {
			break
		}
		a := days[date]

		night := a.day.TemperatureC
		if len(a.nightTemps) > 0 {
			night = a.nightTemps[0]
			for _, v := range a.nightTemps[1:] {
				if v < night {
					night = v
				}
			}
		}

		result = append(result, DailyForecastEntry{
			Date:          date,
			DayTempC:      a.day.TemperatureC,
			NightTempC:    night,
			ConditionMain: a.day.ConditionMain,
			ConditionDesc: a.day.ConditionDesc,
			UVIndex:       a.day.UVIndex,
			UVProvenance:  a.day.UVProvenance,
		})
	}
	return result
}
