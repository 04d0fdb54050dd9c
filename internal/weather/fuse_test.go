package weather

import (
	"errors"
	"math"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

var testCoord = Coordinate{Lat: 55.7558, Lon: 37.6173}

func testObservation() *PrimaryObservation {
	return &PrimaryObservation{
		Location: Location{Name: "Moscow", CountryCode: "RU"},
		Instant: Instant{
			Timestamp:     time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
			TemperatureC:  20,
			HumidityPct:   50,
			PressureHpa:   1013,
			CloudinessPct: 10,
			ConditionMain: "Clouds",
			ConditionDesc: "few clouds",
			ConditionCode: 801,
		},
	}
}

func TestFuseFailsWithoutPrimary(t *testing.T) {
	_, err := Fuse(nil, NewUVReport(5), testCoord, time.Now())
	if !errors.Is(err, ErrPrimaryUnavailable) {
		t.Fatalf("expected ErrPrimaryUnavailable, got %v", err)
	}
}

func TestFuseUVPrefersSecondary(t *testing.T) {
	obs := testObservation()
	// Primary has its own UV field; the secondary must still win.
	obs.UVIndex = floatPtr(3)

	rec, err := Fuse(obs, NewUVReport(6.4), testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Snapshot.Derived.UVProvenance != UVSourceSecondaryAPI {
		t.Errorf("expected uvSource %q, got %q", UVSourceSecondaryAPI, rec.Snapshot.Derived.UVProvenance)
	}
	if rec.Snapshot.Derived.UVIndex != 6 {
		t.Errorf("expected uv 6 (rounded), got %d", rec.Snapshot.Derived.UVIndex)
	}
}

func TestFuseUVFallsBackToPrimaryNative(t *testing.T) {
	obs := testObservation()
	obs.UVIndex = floatPtr(3.6)

	rec, err := Fuse(obs, nil, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Snapshot.Derived.UVProvenance != UVSourcePrimaryAPI {
		t.Errorf("expected uvSource %q, got %q", UVSourcePrimaryAPI, rec.Snapshot.Derived.UVProvenance)
	}
	if rec.Snapshot.Derived.UVIndex != 4 {
		t.Errorf("expected uv 4 (rounded), got %d", rec.Snapshot.Derived.UVIndex)
	}
}

func TestFuseUVFallsBackToComputed(t *testing.T) {
	obs := testObservation()

	rec, err := Fuse(obs, nil, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Snapshot.Derived.UVProvenance != UVSourceComputed {
		t.Errorf("expected uvSource %q, got %q", UVSourceComputed, rec.Snapshot.Derived.UVProvenance)
	}
	if uv := rec.Snapshot.Derived.UVIndex; uv < 0 || uv > 15 {
		t.Errorf("computed uv %d outside [0,15]", uv)
	}
}

func TestFuseUVDefaultTier(t *testing.T) {
	obs := testObservation()

	// An out-of-range coordinate disables the computed tier; the hour/month
	// default must still produce a value.
	rec, err := Fuse(obs, nil, Coordinate{Lat: 91, Lon: 0}, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Snapshot.Derived.UVProvenance != UVSourceDefault {
		t.Errorf("expected uvSource %q, got %q", UVSourceDefault, rec.Snapshot.Derived.UVProvenance)
	}
}

func TestFuseDewPointComputedFromMagnus(t *testing.T) {
	obs := testObservation() // 20 C, 50%

	rec, err := Fuse(obs, nil, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dp := rec.Snapshot.Derived.DewPointC
	if dp == nil {
		t.Fatal("expected computed dew point, got nil")
	}
	if math.Abs(*dp-9.3) > 0.2 {
		t.Errorf("expected dew point ~9.3, got %.2f", *dp)
	}
}

func TestFuseDewPointPrefersNative(t *testing.T) {
	obs := testObservation()
	obs.DewPointC = floatPtr(11.5)

	rec, err := Fuse(obs, nil, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dp := rec.Snapshot.Derived.DewPointC; dp == nil || *dp != 11.5 {
		t.Errorf("expected native dew point 11.5, got %v", dp)
	}
}

func TestFuseDewPointUnavailable(t *testing.T) {
	obs := testObservation()
	obs.Instant.HumidityPct = 0

	rec, err := Fuse(obs, nil, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Snapshot.Derived.DewPointC != nil {
		t.Errorf("expected nil dew point for 0%% humidity, got %v", *rec.Snapshot.Derived.DewPointC)
	}
}

func TestFuseSunTimesOmittedInPolarNight(t *testing.T) {
	obs := testObservation()
	obs.Instant.Timestamp = time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC)
	polar := Coordinate{Lat: 78.2232, Lon: 15.6267}

	rec, err := Fuse(obs, nil, polar, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Snapshot.Derived.Sunrise != nil || rec.Snapshot.Derived.Sunset != nil {
		t.Error("expected sun times to be omitted during polar night")
	}
}

func TestPrecipProbabilityHeuristic(t *testing.T) {
	cases := []struct {
		main, desc string
		cloudiness int
		want       int
	}{
		{"Thunderstorm", "thunderstorm with rain", 90, 95},
		{"Rain", "moderate rain", 80, 90},
		{"Drizzle", "light intensity drizzle", 70, 70},
		{"Snow", "light snow", 80, 85},
		{"Clouds", "overcast clouds", 80, 24},
		{"Clear", "clear sky", 0, 0},
	}

	for _, tc := range cases {
		got := precipProbability(tc.main, tc.desc, tc.cloudiness)
		if got != tc.want {
			t.Errorf("precipProbability(%q, %q, %d) = %d, want %d", tc.main, tc.desc, tc.cloudiness, got, tc.want)
		}
	}
}

func TestFusePrecipPrefersNativeProbability(t *testing.T) {
	obs := testObservation()
	obs.PrecipProbabilityPct = intPtr(42)

	rec, err := Fuse(obs, nil, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p := rec.Snapshot.PrecipProbabilityPct; p == nil || *p != 42 {
		t.Errorf("expected native precipitation probability 42, got %v", p)
	}
}

func TestFuseHourlyMatchesSecondaryForecastByHour(t *testing.T) {
	obs := testObservation()
	matched := time.Date(2024, 6, 22, 12, 0, 0, 0, time.UTC)
	unmatched := time.Date(2024, 6, 22, 15, 0, 0, 0, time.UTC)
	obs.Forecast = []ForecastStep{
		{Timestamp: matched, TemperatureC: 22, ConditionMain: "Clear", ConditionDesc: "clear sky"},
		{Timestamp: unmatched, TemperatureC: 21, ConditionMain: "Clear", ConditionDesc: "clear sky"},
	}

	report := NewUVReport(5)
	report.AddHourly(matched, 7.2)

	rec, err := Fuse(obs, report, testCoord, obs.Instant.Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Hourly) != 2 {
		t.Fatalf("expected 2 hourly entries, got %d", len(rec.Hourly))
	}

	if rec.Hourly[0].UVIndex != 7 || rec.Hourly[0].UVProvenance != UVSourceSecondaryAPI {
		t.Errorf("matched hour: expected uv 7 from %q, got %d from %q",
			UVSourceSecondaryAPI, rec.Hourly[0].UVIndex, rec.Hourly[0].UVProvenance)
	}
	if rec.Hourly[1].UVProvenance != UVSourceComputed {
		t.Errorf("unmatched hour: expected uvSource %q, got %q", UVSourceComputed, rec.Hourly[1].UVProvenance)
	}
}

func TestAggregateDailyDayAndNightSelection(t *testing.T) {
	day := time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC)
	mk := func(dayOffset, hour int, temp float64) HourlyForecastEntry {
		return HourlyForecastEntry{
			Timestamp:    day.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour),
			TemperatureC: temp,
		}
	}

	hourly := []HourlyForecastEntry{
		mk(0, 9, 18),  // in the day window but farther from noon
		mk(0, 12, 25), // closest to solar noon -> day temp
		mk(0, 15, 23),
		mk(0, 21, 16),
		mk(1, 0, 14), // next-day early morning pools into this day's night
		mk(1, 3, 12),
	}

	daily := aggregateDaily(hourly)
	if len(daily) == 0 {
		t.Fatal("expected at least one daily entry")
	}

	first := daily[0]
	if !first.Date.Equal(day) {
		t.Errorf("expected date %v, got %v", day, first.Date)
	}
	if first.DayTempC != 25 {
		t.Errorf("expected day temp 25 (hour-12 reading), got %.1f", first.DayTempC)
	}
	if first.NightTempC != 12 {
		t.Errorf("expected night temp 12 (min of 21/0/3 readings), got %.1f", first.NightTempC)
	}
}

func TestAggregateDailyCapsAtFiveDays(t *testing.T) {
	var hourly []HourlyForecastEntry
	start := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		hourly = append(hourly, HourlyForecastEntry{
			Timestamp:    start.AddDate(0, 0, i),
			TemperatureC: 20,
		})
	}

	daily := aggregateDaily(hourly)
	if len(daily) != 5 {
		t.Fatalf("expected daily forecast capped at 5 entries, got %d", len(daily))
	}
}

func TestAggregateDailyDropsDaysWithoutDayReading(t *testing.T) {
	// Only night hours: no resolvable day temperature.
	hourly := []HourlyForecastEntry{
		{Timestamp: time.Date(2024, 6, 22, 21, 0, 0, 0, time.UTC), TemperatureC: 15},
		{Timestamp: time.Date(2024, 6, 23, 3, 0, 0, 0, time.UTC), TemperatureC: 13},
	}

	if daily := aggregateDaily(hourly); len(daily) != 0 {
		t.Fatalf("expected no daily entries, got %d", len(daily))
	}
}
