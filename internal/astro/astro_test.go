package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUVIndexZeroAtNight(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		at       time.Time
	}{
		{"moscow midnight", 55.7558, 37.6173, time.Date(2024, 6, 21, 21, 0, 0, 0, time.UTC)},
		{"sydney pre-dawn", -33.8688, 151.2093, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)},
		{"london winter evening", 51.5074, -0.1278, time.Date(2024, 12, 21, 18, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.LessOrEqual(t, SolarElevation(tc.lat, tc.lon, tc.at), 0.0)
			assert.Equal(t, 0, UVIndex(tc.lat, tc.lon, tc.at, 0, "Clear", "clear sky"))
		})
	}
}

func TestUVIndexSummerNoonIsHigh(t *testing.T) {
	// Clear sky at the equator around local solar noon.
	uv := UVIndex(0, 0, time.Date(2024, 3, 21, 12, 0, 0, 0, time.UTC), 0, "Clear", "clear sky")
	assert.GreaterOrEqual(t, uv, 6)
	assert.LessOrEqual(t, uv, 15)
}

func TestUVIndexCloudAttenuation(t *testing.T) {
	noon := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	clear := UVIndex(40, 0, noon, 0, "Clear", "clear sky")
	overcast := UVIndex(40, 0, noon, 100, "Clouds", "overcast clouds")
	storm := UVIndex(40, 0, noon, 100, "Thunderstorm", "thunderstorm with heavy rain")

	assert.Less(t, overcast, clear)
	assert.LessOrEqual(t, storm, overcast)
}

func TestUVIndexInvalidCoordinate(t *testing.T) {
	assert.Equal(t, 0, UVIndex(91, 0, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 0, "Clear", ""))
	assert.Equal(t, 0, UVIndex(0, 181, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 0, "Clear", ""))
}

func TestDewPointGoldenValue(t *testing.T) {
	dp := DewPoint(20, 50)
	require.NotNil(t, dp)
	assert.InDelta(t, 9.3, *dp, 0.2)
}

func TestDewPointOutOfRangeHumidity(t *testing.T) {
	assert.Nil(t, DewPoint(20, -1))
	assert.Nil(t, DewPoint(20, 101))
	assert.Nil(t, DewPoint(20, 150))
}

func TestDewPointZeroHumidity(t *testing.T) {
	// ln(0) degenerates; must come back as unavailable, not a number.
	assert.Nil(t, DewPoint(20, 0))
}

func TestDewPointSaturation(t *testing.T) {
	// At 100% humidity the dew point equals the temperature.
	dp := DewPoint(15, 100)
	require.NotNil(t, dp)
	assert.InDelta(t, 15, *dp, 0.01)
}

func TestComputeSunTimesOrdering(t *testing.T) {
	st := ComputeSunTimes(55.7558, 37.6173, time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC))
	require.NotNil(t, st)

	assert.True(t, st.Sunrise.Before(st.SolarNoon))
	assert.True(t, st.SolarNoon.Before(st.Sunset))
	assert.True(t, !st.GoldenHourEnd.Before(st.Sunrise))
	assert.True(t, !st.GoldenHour.After(st.Sunset))
}

func TestComputeSunTimesPolarNight(t *testing.T) {
	// Longyearbyen in December: the sun never rises.
	assert.Nil(t, ComputeSunTimes(78.2232, 15.6267, time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC)))
}

func TestComputeSunTimesInvalidCoordinate(t *testing.T) {
	assert.Nil(t, ComputeSunTimes(-95, 0, time.Now()))
}

func TestSimpleUVIndex(t *testing.T) {
	assert.Equal(t, 0, SimpleUVIndex(time.Date(2024, 7, 1, 2, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, SimpleUVIndex(time.Date(2024, 7, 1, 23, 0, 0, 0, time.UTC)))

	noon := SimpleUVIndex(time.Date(2024, 7, 1, 13, 0, 0, 0, time.UTC))
	assert.Greater(t, noon, 0)
	assert.LessOrEqual(t, noon, 15)

	winterNoon := SimpleUVIndex(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC))
	assert.Less(t, winterNoon, noon)
}
