package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeCode(t *testing.T) {
	cases := []struct {
		code int
		desc string
		icon string
	}{
		{0, "Clear", "01d"},
		{1, "Mainly clear", "01d"},
		{2, "Partly cloudy", "02d"},
		{3, "Overcast", "04d"},
		{45, "Foggy", "50d"},
		{48, "Depositing rime fog", "50d"},
		{51, "Light drizzle", "09d"},
		{61, "Slight rain", "10d"},
		{63, "Moderate rain", "10d"},
		{71, "Slight snow", "13d"},
		{80, "Slight rain showers", "09d"},
		{95, "Thunderstorm", "11d"},
		{99, "Thunderstorm", "11d"},
		{62, "Slight rain", "10d"},
		{-1, "Unknown", "01d"},
	}
	for _, tc := range cases {
		desc, icon := describeCode(tc.code)
		assert.Equal(t, tc.desc, desc, "code %d", tc.code)
		assert.Equal(t, tc.icon, icon, "code %d", tc.code)
	}
}

// upstream mocks both open-meteo endpoints on one server.
type upstream struct {
	srv *httptest.Server

	forecastCalls []map[string]string
	geocodeCalls  []string

	weatherCode int
	geocodeHit  bool
	failStatus  int
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{weatherCode: 0}
	mux := http.NewServeMux()
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		if u.failStatus != 0 {
			w.WriteHeader(u.failStatus)
			return
		}
		u.forecastCalls = append(u.forecastCalls, map[string]string{
			"latitude":  r.URL.Query().Get("latitude"),
			"longitude": r.URL.Query().Get("longitude"),
		})
		fmt.Fprintf(w, `{"current":{"temperature_2m":18.4,"relative_humidity_2m":62,"weather_code":%d,"wind_speed_10m":12.3,"apparent_temperature":17.1}}`, u.weatherCode)
	})
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		u.geocodeCalls = append(u.geocodeCalls, r.URL.Query().Get("name"))
		if !u.geocodeHit {
			fmt.Fprint(w, `{"results":[]}`)
			return
		}
		fmt.Fprint(w, `{"results":[{"latitude":48.8566,"longitude":2.3522}]}`)
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) newClient(opts ...Option) *Client {
	opts = append([]Option{WithBaseURLs(u.srv.URL+"/forecast", u.srv.URL+"/geocode")}, opts...)
	return NewClient("London", 51.5074, -0.1278, opts...)
}

func TestCurrentWithCoordinates(t *testing.T) {
	u := newUpstream(t)
	u.weatherCode = 2
	c := u.newClient()

	lat, lon := 40.71, -74.01
	reading, err := c.Current(context.Background(), Query{Lat: &lat, Lon: &lon})
	require.NoError(t, err)

	assert.Equal(t, 18.4, reading.Temp)
	assert.Equal(t, 17.1, reading.FeelsLike)
	assert.Equal(t, "Partly cloudy", reading.Description)
	assert.Equal(t, "02d", reading.Icon)
	assert.Equal(t, 62, reading.Humidity)
	assert.Equal(t, 12.3, reading.WindSpeed)
	assert.Equal(t, "London", reading.City)

	// Explicit coordinates bypass geocoding.
	assert.Empty(t, u.geocodeCalls)
	require.Len(t, u.forecastCalls, 1)
	assert.Equal(t, "40.71", u.forecastCalls[0]["latitude"])
	assert.Equal(t, "-74.01", u.forecastCalls[0]["longitude"])
}

func TestCurrentGeocodesCity(t *testing.T) {
	u := newUpstream(t)
	u.geocodeHit = true
	c := u.newClient()

	reading, err := c.Current(context.Background(), Query{City: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", reading.City)

	require.Len(t, u.geocodeCalls, 1)
	assert.Equal(t, "Paris", u.geocodeCalls[0])
	require.Len(t, u.forecastCalls, 1)
	assert.Equal(t, "48.8566", u.forecastCalls[0]["latitude"])
	assert.Equal(t, "2.3522", u.forecastCalls[0]["longitude"])
}

func TestCurrentGeocodeMissFallsBack(t *testing.T) {
	u := newUpstream(t)
	c := u.newClient()

	reading, err := c.Current(context.Background(), Query{City: "Nowhereville"})
	require.NoError(t, err)
	assert.Equal(t, "Nowhereville", reading.City)

	require.Len(t, u.forecastCalls, 1)
	assert.Equal(t, "51.5074", u.forecastCalls[0]["latitude"])
	assert.Equal(t, "-0.1278", u.forecastCalls[0]["longitude"])
}

func TestCurrentDefaultCity(t *testing.T) {
	u := newUpstream(t)
	c := u.newClient()

	reading, err := c.Current(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "London", reading.City)
	require.Len(t, u.geocodeCalls, 1)
	assert.Equal(t, "London", u.geocodeCalls[0])
}

func TestCurrentSingleCoordinateStillUsesFallback(t *testing.T) {
	u := newUpstream(t)
	c := u.newClient()

	lat := 40.71
	_, err := c.Current(context.Background(), Query{Lat: &lat})
	require.NoError(t, err)

	// One coordinate overrides its fallback half; no geocoding happens.
	assert.Empty(t, u.geocodeCalls)
	require.Len(t, u.forecastCalls, 1)
	assert.Equal(t, "40.71", u.forecastCalls[0]["latitude"])
	assert.Equal(t, "-0.1278", u.forecastCalls[0]["longitude"])
}

func TestCurrentUpstreamFailure(t *testing.T) {
	u := newUpstream(t)
	u.failStatus = http.StatusInternalServerError
	lat, lon := 1.0, 2.0

	_, err := u.newClient().Current(context.Background(), Query{Lat: &lat, Lon: &lon})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCurrentUnreachableUpstream(t *testing.T) {
	u := newUpstream(t)
	c := u.newClient()
	u.srv.Close()

	lat, lon := 1.0, 2.0
	_, err := c.Current(context.Background(), Query{Lat: &lat, Lon: &lon})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestReadingJSONShape(t *testing.T) {
	b, err := json.Marshal(Reading{Description: "Clear", Icon: "01d", City: "London"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"temp", "feels_like", "description", "icon", "humidity", "wind_speed", "city"} {
		assert.Contains(t, m, key)
	}
}
