package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	applog "ecal/internal/log"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"

	forecastTimeout = 10 * time.Second
	geocodeTimeout  = 5 * time.Second
)

// ErrUpstream is returned when the forecast service cannot be reached
// or answers with a non-200 status. Handlers map it to a gateway error.
var ErrUpstream = errors.New("weather service unavailable")

// Query selects the location for a weather lookup. When Lat and Lon
// are both set they win; otherwise City is geocoded.
type Query struct {
	Lat  *float64
	Lon  *float64
	City string
}

// Reading is a normalized current-conditions result.
type Reading struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	City        string  `json:"city"`
}

// Client proxies current-conditions lookups to the open-meteo API.
// All outbound calls carry a short timeout and are attempted exactly
// once.
type Client struct {
	client      *http.Client
	forecastURL string
	geocodeURL  string

	defaultCity string
	fallbackLat float64
	fallbackLon float64
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURLs overrides the upstream endpoints, used by tests.
func WithBaseURLs(forecastURL, geocodeURL string) Option {
	return func(c *Client) {
		c.forecastURL = forecastURL
		c.geocodeURL = geocodeURL
	}
}

// NewClient builds a weather client. defaultCity and the fallback
// coordinates are used when a query names no usable location.
func NewClient(defaultCity string, fallbackLat, fallbackLon float64, opts ...Option) *Client {
	c := &Client{
		client:      &http.Client{Timeout: forecastTimeout},
		forecastURL: defaultForecastURL,
		geocodeURL:  defaultGeocodeURL,
		defaultCity: defaultCity,
		fallbackLat: fallbackLat,
		fallbackLon: fallbackLon,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type forecastResponse struct {
	Current struct {
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		WeatherCode      int     `json:"weather_code"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		ApparentTemp     float64 `json:"apparent_temperature"`
	} `json:"current"`
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// Current resolves the query location and fetches current conditions.
func (c *Client) Current(ctx context.Context, q Query) (Reading, error) {
	city := q.City
	if city == "" {
		city = c.defaultCity
	}

	lat, lon := c.fallbackLat, c.fallbackLon
	if q.Lat != nil {
		lat = *q.Lat
	}
	if q.Lon != nil {
		lon = *q.Lon
	}
	if q.Lat == nil && q.Lon == nil {
		// Geocoding failure falls back to the configured coordinates.
		if glat, glon, ok := c.geocode(ctx, city); ok {
			lat, lon = glat, glon
		}
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m,apparent_temperature")

	var data forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, params, forecastTimeout, &data); err != nil {
		applog.Error("weather forecast fetch failed", err, "lat", lat, "lon", lon)
		return Reading{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	desc, icon := describeCode(data.Current.WeatherCode)
	return Reading{
		Temp:        data.Current.Temperature,
		FeelsLike:   data.Current.ApparentTemp,
		Description: desc,
		Icon:        icon,
		Humidity:    int(data.Current.RelativeHumidity),
		WindSpeed:   data.Current.WindSpeed,
		City:        city,
	}, nil
}

// geocode resolves a city name to coordinates. Any failure, including
// an empty result set, reports ok=false.
func (c *Client) geocode(ctx context.Context, city string) (lat, lon float64, ok bool) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")

	var data geocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL, params, geocodeTimeout, &data); err != nil {
		applog.Debug("geocode failed, using fallback coordinates", "city", city, "reason", err)
		return 0, 0, false
	}
	if len(data.Results) == 0 {
		return 0, 0, false
	}
	return data.Results[0].Latitude, data.Results[0].Longitude, true
}

func (c *Client) getJSON(ctx context.Context, base string, params url.Values, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// wmoCodes maps WMO weather codes to a description and icon ID. A code
// is matched by the greatest threshold less than or equal to it.
var wmoCodes = []struct {
	code int
	desc string
	icon string
}{
	{95, "Thunderstorm", "11d"},
	{80, "Slight rain showers", "09d"},
	{71, "Slight snow", "13d"},
	{63, "Moderate rain", "10d"},
	{61, "Slight rain", "10d"},
	{51, "Light drizzle", "09d"},
	{48, "Depositing rime fog", "50d"},
	{45, "Foggy", "50d"},
	{3, "Overcast", "04d"},
	{2, "Partly cloudy", "02d"},
	{1, "Mainly clear", "01d"},
	{0, "Clear", "01d"},
}

func describeCode(code int) (string, string) {
	for _, m := range wmoCodes {
		if code >= m.code {
			return m.desc, m.icon
		}
	}
	return "Unknown", "01d"
}
