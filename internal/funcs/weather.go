package funcs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// weatherService wraps the Open-Meteo APIs, which need no key. The URLs
// are fields so tests can point at a local server.
type weatherService struct {
	http        *http.Client
	geocodeURL  string
	forecastURL string
}

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// WMO weather interpretation codes.
var weatherConditions = map[int]string{
	0: "clear sky", 1: "mainly clear", 2: "partly cloudy", 3: "overcast",
	45: "foggy", 48: "depositing rime fog",
	51: "light drizzle", 53: "moderate drizzle", 55: "dense drizzle",
	61: "slight rain", 63: "moderate rain", 65: "heavy rain",
	71: "slight snow", 73: "moderate snow", 75: "heavy snow",
	80: "slight rain showers", 81: "moderate rain showers", 82: "violent rain showers",
	95: "thunderstorm", 96: "thunderstorm with slight hail", 99: "thunderstorm with heavy hail",
}

func (w *weatherService) current(location string) (map[string]any, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("get_weather needs a location")
	}

	// Geocode just the city part of "City, Country" style input.
	city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])

	geoURL := w.geocodeURL
	if geoURL == "" {
		geoURL = defaultGeocodeURL
	}
	var geo struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := w.getJSON(geoURL+"?"+url.Values{"name": {city}, "count": {"1"}}.Encode(), &geo); err != nil {
		return nil, err
	}
	if len(geo.Results) == 0 {
		return nil, fmt.Errorf("could not find location: %s", location)
	}
	place := geo.Results[0]
	name := place.Name
	if name == "" {
		name = location
	}

	fcURL := w.forecastURL
	if fcURL == "" {
		fcURL = defaultForecastURL
	}
	q := url.Values{
		"latitude":         {fmt.Sprintf("%g", place.Latitude)},
		"longitude":        {fmt.Sprintf("%g", place.Longitude)},
		"current":          {"temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m"},
		"temperature_unit": {"celsius"},
	}
	var forecast struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}
	if err := w.getJSON(fcURL+"?"+q.Encode(), &forecast); err != nil {
		return nil, err
	}

	cur := forecast.Current
	condition, ok := weatherConditions[cur.WeatherCode]
	if !ok {
		condition = fmt.Sprintf("code %d", cur.WeatherCode)
	}
	return map[string]any{
		"location":    name,
		"temperature": cur.Temperature,
		"humidity":    cur.Humidity,
		"condition":   condition,
		"wind_speed":  cur.WindSpeed,
	}, nil
}

func (w *weatherService) getJSON(u string, out any) error {
	resp, err := w.http.Get(u)
	if err != nil {
		return fmt.Errorf("weather lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather lookup: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weather lookup: %w", err)
	}
	return nil
}
