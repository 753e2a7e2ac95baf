package funcs

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWeatherCurrent(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Portland" {
			t.Errorf("geocoded %q, want city part only", got)
		}
		fmt.Fprint(w, `{"results":[{"name":"Portland","latitude":45.52,"longitude":-122.68}]}`)
	}))
	defer geo.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current":{"temperature_2m":18.5,"relative_humidity_2m":60,"weather_code":2,"wind_speed_10m":12.3}}`)
	}))
	defer forecast.Close()

	svc := &weatherService{http: http.DefaultClient, geocodeURL: geo.URL, forecastURL: forecast.URL}
	res, err := svc.current("Portland, Oregon")
	if err != nil {
		t.Fatal(err)
	}
	if res["location"] != "Portland" {
		t.Errorf("location = %v", res["location"])
	}
	if res["temperature"] != 18.5 {
		t.Errorf("temperature = %v", res["temperature"])
	}
	if res["condition"] != "partly cloudy" {
		t.Errorf("condition = %v", res["condition"])
	}
}

func TestWeatherUnknownLocation(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer geo.Close()

	svc := &weatherService{http: http.DefaultClient, geocodeURL: geo.URL}
	if _, err := svc.current("Xyzzy"); err == nil {
		t.Error("unknown location should fail")
	}
}

func TestWeatherEmptyLocation(t *testing.T) {
	svc := &weatherService{http: http.DefaultClient}
	if _, err := svc.current(""); err == nil {
		t.Error("empty location should fail")
	}
}
