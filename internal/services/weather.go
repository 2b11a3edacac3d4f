package services

import (
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	WeatherEndpoint = "http://api.openweathermap.org/data/2.5/weather"
	weatherTimeout  = 8 * time.Second
)

// Weather queries OpenWeatherMap current conditions in metric units.
type Weather struct {
	Endpoint string

	client *http.Client
	apiKey string
}

func NewWeather(client *http.Client, apiKey string) *Weather {
	return &Weather{
		Endpoint: WeatherEndpoint,
		client:   orDefault(client),
		apiKey:   apiKey,
	}
}

func (w *Weather) Weather(ctx context.Context, city string) Report {
	if w.apiKey == "" {
		return degraded("Weather API key not configured.")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", w.apiKey)
	q.Set("units", "metric")

	log.Info("Fetching weather", "city", city)

	body, err := getJSON(ctx, w.client, w.Endpoint+"?"+q.Encode(), weatherTimeout)
	if err != nil {
		log.Warn("Weather lookup failed", "city", city, "err", err)
		return degraded(fmt.Sprintf("Weather service unavailable: %v", err))
	}

	res := gjson.ParseBytes(body)
	if !res.Get("main").Exists() {
		log.Warn("Weather response without main block", "city", city)
		return degraded("Unable to fetch weather information at this time.")
	}

	title := cases.Title(language.English)

	var b strings.Builder
	fmt.Fprintf(&b, "Weather Report for %s:\n", title.String(city))
	fmt.Fprintf(&b, "   - Condition: %s\n", title.String(res.Get("weather.0.description").String()))
	fmt.Fprintf(&b, "   - Temperature: %s degrees Celsius\n", number(res.Get("main.temp")))
	fmt.Fprintf(&b, "   - Feels Like: %s degrees Celsius\n", number(res.Get("main.feels_like")))
	fmt.Fprintf(&b, "   - Humidity: %s%%", number(res.Get("main.humidity")))

	return Report{Text: b.String()}
}

func number(v gjson.Result) string {
	return strconv.FormatFloat(v.Float(), 'f', -1, 64)
}
