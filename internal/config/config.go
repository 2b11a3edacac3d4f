// Package config reads the assistant's named settings from an env file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	WakeWord       string
	SleepWord      string
	WeatherAPIKey  string
	NewsAPIKey     string
	DefaultCity    string
	DefaultCountry string
	RemindersFile  string

	OpenAIAPIKey string
	WhisperModel string
	EspeakVoice  string
	AlertSound   string
	BusURL       string
}

// Load reads envFile if it exists (process environment wins over the file)
// and validates the required settings.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		WakeWord:       get("WAKE_WORD"),
		SleepWord:      get("SLEEP_WORD"),
		WeatherAPIKey:  get("OPENWEATHER_API_KEY"),
		NewsAPIKey:     get("GNEWS_API_KEY"),
		DefaultCity:    get("DEFAULT_CITY"),
		DefaultCountry: get("DEFAULT_NEWS_COUNTRY"),
		RemindersFile:  get("REMINDERS_FILE"),

		OpenAIAPIKey: get("OPENAI_API_KEY"),
		WhisperModel: get("WHISPER_MODEL"),
		EspeakVoice:  get("ESPEAK_VOICE"),
		AlertSound:   get("ALERT_SOUND"),
		BusURL:       get("BUS_URL"),
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"WAKE_WORD", c.WakeWord},
		{"SLEEP_WORD", c.SleepWord},
		{"DEFAULT_CITY", c.DefaultCity},
		{"DEFAULT_NEWS_COUNTRY", c.DefaultCountry},
		{"REMINDERS_FILE", c.RemindersFile},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s not set", r.name))
		}
	}
	return errors.Join(errs...)
}

func get(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
