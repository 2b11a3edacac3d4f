package assistant

import (
	"context"

	"murmur/internal/services"
)

// Listener acquires one utterance. Timeouts and unintelligible audio come
// back as "" with a nil error; an error means input is gone for good and the
// loop should end (io.EOF for a normal close).
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker announces text. It must not fail the caller.
type Speaker interface {
	Say(text string)
}

// Display renders console output.
type Display interface {
	Header()
	Separator()
	Status(text string)
	Print(text string)
	Banner(title string)
	Menu()
}

// Alerter plays short audible cues.
type Alerter interface {
	Wake()
	Confirm()
	Chime()
}

type WeatherSource interface {
	Weather(ctx context.Context, city string) services.Report
}

type NewsSource interface {
	Headlines(ctx context.Context, country string) services.Headlines
}

type JokeSource interface {
	Joke(ctx context.Context) services.Report
}
