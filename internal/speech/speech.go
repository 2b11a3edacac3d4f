// Package speech implements the assistant's voice: every announcement is
// echoed, mirrored to the bus and spoken, and none of those failing reaches
// the caller.
package speech

import (
	"context"
	log "log/slog"
	"sync"
	"time"
)

// Engine renders text to audio, blocking until playback ends.
type Engine interface {
	Speak(text string) error
}

type Echo interface {
	Said(text string)
}

type Publisher interface {
	Publish(kind, content string) error
}

// Ducker lowers other audio while the assistant talks.
type Ducker interface {
	DuckOthers(ctx context.Context, factor float64, fade time.Duration) error
	UnduckOthers(ctx context.Context, fade time.Duration) error
}

const (
	duckFactor = 0.3
	duckFade   = 150 * time.Millisecond
	duckBudget = 2 * time.Second
)

type Voice struct {
	echo   Echo
	engine Engine
	ducker Ducker
	bus    Publisher

	// engines like espeak are not reentrant and the scheduler talks too
	mu sync.Mutex
}

type Option func(*Voice)

func WithEngine(e Engine) Option { return func(v *Voice) { v.engine = e } }
func WithDucker(d Ducker) Option { return func(v *Voice) { v.ducker = d } }
func WithBus(p Publisher) Option { return func(v *Voice) { v.bus = p } }

func New(echo Echo, opts ...Option) *Voice {
	v := &Voice{echo: echo}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Voice) Say(text string) {
	v.echo.Said(text)

	if v.bus != nil {
		if err := v.bus.Publish("say", text); err != nil {
			log.Warn("Failed to mirror announcement", "err", err)
		}
	}

	if v.engine == nil {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ducker != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duckBudget)
		if err := v.ducker.DuckOthers(ctx, duckFactor, duckFade); err != nil {
			log.Debug("Failed to duck other streams", "err", err)
		}
		cancel()

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), duckBudget)
			defer cancel()
			if err := v.ducker.UnduckOthers(ctx, duckFade); err != nil {
				log.Debug("Failed to restore other streams", "err", err)
			}
		}()
	}

	if err := v.engine.Speak(text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}
