// Package assistant runs the listen, resolve, dispatch loop and owns the
// wake/sleep session.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"time"

	"murmur/internal/nlu"
	"murmur/internal/reminder"
)

// Deps wires the assistant to its store and collaborators.
type Deps struct {
	Settings Settings
	Store    *reminder.Store
	Listener Listener
	Speaker  Speaker
	Display  Display
	Alerter  Alerter
	Weather  WeatherSource
	News     NewsSource
	Jokes    JokeSource
	Clock    func() time.Time
}

type Assistant struct {
	settings   Settings
	session    *Session
	resolver   *nlu.Resolver
	dispatcher *Dispatcher

	listener Listener
	speaker  Speaker
	display  Display
	alerter  Alerter
}

func New(d Deps) *Assistant {
	return &Assistant{
		settings:   d.Settings,
		session:    NewSession(),
		resolver:   nlu.NewResolver(d.Settings.WakePhrase, d.Settings.SleepPhrase),
		dispatcher: newDispatcher(d),
		listener:   d.Listener,
		speaker:    d.Speaker,
		display:    d.Display,
		alerter:    d.Alerter,
	}
}

func (a *Assistant) Session() *Session { return a.session }

// Run greets the user and loops until the Exit intent, the listener closing
// or ctx being cancelled.
func (a *Assistant) Run(ctx context.Context) error {
	a.display.Header()
	a.speaker.Say("Hello! I am your personal voice assistant.")
	a.speaker.Say(fmt.Sprintf("Say '%s' to wake me up.", a.settings.WakePhrase))
	a.display.Separator()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := a.listener.Listen(ctx)
		if errors.Is(err, io.EOF) {
			log.Info("Input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}

		if a.Step(ctx, text) {
			return nil
		}
	}
}

// Step interprets one utterance and reports whether the loop should exit.
func (a *Assistant) Step(ctx context.Context, text string) bool {
	awake := a.session.Awake()
	intent := a.resolver.Resolve(text, awake)

	if !a.session.Accepts(intent) {
		return false
	}

	if awake && text != "" {
		a.alerter.Confirm()
	}

	out := a.dispatcher.Dispatch(ctx, intent, text)
	if a.session.Apply(intent) {
		log.Info("Session changed", "state", a.session.State())
	}

	return out.Exit
}

// Notify announces a due reminder. It is the scheduler's side effect.
func (a *Assistant) Notify(r reminder.Reminder) {
	a.display.Banner("REMINDER ALERT")
	a.speaker.Say("Reminder: " + r.Task)
	a.alerter.Chime()
}
