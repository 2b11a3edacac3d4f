package assistant

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"murmur/internal/nlu"
	"murmur/internal/reminder"
	"murmur/internal/services"
)

// Settings are the named settings the dispatcher speaks about or falls back to.
type Settings struct {
	WakePhrase     string
	SleepPhrase    string
	DefaultCity    string
	DefaultCountry string
}

// Outcome is what the loop needs to know after a dispatch.
type Outcome struct {
	Exit bool
}

type handler func(ctx context.Context, utterance string) Outcome

// Dispatcher runs the action bound to each intent.
type Dispatcher struct {
	settings Settings
	store    *reminder.Store
	listener Listener
	speaker  Speaker
	display  Display
	alerter  Alerter
	weather  WeatherSource
	news     NewsSource
	jokes    JokeSource
	now      func() time.Time

	handlers map[nlu.Intent]handler
}

func newDispatcher(d Deps) *Dispatcher {
	dp := &Dispatcher{
		settings: d.Settings,
		store:    d.Store,
		listener: d.Listener,
		speaker:  d.Speaker,
		display:  d.Display,
		alerter:  d.Alerter,
		weather:  d.Weather,
		news:     d.News,
		jokes:    d.Jokes,
		now:      d.Clock,
	}
	if dp.now == nil {
		dp.now = time.Now
	}

	dp.handlers = map[nlu.Intent]handler{
		nlu.Wake:          dp.wake,
		nlu.Time:          dp.tellTime,
		nlu.Date:          dp.tellDate,
		nlu.AddReminder:   dp.addReminder,
		nlu.ShowReminders: dp.showReminders,
		nlu.Weather:       dp.tellWeather,
		nlu.News:          dp.tellNews,
		nlu.Joke:          dp.tellJoke,
		nlu.Help:          dp.help,
		nlu.Sleep:         dp.sleep,
		nlu.Exit:          dp.exit,
		nlu.Unknown:       dp.unknown,
	}
	return dp
}

func (dp *Dispatcher) Dispatch(ctx context.Context, intent nlu.Intent, utterance string) Outcome {
	h, ok := dp.handlers[intent]
	if !ok {
		h = dp.unknown
	}
	log.Debug("Dispatching", "intent", intent, "utterance", utterance)
	return h(ctx, utterance)
}

func (dp *Dispatcher) wake(context.Context, string) Outcome {
	dp.alerter.Wake()
	dp.display.Header()
	dp.display.Status("ASSISTANT ACTIVATED")
	dp.display.Separator()
	dp.speaker.Say("Yes, I am listening. How can I help you?")
	dp.display.Menu()
	return Outcome{}
}

func (dp *Dispatcher) tellTime(context.Context, string) Outcome {
	dp.speaker.Say("The current time is " + dp.now().Format("15:04:05"))
	return Outcome{}
}

func (dp *Dispatcher) tellDate(context.Context, string) Outcome {
	dp.speaker.Say("Today is " + dp.now().Format("Monday, 02 January 2006"))
	return Outcome{}
}

func (dp *Dispatcher) addReminder(ctx context.Context, _ string) Outcome {
	dp.speaker.Say("Please say the reminder in format: HH:MM followed by the task. For example: 19:30 study")

	input := dp.followUp(ctx)
	if input == "" {
		dp.speaker.Say("I did not catch that. Please try again.")
		return Outcome{}
	}

	r, err := reminder.Parse(input)
	switch {
	case errors.Is(err, reminder.ErrNoTask), errors.Is(err, reminder.ErrBadTask):
		dp.speaker.Say("Sorry, I did not understand the format. Please try again.")
		return Outcome{}
	case err != nil:
		log.Debug("Rejected reminder", "input", input, "err", err)
		dp.speaker.Say("Invalid time format. Please use HH:MM format like 19:30")
		return Outcome{}
	}

	saveErr := dp.store.Add(r)

	dp.alerter.Confirm()
	dp.display.Print(fmt.Sprintf("Reminder Added: %s - %s", r.At, r.Task))

	if saveErr != nil {
		log.Warn("Reminder kept in memory only", "path", dp.store.Path(), "err", saveErr)
		dp.speaker.Say(fmt.Sprintf("Reminder set at %s for %s, but I could not save it to disk.", r.At, r.Task))
		return Outcome{}
	}

	dp.speaker.Say(fmt.Sprintf("Reminder set at %s for %s", r.At, r.Task))
	return Outcome{}
}

func (dp *Dispatcher) showReminders(context.Context, string) Outcome {
	list := dp.store.List()
	if len(list) == 0 {
		dp.speaker.Say("You have no reminders saved.")
		return Outcome{}
	}

	dp.display.Print("YOUR SAVED REMINDERS:")
	dp.display.Separator()
	dp.speaker.Say(fmt.Sprintf("You have %d %s.", len(list), plural(len(list), "reminder")))
	for i, r := range list {
		dp.display.Print(fmt.Sprintf("   %d. %s - %s", i+1, r.At, r.Task))
		dp.speaker.Say(fmt.Sprintf("At %s, %s", r.At, r.Task))
	}
	dp.display.Separator()
	return Outcome{}
}

func (dp *Dispatcher) tellWeather(ctx context.Context, _ string) Outcome {
	dp.speaker.Say("Which city would you like the weather for?")

	city := dp.followUp(ctx)
	if city == "" {
		city = dp.settings.DefaultCity
		dp.speaker.Say("Using default city: " + city)
	}

	report := dp.weather.Weather(ctx, city)
	dp.display.Print(report.Text)
	dp.speaker.Say(report.Text)
	return Outcome{}
}

func (dp *Dispatcher) tellNews(ctx context.Context, _ string) Outcome {
	dp.speaker.Say("Fetching the top news headlines.")

	headlines := dp.news.Headlines(ctx, dp.settings.DefaultCountry)
	items := headlines.Items
	if len(items) > services.MaxHeadlines {
		items = items[:services.MaxHeadlines]
	}

	dp.display.Print("TOP NEWS HEADLINES:")
	dp.display.Separator()
	for i, h := range items {
		dp.display.Print(fmt.Sprintf("   %d. %s", i+1, h))
		dp.speaker.Say(fmt.Sprintf("Headline %d: %s", i+1, h))
	}
	dp.display.Separator()
	return Outcome{}
}

func (dp *Dispatcher) tellJoke(ctx context.Context, _ string) Outcome {
	dp.speaker.Say("Here is a joke for you.")

	joke := dp.jokes.Joke(ctx)
	dp.display.Print("Joke: " + joke.Text)
	dp.speaker.Say(joke.Text)
	return Outcome{}
}

func (dp *Dispatcher) help(context.Context, string) Outcome {
	dp.display.Menu()
	return Outcome{}
}

func (dp *Dispatcher) sleep(context.Context, string) Outcome {
	dp.display.Status("ASSISTANT GOING TO SLEEP")
	dp.display.Separator()
	dp.speaker.Say(fmt.Sprintf("Okay, I will go back to sleep. Say '%s' to wake me again.", dp.settings.WakePhrase))
	return Outcome{}
}

func (dp *Dispatcher) exit(context.Context, string) Outcome {
	dp.display.Status("SHUTTING DOWN")
	dp.display.Separator()
	dp.speaker.Say("Goodbye! Have a great day.")
	return Outcome{Exit: true}
}

func (dp *Dispatcher) unknown(_ context.Context, utterance string) Outcome {
	if strings.TrimSpace(utterance) != "" {
		dp.speaker.Say("I did not understand that command. Say 'help' to see available commands.")
	}
	return Outcome{}
}

// followUp listens for a second utterance. A dead listener counts as silence;
// the main loop notices on its next read.
func (dp *Dispatcher) followUp(ctx context.Context) string {
	text, err := dp.listener.Listen(ctx)
	if err != nil {
		log.Warn("Follow-up listen failed", "err", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
