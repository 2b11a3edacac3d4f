package assistant

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/nlu"
	"murmur/internal/reminder"
	"murmur/internal/services"
)

func TestSessionTransitions(t *testing.T) {
	s := NewSession()
	assert.Equal(t, Asleep, s.State())

	assert.True(t, s.Accepts(nlu.Wake))
	assert.False(t, s.Accepts(nlu.Time))
	assert.False(t, s.Accepts(nlu.Exit))
	assert.False(t, s.Apply(nlu.Sleep))
	assert.False(t, s.Apply(nlu.Time))
	assert.Equal(t, Asleep, s.State())

	assert.True(t, s.Apply(nlu.Wake))
	assert.Equal(t, Awake, s.State())
	assert.False(t, s.Accepts(nlu.Wake))
	assert.True(t, s.Accepts(nlu.Unknown))

	for _, i := range []nlu.Intent{nlu.Time, nlu.Date, nlu.AddReminder, nlu.Help, nlu.Exit, nlu.Unknown} {
		assert.False(t, s.Apply(i), i.String())
		assert.Equal(t, Awake, s.State())
	}

	assert.True(t, s.Apply(nlu.Sleep))
	assert.Equal(t, Asleep, s.State())
}

func TestAsleepIgnoresNonWakeInput(t *testing.T) {
	h := newHarness(t)

	for _, in := range []string{"hello", "what time is it", "exit", ""} {
		assert.False(t, h.a.Step(context.Background(), in))
	}

	assert.Equal(t, Asleep, h.a.Session().State())
	assert.Empty(t, h.speaker.said)
	assert.Empty(t, h.display.lines)
	assert.Equal(t, countingAlerter{}, *h.alerter)
}

func TestWake(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.a.Step(context.Background(), "Hey Assistant"))

	assert.True(t, h.a.Session().Awake())
	assert.Equal(t, 1, h.alerter.wake)
	assert.Zero(t, h.alerter.confirm)
	assert.Equal(t, 1, h.display.menus)
	assert.Contains(t, h.display.lines, "status: ASSISTANT ACTIVATED")
	assert.Equal(t, []string{"Yes, I am listening. How can I help you?"}, h.speaker.said)
}

func TestEmptyInputWhileAwakeIsSilent(t *testing.T) {
	h := newHarness(t)
	h.awake(t)

	assert.False(t, h.a.Step(context.Background(), ""))

	assert.Empty(t, h.speaker.said)
	assert.Zero(t, h.alerter.confirm)
	assert.True(t, h.a.Session().Awake())
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	h.awake(t)

	assert.False(t, h.a.Step(context.Background(), "sing a song"))

	assert.Equal(t, 1, h.alerter.confirm)
	assert.Equal(t, []string{"I did not understand that command. Say 'help' to see available commands."}, h.speaker.said)
}

func TestTimeAndDate(t *testing.T) {
	h := newHarness(t)
	h.awake(t)

	h.a.Step(context.Background(), "what time is it")
	h.a.Step(context.Background(), "what is the date")

	assert.Equal(t, []string{
		"The current time is 09:05:07",
		"Today is Saturday, 14 March 2026",
	}, h.speaker.said)
}

func TestAddReminder(t *testing.T) {
	h := newHarness(t, "19:30 walk the dog")
	h.awake(t)

	assert.False(t, h.a.Step(context.Background(), "add reminder"))

	assert.Equal(t, []reminder.Reminder{{At: "19:30", Task: "walk the dog"}}, h.store.List())

	data, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)
	assert.Equal(t, "19:30 | walk the dog\n", string(data))

	assert.Equal(t, 2, h.alerter.confirm)
	assert.Contains(t, h.display.lines, "Reminder Added: 19:30 - walk the dog")
	assert.Equal(t, "Reminder set at 19:30 for walk the dog", h.speaker.said[len(h.speaker.said)-1])
}

func TestAddReminderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		follow []string
		want   string
	}{
		{name: "bad time", follow: []string{"25:99 x"}, want: "Invalid time format. Please use HH:MM format like 19:30"},
		{name: "not a time", follow: []string{"abc task"}, want: "Invalid time format. Please use HH:MM format like 19:30"},
		{name: "no task", follow: []string{"19:30"}, want: "Sorry, I did not understand the format. Please try again."},
		{name: "separator in task", follow: []string{"22:00 sleep | early"}, want: "Sorry, I did not understand the format. Please try again."},
		{name: "multi-line task", follow: []string{"22:00 a\nb"}, want: "Sorry, I did not understand the format. Please try again."},
		{name: "silence", follow: []string{""}, want: "I did not catch that. Please try again."},
		{name: "listener closed", want: "I did not catch that. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.follow...)
			h.awake(t)

			h.a.Step(context.Background(), "add reminder")

			assert.Empty(t, h.store.List())
			_, err := os.Stat(h.store.Path())
			assert.True(t, errors.Is(err, os.ErrNotExist), "no persistence write expected")
			assert.Equal(t, tt.want, h.speaker.said[len(h.speaker.said)-1])
		})
	}
}

func TestShowReminders(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Add(reminder.Reminder{At: "09:00", Task: "standup"}))
	h.awake(t)

	before, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		h.speaker.said = nil
		h.a.Step(context.Background(), "show reminders")
		assert.Equal(t, []string{"You have 1 reminder.", "At 09:00, standup"}, h.speaker.said)
	}

	after, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []reminder.Reminder{{At: "09:00", Task: "standup"}}, h.store.List())
	assert.Contains(t, h.display.lines, "   1. 09:00 - standup")
}

func TestShowRemindersOrderAndEmpty(t *testing.T) {
	h := newHarness(t)
	h.awake(t)

	h.a.Step(context.Background(), "list reminders")
	assert.Equal(t, []string{"You have no reminders saved."}, h.speaker.said)

	require.NoError(t, h.store.Add(reminder.Reminder{At: "18:00", Task: "b"}))
	require.NoError(t, h.store.Add(reminder.Reminder{At: "07:00", Task: "a"}))

	h.speaker.said = nil
	h.a.Step(context.Background(), "show reminders")
	assert.Equal(t, []string{"You have 2 reminders.", "At 18:00, b", "At 07:00, a"}, h.speaker.said)
}

func TestWeather(t *testing.T) {
	t.Run("named city", func(t *testing.T) {
		h := newHarness(t, "paris")
		h.awake(t)

		h.a.Step(context.Background(), "weather please")

		assert.Equal(t, []string{"paris"}, h.weather.cities)
		assert.Equal(t, []string{"Which city would you like the weather for?", "sunny"}, h.speaker.said)
	})

	t.Run("default city", func(t *testing.T) {
		h := newHarness(t, "")
		h.weather.report = services.Report{Text: "Weather API key not configured.", Degraded: true}
		h.awake(t)

		h.a.Step(context.Background(), "weather")

		assert.Equal(t, []string{"London"}, h.weather.cities)
		assert.Equal(t, []string{
			"Which city would you like the weather for?",
			"Using default city: London",
			"Weather API key not configured.",
		}, h.speaker.said)
	})
}

func TestNews(t *testing.T) {
	h := newHarness(t)
	h.news.headlines = services.Headlines{Items: []string{"a", "b", "c", "d", "e", "f"}}
	h.awake(t)

	h.a.Step(context.Background(), "news")

	assert.Equal(t, []string{"GB"}, h.news.countries)
	assert.Equal(t, []string{
		"Fetching the top news headlines.",
		"Headline 1: a",
		"Headline 2: b",
		"Headline 3: c",
		"Headline 4: d",
		"Headline 5: e",
	}, h.speaker.said)
}

func TestJokeAndHelp(t *testing.T) {
	h := newHarness(t)
	h.awake(t)

	h.a.Step(context.Background(), "tell me a joke")
	assert.Equal(t, []string{"Here is a joke for you.", "a joke"}, h.speaker.said)

	h.speaker.said = nil
	h.a.Step(context.Background(), "help")
	assert.Empty(t, h.speaker.said)
	assert.Equal(t, 2, h.display.menus)
}

func TestSleepThenWakeAgain(t *testing.T) {
	h := newHarness(t)
	h.awake(t)

	assert.False(t, h.a.Step(context.Background(), "go to sleep"))
	assert.Equal(t, Asleep, h.a.Session().State())
	assert.Equal(t, []string{"Okay, I will go back to sleep. Say 'hey assistant' to wake me again."}, h.speaker.said)

	h.speaker.said = nil
	h.a.Step(context.Background(), "what time is it")
	assert.Empty(t, h.speaker.said)

	h.a.Step(context.Background(), "hey assistant")
	assert.True(t, h.a.Session().Awake())
}

func TestRunUntilExit(t *testing.T) {
	h := newHarness(t, "hey assistant", "what time is it", "exit", "never read")

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, 3, h.listener.calls)
	assert.Equal(t, []string{"never read"}, h.listener.lines)
	assert.Equal(t, "Goodbye! Have a great day.", h.speaker.said[len(h.speaker.said)-1])
	assert.Equal(t, Awake, h.a.Session().State())
}

func TestRunEndsWhenInputCloses(t *testing.T) {
	h := newHarness(t, "hello")

	require.NoError(t, h.a.Run(context.Background()))
	assert.Equal(t, []string{
		"Hello! I am your personal voice assistant.",
		"Say 'hey assistant' to wake me up.",
	}, h.speaker.said)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.a.Run(ctx), context.Canceled)
	assert.Zero(t, h.listener.calls)
}

func TestNotify(t *testing.T) {
	h := newHarness(t)

	h.a.Notify(reminder.Reminder{At: "08:00", Task: "coffee"})

	assert.Equal(t, []string{"banner: REMINDER ALERT"}, h.display.lines)
	assert.Equal(t, []string{"Reminder: coffee"}, h.speaker.said)
	assert.Equal(t, 1, h.alerter.chime)
}

func TestSchedulerDrivesNotify(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Add(reminder.Reminder{At: "09:05", Task: "stretch"}))

	sch := reminder.NewScheduler(h.store, h.a)
	now := h.a.dispatcher.now()

	assert.Equal(t, 1, sch.Tick(now))
	assert.Equal(t, 0, sch.Tick(now))
	assert.Equal(t, []string{"Reminder: stretch"}, h.speaker.said)
}
