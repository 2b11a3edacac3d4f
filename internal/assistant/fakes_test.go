package assistant

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"murmur/internal/reminder"
	"murmur/internal/services"
)

type scriptedListener struct {
	lines []string
	calls int
}

func (l *scriptedListener) Listen(context.Context) (string, error) {
	l.calls++
	if len(l.lines) == 0 {
		return "", io.EOF
	}
	line := l.lines[0]
	l.lines = l.lines[1:]
	return line, nil
}

type recordingSpeaker struct {
	mu   sync.Mutex
	said []string
}

func (s *recordingSpeaker) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.said = append(s.said, text)
}

type recordingDisplay struct {
	mu      sync.Mutex
	lines   []string
	menus   int
	headers int
}

func (d *recordingDisplay) add(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, s)
}

func (d *recordingDisplay) Header() { d.mu.Lock(); d.headers++; d.mu.Unlock() }
func (d *recordingDisplay) Separator() {}
func (d *recordingDisplay) Status(text string) { d.add("status: " + text) }
func (d *recordingDisplay) Print(text string) { d.add(text) }
func (d *recordingDisplay) Banner(title string) {
	d.add("banner: " + title)
}
func (d *recordingDisplay) Menu() { d.mu.Lock(); d.menus++; d.mu.Unlock() }

type countingAlerter struct {
	wake, confirm, chime int
}

func (a *countingAlerter) Wake() { a.wake++ }
func (a *countingAlerter) Confirm() { a.confirm++ }
func (a *countingAlerter) Chime() { a.chime++ }

type stubWeather struct {
	cities []string
	report services.Report
}

func (w *stubWeather) Weather(_ context.Context, city string) services.Report {
	w.cities = append(w.cities, city)
	return w.report
}

type stubNews struct {
	countries []string
	headlines services.Headlines
}

func (n *stubNews) Headlines(_ context.Context, country string) services.Headlines {
	n.countries = append(n.countries, country)
	return n.headlines
}

type stubJokes struct{ report services.Report }

func (j stubJokes) Joke(context.Context) services.Report { return j.report }

type harness struct {
	a        *Assistant
	store    *reminder.Store
	listener *scriptedListener
	speaker  *recordingSpeaker
	display  *recordingDisplay
	alerter  *countingAlerter
	weather  *stubWeather
	news     *stubNews
}

var testSettings = Settings{
	WakePhrase:     "hey assistant",
	SleepPhrase:    "go to sleep",
	DefaultCity:    "London",
	DefaultCountry: "GB",
}

func newHarness(t *testing.T, follow ...string) *harness {
	t.Helper()

	store, err := reminder.Open(filepath.Join(t.TempDir(), "reminders.txt"))
	require.NoError(t, err)

	h := &harness{
		store:    store,
		listener: &scriptedListener{lines: follow},
		speaker:  &recordingSpeaker{},
		display:  &recordingDisplay{},
		alerter:  &countingAlerter{},
		weather:  &stubWeather{report: services.Report{Text: "sunny"}},
		news:     &stubNews{headlines: services.Headlines{Items: []string{"one", "two"}}},
	}
	h.a = New(Deps{
		Settings: testSettings,
		Store:    store,
		Listener: h.listener,
		Speaker:  h.speaker,
		Display:  h.display,
		Alerter:  h.alerter,
		Weather:  h.weather,
		News:     h.news,
		Jokes:    stubJokes{report: services.Report{Text: "a joke"}},
		Clock: func() time.Time {
			return time.Date(2026, time.March, 14, 9, 5, 7, 0, time.UTC)
		},
	})
	return h
}

// awake puts the session in Awake and forgets the wake side effects.
func (h *harness) awake(t *testing.T) {
	t.Helper()
	require.False(t, h.a.Step(context.Background(), "hey assistant"))
	require.True(t, h.a.Session().Awake())
	h.speaker.said = nil
	h.display.lines = nil
	*h.alerter = countingAlerter{}
}
