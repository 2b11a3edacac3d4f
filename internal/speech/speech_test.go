package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

type echo struct{ *journal }

func (e echo) Said(text string) { e.add("echo:" + text) }

type engine struct {
	*journal
	err error
}

func (e engine) Speak(text string) error {
	e.add("speak:" + text)
	return e.err
}

type ducker struct {
	*journal
	err error
}

func (d ducker) DuckOthers(context.Context, float64, time.Duration) error {
	d.add("duck")
	return d.err
}

func (d ducker) UnduckOthers(context.Context, time.Duration) error {
	d.add("unduck")
	return d.err
}

type bus struct {
	*journal
	err error
}

func (b bus) Publish(kind, content string) error {
	b.add(kind + ":" + content)
	return b.err
}

func TestSayOrder(t *testing.T) {
	j := &journal{}
	v := New(echo{j}, WithEngine(engine{journal: j}), WithDucker(ducker{journal: j}), WithBus(bus{journal: j}))

	v.Say("hello")

	assert.Equal(t, []string{"echo:hello", "say:hello", "duck", "speak:hello", "unduck"}, j.entries)
}

func TestSayNeverFails(t *testing.T) {
	j := &journal{}
	boom := errors.New("boom")
	v := New(echo{j},
		WithEngine(engine{journal: j, err: boom}),
		WithDucker(ducker{journal: j, err: boom}),
		WithBus(bus{journal: j, err: boom}),
	)

	assert.NotPanics(t, func() { v.Say("still here") })
	assert.Equal(t, []string{"echo:still here", "say:still here", "duck", "speak:still here", "unduck"}, j.entries)
}

func TestSayWithoutEngineOnlyEchoes(t *testing.T) {
	j := &journal{}
	v := New(echo{j})

	v.Say("quiet")

	assert.Equal(t, []string{"echo:quiet"}, j.entries)
}
