package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAwake(t *testing.T) {
	r := NewResolver("hey assistant", "go to sleep")

	tests := []struct {
		input string
		want  Intent
	}{
		{"what time is it", Time},
		{"  WHAT TIME IS IT  ", Time},
		{"what's the date today", Date},
		{"add reminder", AddReminder},
		{"please add reminder for me", AddReminder},
		{"show reminders", ShowReminders},
		{"list reminders", ShowReminders},
		{"how is the weather", Weather},
		{"read me the news", News},
		{"tell me a joke", Joke},
		{"make me laugh", Joke},
		{"help", Help},
		{"what commands are there", Help},
		{"go to sleep", Sleep},
		{"exit", Exit},
		{"stop", Exit},
		{"quit now", Exit},
		{"hey assistant", Unknown},
		{"banana", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.input, true))
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	r := NewResolver("hey assistant", "go to sleep")

	// earlier rules shadow later ones
	assert.Equal(t, Time, r.Resolve("add reminder at this time", true))
	assert.Equal(t, Weather, r.Resolve("weather news", true))
	assert.Equal(t, Help, r.Resolve("help me stop", true))
	assert.Equal(t, Sleep, r.Resolve("go to sleep and stop", true))
}

func TestResolveAsleep(t *testing.T) {
	r := NewResolver("Hey Assistant", "go to sleep")

	assert.Equal(t, Wake, r.Resolve("hey assistant", false))
	assert.Equal(t, Wake, r.Resolve("oh hey assistant are you there", false))
	assert.Equal(t, Unknown, r.Resolve("hello", false))
	assert.Equal(t, Unknown, r.Resolve("what time is it", false))
	assert.Equal(t, Unknown, r.Resolve("exit", false))
	assert.Equal(t, Unknown, r.Resolve("", false))
}

func TestEmptyPhrasesNeverMatch(t *testing.T) {
	r := NewResolver("", "")

	assert.Equal(t, Unknown, r.Resolve("anything", false))
	assert.Equal(t, Unknown, r.Resolve("anything", true))
}

func TestResolveIsTotal(t *testing.T) {
	r := NewResolver("hey assistant", "go to sleep")

	for _, in := range []string{"", " ", "\t\n", "???", "ümlaut", "time date news"} {
		for _, awake := range []bool{true, false} {
			got := r.Resolve(in, awake)
			assert.GreaterOrEqual(t, int(got), int(Unknown))
			assert.LessOrEqual(t, int(got), int(Exit))
			if awake {
				assert.NotEqual(t, Wake, got)
			}
		}
	}
}

func TestRuleOrder(t *testing.T) {
	r := NewResolver("hey assistant", "go to sleep")

	var got []Intent
	for _, rule := range r.Rules() {
		got = append(got, rule.Intent)
	}
	assert.Equal(t, []Intent{Time, Date, AddReminder, ShowReminders, Weather, News, Joke, Help, Sleep, Exit}, got)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "add_reminder", AddReminder.String())
	assert.Equal(t, "unknown", Intent(99).String())
}
