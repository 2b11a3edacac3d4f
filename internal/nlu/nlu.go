// Package nlu classifies utterances into a closed set of intents by ordered
// keyword rules. The first rule with a keyword contained in the utterance wins.
package nlu

import "strings"

type Intent int

const (
	Unknown Intent = iota
	Wake
	Time
	Date
	AddReminder
	ShowReminders
	Weather
	News
	Joke
	Help
	Sleep
	Exit
)

var intentNames = [...]string{
	Unknown:       "unknown",
	Wake:          "wake",
	Time:          "time",
	Date:          "date",
	AddReminder:   "add_reminder",
	ShowReminders: "show_reminders",
	Weather:       "weather",
	News:          "news",
	Joke:          "joke",
	Help:          "help",
	Sleep:         "sleep",
	Exit:          "exit",
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return "unknown"
	}
	return intentNames[i]
}

// Rule maps any of its keywords to Intent. Empty keywords never match.
type Rule struct {
	Intent   Intent
	Keywords []string
}

func (r Rule) Match(text string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Resolver holds the wake rule and the ordered rules evaluated while awake.
type Resolver struct {
	wake  Rule
	rules []Rule
}

// NewResolver builds the rule table around the configured wake and sleep
// phrases. Order is precedence.
func NewResolver(wakePhrase, sleepPhrase string) *Resolver {
	return &Resolver{
		wake: Rule{Wake, []string{Normalize(wakePhrase)}},
		rules: []Rule{
			{Time, []string{"time"}},
			{Date, []string{"date"}},
			{AddReminder, []string{"add reminder"}},
			{ShowReminders, []string{"show reminders", "list reminders"}},
			{Weather, []string{"weather"}},
			{News, []string{"news"}},
			{Joke, []string{"joke", "tell me a joke", "make me laugh"}},
			{Help, []string{"help", "commands"}},
			{Sleep, []string{Normalize(sleepPhrase)}},
			{Exit, []string{"exit", "stop", "quit"}},
		},
	}
}

// Rules returns the awake rule table in evaluation order.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve returns exactly one intent for any input. While asleep only the wake
// rule is consulted; everything else is Unknown.
func (r *Resolver) Resolve(text string, awake bool) Intent {
	text = Normalize(text)

	if !awake {
		if r.wake.Match(text) {
			return Wake
		}
		return Unknown
	}

	for _, rule := range r.rules {
		if rule.Match(text) {
			return rule.Intent
		}
	}
	return Unknown
}

func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
