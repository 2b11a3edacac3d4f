package services

import (
	"context"
	log "log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const (
	JokeEndpoint = "https://v2.jokeapi.dev/joke/Programming,Miscellaneous,Pun?blacklistFlags=nsfw,religious,political,racist,sexist,explicit"
	jokeTimeout  = 5 * time.Second
)

// FallbackJokes are told when JokeAPI cannot be reached.
var FallbackJokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs!",
	"Why did the Python programmer not respond to the email? It was spam.",
	"What's a programmer's favorite hangout place? Foo Bar!",
	"Why do Java developers wear glasses? Because they don't C#!",
	"How many programmers does it take to change a light bulb? None, that's a hardware problem!",
	"Why did the developer go broke? Because he used up all his cache!",
	"What do you call a programmer from Finland? Nerdic!",
	"Why don't programmers like nature? It has too many bugs!",
	"What's the object-oriented way to become wealthy? Inheritance!",
	"A SQL query walks into a bar, walks up to two tables and asks: Can I join you?",
}

type Jokes struct {
	Endpoint string

	client *http.Client
	pick   func(n int) int
}

func NewJokes(client *http.Client) *Jokes {
	return &Jokes{
		Endpoint: JokeEndpoint,
		client:   orDefault(client),
		pick:     rand.IntN,
	}
}

func (j *Jokes) Joke(ctx context.Context) Report {
	log.Info("Fetching joke")

	body, err := getJSON(ctx, j.client, j.Endpoint, jokeTimeout)
	if err != nil {
		log.Warn("Joke lookup failed, telling a local one", "err", err)
		return j.fallback()
	}

	res := gjson.ParseBytes(body)
	switch res.Get("type").String() {
	case "single":
		if joke := res.Get("joke"); joke.Exists() {
			return Report{Text: joke.String()}
		}
	case "twopart":
		return Report{Text: res.Get("setup").String() + " ... " + res.Get("delivery").String()}
	}

	return j.fallback()
}

func (j *Jokes) fallback() Report {
	return degraded(FallbackJokes[j.pick(len(FallbackJokes))])
}
