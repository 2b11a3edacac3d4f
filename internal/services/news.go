package services

import (
	"context"
	log "log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	NewsEndpoint = "https://gnews.io/api/v4/top-headlines"
	newsTimeout  = 8 * time.Second
)

// News queries GNews top headlines in English.
type News struct {
	Endpoint string

	client *http.Client
	apiKey string
}

func NewNews(client *http.Client, apiKey string) *News {
	return &News{
		Endpoint: NewsEndpoint,
		client:   orDefault(client),
		apiKey:   apiKey,
	}
}

func (n *News) Headlines(ctx context.Context, country string) Headlines {
	if n.apiKey == "" {
		return degradedHeadlines("News API key not configured.")
	}

	q := url.Values{}
	q.Set("token", n.apiKey)
	q.Set("lang", "en")
	q.Set("country", strings.ToLower(country))
	q.Set("max", strconv.Itoa(MaxHeadlines))

	log.Info("Fetching news headlines", "country", country)

	body, err := getJSON(ctx, n.client, n.Endpoint+"?"+q.Encode(), newsTimeout)
	if err != nil {
		log.Warn("News lookup failed", "err", err)
		return degradedHeadlines("News service unavailable.")
	}

	res := gjson.ParseBytes(body)
	if !res.Get("articles").Exists() {
		return degradedHeadlines("Unable to fetch news at this time.")
	}

	var items []string
	for _, title := range res.Get("articles.#.title").Array() {
		if len(items) == MaxHeadlines {
			break
		}
		items = append(items, title.String())
	}
	if len(items) == 0 {
		return degradedHeadlines("No headlines available right now.")
	}

	return Headlines{Items: items}
}

func degradedHeadlines(text string) Headlines {
	return Headlines{Items: []string{text}, Degraded: true}
}
