// Package services wraps the weather, news and joke HTTP APIs. Lookups never
// fail: every problem is folded into a human-readable degraded result.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Report is a single announcement. Degraded marks text that describes a
// failure instead of the requested data.
type Report struct {
	Text     string
	Degraded bool
}

// Headlines is an ordered, non-empty list of at most MaxHeadlines items.
type Headlines struct {
	Items    []string
	Degraded bool
}

const MaxHeadlines = 5

func degraded(text string) Report {
	return Report{Text: text, Degraded: true}
}

func getJSON(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func orDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
