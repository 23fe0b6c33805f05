// Package opendota is a small rate-limited client for the OpenDota API,
// used to fetch match metadata and lane assignments that the replay
// capture cannot provide.
package opendota

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	baseURL = "https://api.opendota.com/api"

	// Free tier allows 60 calls/min; stay under it.
	requestsPerMinute = 50
)

// Client is a rate-limited OpenDota API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu     sync.Mutex
	window []time.Time // requests in the last minute
}

// NewClient creates a client. The OPENDOTA_API_KEY environment variable
// is optional; without it the anonymous rate limits apply. Set
// OPENDOTA_BASE_URL to point at a self-hosted OpenDota instance.
func NewClient() *Client {
	base := os.Getenv("OPENDOTA_BASE_URL")
	if base == "" {
		base = baseURL
	}
	return &Client{
		baseURL: base,
		apiKey:  os.Getenv("OPENDOTA_API_KEY"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// waitForRateLimit blocks until another request is allowed.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := time.Now()

		cutoff := now.Add(-time.Minute)
		kept := c.window[:0]
		for _, t := range c.window {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		c.window = kept

		if len(c.window) < requestsPerMinute {
			c.window = append(c.window, now)
			c.mu.Unlock()
			return nil
		}

		wait := c.window[0].Add(time.Minute).Sub(now) + 100*time.Millisecond
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) doRequest(ctx context.Context, path string, result interface{}) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if c.apiKey != "" {
		u += "?api_key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
		}
		return c.doRequest(ctx, path, result)
	case http.StatusNotFound:
		return fmt.Errorf("opendota returned 404 - match may not be parsed yet")
	default:
		return fmt.Errorf("opendota returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// GetMatch fetches parsed match details.
func (c *Client) GetMatch(ctx context.Context, matchID int64) (*MatchResponse, error) {
	var match MatchResponse
	err := c.doRequest(ctx, fmt.Sprintf("/matches/%d", matchID), &match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetHeroes fetches the hero id to name table.
func (c *Client) GetHeroes(ctx context.Context) ([]Hero, error) {
	var heroes []Hero
	err := c.doRequest(ctx, "/heroes", &heroes)
	return heroes, err
}

// GetLaneAssignments fetches a match and maps each hero's short name to
// the lane OpenDota assigned it. Junglers and roamers map to an empty
// lane and are omitted.
func (c *Client) GetLaneAssignments(ctx context.Context, matchID int64) (map[string]string, error) {
	match, err := c.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	heroes, err := c.GetHeroes(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(heroes))
	for _, h := range heroes {
		names[h.ID] = h.ShortName()
	}

	lanes := make(map[string]string, len(match.Players))
	for _, p := range match.Players {
		name, ok := names[p.HeroID]
		if !ok {
			return nil, fmt.Errorf("unknown hero id %d in match %d", p.HeroID, matchID)
		}
		if lane := p.AssignedLane(); lane != "" {
			lanes[name] = lane
		}
	}
	return lanes, nil
}
