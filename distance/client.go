// Package distance resolves the authoritative round-trip distance between
// the chamber and a destination through a Directions-style routing API.
//
// The lookup is best-effort by design: a failure or timeout produces a
// LookupError the caller downgrades to a non-blocking notice, never a fatal
// error, and the calculation proceeds without a displacement figure.
package distance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// LookupError wraps any failure talking to the routing API so callers can
// treat the whole class uniformly.
type LookupError struct {
	Destination string
	Reason      string
	Err         error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("distance lookup for %q failed: %s", e.Destination, e.Reason)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Client calls the routing API with a fixed origin.
type Client struct {
	endpoint string
	apiKey   string
	origin   string
	http     *http.Client
}

// Config for the client. Origin is the fixed departure point of every trip.
type Config struct {
	Endpoint string
	APIKey   string
	Origin   string
	Timeout  time.Duration
}

// New builds a Client. A zero timeout defaults to ten seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		origin:   cfg.Origin,
		http:     &http.Client{Timeout: timeout},
	}
}

// directionsResponse is the subset of the routing API payload we read.
type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Meters int64 `json:"value"`
			} `json:"distance"`
		} `json:"legs"`
	} `json:"routes"`
}

// RoundTripKm resolves the one-way driving distance from the configured
// origin to destination and doubles it, in whole kilometers.
func (c *Client) RoundTripKm(ctx context.Context, destination string) (int64, error) {
	q := url.Values{}
	q.Set("origin", c.origin)
	q.Set("destination", destination)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, &LookupError{Destination: destination, Reason: "building request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &LookupError{Destination: destination, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &LookupError{
			Destination: destination,
			Reason:      fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, &LookupError{Destination: destination, Reason: "reading response", Err: err}
	}

	var parsed directionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, &LookupError{Destination: destination, Reason: "malformed response", Err: err}
	}
	if parsed.Status != "OK" || len(parsed.Routes) == 0 {
		return 0, &LookupError{
			Destination: destination,
			Reason:      fmt.Sprintf("no route (status %q)", parsed.Status),
		}
	}

	var meters int64
	for _, leg := range parsed.Routes[0].Legs {
		meters += leg.Distance.Meters
	}
	if meters <= 0 {
		return 0, &LookupError{Destination: destination, Reason: "zero-length route"}
	}

	// Round trip, rounded up to the next whole kilometer.
	return (2*meters + 999) / 1000, nil
}
