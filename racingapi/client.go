package racingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is the HTTP implementation of Source.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a feed client. The API key is sent as a bearer token
// on every request.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Entries returns all racecard entries for a date and region.
func (c *Client) Entries(ctx context.Context, date, region string) ([]Entry, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("region", region)

	var payload struct {
		Entries []Entry `json:"entries"`
	}
	if err := c.get(ctx, "/racecards/entries?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	return payload.Entries, nil
}

// Profile returns the extended record for one horse.
func (c *Client) Profile(ctx context.Context, horseID string) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "/horses/"+url.PathEscape(horseID)+"/pro", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("racingapi: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return &StatusError{Code: resp.StatusCode, URL: u}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("racingapi: decode %s: %w", path, err)
	}
	return nil
}
