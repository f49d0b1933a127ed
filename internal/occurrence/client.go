// Package occurrence looks up geolocated sightings of a species in the GBIF
// occurrence API.
package occurrence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.gbif.org/v1"
	DefaultLimit   = 50
)

// Record is a single occurrence. Latitude and Longitude are nil when the
// record has no coordinates.
type Record struct {
	Key            int64    `json:"key"`
	ScientificName string   `json:"scientificName"`
	Country        string   `json:"country"`
	Latitude       *float64 `json:"decimalLatitude"`
	Longitude      *float64 `json:"decimalLongitude"`
}

// Located reports whether the record has both coordinates.
func (r Record) Located() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Searcher finds occurrences by species name.
type Searcher interface {
	Search(ctx context.Context, species string) ([]Record, error)
}

// Client queries the GBIF occurrence search endpoint.
type Client struct {
	BaseURL string
	Limit   int
	HTTP    *http.Client
}

var _ Searcher = (*Client)(nil)

// NewClient creates a client. An empty baseURL selects the public GBIF API;
// proxyURL, when set, routes requests through an HTTP proxy.
func NewClient(baseURL string, limit int, timeout time.Duration, proxyURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Printf("[WARN] ignoring proxy %q: %v", proxyURL, err)
		}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Limit:   limit,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type searchResponse struct {
	Count   int      `json:"count"`
	Results []Record `json:"results"`
}

// Search returns occurrences matching species. If the full name finds
// nothing, each word of the name is tried in turn and the first non-empty
// result wins. Only a failure of the full-name query is returned as an error.
func (c *Client) Search(ctx context.Context, species string) ([]Record, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return nil, errors.New("empty species name")
	}

	records, err := c.query(ctx, species)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}

	words := strings.Fields(species)
	if len(words) < 2 {
		return nil, nil
	}
	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := c.query(ctx, word)
		if err != nil {
			log.Printf("[WARN] occurrence fallback %q: %v", word, err)
			continue
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

func (c *Client) query(ctx context.Context, q string) ([]Record, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(c.Limit))
	u := c.BaseURL + "/occurrence/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gbif fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gbif read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gbif: status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("gbif decode: %w", err)
	}
	return out.Results, nil
}

// Located returns the records that have both coordinates.
func Located(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Located() {
			out = append(out, r)
		}
	}
	return out
}

// Countries counts records per country, in first-seen order.
func Countries(records []Record) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for _, r := range records {
		country := r.Country
		if country == "" {
			country = "Unknown"
		}
		if counts[country] == 0 {
			order = append(order, country)
		}
		counts[country]++
	}
	return order, counts
}
