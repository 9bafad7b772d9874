package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gamevault/pkg/utils"
)

// Client fetches game metadata from the RAWG games API.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewClient(cfg utils.RAWGConfig) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 12 * time.Second},
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
	}
}

// Candidate is one search result as RAWG returns it.
type Candidate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Platforms   []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
	Released        string  `json:"released"`
	Rating          float64 `json:"rating"`
	BackgroundImage string  `json:"background_image"`
}

type searchResponse struct {
	Count   int         `json:"count"`
	Results []Candidate `json:"results"`
}

// Search runs a single search request for the given title. The title is
// sent exactly as received; normalization is the caller's concern.
func (c *Client) Search(ctx context.Context, title string) ([]Candidate, error) {
	u, err := url.Parse(c.BaseURL + "/games")
	if err != nil {
		return nil, fmt.Errorf("rawg: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("search", title)
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("rawg: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rawg: request: %w", err)
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rawg: status %d: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("rawg: decode: %w", err)
	}

	return sr.Results, nil
}

// PlatformNames flattens the candidate's platform list in API order.
func (cand Candidate) PlatformNames() []string {
	names := make([]string, 0, len(cand.Platforms))
	for _, p := range cand.Platforms {
		names = append(names, p.Platform.Name)
	}
	return names
}
