// Package newsapi implements the news provider against the NewsAPI
// /v2/everything endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"marketpulse/internal/core"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client fetches headlines from NewsAPI.
type Client struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	language string
	pageSize int
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithPageSize sets the maximum articles per request.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// New creates a NewsAPI client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		language: "en",
		pageSize: 100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Headlines fetches headlines whose text matches the query within the date
// window. Articles without a title are dropped. Zero results is a valid
// empty response, not an error.
func (c *Client) Headlines(ctx context.Context, query string, from, to time.Time) ([]core.Article, error) {
	if c.apiKey == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("news api key not set"))
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("language", c.language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrUpstreamUnavailable, fmt.Errorf("fetching news: %w", err))
	}
	defer resp.Body.Close()

	var result everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrUpstreamUnavailable, fmt.Errorf("decoding response: %w", err))
	}

	if result.Status != "ok" {
		return nil, core.WrapError(core.ErrUpstreamUnavailable,
			fmt.Errorf("newsapi error %s: %s", result.Code, result.Message))
	}

	articles := make([]core.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, core.Article{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

// NewsAPI response types
type everythingResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}
