package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"healthpulse/logger"
	"healthpulse/types"
)

// NewsAPIClient binds Service to the NewsAPI /v2/everything endpoint.
type NewsAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewNewsAPIClient builds a NewsAPI-backed source. timeout bounds each
// request in addition to whatever deadline the caller's context carries.
func NewNewsAPIClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *NewsAPIClient {
	return &NewsAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("source", "newsapi"),
	}
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

// Search implements Service.
func (c *NewsAPIClient) Search(ctx context.Context, query string, pageSize int) []types.RawArticle {
	articles, err := c.search(ctx, query, pageSize)
	if err != nil {
		c.log.Warn("news fetch failed", "query", query, "err", err)
		return nil
	}
	return articles
}

func (c *NewsAPIClient) search(ctx context.Context, query string, pageSize int) ([]types.RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")

	endpoint := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", body.Status)
	}

	out := make([]types.RawArticle, 0, len(body.Articles))
	for _, a := range body.Articles {
		if a.URL == "" || a.Title == "" {
			continue
		}
		out = append(out, types.RawArticle{
			Source:      a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			Content:     a.Content,
		})
	}
	return out, nil
}
