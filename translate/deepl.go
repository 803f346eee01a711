// Package translate binds the article pipeline to DeepL. The service
// contract is deliberately soft: translation failures degrade to the
// original text and are logged, never surfaced to the caller; no run is
// aborted because a translation provider had a bad day.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"healthpulse/logger"

	"golang.org/x/time/rate"
)

// Service translates text between languages. Implementations return the
// input unchanged when they cannot translate.
type Service interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) string
}

// DeepLClient implements Service against the DeepL REST API. Calls are
// throttled through a token bucket so successive translations are spaced
// out; a single call after a quiet period never waits.
type DeepLClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewDeepLClient builds a DeepL-backed translator. interval is the minimum
// spacing between successive calls.
func NewDeepLClient(baseURL, apiKey string, interval, timeout time.Duration, log *logger.Logger) *DeepLClient {
	return &DeepLClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		log:        log.With("service", "deepl"),
	}
}

type deepLResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate implements Service.
func (c *DeepLClient) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	translated, err := c.translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		c.log.Warn("translation failed, keeping original text", "err", err)
		return text
	}
	return translated
}

func (c *DeepLClient) translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("throttle wait: %w", err)
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", strings.ToUpper(sourceLang))
	form.Set("target_lang", strings.ToUpper(targetLang))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepl returned %d", resp.StatusCode)
	}

	var body deepLResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Translations) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	return body.Translations[0].Text, nil
}

// Noop is the Service used when no translation provider is configured; it
// passes text through untouched.
type Noop struct{}

// Translate implements Service.
func (Noop) Translate(_ context.Context, text, _, _ string) string { return text }
