// Package client is the Go client for the healthpulse HTTP API. The demo
// TUI uses it; it is also handy for scripting against a running instance.
package client

import (
	"net/http"
	"net/url"
	"os"
	"time"
)

// Client talks to a running healthpulse server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. An empty baseURL falls back to the API_URL
// environment variable, then to localhost.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = getEnvOrDefault("API_URL", "http://localhost:8080")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func withUser(path, userID string) string {
	return path + "?user_id=" + url.QueryEscape(userID)
}
