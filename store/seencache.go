package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCacheConfig configures the RedisBloom connection and filter key.
type SeenCacheConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability
	ErrorRate float64
}

// SeenCache is a Redis-backed bloom filter of article URLs the pipeline has
// already processed. A positive answer may rarely be wrong (bloom false
// positive), which only costs a skipped article; a negative answer is
// always right.
type SeenCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSeenCache creates the bloom wrapper and verifies connectivity.
func NewSeenCache(cfg SeenCacheConfig) (*SeenCache, error) {
	if cfg.Key == "" {
		cfg.Key = "articles:seen"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 100000
	}
	if cfg.ErrorRate <= 0 {
		cfg.ErrorRate = 0.001
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	sc := &SeenCache{client: client, key: cfg.Key, ttl: cfg.TTL}

	// Reserve the filter up front when the key is new. BF.RESERVE failing
	// (e.g. RedisBloom module missing) is non-fatal; BF.ADD can auto-create
	// the filter depending on server settings.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		_ = client.Do(ctx, "BF.RESERVE", cfg.Key,
			fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity).Err()
	}

	return sc, nil
}

// Close closes the underlying Redis client.
func (s *SeenCache) Close() error {
	return s.client.Close()
}

// Seen reports whether the URL has already been processed.
func (s *SeenCache) Seen(ctx context.Context, rawURL string) (bool, error) {
	res, err := s.client.Do(ctx, "BF.EXISTS", s.key, HashURL(rawURL)).Result()
	if err != nil {
		return false, err
	}
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// MarkSeen records the URL and refreshes the filter TTL, so the filter
// stays alive for ttl after the most recent insertion.
func (s *SeenCache) MarkSeen(ctx context.Context, rawURL string) error {
	if err := s.client.Do(ctx, "BF.ADD", s.key, HashURL(rawURL)).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, s.key, s.ttl).Err()
}

// HashURL returns the SHA-256 hex hash of the normalized URL.
func HashURL(rawURL string) string {
	h := sha256.Sum256([]byte(NormalizeURL(rawURL)))
	return hex.EncodeToString(h[:])
}

// NormalizeURL canonicalizes an article URL before hashing: lowercased
// scheme and host, fragment dropped, common tracking parameters stripped,
// trailing slash trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	out := u.String()
	return strings.TrimRight(out, "/")
}
