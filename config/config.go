package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects everything the service reads from the environment.
// Values are optional unless a component that needs them is actually used;
// missing external-service credentials disable that binding rather than
// failing startup.
type Config struct {
	Port    string
	LogMode string

	DatabaseDSN string

	RedisAddr string
	RedisPass string
	RedisDB   int
	SeenKey   string
	SeenTTL   time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	NewsAPIKey   string
	NewsBaseURL  string
	NewsQuery    string
	NewsPageSize int
	// FeedPreset selects an RSS fallback feed when NewsAPIKey is unset
	FeedPreset string

	DeepLAPIKey       string
	DeepLBaseURL      string
	SourceLang        string
	TargetLang        string
	TranslateInterval time.Duration

	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3UsePathStyle bool

	VisionCredentialsFile string

	ExternalTimeout time.Duration
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should be honored.
func Load() Config {
	return Config{
		Port:    GetEnvOrDefault("PORT", "8080"),
		LogMode: GetEnvOrDefault("LOG_MODE", "dev"),

		DatabaseDSN: GetEnvOrDefault("DATABASE_DSN",
			"host=localhost user=postgres password=postgres dbname=healthpulse port=5432 sslmode=disable"),

		RedisAddr: GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		SeenKey:   GetEnvOrDefault("SEEN_KEY", "articles:seen"),
		SeenTTL:   getEnvDuration("SEEN_TTL", 24*time.Hour),

		KafkaBrokers: splitAndTrim(GetEnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   GetEnvOrDefault("KAFKA_TOPIC", "lab-results"),
		KafkaGroupID: GetEnvOrDefault("KAFKA_GROUP_ID", "healthpulse-personalizer"),

		NewsAPIKey:   os.Getenv("NEWSAPI_KEY"),
		NewsBaseURL:  GetEnvOrDefault("NEWSAPI_BASE_URL", "https://newsapi.org/v2"),
		NewsQuery:    GetEnvOrDefault("NEWS_QUERY", DefaultNewsQuery),
		NewsPageSize: getEnvInt("NEWS_PAGE_SIZE", DefaultNewsPageSize),
		FeedPreset:   GetEnvOrDefault("FEED_PRESET", "who"),

		DeepLAPIKey:       os.Getenv("DEEPL_API_KEY"),
		DeepLBaseURL:      GetEnvOrDefault("DEEPL_BASE_URL", "https://api-free.deepl.com/v2"),
		SourceLang:        GetEnvOrDefault("SOURCE_LANG", "EN"),
		TargetLang:        GetEnvOrDefault("TARGET_LANG", "ID"),
		TranslateInterval: getEnvDuration("TRANSLATE_INTERVAL", DefaultTranslateInterval),

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:       normalizePrefix(os.Getenv("S3_PREFIX")),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),

		VisionCredentialsFile: os.Getenv("VISION_CREDENTIALS_FILE"),

		ExternalTimeout: getEnvDuration("EXTERNAL_TIMEOUT", DefaultExternalTimeout),
	}
}

// GetEnvOrDefault returns the env value or fallback when unset or blank.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// getEnvDuration parses either a Go duration ("90s") or plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return strings.Trim(p, "/") + "/"
}
