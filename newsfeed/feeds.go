package newsfeed

// FeedPresets maps friendly names to health-news RSS feed URLs used by the
// RSS fallback source.
var FeedPresets = map[string]string{
	"who":          "https://www.who.int/rss-feeds/news-english.xml",
	"sciencedaily": "https://www.sciencedaily.com/rss/health_medicine.xml",
	"medicalnews":  "https://www.medicalnewstoday.com/rss",
	"nih":          "https://www.nih.gov/news-events/news-releases/feed",
}

// DefaultFeedPreset is used when no preset or URL is configured.
const DefaultFeedPreset = "who"

// ResolveFeedURL resolves a feed identifier to a URL. Preset names map to
// their configured feed; anything else is assumed to already be a URL.
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[feedInput]; exists {
		return url
	}
	return feedInput
}
