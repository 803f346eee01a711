package newsfeed

import (
	"context"
	"sync"
	"time"

	"healthpulse/logger"
	"healthpulse/types"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

const (
	extractWorkers   = 5
	extractorTimeout = 30 * time.Second
)

// RSSSource is the fallback Service for deployments without a NewsAPI key.
// It pulls from a configured feed and enriches each item with readability
// full-text extraction; the query argument is ignored since RSS feeds are
// not searchable.
type RSSSource struct {
	feedURL string
	log     *logger.Logger
}

// NewRSSSource builds an RSS-backed source. feed may be a preset name or a
// direct feed URL.
func NewRSSSource(feed string, log *logger.Logger) *RSSSource {
	return &RSSSource{
		feedURL: ResolveFeedURL(feed),
		log:     log.With("source", "rss"),
	}
}

// Search implements Service.
func (s *RSSSource) Search(ctx context.Context, _ string, pageSize int) []types.RawArticle {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		s.log.Warn("feed fetch failed", "url", s.feedURL, "err", err)
		return nil
	}

	count := len(feed.Items)
	if pageSize > 0 && count > pageSize {
		count = pageSize
	}

	articles := make([]types.RawArticle, 0, count)
	for i := 0; i < count; i++ {
		item := feed.Items[i]
		if item.Link == "" || item.Title == "" {
			continue
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		a := types.RawArticle{
			Source:      feed.Title,
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			PublishedAt: publishedAt,
		}
		if item.Image != nil {
			a.ImageURL = item.Image.URL
		}
		articles = append(articles, a)
	}

	s.extractAll(articles)
	return articles
}

// extractAll fills in full content for each article using a small worker
// pool. Extraction failures leave the item with its feed description only.
func (s *RSSSource) extractAll(articles []types.RawArticle) {
	var wg sync.WaitGroup
	jobs := make(chan int, len(articles))

	for w := 0; w < extractWorkers; w++ {
		go func() {
			for i := range jobs {
				if err := s.extractContent(&articles[i]); err != nil {
					s.log.Debug("content extraction failed", "url", articles[i].URL, "err", err)
				}
				wg.Done()
			}
		}()
	}

	for i := range articles {
		wg.Add(1)
		jobs <- i
	}
	wg.Wait()
	close(jobs)
}

func (s *RSSSource) extractContent(a *types.RawArticle) error {
	extracted, err := readability.FromURL(a.URL, extractorTimeout)
	if err != nil {
		return err
	}
	a.Content = extracted.TextContent
	if a.Description == "" {
		a.Description = extracted.Excerpt
	}
	if a.ImageURL == "" {
		a.ImageURL = extracted.Image
	}
	return nil
}
