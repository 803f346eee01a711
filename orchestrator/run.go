package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthpulse/classify"
	"healthpulse/logger"
	"healthpulse/newsfeed"
	"healthpulse/priority"
	"healthpulse/store"
	"healthpulse/translate"
	"healthpulse/types"
)

// SeenFilter answers whether an article URL was already translated and
// cached by an earlier run. A nil filter falls back to cache lookups alone.
type SeenFilter interface {
	Seen(ctx context.Context, url string) (bool, error)
	MarkSeen(ctx context.Context, url string) error
}

// Options configures a Runner beyond its dependencies.
type Options struct {
	Query      string
	PageSize   int
	SourceLang string
	TargetLang string
}

// Runner executes the full personalization pipeline for one user: analyze
// their latest lab snapshot, fetch candidate articles, classify and rank
// them against the resulting focus, translate and cache the winners, then
// swap in the new recommendation set.
type Runner struct {
	labs       store.LabResultRepo
	articles   store.ArticleRepo
	recs       store.RecommendationRepo
	feed       newsfeed.Service
	translator translate.Service
	seen       SeenFilter
	state      *Manager
	log        *logger.Logger
	opts       Options
}

// NewRunner wires a runner from its dependencies. seen may be nil.
func NewRunner(
	labs store.LabResultRepo,
	articles store.ArticleRepo,
	recs store.RecommendationRepo,
	feed newsfeed.Service,
	translator translate.Service,
	seen SeenFilter,
	state *Manager,
	log *logger.Logger,
	opts Options,
) *Runner {
	return &Runner{
		labs:       labs,
		articles:   articles,
		recs:       recs,
		feed:       feed,
		translator: translator,
		seen:       seen,
		state:      state,
		log:        log,
		opts:       opts,
	}
}

// Run executes one personalization cycle for the user. A run that finds no
// articles is reported through the RunResult, not as an error; the error
// return is reserved for storage failures.
func (r *Runner) Run(ctx context.Context, userID string) (types.RunResult, error) {
	if !r.state.Begin() {
		return types.RunResult{
			Success: false,
			Message: "a refresh is already in progress",
		}, nil
	}

	pr, err := r.analyze(ctx, userID)
	if err != nil {
		r.state.SetError(fmt.Errorf("analyze priority: %w", err))
		return types.RunResult{Success: false, Message: "failed to load lab results"}, err
	}

	raw := r.fetch(ctx)
	if len(raw) == 0 {
		r.state.SetError(errors.New("no articles found"))
		return types.RunResult{Success: false, Message: "no articles found"}, nil
	}

	candidates := dedupe(raw)
	if dropped := len(raw) - len(candidates); dropped > 0 {
		r.state.AddLog(fmt.Sprintf("Dropped %d duplicate articles", dropped))
	}

	r.state.SetState(StateClassifying)
	classified := classify.Classify(candidates)
	r.state.AddLog(fmt.Sprintf("Classified %d articles", len(classified)))

	r.state.SetState(StateRanking)
	ranked := classify.Rank(classified, pr)
	r.state.AddLog(fmt.Sprintf("Selected top %d articles for focus %q", len(ranked), pr.Focus))

	rows, err := r.persist(ctx, userID, pr, ranked)
	if err != nil {
		r.state.SetError(err)
		return types.RunResult{Success: false, Message: "failed to store recommendations"}, err
	}

	result := types.RunResult{
		Success:     true,
		Message:     fmt.Sprintf("%d articles recommended", len(rows)),
		Recommended: len(rows),
	}
	r.state.Complete(result)
	r.log.Info("personalization run complete",
		"user_id", userID, "focus", pr.Focus, "recommended", len(rows))
	return result, nil
}

func (r *Runner) analyze(ctx context.Context, userID string) (types.HealthPriority, error) {
	r.state.AddLog("Analyzing latest lab results...")

	latest, err := r.labs.GetLatest(ctx, userID)
	if err != nil {
		return types.HealthPriority{}, err
	}

	pr := priority.Analyze(latest)
	r.state.AddLog(fmt.Sprintf("Focus area: %s (diabetes %.2f, cholesterol %.2f)",
		pr.Focus, pr.DiabetesScore, pr.CholesterolScore))
	return pr, nil
}

func (r *Runner) fetch(ctx context.Context) []types.RawArticle {
	r.state.SetState(StateFetching)
	r.state.AddLog("Fetching health articles...")

	raw := r.feed.Search(ctx, r.opts.Query, r.opts.PageSize)
	r.state.SetFetchedCount(len(raw))
	r.state.AddLog(fmt.Sprintf("Fetched %d articles", len(raw)))
	return raw
}

// dedupe keeps the first entry per URL when several sources return the
// same article.
func dedupe(raw []types.RawArticle) []types.RawArticle {
	byURL := make(map[string]struct{}, len(raw))
	out := make([]types.RawArticle, 0, len(raw))
	for _, a := range raw {
		if _, ok := byURL[a.URL]; ok {
			continue
		}
		byURL[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out
}

// persist translates and caches each ranked article, then swaps the user's
// recommendation rows in one shot.
func (r *Runner) persist(ctx context.Context, userID string, pr types.HealthPriority, ranked []types.ClassifiedArticle) ([]types.ArticleRecommendation, error) {
	r.state.SetState(StateTranslating)

	rows := make([]types.ArticleRecommendation, 0, len(ranked))
	for _, ca := range ranked {
		stored, err := r.cacheArticle(ctx, ca)
		if err != nil {
			return nil, fmt.Errorf("cache article %q: %w", ca.URL, err)
		}
		rows = append(rows, types.ArticleRecommendation{
			ID:            uuid.New(),
			UserID:        userID,
			ArticleID:     stored.ID,
			PriorityScore: ca.PriorityScore,
			Reason:        recommendationReason(pr.Focus, ca),
		})
	}

	r.state.SetState(StatePersisting)
	if err := r.recs.Replace(ctx, userID, rows); err != nil {
		return nil, fmt.Errorf("replace recommendations: %w", err)
	}
	r.state.AddLog(fmt.Sprintf("Stored %d recommendations", len(rows)))
	return rows, nil
}

// cacheArticle returns the stored row for the article, translating and
// inserting it on a cache miss. The bloom filter never misses a marked
// URL, so when it reports the URL as unseen the cache lookup is skipped;
// filter errors fall back to the lookup.
func (r *Runner) cacheArticle(ctx context.Context, ca types.ClassifiedArticle) (*types.Article, error) {
	mayBeCached := true
	if r.seen != nil {
		seen, err := r.seen.Seen(ctx, ca.URL)
		if err != nil {
			r.log.Warn("seen-cache lookup failed", "url", ca.URL, "error", err)
		} else {
			mayBeCached = seen
		}
	}
	if mayBeCached {
		cached, err := r.articles.GetBySourceURL(ctx, ca.URL)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	src, dst := r.opts.SourceLang, r.opts.TargetLang
	article := &types.Article{
		ID:                   uuid.New(),
		SourceURL:            ca.URL,
		Source:               ca.Source,
		Title:                r.translator.Translate(ctx, ca.Title, src, dst),
		Description:          r.translator.Translate(ctx, ca.Description, src, dst),
		Content:              r.translator.Translate(ctx, ca.Content, src, dst),
		ImageURL:             ca.ImageURL,
		Categories:           types.JoinCategories(ca.Categories),
		DiabetesRelevance:    ca.Relevance.Diabetes,
		CholesterolRelevance: ca.Relevance.Cholesterol,
		PublishedAt:          ca.PublishedAt,
		CreatedAt:            time.Now(),
	}

	stored, err := r.articles.Create(ctx, article)
	if err != nil {
		return nil, err
	}
	if r.seen != nil {
		if err := r.seen.MarkSeen(ctx, ca.URL); err != nil {
			r.log.Warn("seen-cache mark failed", "url", ca.URL, "error", err)
		}
	}
	return stored, nil
}

// recommendationReason renders the short Indonesian line shown under a
// recommended article in the app.
func recommendationReason(focus types.FocusArea, ca types.ClassifiedArticle) string {
	hasDiabetes := ca.Relevance.Diabetes > ca.Relevance.Cholesterol
	switch focus {
	case types.FocusDiabetes:
		if hasDiabetes {
			return "Relevan dengan fokus kesehatan Anda saat ini: gula darah"
		}
		return "Artikel kesehatan pelengkap untuk Anda"
	case types.FocusCholesterol:
		if !hasDiabetes && ca.Relevance.Cholesterol > 0 {
			return "Relevan dengan fokus kesehatan Anda saat ini: kolesterol"
		}
		return "Artikel kesehatan pelengkap untuk Anda"
	default:
		return "Pilihan artikel kesehatan seimbang untuk Anda"
	}
}
