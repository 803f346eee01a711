package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"healthpulse/logger"
	"healthpulse/types"
)

func f64(v float64) *float64 { return &v }

type fakeLabRepo struct {
	latest *types.LabResult
}

func (f *fakeLabRepo) GetLatest(ctx context.Context, userID string) (*types.LabResult, error) {
	return f.latest, nil
}

func (f *fakeLabRepo) SaveLatest(ctx context.Context, result *types.LabResult) (*types.LabResult, error) {
	f.latest = result
	return result, nil
}

type fakeArticleRepo struct {
	byURL   map[string]*types.Article
	created int
	lookups int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byURL: map[string]*types.Article{}}
}

func (f *fakeArticleRepo) GetBySourceURL(ctx context.Context, url string) (*types.Article, error) {
	f.lookups++
	return f.byURL[url], nil
}

func (f *fakeArticleRepo) Create(ctx context.Context, article *types.Article) (*types.Article, error) {
	f.created++
	f.byURL[article.SourceURL] = article
	return article, nil
}

func (f *fakeArticleRepo) List(ctx context.Context, limit int) ([]types.Article, error) {
	return nil, nil
}

type fakeRecRepo struct {
	replaced  [][]types.ArticleRecommendation
	replaceBy string
}

func (f *fakeRecRepo) Replace(ctx context.Context, userID string, recs []types.ArticleRecommendation) error {
	f.replaceBy = userID
	f.replaced = append(f.replaced, recs)
	return nil
}

func (f *fakeRecRepo) ListByUser(ctx context.Context, userID string) ([]types.ArticleRecommendation, error) {
	if len(f.replaced) == 0 {
		return nil, nil
	}
	return f.replaced[len(f.replaced)-1], nil
}

type fakeFeed struct {
	articles []types.RawArticle
}

func (f *fakeFeed) Search(ctx context.Context, query string, pageSize int) []types.RawArticle {
	return f.articles
}

// fakeTranslator prefixes translated text so tests can assert translation
// happened without a network call.
type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	f.calls++
	return "[id] " + text
}

type fakeSeen struct {
	seen   map[string]bool
	marked []string
}

func (f *fakeSeen) Seen(ctx context.Context, url string) (bool, error) {
	return f.seen[url], nil
}

func (f *fakeSeen) MarkSeen(ctx context.Context, url string) error {
	f.seen[url] = true
	f.marked = append(f.marked, url)
	return nil
}

func diabetesArticle(i int) types.RawArticle {
	return types.RawArticle{
		Source:      "test",
		Title:       fmt.Sprintf("Managing diabetes and blood sugar %d", i),
		Description: "insulin, glucose and hba1c explained for type 2 diabetes",
		URL:         fmt.Sprintf("https://example.com/diabetes/%d", i),
		PublishedAt: time.Now(),
	}
}

func cholesterolArticle(i int) types.RawArticle {
	return types.RawArticle{
		Source:      "test",
		Title:       fmt.Sprintf("Lowering cholesterol %d", i),
		Description: "ldl, hdl and statin basics for heart disease",
		URL:         fmt.Sprintf("https://example.com/cholesterol/%d", i),
		PublishedAt: time.Now(),
	}
}

func newTestRunner(labs *fakeLabRepo, arts *fakeArticleRepo, recs *fakeRecRepo, feed *fakeFeed, tr *fakeTranslator, seen SeenFilter) *Runner {
	return NewRunner(labs, arts, recs, feed, tr, seen, NewManager(), logger.NewNop(), Options{
		Query:      "diabetes OR cholesterol",
		PageSize:   20,
		SourceLang: "EN",
		TargetLang: "ID",
	})
}

func TestRunNoArticlesFound(t *testing.T) {
	labs := &fakeLabRepo{}
	recs := &fakeRecRepo{}
	r := newTestRunner(labs, newFakeArticleRepo(), recs, &fakeFeed{}, &fakeTranslator{}, nil)

	res, err := r.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Success {
		t.Error("expected Success=false for empty fetch")
	}
	if res.Message != "no articles found" {
		t.Errorf("Message = %q, want %q", res.Message, "no articles found")
	}
	if len(recs.replaced) != 0 {
		t.Errorf("expected no recommendation writes, got %d", len(recs.replaced))
	}
}

func TestRunDiabetesFocusRanksDiabetesFirst(t *testing.T) {
	// glucose 180 and hba1c 8.5 give a strongly diabetes-weighted focus
	labs := &fakeLabRepo{latest: &types.LabResult{
		UserID:         "user-1",
		GlucoseFasting: f64(180),
		HbA1c:          f64(8.5),
	}}
	feed := &fakeFeed{}
	for i := 0; i < 4; i++ {
		feed.articles = append(feed.articles, cholesterolArticle(i))
	}
	for i := 0; i < 4; i++ {
		feed.articles = append(feed.articles, diabetesArticle(i))
	}

	arts := newFakeArticleRepo()
	recs := &fakeRecRepo{}
	tr := &fakeTranslator{}
	r := newTestRunner(labs, arts, recs, feed, tr, nil)

	res, err := r.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.Success {
		t.Fatalf("run failed: %s", res.Message)
	}
	if res.Recommended != 8 {
		t.Errorf("Recommended = %d, want 8", res.Recommended)
	}

	rows := recs.replaced[0]
	if recs.replaceBy != "user-1" {
		t.Errorf("Replace user = %q, want user-1", recs.replaceBy)
	}
	// with diabetes focus, a diabetes article must lead the list
	first := arts.byURL[rowURL(t, arts, rows[0])]
	if !strings.Contains(first.SourceURL, "/diabetes/") {
		t.Errorf("top recommendation %q is not a diabetes article", first.SourceURL)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].PriorityScore > rows[i-1].PriorityScore {
			t.Errorf("rows not sorted descending at %d: %f > %f",
				i, rows[i].PriorityScore, rows[i-1].PriorityScore)
		}
	}
}

func rowURL(t *testing.T, arts *fakeArticleRepo, row types.ArticleRecommendation) string {
	t.Helper()
	for url, a := range arts.byURL {
		if a.ID == row.ArticleID {
			return url
		}
	}
	t.Fatalf("no stored article for recommendation %s", row.ArticleID)
	return ""
}

func TestRunTranslatesAndCachesNewArticles(t *testing.T) {
	labs := &fakeLabRepo{}
	feed := &fakeFeed{articles: []types.RawArticle{diabetesArticle(0)}}
	arts := newFakeArticleRepo()
	tr := &fakeTranslator{}
	r := newTestRunner(labs, arts, &fakeRecRepo{}, feed, tr, nil)

	if _, err := r.Run(context.Background(), "user-1"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if arts.created != 1 {
		t.Fatalf("created = %d, want 1", arts.created)
	}
	stored := arts.byURL["https://example.com/diabetes/0"]
	if !strings.HasPrefix(stored.Title, "[id] ") {
		t.Errorf("title not translated: %q", stored.Title)
	}
	if tr.calls == 0 {
		t.Error("translator was never invoked")
	}
}

func TestRunReusesCachedTranslation(t *testing.T) {
	labs := &fakeLabRepo{}
	raw := diabetesArticle(0)
	feed := &fakeFeed{articles: []types.RawArticle{raw}}
	arts := newFakeArticleRepo()
	tr := &fakeTranslator{}
	r := newTestRunner(labs, arts, &fakeRecRepo{}, feed, tr, nil)

	if _, err := r.Run(context.Background(), "user-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstCalls := tr.calls

	if _, err := r.Run(context.Background(), "user-1"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if arts.created != 1 {
		t.Errorf("created = %d, want 1 (second run should hit the cache)", arts.created)
	}
	if tr.calls != firstCalls {
		t.Errorf("translator called again on cache hit: %d -> %d", firstCalls, tr.calls)
	}
}

func TestRunServesSeenArticlesFromCache(t *testing.T) {
	labs := &fakeLabRepo{}
	feed := &fakeFeed{articles: []types.RawArticle{diabetesArticle(0), diabetesArticle(1)}}
	seen := &fakeSeen{seen: map[string]bool{"https://example.com/diabetes/0": true}}
	arts := newFakeArticleRepo()
	cached := &types.Article{
		ID:        uuid.New(),
		SourceURL: "https://example.com/diabetes/0",
		Title:     "[id] Managing diabetes and blood sugar 0",
	}
	arts.byURL[cached.SourceURL] = cached
	recs := &fakeRecRepo{}
	tr := &fakeTranslator{}
	r := newTestRunner(labs, arts, recs, feed, tr, seen)

	res, err := r.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// a previously processed article still counts toward the new set
	if res.Recommended != 2 {
		t.Errorf("Recommended = %d, want 2", res.Recommended)
	}
	if arts.created != 1 {
		t.Errorf("created = %d, want 1 (seen article comes from the cache)", arts.created)
	}
	found := false
	for _, row := range recs.replaced[0] {
		if row.ArticleID == cached.ID {
			found = true
		}
	}
	if !found {
		t.Error("cached article missing from recommendations")
	}
	if len(seen.marked) != 1 || seen.marked[0] != "https://example.com/diabetes/1" {
		t.Errorf("marked = %v, want the one new URL", seen.marked)
	}
}

func TestRunSecondRunKeepsRecommendations(t *testing.T) {
	labs := &fakeLabRepo{}
	feed := &fakeFeed{articles: []types.RawArticle{diabetesArticle(0), diabetesArticle(1)}}
	seen := &fakeSeen{seen: map[string]bool{}}
	arts := newFakeArticleRepo()
	recs := &fakeRecRepo{}
	tr := &fakeTranslator{}
	r := newTestRunner(labs, arts, recs, feed, tr, seen)

	ctx := context.Background()
	first, err := r.Run(ctx, "user-1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Recommended != 2 {
		t.Fatalf("first run Recommended = %d, want 2", first.Recommended)
	}
	firstCalls := tr.calls

	// the feed returns the same articles again, as it does on a same-day rerun
	second, err := r.Run(ctx, "user-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Recommended != 2 {
		t.Errorf("second run Recommended = %d, want 2", second.Recommended)
	}
	if got := recs.replaced[len(recs.replaced)-1]; len(got) != 2 {
		t.Errorf("stored rows after second run = %d, want 2", len(got))
	}
	if arts.created != 2 {
		t.Errorf("created = %d, want 2 (second run must reuse the cache)", arts.created)
	}
	if tr.calls != firstCalls {
		t.Errorf("translator called again for cached articles: %d -> %d", firstCalls, tr.calls)
	}
}

func TestRunSkipsCacheLookupForUnseenURLs(t *testing.T) {
	labs := &fakeLabRepo{}
	feed := &fakeFeed{articles: []types.RawArticle{diabetesArticle(0)}}
	seen := &fakeSeen{seen: map[string]bool{}}
	arts := newFakeArticleRepo()
	r := newTestRunner(labs, arts, &fakeRecRepo{}, feed, &fakeTranslator{}, seen)

	if _, err := r.Run(context.Background(), "user-1"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if arts.lookups != 0 {
		t.Errorf("lookups = %d, want 0 when the filter rules the URL out", arts.lookups)
	}
	if arts.created != 1 {
		t.Errorf("created = %d, want 1", arts.created)
	}
}

func TestRunDedupesRepeatedURLs(t *testing.T) {
	labs := &fakeLabRepo{}
	feed := &fakeFeed{articles: []types.RawArticle{diabetesArticle(0), diabetesArticle(0)}}
	arts := newFakeArticleRepo()
	r := newTestRunner(labs, arts, &fakeRecRepo{}, feed, &fakeTranslator{}, nil)

	res, err := r.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Recommended != 1 {
		t.Errorf("Recommended = %d, want 1", res.Recommended)
	}
	if arts.created != 1 {
		t.Errorf("created = %d, want 1", arts.created)
	}
}

func TestRunCapsRecommendationsAtTen(t *testing.T) {
	labs := &fakeLabRepo{}
	feed := &fakeFeed{}
	for i := 0; i < 15; i++ {
		feed.articles = append(feed.articles, diabetesArticle(i))
	}
	recs := &fakeRecRepo{}
	r := newTestRunner(labs, newFakeArticleRepo(), recs, feed, &fakeTranslator{}, nil)

	res, err := r.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Recommended != 10 {
		t.Errorf("Recommended = %d, want 10", res.Recommended)
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	r := newTestRunner(&fakeLabRepo{}, newFakeArticleRepo(), &fakeRecRepo{}, &fakeFeed{}, &fakeTranslator{}, nil)
	r.state.SetState(StateFetching)

	res, err := r.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Success {
		t.Error("expected rejection while a run is in flight")
	}
	if !strings.Contains(res.Message, "in progress") {
		t.Errorf("Message = %q, want an in-progress notice", res.Message)
	}
}

func TestManagerStatusSnapshot(t *testing.T) {
	m := NewManager()
	if m.GetState() != StateIdle {
		t.Fatalf("initial state = %s, want idle", m.GetState())
	}
	if !m.Begin() {
		t.Fatal("Begin on idle manager should succeed")
	}
	if m.Begin() {
		t.Fatal("Begin while running should fail")
	}

	m.SetFetchedCount(7)
	m.AddLog("fetched")
	m.Complete(types.RunResult{Success: true, Message: "done", Recommended: 3})

	st := m.GetStatus()
	if st.State != StateComplete {
		t.Errorf("state = %s, want complete", st.State)
	}
	if st.FetchedCount != 7 || st.RecommendedCount != 3 {
		t.Errorf("counts = %d/%d, want 7/3", st.FetchedCount, st.RecommendedCount)
	}
	if st.LastResult == nil || !st.LastResult.Success {
		t.Error("last result missing or unsuccessful")
	}
	if len(st.Logs) == 0 {
		t.Error("expected progress logs in status")
	}

	if !m.Begin() {
		t.Error("Begin after completion should succeed")
	}
}
