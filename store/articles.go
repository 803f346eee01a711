package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthpulse/logger"
	"healthpulse/types"
)

// ArticleRepo is the translated-article cache, keyed by source URL.
type ArticleRepo interface {
	// GetBySourceURL returns the cached article for a URL, or nil without
	// error on a miss.
	GetBySourceURL(ctx context.Context, url string) (*types.Article, error)
	// Create stores a new article. A unique-constraint collision on the
	// source URL is treated as a concurrent cache fill, not a failure: the
	// already-stored row is returned.
	Create(ctx context.Context, article *types.Article) (*types.Article, error)
	// List returns the newest cached articles, most recent first.
	List(ctx context.Context, limit int) ([]types.Article, error)
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewArticleRepo builds the Postgres-backed article cache.
func NewArticleRepo(db *gorm.DB, log *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: log.With("repo", "articles")}
}

func (r *articleRepo) GetBySourceURL(ctx context.Context, url string) (*types.Article, error) {
	var a types.Article
	err := r.db.WithContext(ctx).Where("source_url = ?", url).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) Create(ctx context.Context, article *types.Article) (*types.Article, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(article).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		r.log.Debug("article already cached", "url", article.SourceURL)
		return r.GetBySourceURL(ctx, article.SourceURL)
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (r *articleRepo) List(ctx context.Context, limit int) ([]types.Article, error) {
	var out []types.Article
	q := r.db.WithContext(ctx).Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
