package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthpulse/logger"
	"healthpulse/types"
)

// RecommendationRepo manages per-user recommendation rows. A
// personalization run fully replaces a user's set; there is no incremental
// merge and no history, so readers may briefly observe an empty set while a
// replacement is in flight.
type RecommendationRepo interface {
	// Replace atomically swaps the user's recommendation rows.
	Replace(ctx context.Context, userID string, recs []types.ArticleRecommendation) error
	// ListByUser returns the user's rows with articles attached, highest
	// priority first.
	ListByUser(ctx context.Context, userID string) ([]types.ArticleRecommendation, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewRecommendationRepo builds the Postgres-backed recommendation repo.
func NewRecommendationRepo(db *gorm.DB, log *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: log.With("repo", "article_recommendations")}
}

func (r *recommendationRepo) Replace(ctx context.Context, userID string, recs []types.ArticleRecommendation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&types.ArticleRecommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		for i := range recs {
			if recs[i].ID == uuid.Nil {
				recs[i].ID = uuid.New()
			}
			recs[i].UserID = userID
		}
		return tx.Create(&recs).Error
	})
}

func (r *recommendationRepo) ListByUser(ctx context.Context, userID string) ([]types.ArticleRecommendation, error) {
	var out []types.ArticleRecommendation
	err := r.db.WithContext(ctx).
		Preload("Article").
		Where("user_id = ?", userID).
		Order("priority_score DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
