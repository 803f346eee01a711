package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthpulse/logger"
	"healthpulse/types"
)

// LabResultRepo persists lab snapshots with the single-active-snapshot
// policy: a user's newest row is updated in place by SaveLatest rather than
// a new row inserted every upload. This matches the data the mobile app's
// dashboard was built against and is a product decision, not an accident.
type LabResultRepo interface {
	// GetLatest returns the user's most recent snapshot, or nil without
	// error when they have none.
	GetLatest(ctx context.Context, userID string) (*types.LabResult, error)
	// SaveLatest upserts the snapshot into the user's most recent row and
	// returns the stored record.
	SaveLatest(ctx context.Context, result *types.LabResult) (*types.LabResult, error)
}

type labResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewLabResultRepo builds the Postgres-backed lab snapshot repo.
func NewLabResultRepo(db *gorm.DB, log *logger.Logger) LabResultRepo {
	return &labResultRepo{db: db, log: log.With("repo", "lab_results")}
}

func (r *labResultRepo) GetLatest(ctx context.Context, userID string) (*types.LabResult, error) {
	var result types.LabResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *labResultRepo) SaveLatest(ctx context.Context, result *types.LabResult) (*types.LabResult, error) {
	existing, err := r.GetLatest(ctx, result.UserID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if result.ID == uuid.Nil {
			result.ID = uuid.New()
		}
		if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
			return nil, err
		}
		r.log.Info("lab snapshot created", "user", result.UserID, "id", result.ID)
		return result, nil
	}

	// Keep the row identity and creation time; everything else is replaced.
	result.ID = existing.ID
	result.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(result).Error; err != nil {
		return nil, err
	}
	r.log.Info("lab snapshot updated", "user", result.UserID, "id", result.ID)
	return result, nil
}
