// Package store is the persistence layer: Postgres (gorm) for lab
// snapshots, cached articles, and recommendation rows, plus a Redis bloom
// filter of already-seen article URLs.
package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"healthpulse/logger"
	"healthpulse/types"
)

// Open connects to Postgres and migrates the pipeline tables.
func Open(dsn string, log *logger.Logger) (*gorm.DB, error) {
	log.Info("connecting to postgres")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&types.LabResult{},
		&types.Article{},
		&types.ArticleRecommendation{},
	); err != nil {
		return nil, fmt.Errorf("auto migration failed: %w", err)
	}
	return db, nil
}
