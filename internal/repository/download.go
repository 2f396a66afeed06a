package repository

import (
	"context"
	"time"

	"github.com/gentlyventures/harboragent/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DownloadRepository interface {
	Record(ctx context.Context, sessionID, email string) error
	Get(ctx context.Context, sessionID string) (*model.DownloadRecord, error)
}

type downloadRepoImpl struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepoImpl{
		db: db,
	}
}

func (r *downloadRepoImpl) Record(ctx context.Context, sessionID, email string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"download_count":     gorm.Expr("download_records.download_count + ?", 1),
			"email":              email,
			"last_downloaded_at": now,
			"updated_at":         now,
		}),
	}).Create(&model.DownloadRecord{
		SessionID:        sessionID,
		Email:            email,
		DownloadCount:    1,
		LastDownloadedAt: now,
	}).Error
}

func (r *downloadRepoImpl) Get(ctx context.Context, sessionID string) (*model.DownloadRecord, error) {
	var record model.DownloadRecord

	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}
