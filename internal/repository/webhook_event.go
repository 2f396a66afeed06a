package repository

import (
	"context"
	"time"

	"github.com/gentlyventures/harboragent/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	Exists(ctx context.Context, stripeEventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType, sessionID string) error
}

type webhookEventRepositoryIml struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryIml{db: db}
}

func (r *webhookEventRepositoryIml) Exists(ctx context.Context, stripeEventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("event_id = ?", stripeEventID).
		Count(&count).Error

	return count > 0, err
}

// MarkProcessed is idempotent; marking the same event twice is not an error.
func (r *webhookEventRepositoryIml) MarkProcessed(ctx context.Context, eventID, eventType, sessionID string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		SessionID:   sessionID,
		ProcessedAt: time.Now(),
	}).Error
}
