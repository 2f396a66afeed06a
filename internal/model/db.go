package model

import "time"

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;uniqueIndex;not null"` // stripe event id
	EventType   string `gorm:"size:64;index"`
	SessionID   string `gorm:"size:128;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

// DownloadRecord counts personalized archives served per checkout session.
type DownloadRecord struct {
	SessionID        string `gorm:"primaryKey;size:128;not null"`
	Email            string `gorm:"size:255"`
	DownloadCount    int64  `gorm:"not null;default:0"`
	LastDownloadedAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
