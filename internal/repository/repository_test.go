package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gentlyventures/harboragent/internal/client"
	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := client.InitDBClient(config.Database{
		Driver: "sqlite",
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestWebhookEventRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookEventRepository(newTestDB(t))

	exists, err := repo.Exists(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.MarkProcessed(ctx, "evt_1", "checkout.session.completed", "cs_1"))
	require.NoError(t, repo.MarkProcessed(ctx, "evt_1", "checkout.session.completed", "cs_1"))

	exists, err = repo.Exists(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDownloadRepositoryRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewDownloadRepository(newTestDB(t))

	require.NoError(t, repo.Record(ctx, "cs_1", "buyer@example.com"))
	require.NoError(t, repo.Record(ctx, "cs_1", "buyer@example.com"))
	require.NoError(t, repo.Record(ctx, "cs_2", "other@example.com"))

	rec, err := repo.Get(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.DownloadCount)
	assert.Equal(t, "buyer@example.com", rec.Email)
	assert.False(t, rec.LastDownloadedAt.IsZero())

	rec, err = repo.Get(ctx, "cs_2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.DownloadCount)
}

func TestDownloadRepositoryGetMissing(t *testing.T) {
	_, err := NewDownloadRepository(newTestDB(t)).Get(context.Background(), "cs_none")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
