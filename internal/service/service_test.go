package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"proxy_manager/internal/db"
	"proxy_manager/internal/domain"
	"proxy_manager/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

// flakyCache fails the operations whose flag is set
type flakyCache struct {
	*utils.MemoryCache
	failGet    bool
	failSet    bool
	failDelete bool
}

var errCacheDown = errors.New("cache down")

func newFlakyCache() *flakyCache {
	return &flakyCache{MemoryCache: utils.NewMemoryCache()}
}

func (c *flakyCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.failGet {
		return "", false, errCacheDown
	}
	return c.MemoryCache.Get(ctx, key)
}

func (c *flakyCache) Set(ctx context.Context, key, value string) error {
	if c.failSet {
		return errCacheDown
	}
	return c.MemoryCache.Set(ctx, key, value)
}

func (c *flakyCache) Delete(ctx context.Context, key string) error {
	if c.failDelete {
		return errCacheDown
	}
	return c.MemoryCache.Delete(ctx, key)
}

// recordingCerts counts certificate removals and can be told to fail them
type recordingCerts struct {
	*SslService
	removed []uint
	fail    bool
}

func (r *recordingCerts) RemoveCertificate(ctx context.Context, tx *gorm.DB, sslID uint) error {
	if r.fail {
		return errors.New("certificate backend unavailable")
	}
	r.removed = append(r.removed, sslID)
	return r.SslService.RemoveCertificate(ctx, tx, sslID)
}

func seedUser(t *testing.T, conn *gorm.DB, userID string, locked bool) {
	t.Helper()
	require.NoError(t, conn.Create(&domain.User{UserID: userID, Name: userID, Gender: domain.GenderUnknown}).Error)
	if locked {
		require.NoError(t, conn.Model(&domain.User{}).Where("user_id = ?", userID).Update("is_locked", true).Error)
	}
}
