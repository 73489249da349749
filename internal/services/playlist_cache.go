package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/models"
)

// PlaylistCache keeps each user's most recent generated playlist in redis so
// the history screen does not have to rescan the archive directory. Cache
// failures are logged and otherwise ignored; the archive stays the source of
// truth.
type PlaylistCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPlaylistCache(redisClient *redis.Client, ttl time.Duration) *PlaylistCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PlaylistCache{redis: redisClient, ttl: ttl}
}

func (c *PlaylistCache) key(userID uint) string {
	return fmt.Sprintf("playlist:latest:%d", userID)
}

// SetLatest stores the playlist generated by a capture event.
func (c *PlaylistCache) SetLatest(ctx context.Context, userID uint, playlist *models.Playlist) {
	data, err := json.Marshal(playlist)
	if err != nil {
		logger.Warn("failed to serialize playlist for cache", logger.ErrorField(err))
		return
	}
	if err := c.redis.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		logger.Warn("failed to cache latest playlist", logger.Int("user_id", int(userID)), logger.ErrorField(err))
	}
}

// GetLatest returns the cached playlist for a user, if any.
func (c *PlaylistCache) GetLatest(ctx context.Context, userID uint) (*models.Playlist, bool) {
	data, err := c.redis.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("failed to read latest playlist from cache", logger.Int("user_id", int(userID)), logger.ErrorField(err))
		return nil, false
	}

	var playlist models.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		logger.Warn("corrupt playlist cache entry", logger.Int("user_id", int(userID)), logger.ErrorField(err))
		return nil, false
	}
	return &playlist, true
}
