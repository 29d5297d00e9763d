package job

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"teamcollab-api/internal/middleware"
	"teamcollab-api/internal/realtime"
)

// PresenceJob periodically reconciles derived presence state: it refreshes
// the online-users gauge from the registry and prunes Redis presence entries
// this instance owns but no longer backs with a live connection (left behind
// by a crashed connection teardown).
type PresenceJob struct {
	hub    *realtime.Hub
	redis  *redis.Client
	logger *zap.Logger
}

func NewPresenceJob(hub *realtime.Hub, redisClient *redis.Client, logger *zap.Logger) *PresenceJob {
	return &PresenceJob{
		hub:    hub,
		redis:  redisClient,
		logger: logger,
	}
}

// Run implements cron.Job.
func (j *PresenceJob) Run() {
	online := j.hub.OnlineUsers()
	middleware.SetOnlineUsers(float64(len(online)))

	if j.redis == nil {
		return
	}

	connected := make(map[uint]bool, len(online))
	for _, userID := range online {
		connected[userID] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pruned := 0
	iter := j.redis.Scan(ctx, 0, realtime.PresenceKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID, ok := parsePresenceKey(key)
		if !ok || connected[userID] {
			continue
		}

		owner, err := j.redis.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		if owner != j.hub.InstanceID() {
			// another instance's entry, leave it alone
			continue
		}
		if err := j.redis.Del(ctx, key).Err(); err != nil {
			j.logger.Warn("failed to prune presence key", zap.String("key", key), zap.Error(err))
			continue
		}
		pruned++
	}
	if err := iter.Err(); err != nil {
		j.logger.Warn("presence key scan failed", zap.Error(err))
	}

	if pruned > 0 {
		j.logger.Info("pruned stale presence entries", zap.Int("count", pruned))
	}
}

func parsePresenceKey(key string) (uint, bool) {
	idx := strings.LastIndex(key, ":")
	if idx < 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(key[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
