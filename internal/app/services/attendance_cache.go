package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/examdesk/examdesk/internal/app/models/dto"
	"github.com/examdesk/examdesk/internal/db"
	"github.com/examdesk/examdesk/internal/pkg/logger"
)

// AttendanceCache holds attendance reports for a few seconds so repeated
// polling during a sign-off round does not rescan the whole exam.
// Every method degrades to a no-op or a miss when redis is unreachable.
type AttendanceCache interface {
	Get(ctx context.Context, examID int64) ([]dto.AttendanceCheckDTO, bool)
	Set(ctx context.Context, examID int64, report []dto.AttendanceCheckDTO)
	Invalidate(ctx context.Context, examID int64)
}

type redisAttendanceCache struct {
	redis *db.RedisClient
	ttl   time.Duration
}

// NewAttendanceCache creates a redis-backed attendance report cache
func NewAttendanceCache(redis *db.RedisClient, ttl time.Duration) AttendanceCache {
	return &redisAttendanceCache{redis: redis, ttl: ttl}
}

func attendanceKey(examID int64) string {
	return fmt.Sprintf("attendance:exam:%d", examID)
}

func (c *redisAttendanceCache) Get(ctx context.Context, examID int64) ([]dto.AttendanceCheckDTO, bool) {
	if c.redis == nil || c.redis.Client == nil {
		return nil, false
	}

	payload, err := c.redis.Client.Get(ctx, attendanceKey(examID)).Bytes()
	if err != nil {
		return nil, false
	}

	var report []dto.AttendanceCheckDTO
	if err := json.Unmarshal(payload, &report); err != nil {
		logger.Warn().Err(err).Int64("examId", examID).Msg("Discarding unreadable cached attendance report")
		return nil, false
	}
	return report, true
}

func (c *redisAttendanceCache) Set(ctx context.Context, examID int64, report []dto.AttendanceCheckDTO) {
	if c.redis == nil || c.redis.Client == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return
	}

	if err := c.redis.Client.Set(ctx, attendanceKey(examID), payload, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Int64("examId", examID).Msg("Failed to cache attendance report")
	}
}

func (c *redisAttendanceCache) Invalidate(ctx context.Context, examID int64) {
	if c.redis == nil || c.redis.Client == nil {
		return
	}

	if err := c.redis.Client.Del(ctx, attendanceKey(examID)).Err(); err != nil {
		logger.Warn().Err(err).Int64("examId", examID).Msg("Failed to invalidate attendance report cache")
	}
}
