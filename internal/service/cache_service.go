package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

const scheduleViewKeyPrefix = "schedule-view"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches resolved schedule detail views and drops them when the
// underlying appointment or schedule changes.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// ScheduleViewKey builds the cache key of a schedule detail view. Schedules
// without a linked appointment use "none" in the appointment segment.
func ScheduleViewKey(serviceID, appointmentID string, kind models.ScheduleKind, scheduleID string) string {
	if appointmentID == "" {
		appointmentID = "none"
	}
	return fmt.Sprintf("%s:svc:%s:appt:%s:%s:%s", scheduleViewKeyPrefix, serviceID, appointmentID, kind, scheduleID)
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.repo.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// InvalidateAppointment drops every view that embeds the given appointment.
func (s *CacheService) InvalidateAppointment(ctx context.Context, appointmentID string) {
	if appointmentID == "" {
		return
	}
	s.invalidate(ctx, fmt.Sprintf("%s:svc:*:appt:%s:*", scheduleViewKeyPrefix, appointmentID))
}

// InvalidateSchedule drops the cached view of one schedule.
func (s *CacheService) InvalidateSchedule(ctx context.Context, kind models.ScheduleKind, scheduleID string) {
	s.invalidate(ctx, fmt.Sprintf("%s:svc:*:appt:*:%s:%s", scheduleViewKeyPrefix, kind, scheduleID))
}

// InvalidateService drops every view that embeds the given service offering.
func (s *CacheService) InvalidateService(ctx context.Context, serviceID string) {
	if serviceID == "" {
		return
	}
	s.invalidate(ctx, fmt.Sprintf("%s:svc:%s:*", scheduleViewKeyPrefix, serviceID))
}

// Invalidation failures are logged only; a stale entry expires with its TTL.
func (s *CacheService) invalidate(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
