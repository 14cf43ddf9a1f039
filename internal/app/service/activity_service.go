package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
)

// ActivityEntry is a recent change decorated for display.
type ActivityEntry struct {
	domain.RecentChange
	Category domain.ChangeCategory `json:"category"`
	Age      string                `json:"age"`
}

// ActivityService serves the recent-changes feed.
type ActivityService struct {
	catalog      domain.Catalog
	defaultLimit int
	logger       *zap.Logger
	now          func() time.Time
}

// NewActivityService creates a new ActivityService. defaultLimit is used
// when callers pass a non-positive limit.
func NewActivityService(catalog domain.Catalog, defaultLimit int, logger *zap.Logger) *ActivityService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultRecentChanges
	}

	return &ActivityService{
		catalog:      catalog,
		defaultLimit: domain.ClampInt(defaultLimit, domain.MinRecentChanges, domain.MaxRecentChanges),
		logger:       logger,
		now:          time.Now,
	}
}

// Recent returns up to limit recent changes, clamped to [1, 50].
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = domain.ClampInt(limit, domain.MinRecentChanges, domain.MaxRecentChanges)

	changes, err := s.catalog.RecentChanges(ctx, limit)
	if err != nil {
		s.logger.Warn("recent changes failed", zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}

	now := s.now()
	entries := make([]ActivityEntry, 0, len(changes))
	for _, c := range changes {
		entry := ActivityEntry{
			RecentChange: c,
			Category:     domain.CategorizeChange(c.Kind),
		}
		if !c.Timestamp.IsZero() {
			entry.Age = domain.RelativeTime(c.Timestamp, now)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Ping verifies the catalog is reachable.
func (s *ActivityService) Ping(ctx context.Context) error {
	return s.catalog.HealthCheck(ctx)
}
