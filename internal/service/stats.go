package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alareon123/spina-bot/internal/domain"
	"github.com/alareon123/spina-bot/internal/store"
)

// Windows used by the statistics screens.
const (
	UserRecentWindow  = 7 * 24 * time.Hour
	AdminRecentWindow = 30 * 24 * time.Hour
)

// Stats computes per-user and aggregate statistics from the response log.
type Stats struct {
	repo store.Repo
	now  func() time.Time
}

func NewStats(repo store.Repo) *Stats {
	return &Stats{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// ForUser returns the user's statistics or domain.ErrNotFound when the user
// never registered.
func (s *Stats) ForUser(ctx context.Context, userID int64) (domain.UserStats, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	responses, err := s.repo.ListResponses(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("list responses: %w", err)
	}
	return domain.ComputeUserStats(*u, responses, s.now().Add(-UserRecentWindow)), nil
}

// Overview returns the administrator's aggregate counters.
func (s *Stats) Overview(ctx context.Context) (domain.Overview, error) {
	var ov domain.Overview
	var err error
	if ov.TotalUsers, ov.ActiveUsers, err = s.repo.CountUsers(ctx); err != nil {
		return ov, fmt.Errorf("count users: %w", err)
	}
	if ov.TotalResponses, err = s.repo.CountResponses(ctx); err != nil {
		return ov, fmt.Errorf("count responses: %w", err)
	}
	if ov.RecentCounts, err = s.repo.CountRatingsSince(ctx, s.now().Add(-AdminRecentWindow)); err != nil {
		return ov, fmt.Errorf("count ratings: %w", err)
	}
	return ov, nil
}
