package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
	"github.com/alareon123/spina-bot/internal/store"
)

// Intake records pain ratings and resolves the clip to send back.
type Intake struct {
	repo store.Repo
	log  *zap.Logger
	now  func() time.Time
}

func NewIntake(repo store.Repo, log *zap.Logger) *Intake {
	return &Intake{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Submit stores the rating and returns the media configured for it.
// A nil item with a nil error means no media is configured for the level.
func (i *Intake) Submit(ctx context.Context, userID int64, rating int) (*domain.MediaItem, error) {
	if !domain.ValidPainLevel(rating) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidRating, rating)
	}
	if err := i.repo.RecordResponse(ctx, userID, rating, i.now()); err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	item, err := i.repo.GetMedia(ctx, rating)
	if errors.Is(err, domain.ErrNotFound) {
		i.log.Warn("no media configured for pain level",
			zap.Int("level", rating),
			zap.Int64("userID", userID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup media: %w", err)
	}
	return item, nil
}
