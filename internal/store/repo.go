package store

import (
	"context"
	"time"

	"github.com/alareon123/spina-bot/internal/domain"
)

// Repo defines storage operations for users, media, settings and responses.
// Lookups of a single missing record return domain.ErrNotFound.
type Repo interface {
	// Users
	RegisterUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
	SetActive(ctx context.Context, telegramID int64, active bool) (bool, error)
	DeactivateUsers(ctx context.Context, telegramIDs []int64) error
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
	ListUsers(ctx context.Context, limit int) ([]domain.User, error)
	CountUsers(ctx context.Context) (total, active int, err error)

	// Responses
	RecordResponse(ctx context.Context, telegramID int64, rating int, at time.Time) error
	ListResponses(ctx context.Context, telegramID int64) ([]domain.Response, error)
	CountResponses(ctx context.Context) (int, error)
	CountRatingsSince(ctx context.Context, since time.Time) (map[int]int, error)

	// Media
	GetMedia(ctx context.Context, level int) (*domain.MediaItem, error)
	ListMedia(ctx context.Context) ([]domain.MediaItem, error)
	ReplaceMedia(ctx context.Context, item *domain.MediaItem) error
	DeleteMedia(ctx context.Context, level int) (bool, error)
	UpdateMediaTitle(ctx context.Context, level int, title string) (bool, error)
	UpdateMediaDescription(ctx context.Context, level int, description string) (bool, error)

	// Settings
	GetSetting(ctx context.Context, name string) (*domain.Setting, error)
	SetSetting(ctx context.Context, s domain.Setting) error
	ListSettings(ctx context.Context) ([]domain.Setting, error)

	Ping(ctx context.Context) error
	Close() error
}
