package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alareon123/spina-bot/internal/domain"
	"github.com/alareon123/spina-bot/internal/store"
)

// Catalog manages the single media item attached to each pain level.
type Catalog struct {
	repo store.Repo
	now  func() time.Time
}

func NewCatalog(repo store.Repo) *Catalog {
	return &Catalog{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Upsert fully replaces whatever is stored at item.PainLevel.
func (c *Catalog) Upsert(ctx context.Context, item *domain.MediaItem) error {
	if item == nil {
		return errors.New("nil media item")
	}
	if !domain.ValidPainLevel(item.PainLevel) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidLevel, item.PainLevel)
	}
	if !item.Kind.Valid() {
		return fmt.Errorf("unsupported media kind %q", item.Kind)
	}
	if item.FileID == "" {
		return errors.New("empty file id")
	}
	item.CreatedAt = c.now()
	return c.repo.ReplaceMedia(ctx, item)
}

// Get returns the item for level or domain.ErrNotFound.
func (c *Catalog) Get(ctx context.Context, level int) (*domain.MediaItem, error) {
	if !domain.ValidPainLevel(level) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	return c.repo.GetMedia(ctx, level)
}

// Delete removes the item at level. It reports false when nothing was there.
func (c *Catalog) Delete(ctx context.Context, level int) (bool, error) {
	if !domain.ValidPainLevel(level) {
		return false, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	return c.repo.DeleteMedia(ctx, level)
}

// List returns configured items ordered by level.
func (c *Catalog) List(ctx context.Context) ([]domain.MediaItem, error) {
	return c.repo.ListMedia(ctx)
}

// ByLevel returns configured items keyed by pain level.
func (c *Catalog) ByLevel(ctx context.Context) (map[int]domain.MediaItem, error) {
	items, err := c.repo.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[int]domain.MediaItem, len(items))
	for _, it := range items {
		m[it.PainLevel] = it
	}
	return m, nil
}

// SetTitle patches the title in place; false when no item exists.
func (c *Catalog) SetTitle(ctx context.Context, level int, title string) (bool, error) {
	if !domain.ValidPainLevel(level) {
		return false, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	return c.repo.UpdateMediaTitle(ctx, level, title)
}

// SetDescription patches the description in place; false when no item exists.
func (c *Catalog) SetDescription(ctx context.Context, level int, description string) (bool, error) {
	if !domain.ValidPainLevel(level) {
		return false, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	return c.repo.UpdateMediaDescription(ctx, level, description)
}
