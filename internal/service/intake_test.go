package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alareon123/spina-bot/internal/domain"
)

func TestIntake_SubmitEveryRating(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	in := NewIntake(repo, zap.NewNop())
	in.now = func() time.Time { return fixedNow }

	require.NoError(t, repo.RegisterUser(ctx, &domain.User{TelegramID: 1, IsActive: true}))

	for r := domain.MinPainLevel; r <= domain.MaxPainLevel; r++ {
		_, err := in.Submit(ctx, 1, r)
		require.NoError(t, err)

		u, err := repo.GetUser(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, u.LastPainRating)
		assert.Equal(t, r, *u.LastPainRating)
		require.NotNil(t, u.LastRatingDate)
		assert.True(t, u.LastRatingDate.Equal(fixedNow))
	}

	rs, err := repo.ListResponses(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rs, 5)
}

func TestIntake_ReturnsConfiguredMedia(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceMedia(ctx, &domain.MediaItem{
		PainLevel: 2, Kind: domain.MediaAudio, FileID: "clip-2", Description: "Easy stretch", CreatedBy: 9,
	}))

	item, err := NewIntake(repo, zap.NewNop()).Submit(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "clip-2", item.FileID)
}

func TestIntake_MissingMediaIsNotAnError(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)

	item, err := NewIntake(repo, zap.New(core)).Submit(ctx, 1, 3)
	require.NoError(t, err)
	assert.Nil(t, item)

	entries := logs.FilterMessage("no media configured for pain level").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["level"])

	rs, err := repo.ListResponses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rs, 1, "response row is written even without media")
	assert.Equal(t, 3, rs[0].PainRating)
}

func TestIntake_RejectsOutOfRange(t *testing.T) {
	repo := openRepo(t)
	in := NewIntake(repo, zap.NewNop())
	for _, r := range []int{0, 6, -2} {
		_, err := in.Submit(context.Background(), 1, r)
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}
	n, err := repo.CountResponses(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIntake_PersistenceFailureSurfaces(t *testing.T) {
	repo := openRepo(t)
	require.NoError(t, repo.Close())

	_, err := NewIntake(repo, zap.NewNop()).Submit(context.Background(), 1, 1)
	assert.Error(t, err)
}
