package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alareon123/spina-bot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLRepo {
	t.Helper()
	repo, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.db")
	ctx := context.Background()

	repo, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = Open(ctx, path)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Ping(ctx))
}

func TestRegisterUser_InsertThenRefresh(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	created := time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RegisterUser(ctx, &domain.User{
		TelegramID: 42, Username: "ann", FirstName: "Ann", IsActive: true, CreatedAt: created,
	}))
	_, err := repo.SetActive(ctx, 42, false)
	require.NoError(t, err)

	require.NoError(t, repo.RegisterUser(ctx, &domain.User{
		TelegramID: 42, Username: "ann2", FirstName: "Anna", LastName: "Lee", IsActive: true,
		CreatedAt: created.Add(time.Hour),
	}))

	u, err := repo.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "ann2", u.Username)
	assert.Equal(t, "Anna", u.FirstName)
	assert.Equal(t, "Lee", u.LastName)
	assert.True(t, u.IsActive)
	assert.True(t, u.CreatedAt.Equal(created), "created_at must not move")
	assert.Nil(t, u.LastPainRating)
	assert.Nil(t, u.LastRatingDate)
}

func TestGetUser_NotFound(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetUser(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := repo.SetActive(context.Background(), 1, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordResponse_AppendsAndSnapshots(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.RegisterUser(ctx, &domain.User{TelegramID: 5, IsActive: true}))

	at := time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.RecordResponse(ctx, 5, 2, at))
	require.NoError(t, repo.RecordResponse(ctx, 5, 4, at.Add(time.Minute)))

	u, err := repo.GetUser(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, u.LastPainRating)
	assert.Equal(t, 4, *u.LastPainRating)
	require.NotNil(t, u.LastRatingDate)
	assert.True(t, u.LastRatingDate.Equal(at.Add(time.Minute)))

	rs, err := repo.ListResponses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, 2, rs[0].PainRating)
	assert.Equal(t, 4, rs[1].PainRating)

	n, err := repo.CountResponses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecordResponse_UnknownUserIsCreated(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	at := time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.RecordResponse(ctx, 77, 3, at))

	u, err := repo.GetUser(ctx, 77)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.LastPainRating)
	assert.Equal(t, 3, *u.LastPainRating)
}

func TestCountRatingsSince(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordResponse(ctx, 1, 5, now.AddDate(0, 0, -40)))
	require.NoError(t, repo.RecordResponse(ctx, 1, 5, now.AddDate(0, 0, -2)))
	require.NoError(t, repo.RecordResponse(ctx, 2, 1, now))

	counts, err := repo.CountRatingsSince(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 0, 4: 0, 5: 1}, counts)
}

func TestUsers_ActiveListingAndDeactivation(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	for i, id := range []int64{10, 20, 30} {
		require.NoError(t, repo.RegisterUser(ctx, &domain.User{
			TelegramID: id, IsActive: true,
			CreatedAt: time.Date(2025, time.January, 1+i, 0, 0, 0, 0, time.UTC),
		}))
	}

	require.NoError(t, repo.DeactivateUsers(ctx, []int64{10, 30}))
	require.NoError(t, repo.DeactivateUsers(ctx, nil))

	active, err := repo.ListActiveUsers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(20), active[0].TelegramID)

	total, act, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, act)

	recent, err := repo.ListUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(30), recent[0].TelegramID)
	assert.Equal(t, int64(20), recent[1].TelegramID)
}

func TestCountUsers_Empty(t *testing.T) {
	repo := openTestRepo(t)
	total, active, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, active)
}

func TestReplaceMedia_KeepsOnePerLevel(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	first := &domain.MediaItem{PainLevel: 3, Kind: domain.MediaAudio, FileID: "a1", Title: "Old", CreatedBy: 1}
	require.NoError(t, repo.ReplaceMedia(ctx, first))
	assert.NotZero(t, first.ID)

	second := &domain.MediaItem{
		PainLevel: 3, Kind: domain.MediaVideo, FileID: "v2", Description: "Stretch", DurationSec: 90, CreatedBy: 2,
	}
	require.NoError(t, repo.ReplaceMedia(ctx, second))

	items, err := repo.ListMedia(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, domain.MediaVideo, got.Kind)
	assert.Equal(t, "v2", got.FileID)
	assert.Empty(t, got.Title, "replace is not a patch")
	assert.Equal(t, "Stretch", got.Description)
	assert.Equal(t, 90, got.DurationSec)
	assert.Equal(t, int64(2), got.CreatedBy)
}

func TestMedia_PatchGetDelete(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	ok, err := repo.UpdateMediaTitle(ctx, 1, "x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.ReplaceMedia(ctx, &domain.MediaItem{PainLevel: 1, Kind: domain.MediaVoice, FileID: "f", CreatedBy: 1}))

	ok, err = repo.UpdateMediaTitle(ctx, 1, "Morning")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.UpdateMediaDescription(ctx, 1, "Gentle warm-up")
	require.NoError(t, err)
	assert.True(t, ok)

	m, err := repo.GetMedia(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Morning", m.Title)
	assert.Equal(t, "Gentle warm-up", m.Description)
	assert.Equal(t, "f", m.FileID)

	ok, err = repo.DeleteMedia(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.DeleteMedia(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetMedia(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettings_Upsert(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetSetting(ctx, domain.SettingReminderHour)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	t1 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetSetting(ctx, domain.Setting{Name: domain.SettingReminderHour, Value: "9", UpdatedBy: 1, UpdatedAt: t1}))
	require.NoError(t, repo.SetSetting(ctx, domain.Setting{Name: domain.SettingReminderHour, Value: "11", UpdatedBy: 2, UpdatedAt: t1.Add(time.Hour)}))

	s, err := repo.GetSetting(ctx, domain.SettingReminderHour)
	require.NoError(t, err)
	assert.Equal(t, "11", s.Value)
	assert.Equal(t, int64(2), s.UpdatedBy)
	assert.True(t, s.UpdatedAt.Equal(t1.Add(time.Hour)))

	all, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
