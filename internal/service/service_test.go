package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alareon123/spina-bot/internal/store"
)

var fixedNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

func openRepo(t *testing.T) *store.SQLRepo {
	t.Helper()
	repo, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

type configureCall struct {
	Hour, Minute int
	Enabled      bool
}

type fakeConfigurer struct{ calls []configureCall }

func (f *fakeConfigurer) Configure(hour, minute int, enabled bool) {
	f.calls = append(f.calls, configureCall{hour, minute, enabled})
}

func (f *fakeConfigurer) last() configureCall {
	return f.calls[len(f.calls)-1]
}
