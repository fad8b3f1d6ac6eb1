package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
	"github.com/alareon123/spina-bot/internal/store"
)

// Configurer installs or removes the daily reminder job.
// scheduler.Scheduler implements it.
type Configurer interface {
	Configure(hour, minute int, enabled bool)
}

// Settings wraps the key/value store and keeps the scheduler in sync with
// administrator changes to the reminder settings.
type Settings struct {
	repo  store.Repo
	sched Configurer
	log   *zap.Logger
	now   func() time.Time
}

func NewSettings(repo store.Repo, sched Configurer, log *zap.Logger) *Settings {
	return &Settings{repo: repo, sched: sched, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns a raw setting value; ok is false when the key is absent.
func (s *Settings) Get(ctx context.Context, name string) (string, bool, error) {
	st, err := s.repo.GetSetting(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return st.Value, true, nil
}

// Set upserts a setting without validating its value.
func (s *Settings) Set(ctx context.Context, name, value string, editor int64) error {
	return s.repo.SetSetting(ctx, domain.Setting{
		Name:      name,
		Value:     value,
		UpdatedBy: editor,
		UpdatedAt: s.now(),
	})
}

// Reminder returns the reminder settings, substituting defaults per key.
func (s *Settings) Reminder(ctx context.Context) (domain.ReminderSettings, error) {
	rs := domain.DefaultReminderSettings()

	if v, ok, err := s.Get(ctx, domain.SettingReminderHour); err != nil {
		return rs, fmt.Errorf("read %s: %w", domain.SettingReminderHour, err)
	} else if ok {
		rs.Hour = domain.ParseHour(v)
	}
	if v, ok, err := s.Get(ctx, domain.SettingReminderMinute); err != nil {
		return rs, fmt.Errorf("read %s: %w", domain.SettingReminderMinute, err)
	} else if ok {
		rs.Minute = domain.ParseMinute(v)
	}
	if v, ok, err := s.Get(ctx, domain.SettingReminderEnabled); err != nil {
		return rs, fmt.Errorf("read %s: %w", domain.SettingReminderEnabled, err)
	} else if ok {
		rs.Enabled = domain.ParseEnabled(v)
	}
	return rs, nil
}

// SetReminderTime persists a new fire time and reconfigures the scheduler.
func (s *Settings) SetReminderTime(ctx context.Context, hour, minute int, editor int64) (domain.ReminderSettings, error) {
	if err := domain.ValidateClock(hour, minute); err != nil {
		return domain.ReminderSettings{}, err
	}
	if err := s.Set(ctx, domain.SettingReminderHour, strconv.Itoa(hour), editor); err != nil {
		return domain.ReminderSettings{}, fmt.Errorf("save hour: %w", err)
	}
	if err := s.Set(ctx, domain.SettingReminderMinute, strconv.Itoa(minute), editor); err != nil {
		return domain.ReminderSettings{}, fmt.Errorf("save minute: %w", err)
	}
	rs, err := s.Reminder(ctx)
	if err != nil {
		return rs, err
	}
	s.sched.Configure(rs.Hour, rs.Minute, rs.Enabled)
	s.log.Info("reminder time changed",
		zap.String("time", rs.Clock()),
		zap.Bool("enabled", rs.Enabled),
		zap.Int64("by", editor),
	)
	return rs, nil
}

// ToggleReminders flips the global enabled flag and reconfigures the scheduler.
func (s *Settings) ToggleReminders(ctx context.Context, editor int64) (domain.ReminderSettings, error) {
	rs, err := s.Reminder(ctx)
	if err != nil {
		return rs, err
	}
	rs.Enabled = !rs.Enabled
	if err := s.Set(ctx, domain.SettingReminderEnabled, domain.FormatEnabled(rs.Enabled), editor); err != nil {
		return rs, fmt.Errorf("save enabled: %w", err)
	}
	s.sched.Configure(rs.Hour, rs.Minute, rs.Enabled)
	s.log.Info("reminders toggled",
		zap.String("time", rs.Clock()),
		zap.Bool("enabled", rs.Enabled),
		zap.Int64("by", editor),
	)
	return rs, nil
}

// ApplySchedule configures the scheduler from whatever is persisted.
func (s *Settings) ApplySchedule(ctx context.Context) (domain.ReminderSettings, error) {
	rs, err := s.Reminder(ctx)
	if err != nil {
		return rs, err
	}
	s.sched.Configure(rs.Hour, rs.Minute, rs.Enabled)
	return rs, nil
}
