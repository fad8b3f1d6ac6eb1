package domain

import (
	"strconv"
	"time"
)

// Known setting keys.
const (
	SettingReminderHour    = "reminder_hour"
	SettingReminderMinute  = "reminder_minute"
	SettingReminderEnabled = "reminder_enabled"
)

// Defaults used whenever a setting row is absent or unparsable.
const (
	DefaultReminderHour    = 10
	DefaultReminderMinute  = 0
	DefaultReminderEnabled = true
)

// Setting is a named string value with edit provenance.
type Setting struct {
	Name      string
	Value     string
	UpdatedBy int64
	UpdatedAt time.Time // UTC
}

// ReminderSettings is the parsed view of the three reminder keys.
type ReminderSettings struct {
	Hour    int
	Minute  int
	Enabled bool
}

func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		Hour:    DefaultReminderHour,
		Minute:  DefaultReminderMinute,
		Enabled: DefaultReminderEnabled,
	}
}

// Clock formats the fire time as HH:MM.
func (s ReminderSettings) Clock() string {
	return FormatClock(s.Hour, s.Minute)
}

// ParseHour returns the stored hour or the default when raw is not 0..23.
func ParseHour(raw string) int {
	h, err := strconv.Atoi(raw)
	if err != nil || h < 0 || h > 23 {
		return DefaultReminderHour
	}
	return h
}

// ParseMinute returns the stored minute or the default when raw is not 0..59.
func ParseMinute(raw string) int {
	m, err := strconv.Atoi(raw)
	if err != nil || m < 0 || m > 59 {
		return DefaultReminderMinute
	}
	return m
}

// ParseEnabled treats only the literal "true" as enabled.
func ParseEnabled(raw string) bool {
	return raw == "true"
}

func FormatEnabled(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
