package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Pain scale bounds, shared by ratings and media levels.
const (
	MinPainLevel = 1
	MaxPainLevel = 5
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRating = errors.New("invalid pain rating")
	ErrInvalidLevel  = errors.New("invalid pain level")
	ErrInvalidTime   = errors.New("invalid reminder time")
)

// ValidPainLevel reports whether n is on the 1..5 scale.
func ValidPainLevel(n int) bool {
	return n >= MinPainLevel && n <= MaxPainLevel
}

// PainLevels lists the scale in ascending order.
func PainLevels() []int {
	levels := make([]int, 0, MaxPainLevel-MinPainLevel+1)
	for l := MinPainLevel; l <= MaxPainLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}

// ParsePainRating accepts a free-text message consisting solely of a digit 1..5.
func ParsePainRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || !isAllDigits(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || !ValidPainLevel(n) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return n, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ValidateClock checks hour 0..23 and minute 0..59.
func ValidateClock(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %d:%d", ErrInvalidTime, hour, minute)
	}
	return nil
}

// FormatClock returns HH:MM.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ValidateTZ checks that the tz is a valid IANA location.
func ValidateTZ(tz string) (*time.Location, error) {
	return time.LoadLocation(tz)
}
