package domain

import "time"

// User is a registered chat participant.
type User struct {
	TelegramID     int64
	Username       string
	FirstName      string
	LastName       string
	IsActive       bool       // receives the daily broadcast
	CreatedAt      time.Time  // UTC
	LastPainRating *int       // nullable
	LastRatingDate *time.Time // UTC, nullable
}

// DisplayName returns the best human-readable name available.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "—"
	}
}

// Response is one append-only pain rating submission.
type Response struct {
	ID         int64
	UserID     int64
	PainRating int
	At         time.Time // UTC
}

// AdminSet is the fixed operator allow-list.
type AdminSet map[int64]struct{}

func NewAdminSet(ids ...int64) AdminSet {
	s := make(AdminSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s AdminSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}
