package domain

import "time"

// UserStats summarises one user's rating history.
type UserStats struct {
	RegisteredAt time.Time
	Total        int
	Average      float64
	LastRating   int
	LastAt       time.Time
	Counts       map[int]int // pain level -> submissions
	RecentCount  int         // submissions in the recent window
	RecentAvg    float64
}

// Percent returns the share of submissions at level, 0..100.
func (s UserStats) Percent(level int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Counts[level]) / float64(s.Total) * 100
}

// Overview is the administrator's aggregate view.
type Overview struct {
	TotalUsers     int
	ActiveUsers    int
	TotalResponses int
	RecentCounts   map[int]int // pain level -> submissions in the window
}

// EmptyLevelCounts returns a map with every pain level present at zero.
func EmptyLevelCounts() map[int]int {
	m := make(map[int]int, MaxPainLevel)
	for _, l := range PainLevels() {
		m[l] = 0
	}
	return m
}

// ComputeUserStats aggregates responses. Responses older than since do not
// count toward the recent window.
func ComputeUserStats(u User, responses []Response, since time.Time) UserStats {
	st := UserStats{RegisteredAt: u.CreatedAt, Counts: EmptyLevelCounts()}
	var sum, recentSum int
	for _, r := range responses {
		st.Total++
		sum += r.PainRating
		st.Counts[r.PainRating]++
		if st.Total == 1 || r.At.After(st.LastAt) {
			st.LastAt = r.At
			st.LastRating = r.PainRating
		}
		if !r.At.Before(since) {
			st.RecentCount++
			recentSum += r.PainRating
		}
	}
	if st.Total > 0 {
		st.Average = float64(sum) / float64(st.Total)
	}
	if st.RecentCount > 0 {
		st.RecentAvg = float64(recentSum) / float64(st.RecentCount)
	}
	return st
}
