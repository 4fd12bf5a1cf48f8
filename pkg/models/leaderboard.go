package models

import (
	"sort"
	"time"
)

// LeaderboardEntry records one finished Word Rush run
type LeaderboardEntry struct {
	ID         int64     `json:"id" db:"id"`
	PlayerName string    `json:"player_name" db:"player_name"`
	Score      int       `json:"score" db:"score"`
	Level      Level     `json:"level" db:"level"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TopEntries returns the best n entries by score descending. The sort is
// stable, so equal scores keep their insertion order.
func TopEntries(entries []LeaderboardEntry, n int) []LeaderboardEntry {
	top := make([]LeaderboardEntry, len(entries))
	copy(top, entries)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Score > top[j].Score
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}
