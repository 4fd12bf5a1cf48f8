package database

import (
	"context"
	"fmt"

	"github.com/example/vocabot/pkg/models"
)

// LeaderboardRepository handles database operations for Word Rush results
type LeaderboardRepository struct{}

// NewLeaderboardRepository creates a new repository instance
func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{}
}

// Create appends a finished run to the leaderboard. Entries are never
// updated afterwards.
func (r *LeaderboardRepository) Create(ctx context.Context, entry *models.LeaderboardEntry) error {
	query := `
		INSERT INTO leaderboard (player_name, score, level)
		VALUES (?, ?, ?)
	`
	if DB.DriverName() == "postgres" {
		query = DB.Rebind(query)
	}

	result, err := DB.ExecContext(ctx, query, entry.PlayerName, entry.Score, entry.Level)
	if err != nil {
		return fmt.Errorf("failed to create leaderboard entry: %v", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// GetAll returns every entry in insertion order
func (r *LeaderboardRepository) GetAll(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := DB.SelectContext(ctx, &entries, "SELECT * FROM leaderboard ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %v", err)
	}
	return entries, nil
}

// Count returns the number of recorded runs
func (r *LeaderboardRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM leaderboard")
	if err != nil {
		return 0, fmt.Errorf("failed to count leaderboard entries: %v", err)
	}
	return count, nil
}

// Top returns the best n entries by score, ties kept in insertion order
func (r *LeaderboardRepository) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	entries, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.TopEntries(entries, n), nil
}
