package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vocabot/pkg/models"
)

// UserProfileRepository handles database operations for learner profiles
type UserProfileRepository struct{}

// NewUserProfileRepository creates a new repository instance
func NewUserProfileRepository() *UserProfileRepository {
	return &UserProfileRepository{}
}

// GetByUserID loads a profile, substituting defaults for a missing record
// or for stored values outside the known level/topic sets. Corrupt
// preferences never fail the load.
func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT user_id, xp, streak, last_study_date, level, topic
		FROM user_profiles
		WHERE user_id = ?
	`
	if DB.DriverName() == "postgres" {
		query = DB.Rebind(query)
	}

	profile := &models.UserProfile{}
	err := DB.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.XP,
		&profile.Streak,
		&profile.LastStudyDate,
		&profile.Level,
		&profile.Topic,
	)
	if err == sql.ErrNoRows {
		return models.DefaultProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %v", err)
	}

	profile.Normalize()
	return profile, nil
}

// Save upserts a profile. Called after every mutation.
func (r *UserProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, xp, streak, last_study_date, level, topic, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = excluded.xp,
			streak = excluded.streak,
			last_study_date = excluded.last_study_date,
			level = excluded.level,
			topic = excluded.topic,
			updated_at = excluded.updated_at
	`
	if DB.DriverName() == "postgres" {
		query = DB.Rebind(query)
	}

	_, err := DB.ExecContext(ctx, query,
		profile.UserID,
		profile.XP,
		profile.Streak,
		profile.LastStudyDate,
		profile.Level,
		profile.Topic,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save user profile: %v", err)
	}
	return nil
}

// Count returns the number of stored profiles
func (r *UserProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM user_profiles")
	if err != nil {
		return 0, fmt.Errorf("failed to count user profiles: %v", err)
	}
	return count, nil
}

// GetLapsingProfiles returns profiles whose streak would break today:
// a positive streak with the last study day before today
func (r *UserProfileRepository) GetLapsingProfiles(ctx context.Context, today string) ([]models.UserProfile, error) {
	query := `
		SELECT user_id, xp, streak, last_study_date, level, topic
		FROM user_profiles
		WHERE streak > 0 AND last_study_date <> '' AND last_study_date < ?
	`
	if DB.DriverName() == "postgres" {
		query = DB.Rebind(query)
	}

	rows, err := DB.QueryContext(ctx, query, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get lapsing profiles: %v", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.UserID, &p.XP, &p.Streak, &p.LastStudyDate, &p.Level, &p.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %v", err)
		}
		p.Normalize()
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
