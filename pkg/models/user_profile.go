package models

import "time"

// Level represents the difficulty level selected by the learner
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Topic represents the vocabulary theme selected by the learner
type Topic string

const (
	TopicDailyCommunication Topic = "Daily Communication"
	TopicTravel             Topic = "Travel"
	TopicBusiness           Topic = "Business"
	TopicSchool             Topic = "School"
	TopicTechnology         Topic = "Technology"
	TopicFoodAndDrink       Topic = "Food & Drink"
)

// Levels lists all selectable levels in display order
func Levels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
}

// Topics lists all selectable topics in display order
func Topics() []Topic {
	return []Topic{
		TopicDailyCommunication,
		TopicTravel,
		TopicBusiness,
		TopicSchool,
		TopicTechnology,
		TopicFoodAndDrink,
	}
}

// NormalizeLevel replaces an unknown stored level with the default
func NormalizeLevel(s string) Level {
	for _, l := range Levels() {
		if string(l) == s {
			return l
		}
	}
	return LevelBeginner
}

// NormalizeTopic replaces an unknown stored topic with the default
func NormalizeTopic(s string) Topic {
	for _, t := range Topics() {
		if string(t) == s {
			return t
		}
	}
	return TopicDailyCommunication
}

// UserProfile represents a learner's persisted state
type UserProfile struct {
	UserID        int64     `json:"user_id" db:"user_id"`
	XP            int       `json:"xp" db:"xp"`
	Streak        int       `json:"streak" db:"streak"`
	LastStudyDate string    `json:"last_study_date" db:"last_study_date"` // YYYY-MM-DD, empty if never studied
	Level         Level     `json:"level" db:"level"`
	Topic         Topic     `json:"topic" db:"topic"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultProfile returns a fresh profile for a new user
func DefaultProfile(userID int64) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Level:  LevelBeginner,
		Topic:  TopicDailyCommunication,
	}
}

// Normalize repairs a profile read from storage: unknown level or topic
// values fall back to the defaults instead of failing the load, and the
// counters never go negative.
func (p *UserProfile) Normalize() {
	p.Level = NormalizeLevel(string(p.Level))
	p.Topic = NormalizeTopic(string(p.Topic))
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
}

// RecordStudy extends the day streak for activity on the given day
func (p *UserProfile) RecordStudy(now time.Time) {
	today := now.Format("2006-01-02")
	if p.LastStudyDate == today {
		return
	}
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if p.LastStudyDate == yesterday {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.LastStudyDate = today
}
