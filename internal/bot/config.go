package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Interval between countdown ticks in Word Rush
	TickInterval time.Duration
	// Countdown decrement per tick, in seconds
	TickStep float64
	// Pause after an answered Word Rush round before the next one
	RoundAdvanceDelay time.Duration
	// Pause after the final round before the game-over screen
	GameOverDelay time.Duration
	// How many leaderboard entries to show
	LeaderboardSize int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		TickInterval:      100 * time.Millisecond,
		TickStep:          0.1,
		RoundAdvanceDelay: 1200 * time.Millisecond,
		GameOverDelay:     2 * time.Second,
		LeaderboardSize:   10,
	}
}
