package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/vocabot/internal/database"
	"github.com/go-co-op/gocron"
)

// Default window for sending streak reminders
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 21
)

// Notifier interface for sending notifications
type Notifier interface {
	SendStreakReminder(userID int64, streak int) error
}

// Scheduler reminds learners whose day streak is about to lapse
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	notified  map[int64]string // userID -> last reminded date
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
		notified:  make(map[int64]string),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for learners who haven't studied today
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds learners with an unbroken streak who haven't
// studied today and reminds each of them at most once per day
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := hourFromEnv("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := hourFromEnv("REMINDER_END_HOUR", DefaultReminderEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	today := time.Now().Format("2006-01-02")
	profileRepo := database.NewUserProfileRepository()

	profiles, err := profileRepo.GetLapsingProfiles(context.Background(), today)
	if err != nil {
		log.Printf("Error getting lapsing profiles: %v", err)
		return
	}

	for _, profile := range profiles {
		if s.notified[profile.UserID] == today {
			continue
		}
		if err := s.notifier.SendStreakReminder(profile.UserID, profile.Streak); err != nil {
			log.Printf("Error sending streak reminder to user %d: %v", profile.UserID, err)
			continue
		}
		s.notified[profile.UserID] = today
	}
}

func hourFromEnv(name string, fallback int) int {
	if value := os.Getenv(name); value != "" {
		if h, err := strconv.Atoi(value); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
