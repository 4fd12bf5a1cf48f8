package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/example/vocabot/internal/ai"
	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/internal/scheduler"
	"github.com/example/vocabot/internal/session"
	"github.com/example/vocabot/internal/tts"
	"github.com/example/vocabot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// lessonState holds one user's live lesson, or its loading placeholder.
// serial changes whenever the user leaves a flow, so responses arriving
// for an abandoned lesson are dropped instead of applied.
type lessonState struct {
	serial           int
	loading          bool
	lesson           *session.Lesson
	matchingMeanings []string // display order of the matching board's right column
}

// Bot represents the Telegram bot application
type Bot struct {
	api              *tgbotapi.BotAPI
	token            string
	provider         ai.ContentProvider
	speech           *tts.Client
	gen              *exercise.Generator
	profileRepo      *database.UserProfileRepository
	leaderboardRepo  *database.LeaderboardRepository
	customRepo       *database.CustomWordRepository
	scheduler        *scheduler.Scheduler
	schedulerEnabled bool
	config           *BotConfig
	adminUserIDs     map[int64]bool

	// mu guards the per-user session maps below. Updates are handled on
	// one goroutine, but arcade tickers and provider callbacks are not.
	mu         sync.Mutex
	serial     int
	lessons    map[int64]*lessonState
	arcades    map[int64]*arcadeState
	userStates map[int64]string // what typed text currently means for a user
	awaitingFileUpload map[int64]bool
}

// Typed-input states
const (
	stateLessonAnswer = "lesson_answer"
	stateRushName     = "rush_name"
)

// New creates a new bot instance
func New(provider ai.ContentProvider) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	bot := &Bot{
		token:              token,
		provider:           provider,
		speech:             tts.NewClient("data/tts-cache"),
		gen:                exercise.NewGenerator(),
		profileRepo:        database.NewUserProfileRepository(),
		leaderboardRepo:    database.NewLeaderboardRepository(),
		customRepo:         database.NewCustomWordRepository(),
		schedulerEnabled:   os.Getenv("ENABLE_SCHEDULER") != "false",
		config:             DefaultConfig(),
		adminUserIDs:       make(map[int64]bool),
		lessons:            make(map[int64]*lessonState),
		arcades:            make(map[int64]*arcadeState),
		userStates:         make(map[int64]string),
		awaitingFileUpload: make(map[int64]bool),
	}

	adminIDs := os.Getenv("ADMIN_USER_IDS")
	if adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid admin user ID: %s", idStr)
				continue
			}
			bot.adminUserIDs[id] = true
		}
	}

	return bot, nil
}

// Start initializes the bot and processes updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.schedulerEnabled {
		b.scheduler = scheduler.New(b)
		b.scheduler.Start()
		log.Println("Streak reminder scheduler started")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
}

// SendStreakReminder implements the scheduler.Notifier interface
func (b *Bot) SendStreakReminder(userID int64, streak int) error {
	text := fmt.Sprintf("🔥 Chuỗi %d ngày của bạn sắp bị mất! Hoàn thành một bài học hôm nay để giữ chuỗi nhé.", streak)
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📚 Học ngay", CallbackData: "start_lesson"}},
	})
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending streak reminder to user %d: %v", userID, err)
	}
	return err
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		if update.Message.IsCommand() {
			b.handleCommand(update.Message)
			return
		}
		if b.awaitingFileUpload[update.Message.From.ID] && update.Message.Document != nil {
			b.handleWordListUpload(update.Message)
			return
		}
		b.handleText(update.Message)
		return
	}
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStartCommand(message)
	case "menu":
		b.teardownFlows(message.From.ID)
		b.showMainMenu(message.Chat.ID)
	case "profile":
		b.showProfile(message.Chat.ID, message.From.ID)
	case "top":
		b.showLeaderboard(message.Chat.ID)
	case "export":
		if b.isAdmin(message.From.ID) {
			b.handleExportCommand(message)
		} else {
			b.sendAdminOnly(message.Chat.ID)
		}
	case "import":
		if b.isAdmin(message.From.ID) {
			b.handleImportCommand(message)
		} else {
			b.sendAdminOnly(message.Chat.ID)
		}
	case "admin_stats":
		if b.isAdmin(message.From.ID) {
			b.handleAdminStatsCommand(message)
		} else {
			b.sendAdminOnly(message.Chat.ID)
		}
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Lệnh không hợp lệ. Dùng /menu để mở menu chính.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.api.Send(msg)
	}
}

// handleText routes typed text according to the user's current state
func (b *Bot) handleText(message *tgbotapi.Message) {
	userID := message.From.ID

	b.mu.Lock()
	state := b.userStates[userID]
	b.mu.Unlock()

	switch state {
	case stateLessonAnswer:
		b.handleLessonTextAnswer(message)
	case stateRushName:
		b.handleRushName(message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Mình chưa hiểu ý bạn. Dùng /menu để mở menu chính nhé.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.api.Send(msg)
	}
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.From == nil {
		return
	}

	// Always answer the callback to remove the loading state
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(answer); err != nil {
		log.Printf("Warning: Failed to answer callback: %v", err)
	}

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == "main_menu":
		b.teardownFlows(userID)
		b.showMainMenu(chatID)
	case data == "start_lesson":
		b.startLesson(chatID, userID)
	case data == "start_rush":
		b.startArcade(chatID, userID)
	case data == "leaderboard":
		b.showLeaderboard(chatID)
	case data == "profile":
		b.showProfile(chatID, userID)
	case data == "settings":
		b.showSettings(chatID, userID)
	case data == "lesson_next":
		b.handleLessonAdvance(chatID, userID)
	case data == "lesson_ack":
		b.handleLessonAck(chatID, userID)
	case strings.HasPrefix(data, "answer_"):
		b.handleLessonOption(chatID, userID, strings.TrimPrefix(data, "answer_"))
	case strings.HasPrefix(data, "match_w_"):
		b.handleMatchSelection(chatID, userID, callback.Message.MessageID, strings.TrimPrefix(data, "match_w_"), true)
	case strings.HasPrefix(data, "match_m_"):
		b.handleMatchSelection(chatID, userID, callback.Message.MessageID, strings.TrimPrefix(data, "match_m_"), false)
	case strings.HasPrefix(data, "rush_"):
		b.handleArcadeOption(chatID, userID, strings.TrimPrefix(data, "rush_"))
	case strings.HasPrefix(data, "set_level_"):
		b.handleLevelSelection(chatID, userID, strings.TrimPrefix(data, "set_level_"))
	case strings.HasPrefix(data, "set_topic_"):
		b.handleTopicSelection(chatID, userID, strings.TrimPrefix(data, "set_topic_"))
	default:
		b.api.Send(tgbotapi.NewMessage(chatID, "⚠️ Thao tác không hợp lệ"))
	}
}

// teardownFlows abandons any live lesson or arcade run so that late
// provider responses and timer ticks find nothing to apply to
func (b *Bot) teardownFlows(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.lessons, userID)
	delete(b.arcades, userID)
	delete(b.userStates, userID)
	delete(b.awaitingFileUpload, userID)
}

func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	welcomeText := "👋 Chào mừng bạn đến với VocaBot! 🎓\n\n" +
		"Mình giúp bạn học từ vựng tiếng Anh mỗi ngày:\n" +
		"📚 Bài học 26 câu với flashcard, trắc nghiệm, điền từ, nghe và nối từ\n" +
		"⚡ Word Rush - chế độ tính giờ, 3 mạng, điểm chuỗi\n" +
		"🏆 Bảng xếp hạng cho Word Rush\n\n" +
		"Các lệnh:\n" +
		"/menu - Menu chính\n" +
		"/profile - Hồ sơ của bạn\n" +
		"/top - Bảng xếp hạng"

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.api.Send(msg)
}

// MainMenuButtons returns the dashboard keyboard
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Học từ mới", CallbackData: "start_lesson"}},
		{{Text: "⚡ Word Rush", CallbackData: "start_rush"}},
		{{Text: "🏆 Bảng xếp hạng", CallbackData: "leaderboard"}, {Text: "📊 Hồ sơ", CallbackData: "profile"}},
		{{Text: "⚙️ Cài đặt", CallbackData: "settings"}},
	}
}

func (b *Bot) showMainMenu(chatID int64) {
	text := "🤖 Menu chính\n\n" +
		"📚 Học từ mới - bài học 5 từ theo chủ đề của bạn\n" +
		"⚡ Word Rush - trả lời nhanh trước khi hết giờ\n" +
		"🏆 Bảng xếp hạng - điểm Word Rush cao nhất\n" +
		"📊 Hồ sơ - điểm kinh nghiệm và chuỗi ngày học\n" +
		"⚙️ Cài đặt - chọn trình độ và chủ đề"

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.api.Send(msg)
}

func (b *Bot) showProfile(chatID int64, userID int64) {
	profile, err := b.profileRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không tải được hồ sơ. Thử lại sau nhé."))
		return
	}

	text := "📊 Hồ sơ của bạn\n\n" +
		fmt.Sprintf("⭐ Điểm kinh nghiệm: %d XP\n", profile.XP) +
		fmt.Sprintf("🔥 Chuỗi ngày học: %d\n", profile.Streak) +
		fmt.Sprintf("🎯 Trình độ: %s\n", levelLabel(profile.Level)) +
		fmt.Sprintf("📂 Chủ đề: %s", topicLabel(profile.Topic))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "⚙️ Cài đặt", CallbackData: "settings"}},
		{{Text: "« Về menu", CallbackData: "main_menu"}},
	})
	b.api.Send(msg)
}

func (b *Bot) showLeaderboard(chatID int64) {
	entries, err := b.leaderboardRepo.Top(context.Background(), b.config.LeaderboardSize)
	if err != nil {
		log.Printf("Error getting leaderboard: %v", err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không tải được bảng xếp hạng. Thử lại sau nhé."))
		return
	}

	if len(entries) == 0 {
		msg := tgbotapi.NewMessage(chatID, "🏆 Bảng xếp hạng đang trống. Chơi Word Rush để ghi tên bạn nhé!")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.api.Send(msg)
		return
	}

	var text strings.Builder
	text.WriteString("🏆 Bảng xếp hạng Word Rush\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, entry := range entries {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		text.WriteString(fmt.Sprintf("%s %s — %d điểm (%s)\n", rank, entry.PlayerName, entry.Score, levelLabel(entry.Level)))
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "⚡ Chơi Word Rush", CallbackData: "start_rush"}},
		{{Text: "« Về menu", CallbackData: "main_menu"}},
	})
	b.api.Send(msg)
}

func (b *Bot) showSettings(chatID int64, userID int64) {
	profile, err := b.profileRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không tải được cài đặt. Thử lại sau nhé."))
		return
	}

	var rows [][]MenuButton
	rows = append(rows, []MenuButton{{Text: "— Trình độ —", CallbackData: "settings"}})
	for _, level := range models.Levels() {
		label := levelLabel(level)
		if level == profile.Level {
			label = "✅ " + label
		}
		rows = append(rows, []MenuButton{{Text: label, CallbackData: "set_level_" + string(level)}})
	}
	rows = append(rows, []MenuButton{{Text: "— Chủ đề —", CallbackData: "settings"}})
	for i, topic := range models.Topics() {
		label := topicLabel(topic)
		if topic == profile.Topic {
			label = "✅ " + label
		}
		rows = append(rows, []MenuButton{{Text: label, CallbackData: fmt.Sprintf("set_topic_%d", i)}})
	}
	rows = append(rows, []MenuButton{{Text: "« Về menu", CallbackData: "main_menu"}})

	msg := tgbotapi.NewMessage(chatID, "⚙️ Cài đặt\n\nChọn trình độ và chủ đề cho các bài học của bạn:")
	msg.ReplyMarkup = createKeyboard(rows)
	b.api.Send(msg)
}

func (b *Bot) handleLevelSelection(chatID int64, userID int64, levelStr string) {
	profile, err := b.profileRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
		return
	}
	profile.Level = models.NormalizeLevel(levelStr)
	if err := b.profileRepo.Save(context.Background(), profile); err != nil {
		log.Printf("Error saving profile for user %d: %v", userID, err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không lưu được cài đặt. Thử lại nhé."))
		return
	}
	b.api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Đã chọn trình độ %s", levelLabel(profile.Level))))
	b.showSettings(chatID, userID)
}

func (b *Bot) handleTopicSelection(chatID int64, userID int64, indexStr string) {
	index, err := strconv.Atoi(indexStr)
	topics := models.Topics()
	if err != nil || index < 0 || index >= len(topics) {
		return
	}

	profile, err := b.profileRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
		return
	}
	profile.Topic = topics[index]
	if err := b.profileRepo.Save(context.Background(), profile); err != nil {
		log.Printf("Error saving profile for user %d: %v", userID, err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không lưu được cài đặt. Thử lại nhé."))
		return
	}
	b.api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Đã chọn chủ đề %s", topicLabel(profile.Topic))))
	b.showSettings(chatID, userID)
}

func (b *Bot) sendAdminOnly(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Lệnh này chỉ dành cho quản trị viên.")
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.api.Send(msg)
}

// levelLabel renders a level in Vietnamese
func levelLabel(level models.Level) string {
	switch level {
	case models.LevelIntermediate:
		return "Trung cấp"
	case models.LevelAdvanced:
		return "Nâng cao"
	default:
		return "Sơ cấp"
	}
}

// topicLabel renders a topic in Vietnamese
func topicLabel(topic models.Topic) string {
	switch topic {
	case models.TopicTravel:
		return "Du lịch"
	case models.TopicBusiness:
		return "Kinh doanh"
	case models.TopicSchool:
		return "Trường học"
	case models.TopicTechnology:
		return "Công nghệ"
	case models.TopicFoodAndDrink:
		return "Ẩm thực"
	default:
		return "Giao tiếp hàng ngày"
	}
}
