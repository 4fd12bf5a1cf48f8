package bot

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/internal/session"
	"github.com/example/vocabot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// arcadeState holds one user's live Word Rush run. The bot-level serial
// invalidates late word-list responses; the round serial inside the
// machine invalidates late ticks and answers.
type arcadeState struct {
	serial        int
	loading       bool
	arcade        *session.Arcade
	msgID         int  // round message, edited in place with the countdown
	displaying    bool // between rounds; the countdown is suspended
	awaitName     bool
	finalScore    int
	lastShownSecs int
}

// startArcade begins the Word Rush loading flow
func (b *Bot) startArcade(chatID int64, userID int64) {
	b.mu.Lock()
	b.serial++
	serial := b.serial
	b.arcades[userID] = &arcadeState{serial: serial, loading: true}
	delete(b.lessons, userID)
	delete(b.userStates, userID)
	b.mu.Unlock()

	b.api.Send(tgbotapi.NewMessage(chatID, "⚡ Word Rush!\n\n⏳ Đang chọn từ cho bạn..."))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		profile, err := b.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			log.Printf("Error getting profile for user %d: %v", userID, err)
			profile = models.DefaultProfile(userID)
		}

		words, err := b.provider.GenerateWordRushList(ctx, profile.Level)
		if err != nil {
			log.Printf("Error generating rush list for user %d: %v", userID, err)
			words, err = b.customRepo.GetRandom(ctx, exercise.WordRushSize)
			if err != nil {
				log.Printf("Error loading custom words: %v", err)
			}
		}

		b.finishArcadeLoad(chatID, userID, serial, words)
	}()
}

func (b *Bot) finishArcadeLoad(chatID int64, userID int64, serial int, words []models.VocabularyItem) {
	b.mu.Lock()
	st := b.arcades[userID]
	if st == nil || st.serial != serial || !st.loading {
		b.mu.Unlock()
		log.Printf("Dropping stale rush word list for user %d", userID)
		return
	}

	if len(words) < 2 {
		delete(b.arcades, userID)
		b.mu.Unlock()
		msg := tgbotapi.NewMessage(chatID, "❌ Không tạo được danh sách từ lúc này. Thử lại sau nhé.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.api.Send(msg)
		return
	}

	st.loading = false
	st.arcade = session.NewArcade(words, b.gen)
	b.mu.Unlock()

	total := len(words)
	intro := fmt.Sprintf("🎮 Bắt đầu! %d từ, %d mạng.\nTrả lời trước khi hết giờ, chuỗi đúng liên tiếp được cộng thêm điểm!",
		total, session.ArcadeLives)
	b.api.Send(tgbotapi.NewMessage(chatID, intro))

	b.sendArcadeRound(chatID, userID, serial)
	go b.runArcadeTicker(chatID, userID, serial)
}

// runArcadeTicker drives the countdown of one run. It exits as soon as
// the run it was started for is gone or finished.
func (b *Bot) runArcadeTicker(chatID int64, userID int64, serial int) {
	ticker := time.NewTicker(b.config.TickInterval)
	defer ticker.Stop()
	for range ticker.C {
		if b.arcadeTick(chatID, userID, serial) {
			return
		}
	}
}

// arcadeTick advances the countdown one step. Returns true when the
// ticker goroutine should stop.
func (b *Bot) arcadeTick(chatID int64, userID int64, serial int) bool {
	b.mu.Lock()
	st := b.arcades[userID]
	if st == nil || st.serial != serial || st.arcade == nil || st.awaitName {
		b.mu.Unlock()
		return true
	}
	if st.displaying {
		b.mu.Unlock()
		return false
	}
	if st.arcade.Over() {
		b.mu.Unlock()
		return true
	}

	roundSerial := st.arcade.Round().Serial
	if st.arcade.Tick(roundSerial, b.config.TickStep) {
		result := st.arcade.Timeout(roundSerial)
		st.displaying = true
		b.mu.Unlock()
		b.showRoundResult(chatID, userID, serial, result, true)
		return false
	}

	secs := int(math.Ceil(st.arcade.Remaining()))
	if secs == st.lastShownSecs {
		b.mu.Unlock()
		return false
	}
	st.lastShownSecs = secs
	msgID := st.msgID
	text := arcadeRoundText(st.arcade, secs)
	markup := arcadeKeyboard(st.arcade.Round())
	b.mu.Unlock()

	if msgID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, markup)
		b.api.Send(edit)
	}
	return false
}

// sendArcadeRound renders the live round as a fresh message
func (b *Bot) sendArcadeRound(chatID int64, userID int64, serial int) {
	b.mu.Lock()
	st := b.arcades[userID]
	if st == nil || st.serial != serial || st.arcade == nil || st.arcade.Over() {
		b.mu.Unlock()
		return
	}
	st.displaying = false
	secs := int(math.Ceil(st.arcade.Remaining()))
	st.lastShownSecs = secs
	text := arcadeRoundText(st.arcade, secs)
	markup := arcadeKeyboard(st.arcade.Round())
	b.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending rush round: %v", err)
		return
	}

	b.mu.Lock()
	if st := b.arcades[userID]; st != nil && st.serial == serial {
		st.msgID = sent.MessageID
	}
	b.mu.Unlock()
}

// handleArcadeOption handles a "rush_<roundSerial>_<optionIndex>" tap
func (b *Bot) handleArcadeOption(chatID int64, userID int64, data string) {
	var roundSerial, optionIndex int
	if _, err := fmt.Sscanf(data, "%d_%d", &roundSerial, &optionIndex); err != nil {
		return
	}

	b.mu.Lock()
	st := b.arcades[userID]
	if st == nil || st.arcade == nil || st.loading || st.displaying || st.awaitName {
		b.mu.Unlock()
		return
	}
	serial := st.serial
	result := st.arcade.Answer(roundSerial, optionIndex)
	if result.CorrectAnswer == "" {
		// Stale round serial, the machine ignored the answer
		b.mu.Unlock()
		return
	}
	st.displaying = true
	b.mu.Unlock()

	b.showRoundResult(chatID, userID, serial, result, false)
}

// showRoundResult announces the outcome of a round and schedules what
// comes next: the following round, or the game-over flow
func (b *Bot) showRoundResult(chatID int64, userID int64, serial int, result session.RoundResult, timedOut bool) {
	var text string
	switch {
	case result.Hit && result.Celebrate:
		text = fmt.Sprintf("🎉 +%d điểm! 🔥 Chuỗi %d câu đúng liên tiếp!", result.Points, result.Streak)
	case result.Hit:
		text = fmt.Sprintf("✅ +%d điểm!", result.Points)
	case timedOut:
		text = fmt.Sprintf("⏰ Hết giờ! Đáp án đúng: %s\n❤️ Còn %d mạng", result.CorrectAnswer, result.LivesLeft)
	default:
		text = fmt.Sprintf("❌ Sai rồi! Đáp án đúng: %s\n❤️ Còn %d mạng", result.CorrectAnswer, result.LivesLeft)
	}
	b.api.Send(tgbotapi.NewMessage(chatID, text))

	if result.GameOver {
		time.AfterFunc(b.config.GameOverDelay, func() {
			b.promptArcadeName(chatID, userID, serial)
		})
		return
	}
	time.AfterFunc(b.config.RoundAdvanceDelay, func() {
		b.sendArcadeRound(chatID, userID, serial)
	})
}

// promptArcadeName closes the run and asks for a leaderboard name.
// A run that scored nothing skips the prompt.
func (b *Bot) promptArcadeName(chatID int64, userID int64, serial int) {
	b.mu.Lock()
	st := b.arcades[userID]
	if st == nil || st.serial != serial || st.arcade == nil {
		b.mu.Unlock()
		return
	}
	score := st.arcade.Score()
	if score <= 0 {
		delete(b.arcades, userID)
		b.mu.Unlock()
		b.finalizeArcade(chatID, userID, "", 0)
		return
	}
	st.awaitName = true
	st.finalScore = score
	b.userStates[userID] = stateRushName
	b.mu.Unlock()

	text := fmt.Sprintf("🏁 Kết thúc! Điểm của bạn: %d\n\nNhập tên để ghi vào bảng xếp hạng (hoặc gõ /menu để bỏ qua):", score)
	b.api.Send(tgbotapi.NewMessage(chatID, text))
}

// handleRushName saves the typed leaderboard name
func (b *Bot) handleRushName(message *tgbotapi.Message) {
	userID := message.From.ID

	b.mu.Lock()
	st := b.arcades[userID]
	if st == nil || !st.awaitName {
		b.mu.Unlock()
		return
	}
	score := st.finalScore
	delete(b.arcades, userID)
	delete(b.userStates, userID)
	b.mu.Unlock()

	name := strings.TrimSpace(message.Text)
	if name == "" {
		name = "Anonymous"
	}

	b.finalizeArcade(message.Chat.ID, userID, name, score)
}

// finalizeArcade records the run: leaderboard entry when it scored,
// experience points and the day streak either way
func (b *Bot) finalizeArcade(chatID int64, userID int64, name string, score int) {
	ctx := context.Background()

	profile, err := b.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
		profile = models.DefaultProfile(userID)
	}

	if score > 0 && name != "" {
		entry := &models.LeaderboardEntry{
			PlayerName: name,
			Score:      score,
			Level:      profile.Level,
		}
		if err := b.leaderboardRepo.Create(ctx, entry); err != nil {
			log.Printf("Error saving leaderboard entry: %v", err)
			b.api.Send(tgbotapi.NewMessage(chatID, "⚠️ Không ghi được bảng xếp hạng, nhưng điểm XP của bạn vẫn được cộng."))
		} else {
			b.api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Đã ghi %s với %d điểm!", name, score)))
		}
	}

	profile.XP += score / 10
	profile.RecordStudy(time.Now())
	if err := b.profileRepo.Save(ctx, profile); err != nil {
		log.Printf("Error saving profile for user %d: %v", userID, err)
	}

	if score <= 0 {
		msg := tgbotapi.NewMessage(chatID, "🏁 Kết thúc! Lần này chưa có điểm, thử lại nhé!")
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "⚡ Chơi lại", CallbackData: "start_rush"}},
			{{Text: "« Về menu", CallbackData: "main_menu"}},
		})
		b.api.Send(msg)
		return
	}

	b.showLeaderboard(chatID)
}

// arcadeRoundText renders the round with its live countdown
func arcadeRoundText(a *session.Arcade, secs int) string {
	round := a.Round()
	var text strings.Builder
	text.WriteString(fmt.Sprintf("⚡ Câu %d  ❤️ ×%d  💎 %d điểm", round.Index+1, a.Lives(), a.Score()))
	if a.Streak() > 0 {
		text.WriteString(fmt.Sprintf("  🔥 ×%d", a.Streak()))
	}
	text.WriteString(fmt.Sprintf("\n⏱ %d giây\n\n", secs))
	text.WriteString(fmt.Sprintf("Nghĩa của từ \"%s\" là gì?", round.Word.Word))
	return text.String()
}

func arcadeKeyboard(round session.Round) tgbotapi.InlineKeyboardMarkup {
	var rows [][]MenuButton
	for i, option := range round.Options {
		rows = append(rows, []MenuButton{{
			Text:         option,
			CallbackData: fmt.Sprintf("rush_%d_%d", round.Serial, i),
		}})
	}
	return createKeyboard(rows)
}
