package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/example/vocabot/internal/ai"
	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/internal/session"
	"github.com/example/vocabot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// startLesson begins the loading flow: a placeholder message goes out
// immediately and the vocabulary set is fetched on a separate goroutine.
// The serial stored in the state drops the response if the user has
// already left the flow by the time it arrives.
func (b *Bot) startLesson(chatID int64, userID int64) {
	b.mu.Lock()
	b.serial++
	serial := b.serial
	b.lessons[userID] = &lessonState{serial: serial, loading: true}
	delete(b.arcades, userID)
	delete(b.userStates, userID)
	b.mu.Unlock()

	b.api.Send(tgbotapi.NewMessage(chatID, "⏳ Đang chuẩn bị bài học cho bạn, chờ chút nhé..."))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		profile, err := b.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			log.Printf("Error getting profile for user %d: %v", userID, err)
			profile = models.DefaultProfile(userID)
		}

		items, err := b.provider.GenerateVocabularySet(ctx, profile.Level, profile.Topic)
		if err != nil {
			log.Printf("Error generating vocabulary for user %d: %v", userID, err)
			// Fall back on the imported custom word pool, if any
			items, err = b.customRepo.GetRandom(ctx, exercise.LessonSize)
			if err != nil {
				log.Printf("Error loading custom words: %v", err)
			}
		}

		b.finishLessonLoad(chatID, userID, serial, items)
	}()
}

// finishLessonLoad applies the fetched vocabulary set to the loading
// state, unless the user abandoned the lesson in the meantime
func (b *Bot) finishLessonLoad(chatID int64, userID int64, serial int, items []models.VocabularyItem) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.serial != serial || !st.loading {
		b.mu.Unlock()
		log.Printf("Dropping stale vocabulary response for user %d", userID)
		return
	}

	if len(items) == 0 {
		delete(b.lessons, userID)
		b.mu.Unlock()
		msg := tgbotapi.NewMessage(chatID, "❌ Không tạo được bài học lúc này. Thử lại sau ít phút nhé.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.api.Send(msg)
		return
	}

	st.loading = false
	st.lesson = session.NewLesson(items, b.gen)
	b.mu.Unlock()

	b.sendCurrentExercise(chatID, userID)
}

// sendCurrentExercise renders the live exercise of the user's lesson
func (b *Bot) sendCurrentExercise(chatID int64, userID int64) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Phase() != session.PhaseAnswering {
		b.mu.Unlock()
		return
	}
	ex := st.lesson.Current()
	pos, total := st.lesson.Progress()
	items := st.lesson.Items()
	if ex.Kind == models.FillBlank {
		b.userStates[userID] = stateLessonAnswer
	}
	if ex.Kind == models.Matching {
		st.matchingMeanings = shuffledMeanings(ex.Pairs)
	}
	b.mu.Unlock()

	header := fmt.Sprintf("Câu %d/%d\n\n", pos, total)

	switch ex.Kind {
	case models.Flashcard:
		b.sendFlashcard(chatID, header, ex, items)
	case models.GuessMeaning:
		text := header + fmt.Sprintf("❓ Từ \"%s\" có nghĩa là gì?", ex.Question)
		b.sendOptions(chatID, text, ex.Options)
	case models.GuessWord:
		text := header + fmt.Sprintf("❓ Từ tiếng Anh nào có nghĩa là \"%s\"?", ex.Question)
		b.sendOptions(chatID, text, ex.Options)
	case models.FillBlank:
		text := header + "✍️ Điền từ còn thiếu vào chỗ trống:\n\n" + ex.Question +
			"\n\nGõ câu trả lời của bạn vào khung chat."
		b.api.Send(tgbotapi.NewMessage(chatID, text))
	case models.Listening:
		b.sendListening(chatID, header, ex)
	case models.Matching:
		b.sendMatchingBoard(chatID, header, userID)
	}
}

func (b *Bot) sendFlashcard(chatID int64, header string, ex models.Exercise, items []models.VocabularyItem) {
	item, ok := findItem(items, ex.TargetID)
	if !ok {
		return
	}

	var text strings.Builder
	text.WriteString(header)
	text.WriteString(fmt.Sprintf("🃏 %s", item.Word))
	if item.Phonetic != "" {
		text.WriteString(fmt.Sprintf("  %s", item.Phonetic))
	}
	if item.PartOfSpeech != "" {
		text.WriteString(fmt.Sprintf("  (%s)", item.PartOfSpeech))
	}
	text.WriteString(fmt.Sprintf("\n\n🇻🇳 %s", item.MeaningVi))
	if item.Meaning != "" {
		text.WriteString(fmt.Sprintf("\n🇬🇧 %s", item.Meaning))
	}
	if item.Example != "" {
		text.WriteString(fmt.Sprintf("\n\n✍️ Ví dụ: %s", item.Example))
	}
	if len(item.Synonyms) > 0 {
		text.WriteString(fmt.Sprintf("\n🔁 Từ đồng nghĩa: %s", strings.Join(item.Synonyms, ", ")))
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "Tiếp tục ➡️", CallbackData: "lesson_next"}},
	})
	b.api.Send(msg)

	if b.speech.Enabled() {
		b.sendPronunciation(chatID, item.Word)
	}
}

func (b *Bot) sendOptions(chatID int64, text string, options []string) {
	var rows [][]MenuButton
	for i, option := range options {
		rows = append(rows, []MenuButton{{Text: option, CallbackData: fmt.Sprintf("answer_%d", i)}})
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(rows)
	b.api.Send(msg)
}

func (b *Bot) sendListening(chatID int64, header string, ex models.Exercise) {
	spoke := false
	if b.speech.Enabled() {
		spoke = b.sendPronunciation(chatID, ex.Question)
	}

	text := header + "🎧 Nghe và chọn nghĩa đúng:"
	if !spoke {
		// Audio unavailable, show the word instead so the exercise stays playable
		text = header + fmt.Sprintf("🎧 (Không phát được âm thanh)\nTừ: %s\n\nChọn nghĩa đúng:", ex.Question)
	}
	b.sendOptions(chatID, text, ex.Options)
}

// sendPronunciation sends the word as a voice message. Failures are
// logged and swallowed.
func (b *Bot) sendPronunciation(chatID int64, word string) bool {
	audio, err := b.speech.GetAudio(word)
	if err != nil {
		log.Printf("Error synthesizing audio for %q: %v", word, err)
		return false
	}
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "word.mp3", Bytes: audio})
	if _, err := b.api.Send(voice); err != nil {
		log.Printf("Error sending voice message: %v", err)
		return false
	}
	return true
}

func (b *Bot) sendMatchingBoard(chatID int64, header string, userID int64) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Board() == nil {
		b.mu.Unlock()
		return
	}
	ex := st.lesson.Current()
	markup := b.matchingKeyboard(st)
	b.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, header+"🔗 "+ex.Question)
	msg.ReplyMarkup = markup
	b.api.Send(msg)
}

// matchingKeyboard renders the board: word column on the left in pair
// order, meanings on the right in their shuffled display order.
// Caller holds b.mu.
func (b *Bot) matchingKeyboard(st *lessonState) tgbotapi.InlineKeyboardMarkup {
	board := st.lesson.Board()
	ex := st.lesson.Current()
	items := st.lesson.Items()
	pendingWord, hasPending := board.PendingWord()

	var rows [][]MenuButton
	for i, pair := range ex.Pairs {
		word := pair.WordID
		if item, ok := findItem(items, pair.WordID); ok {
			word = item.Word
		}
		wordLabel := word
		if board.Confirmed(pair.WordID) {
			wordLabel = "✅ " + word
		} else if hasPending && pendingWord == pair.WordID {
			wordLabel = "🔸 " + word
		}

		meaning := st.matchingMeanings[i]
		meaningLabel := meaning
		if meaningConfirmed(board, ex.Pairs, meaning) {
			meaningLabel = "✅ " + meaning
		}

		rows = append(rows, []MenuButton{
			{Text: wordLabel, CallbackData: "match_w_" + pair.WordID},
			{Text: meaningLabel, CallbackData: fmt.Sprintf("match_m_%d", i)},
		})
	}
	return createKeyboard(rows)
}

func (b *Bot) handleMatchSelection(chatID int64, userID int64, messageID int, data string, isWord bool) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Board() == nil ||
		st.lesson.Phase() != session.PhaseAnswering {
		b.mu.Unlock()
		return
	}
	board := st.lesson.Board()

	var outcome exercise.MatchOutcome
	if isWord {
		outcome = board.SelectWord(data)
	} else {
		idx, err := strconv.Atoi(data)
		if err != nil || idx < 0 || idx >= len(st.matchingMeanings) {
			b.mu.Unlock()
			return
		}
		outcome = board.SelectMeaning(st.matchingMeanings[idx])
	}
	markup := b.matchingKeyboard(st)
	b.mu.Unlock()

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Warning: Failed to update matching board: %v", err)
	}

	switch outcome {
	case exercise.OutcomeMismatched:
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Cặp này chưa đúng, chọn lại nhé!"))
	case exercise.OutcomeComplete:
		b.submitLessonAnswer(chatID, userID, models.MatchingComplete)
	}
}

// handleLessonAdvance dismisses the current flashcard
func (b *Bot) handleLessonAdvance(chatID int64, userID int64) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Phase() != session.PhaseAnswering ||
		st.lesson.Current().Kind != models.Flashcard {
		b.mu.Unlock()
		return
	}
	st.lesson.Answer("")
	b.mu.Unlock()

	b.sendCurrentExercise(chatID, userID)
}

func (b *Bot) handleLessonOption(chatID int64, userID int64, idxStr string) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return
	}

	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Phase() != session.PhaseAnswering {
		b.mu.Unlock()
		return
	}
	ex := st.lesson.Current()
	if idx < 0 || idx >= len(ex.Options) {
		b.mu.Unlock()
		return
	}
	answer := ex.Options[idx]
	b.mu.Unlock()

	b.submitLessonAnswer(chatID, userID, answer)
}

func (b *Bot) handleLessonTextAnswer(message *tgbotapi.Message) {
	b.submitLessonAnswer(message.Chat.ID, message.From.ID, message.Text)
}

// submitLessonAnswer runs an answer through the lesson machine and
// renders the verdict. A correct answer banks its points right away;
// a wrong one triggers the hint flow and keeps the exercise live.
func (b *Bot) submitLessonAnswer(chatID int64, userID int64, answer string) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Phase() != session.PhaseAnswering {
		b.mu.Unlock()
		return
	}
	ex := st.lesson.Current()
	result := st.lesson.Answer(answer)
	serial := st.serial
	delete(b.userStates, userID)
	b.mu.Unlock()

	if result.Correct {
		b.awardXP(userID, result.AwardedXP)
		text := fmt.Sprintf("✅ Chính xác! +%d XP", result.AwardedXP)
		if result.Target.Word != "" {
			text += fmt.Sprintf("\n\n📖 %s — %s", result.Target.Word, result.Target.MeaningVi)
			if result.Target.Example != "" {
				text += fmt.Sprintf("\n✍️ %s", result.Target.Example)
			}
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "Tiếp tục ➡️", CallbackData: "lesson_ack"}},
		})
		b.api.Send(msg)
		return
	}

	if result.NeedsHint {
		b.api.Send(tgbotapi.NewMessage(chatID, "🤔 Chưa đúng rồi, để mình gợi ý cho bạn..."))
		go b.deliverHint(chatID, userID, serial, result.Target, answer, ex.Kind)
	}
}

// deliverHint fetches a hint for a wrong answer, then re-arms the
// exercise. Hint failures fall back to a fixed phrase; they never block
// the lesson.
func (b *Bot) deliverHint(chatID int64, userID int64, serial int, item models.VocabularyItem, wrongAnswer string, kind models.ExerciseKind) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hint, err := b.provider.GenerateHint(ctx, item, wrongAnswer, kind)
	if err != nil || strings.TrimSpace(hint) == "" {
		if err != nil {
			log.Printf("Error generating hint for user %d: %v", userID, err)
		}
		hint = ai.FallbackHint
	}

	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.serial != serial ||
		st.lesson.Phase() != session.PhaseProcessing {
		b.mu.Unlock()
		log.Printf("Dropping stale hint for user %d", userID)
		return
	}
	st.lesson.Resume()
	b.mu.Unlock()

	b.api.Send(tgbotapi.NewMessage(chatID, "💡 "+hint))
	b.sendCurrentExercise(chatID, userID)
}

// handleLessonAck moves past positive feedback, finishing the lesson
// when the acknowledged exercise was the last one
func (b *Bot) handleLessonAck(chatID int64, userID int64) {
	b.mu.Lock()
	st := b.lessons[userID]
	if st == nil || st.lesson == nil || st.lesson.Phase() != session.PhaseFeedback {
		b.mu.Unlock()
		return
	}
	completed := st.lesson.Acknowledge()
	if !completed {
		b.mu.Unlock()
		b.sendCurrentExercise(chatID, userID)
		return
	}

	earned := st.lesson.EarnedXP()
	summary := st.lesson.SummaryXP()
	delete(b.lessons, userID)
	b.mu.Unlock()

	b.finishLesson(chatID, userID, earned, summary)
}

func (b *Bot) finishLesson(chatID int64, userID int64, earned, summary int) {
	ctx := context.Background()
	streak := 0
	profile, err := b.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
	} else {
		profile.RecordStudy(time.Now())
		streak = profile.Streak
		if err := b.profileRepo.Save(ctx, profile); err != nil {
			log.Printf("Error saving profile for user %d: %v", userID, err)
		}
	}

	text := "🎉 Hoàn thành bài học!\n\n" +
		fmt.Sprintf("⭐ %d XP\n", summary) +
		fmt.Sprintf("💰 Điểm đã cộng vào hồ sơ: %d XP\n", earned) +
		fmt.Sprintf("🔥 Chuỗi ngày học: %d", streak)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📚 Học tiếp", CallbackData: "start_lesson"}},
		{{Text: "« Về menu", CallbackData: "main_menu"}},
	})
	b.api.Send(msg)
}

// awardXP adds experience points to the user's profile
func (b *Bot) awardXP(userID int64, points int) {
	if points <= 0 {
		return
	}
	ctx := context.Background()
	profile, err := b.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error getting profile for user %d: %v", userID, err)
		return
	}
	profile.XP += points
	if err := b.profileRepo.Save(ctx, profile); err != nil {
		log.Printf("Error saving profile for user %d: %v", userID, err)
	}
}

// shuffledMeanings returns the meanings of the pairs in a random display
// order, so the board's right column does not line up with the left
func shuffledMeanings(pairs []models.MatchingPair) []string {
	meanings := make([]string, len(pairs))
	for i, p := range pairs {
		meanings[i] = p.Meaning
	}
	rand.Shuffle(len(meanings), func(i, j int) {
		meanings[i], meanings[j] = meanings[j], meanings[i]
	})
	return meanings
}

// meaningConfirmed reports whether the pair owning this meaning has been
// confirmed on the board
func meaningConfirmed(board *exercise.MatchingBoard, pairs []models.MatchingPair, meaning string) bool {
	for _, p := range pairs {
		if p.Meaning == meaning && board.Confirmed(p.WordID) {
			return true
		}
	}
	return false
}

func findItem(items []models.VocabularyItem, id string) (models.VocabularyItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.VocabularyItem{}, false
}
