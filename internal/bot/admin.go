package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/example/vocabot/internal/excel"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleExportCommand writes the leaderboard to an Excel workbook and
// sends it back as a document
func (b *Bot) handleExportCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.api.Send(tgbotapi.NewMessage(chatID, "⏳ Đang xuất bảng xếp hạng..."))

	filePath := filepath.Join("data", fmt.Sprintf("leaderboard_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		log.Printf("Error creating export directory: %v", err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không xuất được file."))
		return
	}

	count, err := excel.ExportLeaderboard(context.Background(), filePath)
	if err != nil {
		log.Printf("Error exporting leaderboard: %v", err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không xuất được file."))
		return
	}
	defer os.Remove(filePath)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = fmt.Sprintf("🏆 Bảng xếp hạng (%d lượt chơi)", count)
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending export document: %v", err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không gửi được file."))
	}
}

// handleImportCommand arms the file-upload state for a custom word list
func (b *Bot) handleImportCommand(message *tgbotapi.Message) {
	b.mu.Lock()
	b.awaitingFileUpload[message.From.ID] = true
	b.mu.Unlock()

	text := "📥 Gửi file Excel chứa danh sách từ.\n\n" +
		"Định dạng (Sheet1, dòng đầu là tiêu đề):\n" +
		"Cột 1: từ tiếng Anh\n" +
		"Cột 2: phiên âm\n" +
		"Cột 3: nghĩa tiếng Anh\n" +
		"Cột 4: nghĩa tiếng Việt\n" +
		"Cột 5: câu ví dụ"
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, text))
}

// handleWordListUpload downloads an uploaded workbook and imports it into
// the custom word store
func (b *Bot) handleWordListUpload(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID

	b.mu.Lock()
	delete(b.awaitingFileUpload, userID)
	b.mu.Unlock()

	if !b.isAdmin(userID) {
		b.sendAdminOnly(chatID)
		return
	}

	b.api.Send(tgbotapi.NewMessage(chatID, "⏳ Đang nhập danh sách từ..."))

	localPath, err := b.downloadDocument(message.Document)
	if err != nil {
		log.Printf("Error downloading word list: %v", err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không tải được file. Thử lại nhé."))
		return
	}
	defer os.Remove(localPath)

	result, err := excel.ImportWords(context.Background(), excel.DefaultImportConfig(localPath))
	if err != nil {
		log.Printf("Error importing word list: %v", err)
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Không đọc được file. Kiểm tra định dạng rồi thử lại nhé."))
		return
	}

	text := fmt.Sprintf("✅ Nhập xong!\n\nĐã xử lý: %d dòng\nĐã nhập: %d từ\nBỏ qua: %d dòng",
		result.TotalProcessed, result.Imported, result.Skipped)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf("\nLỗi: %d dòng (xem log)", len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("Import error: %s", e)
		}
	}
	b.api.Send(tgbotapi.NewMessage(chatID, text))
}

// downloadDocument fetches a Telegram document into a local temp file
func (b *Bot) downloadDocument(doc *tgbotapi.Document) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: doc.FileID})
	if err != nil {
		return "", fmt.Errorf("failed to resolve file: %v", err)
	}

	resp, err := http.Get(file.Link(b.token))
	if err != nil {
		return "", fmt.Errorf("failed to download file: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	out, err := os.CreateTemp("", "wordlist-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return out.Name(), nil
}

// handleAdminStatsCommand reports store counts
func (b *Bot) handleAdminStatsCommand(message *tgbotapi.Message) {
	ctx := context.Background()
	chatID := message.Chat.ID

	users, err := b.profileRepo.Count(ctx)
	if err != nil {
		log.Printf("Error counting profiles: %v", err)
	}
	runs, err := b.leaderboardRepo.Count(ctx)
	if err != nil {
		log.Printf("Error counting leaderboard entries: %v", err)
	}
	words, err := b.customRepo.Count(ctx)
	if err != nil {
		log.Printf("Error counting custom words: %v", err)
	}

	text := "📈 Thống kê\n\n" +
		fmt.Sprintf("👤 Người học: %d\n", users) +
		fmt.Sprintf("⚡ Lượt Word Rush: %d\n", runs) +
		fmt.Sprintf("📚 Từ tự nhập: %d", words)
	b.api.Send(tgbotapi.NewMessage(chatID, text))
}
