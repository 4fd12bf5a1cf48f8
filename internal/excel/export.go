package excel

import (
	"context"
	"fmt"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ExportLeaderboard writes the full leaderboard to an Excel workbook at
// filePath, best scores first
func ExportLeaderboard(ctx context.Context, filePath string) (int, error) {
	leaderboardRepo := database.NewLeaderboardRepository()

	entries, err := leaderboardRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read leaderboard: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leaderboard"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Player", "Score", "Level", "Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	// Rank by score, keeping the stored order for ties
	ranked := models.TopEntries(entries, len(entries))

	for row, entry := range ranked {
		values := []interface{}{
			row + 1,
			entry.PlayerName,
			entry.Score,
			string(entry.Level),
			entry.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return 0, fmt.Errorf("failed to save workbook: %v", err)
	}
	return len(entries), nil
}
