package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string // Path to the Excel file
	SheetName       string // Name of the sheet to import
	StartRow        int    // The row to start importing from (1-based index)
	WordColumn      int    // Column with the English word (1-based)
	PhoneticColumn  int    // Column with the IPA transcription
	MeaningColumn   int    // Column with the English meaning
	MeaningViColumn int    // Column with the Vietnamese meaning
	ExampleColumn   int    // Column with the example sentence
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:        filePath,
		SheetName:       "Sheet1",
		StartRow:        2, // Skip the header row
		WordColumn:      1,
		PhoneticColumn:  2,
		MeaningColumn:   3,
		MeaningViColumn: 4,
		ExampleColumn:   5,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportWords imports custom vocabulary words from an Excel file into the
// custom_words store
func ImportWords(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	customRepo := database.NewCustomWordRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		item := models.VocabularyItem{
			Word:      cell(row, config.WordColumn),
			Phonetic:  cell(row, config.PhoneticColumn),
			Meaning:   cell(row, config.MeaningColumn),
			MeaningVi: cell(row, config.MeaningViColumn),
			Example:   cell(row, config.ExampleColumn),
		}

		if item.Word == "" || item.MeaningVi == "" {
			result.Skipped++
			continue
		}
		if item.Example == "" {
			item.Example = fmt.Sprintf("This is an example of the word '%s'.", item.Word)
		}

		if err := customRepo.Upsert(ctx, item); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}
