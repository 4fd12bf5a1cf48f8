package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/vocabot/pkg/models"
)

// CustomWordRepository handles database operations for admin-imported words
type CustomWordRepository struct{}

// NewCustomWordRepository creates a new repository instance
func NewCustomWordRepository() *CustomWordRepository {
	return &CustomWordRepository{}
}

// customWordRow mirrors the custom_words table
type customWordRow struct {
	ID        int64  `db:"id"`
	Word      string `db:"word"`
	Phonetic  string `db:"phonetic"`
	Meaning   string `db:"meaning"`
	MeaningVi string `db:"meaning_vi"`
	Example   string `db:"example"`
}

// Upsert inserts a word or refreshes its fields when it already exists
func (r *CustomWordRepository) Upsert(ctx context.Context, item models.VocabularyItem) error {
	query := `
		INSERT INTO custom_words (word, phonetic, meaning, meaning_vi, example)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (word) DO UPDATE SET
			phonetic = excluded.phonetic,
			meaning = excluded.meaning,
			meaning_vi = excluded.meaning_vi,
			example = excluded.example
	`
	if DB.DriverName() == "postgres" {
		query = DB.Rebind(query)
	}

	_, err := DB.ExecContext(ctx, query, item.Word, item.Phonetic, item.Meaning, item.MeaningVi, item.Example)
	if err != nil {
		return fmt.Errorf("failed to upsert custom word: %v", err)
	}
	return nil
}

// Count returns the number of stored custom words
func (r *CustomWordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM custom_words").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count custom words: %v", err)
	}
	return count, nil
}

// GetRandom returns count random imported words as vocabulary items
func (r *CustomWordRepository) GetRandom(ctx context.Context, count int) ([]models.VocabularyItem, error) {
	var rows []customWordRow
	err := DB.SelectContext(ctx, &rows,
		"SELECT id, word, phonetic, meaning, meaning_vi, example FROM custom_words ORDER BY RANDOM() LIMIT "+strconv.Itoa(count))
	if err != nil {
		return nil, fmt.Errorf("failed to get random custom words: %v", err)
	}

	items := make([]models.VocabularyItem, 0, len(rows))
	for _, row := range rows {
		item := models.VocabularyItem{
			ID:        "custom-" + strconv.FormatInt(row.ID, 10),
			Word:      row.Word,
			Phonetic:  row.Phonetic,
			Meaning:   row.Meaning,
			MeaningVi: row.MeaningVi,
			Example:   row.Example,
			ImageHint: row.Word,
		}
		if !strings.Contains(strings.ToLower(item.Example), strings.ToLower(item.Word)) {
			item.Example = fmt.Sprintf("This is an example of the word '%s'.", item.Word)
		}
		item.ExampleBlank = models.MaskExample(item.Example, item.Word)
		items = append(items, item)
	}
	return items, nil
}
