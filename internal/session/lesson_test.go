package session

import (
	"fmt"
	"testing"

	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/pkg/models"
)

func lessonItems() []models.VocabularyItem {
	items := make([]models.VocabularyItem, 0, 5)
	for i := 0; i < 5; i++ {
		word := fmt.Sprintf("word%d", i)
		items = append(items, models.VocabularyItem{
			ID:           fmt.Sprintf("id-%d", i),
			Word:         word,
			MeaningVi:    fmt.Sprintf("nghĩa %d", i),
			Example:      fmt.Sprintf("Use %s here.", word),
			ExampleBlank: fmt.Sprintf("Use %s here.", models.BlankToken),
		})
	}
	return items
}

// correctAnswer returns the answer the evaluator accepts for ex
func correctAnswer(ex models.Exercise, items []models.VocabularyItem) string {
	if ex.Kind == models.Matching {
		return models.MatchingComplete
	}
	for _, item := range items {
		if item.ID != ex.TargetID {
			continue
		}
		switch ex.Kind {
		case models.GuessMeaning, models.Listening:
			return item.MeaningVi
		case models.GuessWord, models.FillBlank, models.Flashcard:
			return item.Word
		}
	}
	return ""
}

func TestLesson_PerfectRunAwards210(t *testing.T) {
	items := lessonItems()
	lesson := NewLesson(items, exercise.NewSeededGenerator(5))

	steps := 0
	for lesson.Phase() != PhaseComplete {
		steps++
		if steps > 100 {
			t.Fatal("lesson did not terminate")
		}

		ex := lesson.Current()
		result := lesson.Answer(correctAnswer(ex, items))
		if !result.Correct {
			t.Fatalf("correct answer to %s marked wrong", ex.Kind)
		}

		if ex.Kind == models.Flashcard {
			if result.AwardedXP != 0 {
				t.Fatalf("flashcard awarded %d XP", result.AwardedXP)
			}
			continue // flashcards advance without acknowledgment
		}

		if result.AwardedXP != PointsPerAnswer {
			t.Fatalf("%s awarded %d XP, want %d", ex.Kind, result.AwardedXP, PointsPerAnswer)
		}
		if lesson.Phase() != PhaseFeedback {
			t.Fatalf("expected feedback phase after correct %s", ex.Kind)
		}
		lesson.Acknowledge()
	}

	// 26 exercises, 5 unscored flashcards: 21 × 10.
	if got := lesson.EarnedXP(); got != 210 {
		t.Errorf("earned XP = %d, want 210", got)
	}
	// The completion banner deliberately shows total × 10 instead.
	if got := lesson.SummaryXP(); got != 260 {
		t.Errorf("summary XP = %d, want 260", got)
	}
}

func TestLesson_WrongAnswerRetriesSameExercise(t *testing.T) {
	items := lessonItems()
	lesson := NewLesson(items, exercise.NewSeededGenerator(11))

	lesson.Answer("") // flashcard advances
	ex := lesson.Current()
	if ex.Kind != models.GuessMeaning {
		t.Fatalf("expected guess-meaning, got %s", ex.Kind)
	}

	result := lesson.Answer("hoàn toàn sai")
	if result.Correct {
		t.Fatal("wrong answer marked correct")
	}
	if !result.NeedsHint {
		t.Fatal("wrong answer must request a hint")
	}
	if result.Target.ID != ex.TargetID {
		t.Fatalf("hint target %q, want %q", result.Target.ID, ex.TargetID)
	}
	if lesson.Phase() != PhaseProcessing {
		t.Fatal("expected processing phase while the hint is outstanding")
	}

	// Input is disabled until the hint arrives.
	if r := lesson.Answer(correctAnswer(ex, items)); r.Correct || r.NeedsHint {
		t.Fatal("answer accepted while processing")
	}

	lesson.Resume()
	if lesson.Current().ID != ex.ID {
		t.Fatal("exercise advanced after a wrong answer")
	}
	if r := lesson.Answer(correctAnswer(ex, items)); !r.Correct {
		t.Fatal("retry with correct answer rejected")
	}
	if lesson.EarnedXP() != PointsPerAnswer {
		t.Errorf("earned XP = %d after one correct answer", lesson.EarnedXP())
	}
}

func TestLesson_MatchingBoardFeedsEvaluator(t *testing.T) {
	items := lessonItems()
	lesson := NewLesson(items, exercise.NewSeededGenerator(2))

	// Walk to the final matching exercise.
	for lesson.Current().Kind != models.Matching {
		ex := lesson.Current()
		lesson.Answer(correctAnswer(ex, items))
		lesson.Acknowledge()
	}

	board := lesson.Board()
	if board == nil {
		t.Fatal("no board for matching exercise")
	}
	for _, pair := range lesson.Current().Pairs {
		board.SelectWord(pair.WordID)
		board.SelectMeaning(pair.Meaning)
	}
	if !board.Complete() {
		t.Fatal("board incomplete after confirming every pair")
	}

	result := lesson.Answer(models.MatchingComplete)
	if !result.Correct {
		t.Fatal("sentinel answer rejected")
	}
	if completed := lesson.Acknowledge(); !completed {
		t.Fatal("lesson should complete after the matching exercise")
	}
}
