package exercise

import (
	"strings"

	"github.com/example/vocabot/pkg/models"
)

// Evaluate decides whether answer is correct for the given exercise.
// It is a pure function: a missing target item counts as a wrong answer,
// never an error. Flashcards are not scored; the session controller
// advances them without consulting the evaluator.
func Evaluate(ex models.Exercise, items []models.VocabularyItem, answer string) bool {
	switch ex.Kind {
	case models.Flashcard:
		return false
	case models.Matching:
		return answer == models.MatchingComplete
	}

	target, ok := findItem(items, ex.TargetID)
	if !ok {
		return false
	}

	switch ex.Kind {
	case models.FillBlank:
		return normalize(answer) == normalize(target.Word)
	case models.GuessMeaning, models.Listening:
		return answer == target.MeaningVi
	case models.GuessWord:
		return answer == target.Word
	}

	return false
}

// normalize prepares a typed answer for comparison: surrounding whitespace
// and letter case are not the learner's problem
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func findItem(items []models.VocabularyItem, id string) (models.VocabularyItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.VocabularyItem{}, false
}
