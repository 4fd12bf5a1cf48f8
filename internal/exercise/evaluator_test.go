package exercise

import (
	"testing"

	"github.com/example/vocabot/pkg/models"
)

func TestEvaluate_FillBlankIsForgiving(t *testing.T) {
	items := sampleItems(5)
	items[0].Word = "cat"
	ex := models.Exercise{Kind: models.FillBlank, TargetID: items[0].ID}

	cases := []struct {
		answer string
		want   bool
	}{
		{"cat", true},
		{" Cat ", true},
		{"CAT", true},
		{"cats", false},
		{"", false},
	}
	for _, c := range cases {
		if got := Evaluate(ex, items, c.answer); got != c.want {
			t.Errorf("Evaluate(fill-blank, %q) = %v, want %v", c.answer, got, c.want)
		}
	}
}

func TestEvaluate_ChoiceKindsAreExact(t *testing.T) {
	items := sampleItems(5)
	target := items[2]

	for _, kind := range []models.ExerciseKind{models.GuessMeaning, models.Listening} {
		ex := models.Exercise{Kind: kind, TargetID: target.ID}
		if !Evaluate(ex, items, target.MeaningVi) {
			t.Errorf("%s: exact meaning rejected", kind)
		}
		if Evaluate(ex, items, target.MeaningVi+".") {
			t.Errorf("%s: trailing punctuation accepted", kind)
		}
	}

	ex := models.Exercise{Kind: models.GuessWord, TargetID: target.ID}
	if !Evaluate(ex, items, target.Word) {
		t.Error("guess-word: exact word rejected")
	}
	if Evaluate(ex, items, target.MeaningVi) {
		t.Error("guess-word: meaning accepted as word")
	}
}

func TestEvaluate_MissingTargetIsMiss(t *testing.T) {
	items := sampleItems(3)
	ex := models.Exercise{Kind: models.GuessMeaning, TargetID: "no-such-id"}
	if Evaluate(ex, items, items[0].MeaningVi) {
		t.Error("expected miss for unknown target item")
	}
}

func TestEvaluate_MatchingSentinel(t *testing.T) {
	ex := models.Exercise{Kind: models.Matching, TargetID: models.MatchingTarget}
	if !Evaluate(ex, nil, models.MatchingComplete) {
		t.Error("sentinel answer rejected")
	}
	if Evaluate(ex, nil, "anything else") {
		t.Error("non-sentinel answer accepted")
	}
}

func TestEvaluate_FlashcardNeverCorrect(t *testing.T) {
	items := sampleItems(1)
	ex := models.Exercise{Kind: models.Flashcard, TargetID: items[0].ID}
	if Evaluate(ex, items, items[0].Word) {
		t.Error("flashcards are not scored")
	}
}
