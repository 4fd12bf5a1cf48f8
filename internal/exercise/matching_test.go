package exercise

import (
	"testing"

	"github.com/example/vocabot/pkg/models"
)

func matchingExercise(n int) models.Exercise {
	items := sampleItems(n)
	pairs := make([]models.MatchingPair, 0, n)
	for _, item := range items {
		pairs = append(pairs, models.MatchingPair{WordID: item.ID, Meaning: item.MeaningVi})
	}
	return models.Exercise{Kind: models.Matching, TargetID: models.MatchingTarget, Pairs: pairs}
}

func TestMatchingBoard_ConfirmAndComplete(t *testing.T) {
	ex := matchingExercise(3)
	board := NewMatchingBoard(ex)

	if out := board.SelectWord(ex.Pairs[0].WordID); out != OutcomePending {
		t.Fatalf("expected pending after one side, got %v", out)
	}
	if out := board.SelectMeaning(ex.Pairs[0].Meaning); out != OutcomeMatched {
		t.Fatalf("expected match, got %v", out)
	}
	if !board.Confirmed(ex.Pairs[0].WordID) {
		t.Fatal("pair not confirmed")
	}
	if board.Complete() {
		t.Fatal("board complete after one of three pairs")
	}

	board.SelectWord(ex.Pairs[1].WordID)
	board.SelectMeaning(ex.Pairs[1].Meaning)

	board.SelectMeaning(ex.Pairs[2].Meaning)
	if out := board.SelectWord(ex.Pairs[2].WordID); out != OutcomeComplete {
		t.Fatalf("expected completion on last pair, got %v", out)
	}
	if !board.Complete() {
		t.Fatal("board should be complete")
	}
}

func TestMatchingBoard_MismatchClearsWithoutPenalty(t *testing.T) {
	ex := matchingExercise(3)
	board := NewMatchingBoard(ex)

	board.SelectWord(ex.Pairs[0].WordID)
	if out := board.SelectMeaning(ex.Pairs[1].Meaning); out != OutcomeMismatched {
		t.Fatalf("expected mismatch, got %v", out)
	}
	if _, has := board.PendingWord(); has {
		t.Error("pending word not cleared after mismatch")
	}
	if board.Confirmed(ex.Pairs[0].WordID) || board.Confirmed(ex.Pairs[1].WordID) {
		t.Error("mismatch must not confirm anything")
	}

	// The same pair still matches afterwards.
	board.SelectWord(ex.Pairs[0].WordID)
	if out := board.SelectMeaning(ex.Pairs[0].Meaning); out != OutcomeMatched {
		t.Errorf("expected match after retry, got %v", out)
	}
}

func TestMatchingBoard_ConfirmedSelectionsIgnored(t *testing.T) {
	ex := matchingExercise(2)
	board := NewMatchingBoard(ex)

	board.SelectWord(ex.Pairs[0].WordID)
	board.SelectMeaning(ex.Pairs[0].Meaning)

	// Re-selecting the confirmed pair changes nothing.
	if out := board.SelectWord(ex.Pairs[0].WordID); out != OutcomePending {
		t.Fatalf("confirmed word selection should be ignored, got %v", out)
	}
	if out := board.SelectMeaning(ex.Pairs[0].Meaning); out != OutcomePending {
		t.Fatalf("confirmed meaning selection should be ignored, got %v", out)
	}
	if board.Complete() {
		t.Fatal("board complete with one pair left")
	}

	board.SelectWord(ex.Pairs[1].WordID)
	if out := board.SelectMeaning(ex.Pairs[1].Meaning); out != OutcomeComplete {
		t.Fatalf("expected completion, got %v", out)
	}
}
