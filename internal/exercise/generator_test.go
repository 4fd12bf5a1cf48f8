package exercise

import (
	"fmt"
	"testing"

	"github.com/example/vocabot/pkg/models"
)

func sampleItems(n int) []models.VocabularyItem {
	items := make([]models.VocabularyItem, 0, n)
	for i := 0; i < n; i++ {
		word := fmt.Sprintf("word%d", i)
		items = append(items, models.VocabularyItem{
			ID:           fmt.Sprintf("id-%d", i),
			Word:         word,
			Phonetic:     "/wɜːd/",
			Meaning:      fmt.Sprintf("meaning %d", i),
			MeaningVi:    fmt.Sprintf("nghĩa %d", i),
			PartOfSpeech: "noun",
			Example:      fmt.Sprintf("I saw a %s today.", word),
			ExampleBlank: fmt.Sprintf("I saw a %s today.", models.BlankToken),
		})
	}
	return items
}

func TestBuildLesson_SequenceShape(t *testing.T) {
	gen := NewSeededGenerator(1)
	exercises := gen.BuildLesson(sampleItems(5))

	if len(exercises) != 26 {
		t.Fatalf("expected 26 exercises, got %d", len(exercises))
	}

	counts := make(map[models.ExerciseKind]int)
	for _, ex := range exercises {
		counts[ex.Kind]++
	}
	for _, kind := range []models.ExerciseKind{models.Flashcard, models.GuessMeaning, models.GuessWord, models.FillBlank, models.Listening} {
		if counts[kind] != 5 {
			t.Errorf("expected 5 %s exercises, got %d", kind, counts[kind])
		}
	}
	if counts[models.Matching] != 1 {
		t.Errorf("expected 1 matching exercise, got %d", counts[models.Matching])
	}

	last := exercises[len(exercises)-1]
	if last.Kind != models.Matching {
		t.Errorf("expected matching exercise last, got %s", last.Kind)
	}
	if last.TargetID != models.MatchingTarget {
		t.Errorf("expected matching target %q, got %q", models.MatchingTarget, last.TargetID)
	}
	if len(last.Pairs) != 5 {
		t.Errorf("expected 5 matching pairs, got %d", len(last.Pairs))
	}
}

func TestBuildLesson_CorrectIndexPointsAtAnswer(t *testing.T) {
	items := sampleItems(5)
	gen := NewSeededGenerator(42)

	for _, ex := range gen.BuildLesson(items) {
		if len(ex.Options) == 0 {
			if ex.CorrectIndex != models.NoCorrectIndex {
				t.Errorf("%s: expected no correct index, got %d", ex.Kind, ex.CorrectIndex)
			}
			continue
		}

		target, ok := findItem(items, ex.TargetID)
		if !ok {
			t.Fatalf("%s: unknown target %q", ex.Kind, ex.TargetID)
		}

		want := target.MeaningVi
		if ex.Kind == models.GuessWord {
			want = target.Word
		}

		if got := ex.Options[ex.CorrectIndex]; got != want {
			t.Errorf("%s: correct index points at %q, want %q", ex.Kind, got, want)
		}

		seen := 0
		for _, opt := range ex.Options {
			if opt == want {
				seen++
			}
		}
		if seen != 1 {
			t.Errorf("%s: correct answer appears %d times in options", ex.Kind, seen)
		}
	}
}

func TestBuildLesson_DeterministicDistractors(t *testing.T) {
	items := sampleItems(5)
	gen := NewSeededGenerator(7)

	exercises := gen.BuildLesson(items)
	// Second exercise is guess-meaning for item 0: distractors must be the
	// meanings of items 1..3 regardless of shuffle order.
	ex := exercises[1]
	if ex.Kind != models.GuessMeaning {
		t.Fatalf("expected guess-meaning second, got %s", ex.Kind)
	}

	wantSet := map[string]bool{
		items[0].MeaningVi: true,
		items[1].MeaningVi: true,
		items[2].MeaningVi: true,
		items[3].MeaningVi: true,
	}
	if len(ex.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(ex.Options))
	}
	for _, opt := range ex.Options {
		if !wantSet[opt] {
			t.Errorf("unexpected option %q", opt)
		}
	}
}

func TestBuildLesson_DegradesBelowFourItems(t *testing.T) {
	gen := NewSeededGenerator(3)
	exercises := gen.BuildLesson(sampleItems(2))

	if len(exercises) != 11 {
		t.Fatalf("expected 11 exercises for 2 items, got %d", len(exercises))
	}
	for _, ex := range exercises {
		if ex.Kind == models.GuessMeaning && len(ex.Options) != 2 {
			t.Errorf("expected 2 options with 2 items, got %d", len(ex.Options))
		}
	}
}

func TestBuildRushOptions(t *testing.T) {
	words := sampleItems(15)
	gen := NewSeededGenerator(9)

	for idx := 0; idx < len(words); idx++ {
		options, correct := gen.BuildRushOptions(words, idx)
		if len(options) != 4 {
			t.Fatalf("round %d: expected 4 options, got %d", idx, len(options))
		}
		if options[correct] != words[idx].MeaningVi {
			t.Errorf("round %d: correct index points at %q", idx, options[correct])
		}
		seen := make(map[string]bool)
		for _, opt := range options {
			if seen[opt] {
				t.Errorf("round %d: duplicate option %q", idx, opt)
			}
			seen[opt] = true
		}
	}
}
