package session

import (
	"fmt"
	"math"
	"testing"

	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/pkg/models"
)

func rushWords(n int) []models.VocabularyItem {
	words := make([]models.VocabularyItem, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, models.VocabularyItem{
			ID:        fmt.Sprintf("w-%d", i),
			Word:      fmt.Sprintf("word%d", i),
			MeaningVi: fmt.Sprintf("nghĩa %d", i),
		})
	}
	return words
}

func TestRoundBudget(t *testing.T) {
	cases := []struct {
		index int
		want  float64
	}{
		{0, 10}, {2, 10}, {3, 9}, {5, 9}, {6, 8}, {20, 4}, {21, 3}, {50, 3},
	}
	prev := math.MaxFloat64
	for _, c := range cases {
		got := RoundBudget(c.index)
		if got != c.want {
			t.Errorf("RoundBudget(%d) = %v, want %v", c.index, got, c.want)
		}
		if got > prev {
			t.Errorf("budget grew at round %d", c.index)
		}
		prev = got
	}
}

func TestArcade_HitScoring(t *testing.T) {
	arcade := NewArcade(rushWords(15), exercise.NewSeededGenerator(4))

	// First hit: full 10 seconds remaining, streak 0.
	round := arcade.Round()
	result := arcade.Answer(round.Serial, round.CorrectIndex)
	if !result.Hit {
		t.Fatal("correct option scored as miss")
	}
	if want := 100 + 100 + 0; result.Points != want {
		t.Errorf("first hit points = %d, want %d", result.Points, want)
	}
	if result.Streak != 1 || result.Celebrate {
		t.Errorf("streak = %d celebrate = %v after first hit", result.Streak, result.Celebrate)
	}

	// Second hit with 3.5s left and streak 1: 100 + ceil(35) + 5.
	round = arcade.Round()
	arcade.Tick(round.Serial, round.Budget-3.5)
	result = arcade.Answer(round.Serial, round.CorrectIndex)
	if want := 100 + 35 + 5; result.Points != want {
		t.Errorf("second hit points = %d, want %d", result.Points, want)
	}

	// Third hit pushes the streak past the celebration threshold.
	round = arcade.Round()
	result = arcade.Answer(round.Serial, round.CorrectIndex)
	if result.Streak != 3 || !result.Celebrate {
		t.Errorf("streak = %d celebrate = %v after third hit", result.Streak, result.Celebrate)
	}
}

func TestArcade_ThreeMissesEndRunAtZero(t *testing.T) {
	arcade := NewArcade(rushWords(15), exercise.NewSeededGenerator(8))

	for i := 0; i < 3; i++ {
		round := arcade.Round()
		wrong := (round.CorrectIndex + 1) % len(round.Options)
		result := arcade.Answer(round.Serial, wrong)
		if result.Hit {
			t.Fatalf("miss %d scored as hit", i+1)
		}
		if result.Streak != 0 {
			t.Fatalf("streak = %d after miss", result.Streak)
		}
		if wantLives := 2 - i; result.LivesLeft != wantLives {
			t.Fatalf("lives = %d after miss %d, want %d", result.LivesLeft, i+1, wantLives)
		}
		if gameOver := i == 2; result.GameOver != gameOver {
			t.Fatalf("game over = %v after miss %d", result.GameOver, i+1)
		}
	}

	if !arcade.Over() {
		t.Fatal("run should be over")
	}
	if arcade.Score() != 0 {
		t.Errorf("final score = %d, want 0", arcade.Score())
	}
	if arcade.Lives() != 0 {
		t.Errorf("lives = %d, want 0", arcade.Lives())
	}
}

func TestArcade_TimeoutIsAMiss(t *testing.T) {
	arcade := NewArcade(rushWords(15), exercise.NewSeededGenerator(6))

	round := arcade.Round()
	expired := false
	for i := 0; i < 200 && !expired; i++ {
		expired = arcade.Tick(round.Serial, 0.1)
	}
	if !expired {
		t.Fatal("countdown never expired")
	}

	result := arcade.Timeout(round.Serial)
	if result.Hit {
		t.Fatal("timeout scored as hit")
	}
	if result.LivesLeft != ArcadeLives-1 {
		t.Errorf("lives = %d after timeout", result.LivesLeft)
	}
}

func TestArcade_StaleTicksIgnored(t *testing.T) {
	arcade := NewArcade(rushWords(15), exercise.NewSeededGenerator(12))

	old := arcade.Round()
	arcade.Answer(old.Serial, old.CorrectIndex)

	// A tick scheduled against the finished round must not touch the new one.
	fresh := arcade.Round()
	before := arcade.Remaining()
	if arcade.Tick(old.Serial, 5) {
		t.Fatal("stale tick expired the round")
	}
	if arcade.Remaining() != before {
		t.Error("stale tick decremented the countdown")
	}

	// A stale answer must not score either.
	score := arcade.Score()
	result := arcade.Answer(old.Serial, old.CorrectIndex)
	if result.Hit || arcade.Score() != score {
		t.Error("stale answer was scored")
	}
	if arcade.Round().Serial != fresh.Serial {
		t.Error("stale answer advanced the round")
	}
}

func TestArcade_EndsWhenListExhausted(t *testing.T) {
	arcade := NewArcade(rushWords(4), exercise.NewSeededGenerator(3))

	for i := 0; i < 4; i++ {
		round := arcade.Round()
		arcade.Answer(round.Serial, round.CorrectIndex)
	}
	if !arcade.Over() {
		t.Fatal("run should end when the word list is exhausted")
	}
	if arcade.Lives() != ArcadeLives {
		t.Errorf("lives = %d, want untouched %d", arcade.Lives(), ArcadeLives)
	}
}
