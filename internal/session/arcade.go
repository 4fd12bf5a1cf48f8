package session

import (
	"math"

	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/pkg/models"
)

// Word Rush rules
const (
	ArcadeLives     = 3
	arcadeBaseScore = 100
	arcadeStreakBonus = 5
	arcadeCelebrateAt = 2 // celebratory effect once the streak exceeds this
)

// RoundBudget returns the time budget in seconds for round i:
// ten seconds at the start, one second less every three rounds, never
// below three.
func RoundBudget(i int) float64 {
	budget := 10 - i/3
	if budget < 3 {
		budget = 3
	}
	return float64(budget)
}

// Round is the rendered view of one Word Rush round
type Round struct {
	Index        int
	Serial       int
	Word         models.VocabularyItem
	Options      []string
	CorrectIndex int
	Budget       float64
}

// RoundResult describes the outcome of an answered (or timed-out) round
type RoundResult struct {
	Hit           bool
	Points        int // points awarded for this round, 0 on a miss
	Streak        int
	Celebrate     bool
	LivesLeft     int
	GameOver      bool
	CorrectAnswer string
}

// Arcade is the Word Rush state machine: a fixed word list played under a
// shrinking per-round countdown, three lives and streak-based scoring.
// Ticks carry the round serial so that a tick scheduled against a finished
// round is discarded instead of double-scoring.
type Arcade struct {
	words     []models.VocabularyItem
	gen       *exercise.Generator
	round     Round
	serial    int
	lives     int
	streak    int
	score     int
	remaining float64
	over      bool
}

// NewArcade starts a run over the given word list
func NewArcade(words []models.VocabularyItem, gen *exercise.Generator) *Arcade {
	a := &Arcade{
		words: words,
		gen:   gen,
		lives: ArcadeLives,
	}
	a.prepareRound(0)
	return a
}

// Round returns the live round
func (a *Arcade) Round() Round {
	return a.round
}

// Over reports whether the run has ended
func (a *Arcade) Over() bool {
	return a.over
}

// Score returns the current total score
func (a *Arcade) Score() int {
	return a.score
}

// Lives returns the remaining lives
func (a *Arcade) Lives() int {
	return a.lives
}

// Streak returns the current run of consecutive hits
func (a *Arcade) Streak() int {
	return a.streak
}

// Remaining returns the seconds left on the current round's countdown
func (a *Arcade) Remaining() float64 {
	return a.remaining
}

// Tick advances the countdown by delta seconds and reports whether the
// round just expired. Ticks for a stale serial or a finished run are
// ignored.
func (a *Arcade) Tick(serial int, delta float64) (expired bool) {
	if a.over || serial != a.round.Serial {
		return false
	}
	a.remaining -= delta
	if a.remaining > 0 {
		return false
	}
	a.remaining = 0
	return true
}

// Answer scores the chosen option for the current round and moves on.
// An out-of-range option index (the timeout sentinel -1 included) counts
// as a miss.
func (a *Arcade) Answer(serial int, optionIndex int) RoundResult {
	if a.over || serial != a.round.Serial {
		return RoundResult{LivesLeft: a.lives, GameOver: a.over}
	}

	correct := a.round.Options[a.round.CorrectIndex]

	if optionIndex == a.round.CorrectIndex {
		points := arcadeBaseScore + int(math.Ceil(a.remaining*10)) + a.streak*arcadeStreakBonus
		a.score += points
		a.streak++
		result := RoundResult{
			Hit:           true,
			Points:        points,
			Streak:        a.streak,
			Celebrate:     a.streak > arcadeCelebrateAt,
			LivesLeft:     a.lives,
			CorrectAnswer: correct,
		}
		a.prepareRound(a.round.Index + 1)
		result.GameOver = a.over
		return result
	}

	a.streak = 0
	a.lives--
	result := RoundResult{
		LivesLeft:     a.lives,
		CorrectAnswer: correct,
	}
	if a.lives <= 0 {
		a.over = true
		result.GameOver = true
		return result
	}
	a.prepareRound(a.round.Index + 1)
	result.GameOver = a.over
	return result
}

// Timeout scores an expired round as a miss
func (a *Arcade) Timeout(serial int) RoundResult {
	return a.Answer(serial, -1)
}

// prepareRound selects the word at index i and builds its options, or ends
// the run when the list is exhausted
func (a *Arcade) prepareRound(i int) {
	if i >= len(a.words) {
		a.over = true
		return
	}
	a.serial++
	options, correct := a.gen.BuildRushOptions(a.words, i)
	a.round = Round{
		Index:        i,
		Serial:       a.serial,
		Word:         a.words[i],
		Options:      options,
		CorrectIndex: correct,
		Budget:       RoundBudget(i),
	}
	a.remaining = a.round.Budget
}
