package session

import (
	"github.com/example/vocabot/internal/exercise"
	"github.com/example/vocabot/pkg/models"
)

// Experience points awarded per correct scored answer
const PointsPerAnswer = 10

// Phase represents where a lesson currently is
type Phase int

const (
	// PhaseAnswering means the current exercise is live and waiting for an answer
	PhaseAnswering Phase = iota
	// PhaseFeedback means a correct answer was given and the lesson waits for acknowledgment
	PhaseFeedback
	// PhaseProcessing means a hint request is outstanding; input is disabled
	PhaseProcessing
	// PhaseComplete means every exercise has been finished
	PhaseComplete
)

// AnswerResult describes what happened to a submitted answer
type AnswerResult struct {
	Correct   bool
	AwardedXP int
	NeedsHint bool                 // caller must fetch a hint, then call Resume
	Target    models.VocabularyItem // zero value when the target is the whole set
}

// Lesson is the state machine of one 26-exercise learning session.
// It owns no I/O: the caller renders exercises, fetches hints and
// persists experience points.
type Lesson struct {
	items     []models.VocabularyItem
	exercises []models.Exercise
	idx       int
	earnedXP  int
	phase     Phase
	board     *exercise.MatchingBoard
}

// NewLesson builds the exercise sequence for a vocabulary set and starts
// at the first exercise
func NewLesson(items []models.VocabularyItem, gen *exercise.Generator) *Lesson {
	l := &Lesson{
		items:     items,
		exercises: gen.BuildLesson(items),
	}
	l.prepare()
	return l
}

// Phase returns the current lesson phase
func (l *Lesson) Phase() Phase {
	return l.phase
}

// Items returns the lesson's vocabulary set
func (l *Lesson) Items() []models.VocabularyItem {
	return l.items
}

// Current returns the live exercise. Only valid before completion.
func (l *Lesson) Current() models.Exercise {
	return l.exercises[l.idx]
}

// Progress reports the 1-based position within the sequence
func (l *Lesson) Progress() (current, total int) {
	pos := l.idx + 1
	if l.phase == PhaseComplete {
		pos = len(l.exercises)
	}
	return pos, len(l.exercises)
}

// Board returns the matching board of the current exercise, or nil
func (l *Lesson) Board() *exercise.MatchingBoard {
	return l.board
}

// Answer submits an answer for the current exercise. Flashcards advance
// unconditionally. A correct answer awards points and moves the lesson to
// PhaseFeedback until Acknowledge is called; a wrong answer moves it to
// PhaseProcessing until Resume is called, keeping the same exercise live.
func (l *Lesson) Answer(answer string) AnswerResult {
	if l.phase != PhaseAnswering {
		return AnswerResult{}
	}

	ex := l.Current()
	if ex.Kind == models.Flashcard {
		l.advance()
		return AnswerResult{Correct: true}
	}

	target, _ := l.findTarget(ex.TargetID)
	if !exercise.Evaluate(ex, l.items, answer) {
		l.phase = PhaseProcessing
		return AnswerResult{NeedsHint: true, Target: target}
	}

	l.earnedXP += PointsPerAnswer
	l.phase = PhaseFeedback
	return AnswerResult{Correct: true, AwardedXP: PointsPerAnswer, Target: target}
}

// Acknowledge confirms positive feedback and advances to the next exercise.
// Returns true when the lesson just completed.
func (l *Lesson) Acknowledge() bool {
	if l.phase != PhaseFeedback {
		return l.phase == PhaseComplete
	}
	l.advance()
	return l.phase == PhaseComplete
}

// Resume re-enables input on the current exercise after a hint was shown
func (l *Lesson) Resume() {
	if l.phase == PhaseProcessing {
		l.phase = PhaseAnswering
	}
}

// EarnedXP returns the experience points accrued so far, flashcards excluded
func (l *Lesson) EarnedXP() int {
	return l.earnedXP
}

// SummaryXP returns the completion-banner figure: total exercise count × 10.
// This deliberately differs from EarnedXP, which counts only scored answers.
func (l *Lesson) SummaryXP() int {
	return len(l.exercises) * PointsPerAnswer
}

func (l *Lesson) advance() {
	l.idx++
	if l.idx >= len(l.exercises) {
		l.idx = len(l.exercises) - 1
		l.phase = PhaseComplete
		l.board = nil
		return
	}
	l.prepare()
}

// prepare sets up per-exercise state for the exercise at idx
func (l *Lesson) prepare() {
	l.phase = PhaseAnswering
	l.board = nil
	if l.exercises[l.idx].Kind == models.Matching {
		l.board = exercise.NewMatchingBoard(l.exercises[l.idx])
	}
}

func (l *Lesson) findTarget(id string) (models.VocabularyItem, bool) {
	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.VocabularyItem{}, false
}
