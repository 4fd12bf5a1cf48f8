package exercise

import "github.com/example/vocabot/pkg/models"

// MatchOutcome is the result of a selection on the matching board
type MatchOutcome int

const (
	// OutcomePending means the selection was recorded and the board waits for the other side
	OutcomePending MatchOutcome = iota
	// OutcomeMatched means the pending pair matched and was confirmed
	OutcomeMatched
	// OutcomeMismatched means the pending pair did not match; both selections were cleared
	OutcomeMismatched
	// OutcomeComplete means the last pair was just confirmed
	OutcomeComplete
)

// MatchingBoard tracks the state of one matching exercise: at most one
// pending selection per side and the set of confirmed pairs. A mismatch
// clears the pending selections with no penalty.
type MatchingBoard struct {
	pairs          []models.MatchingPair
	confirmed      map[string]bool
	pendingWordID  string
	pendingMeaning string
	hasWord        bool
	hasMeaning     bool
}

// NewMatchingBoard creates a board for the given matching exercise
func NewMatchingBoard(ex models.Exercise) *MatchingBoard {
	return &MatchingBoard{
		pairs:     ex.Pairs,
		confirmed: make(map[string]bool),
	}
}

// SelectWord records the word-side selection. Selecting an already
// confirmed word is ignored.
func (b *MatchingBoard) SelectWord(wordID string) MatchOutcome {
	if b.confirmed[wordID] {
		return OutcomePending
	}
	b.pendingWordID = wordID
	b.hasWord = true
	return b.resolve()
}

// SelectMeaning records the meaning-side selection. Selecting the meaning
// of an already confirmed pair is ignored.
func (b *MatchingBoard) SelectMeaning(meaning string) MatchOutcome {
	if b.meaningConfirmed(meaning) {
		return OutcomePending
	}
	b.pendingMeaning = meaning
	b.hasMeaning = true
	return b.resolve()
}

// resolve tests the pending pair once both sides are selected
func (b *MatchingBoard) resolve() MatchOutcome {
	if !b.hasWord || !b.hasMeaning {
		return OutcomePending
	}

	matched := false
	for _, p := range b.pairs {
		if p.WordID == b.pendingWordID && p.Meaning == b.pendingMeaning {
			matched = true
			break
		}
	}

	wordID := b.pendingWordID
	b.pendingWordID = ""
	b.pendingMeaning = ""
	b.hasWord = false
	b.hasMeaning = false

	if !matched {
		return OutcomeMismatched
	}

	b.confirmed[wordID] = true
	if b.Complete() {
		return OutcomeComplete
	}
	return OutcomeMatched
}

// Complete reports whether every declared pair has been confirmed
func (b *MatchingBoard) Complete() bool {
	return len(b.confirmed) == len(b.pairs)
}

// Confirmed reports whether the pair for wordID has been confirmed
func (b *MatchingBoard) Confirmed(wordID string) bool {
	return b.confirmed[wordID]
}

// PendingWord returns the word-side selection, if any
func (b *MatchingBoard) PendingWord() (string, bool) {
	return b.pendingWordID, b.hasWord
}

func (b *MatchingBoard) meaningConfirmed(meaning string) bool {
	for _, p := range b.pairs {
		if p.Meaning == meaning && b.confirmed[p.WordID] {
			return true
		}
	}
	return false
}
