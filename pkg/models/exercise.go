package models

// ExerciseKind represents different types of exercises
type ExerciseKind string

const (
	// Flashcard shows the word and is never scored
	Flashcard ExerciseKind = "flashcard"
	// GuessMeaning asks for the Vietnamese meaning of a word
	GuessMeaning ExerciseKind = "guess_meaning"
	// GuessWord asks for the word matching a Vietnamese meaning
	GuessWord ExerciseKind = "guess_word"
	// FillBlank asks the user to type the missing word of a sentence
	FillBlank ExerciseKind = "fill_blank"
	// Listening plays the word aloud and asks for its meaning
	Listening ExerciseKind = "listening"
	// Matching asks the user to pair every word with its meaning
	Matching ExerciseKind = "matching"
)

const (
	// MatchingTarget marks an exercise that applies to the whole vocabulary set
	MatchingTarget = "ALL"
	// MatchingComplete is the sentinel answer submitted when all pairs are confirmed
	MatchingComplete = "COMPLETE"
	// NoCorrectIndex marks exercises without an options list
	NoCorrectIndex = -1
)

// MatchingPair is one (word, meaning) pair of a matching exercise
type MatchingPair struct {
	WordID  string `json:"word_id"`
	Meaning string `json:"meaning"`
}

// Exercise represents a single question derived from the vocabulary set
type Exercise struct {
	ID           string         `json:"id"`
	Kind         ExerciseKind   `json:"kind"`
	TargetID     string         `json:"target_id"` // Vocabulary item ID, or MatchingTarget
	Question     string         `json:"question"`
	Options      []string       `json:"options,omitempty"`
	CorrectIndex int            `json:"correct_index"` // NoCorrectIndex when Options is empty
	Pairs        []MatchingPair `json:"pairs,omitempty"`
}

// Scored reports whether answers to this exercise affect experience points
func (e Exercise) Scored() bool {
	return e.Kind != Flashcard
}
