package models

import "strings"

// BlankToken is the placeholder that masks the headword in an example sentence
const BlankToken = "_____"

// VocabularyItem represents one English word taught to the learner
type VocabularyItem struct {
	ID           string   `json:"id"`
	Word         string   `json:"word"`
	Phonetic     string   `json:"phonetic"`
	Meaning      string   `json:"meaning"`    // English definition
	MeaningVi    string   `json:"meaning_vi"` // Vietnamese definition
	PartOfSpeech string   `json:"part_of_speech"`
	Example      string   `json:"example"`
	ExampleBlank string   `json:"example_blank"` // Example with the word replaced by BlankToken
	Synonyms     []string `json:"synonyms"`
	ImageHint    string   `json:"image_hint"` // Short phrase for sourcing an illustration
}

// Valid reports whether the item satisfies the masked-sentence invariant:
// the blanked example contains the token exactly once and the plain example not at all.
func (v VocabularyItem) Valid() bool {
	if v.ID == "" || v.Word == "" || v.MeaningVi == "" {
		return false
	}
	if strings.Count(v.ExampleBlank, BlankToken) != 1 {
		return false
	}
	return !strings.Contains(v.Example, BlankToken)
}

// MaskExample builds the blanked version of a sentence by replacing the first
// case-insensitive occurrence of word with BlankToken. Used to repair items
// the content provider returned without a usable masked sentence.
func MaskExample(sentence, word string) string {
	lower := strings.ToLower(sentence)
	idx := strings.Index(lower, strings.ToLower(word))
	if idx < 0 {
		return sentence + " " + BlankToken
	}
	return sentence[:idx] + BlankToken + sentence[idx+len(word):]
}
