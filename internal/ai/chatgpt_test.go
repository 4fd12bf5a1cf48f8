package ai

import (
	"strings"
	"testing"

	"github.com/example/vocabot/pkg/models"
)

const sampleBatch = `[
  {"word": "journey", "phonetic": "/ˈdʒɜːni/", "meaning": "a trip from one place to another",
   "meaning_vi": "chuyến đi", "part_of_speech": "noun",
   "example": "The journey took three hours.",
   "example_blank": "The _____ took three hours.",
   "synonyms": ["trip", "voyage"], "image_hint": "a winding road"},
  {"word": "arrive", "phonetic": "/əˈraɪv/", "meaning": "to reach a place",
   "meaning_vi": "đến nơi", "part_of_speech": "verb",
   "example": "We arrive at noon.",
   "example_blank": "We arrive at noon.",
   "synonyms": ["reach"], "image_hint": "a train at a station"}
]`

func TestParseVocabulary_RepairsMissingBlank(t *testing.T) {
	items, err := parseVocabulary(sampleBatch, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}

	// The second item came back without a masked sentence; it must be repaired.
	if got := items[1].ExampleBlank; got != "We "+models.BlankToken+" at noon." {
		t.Errorf("repaired blank = %q", got)
	}
	for _, item := range items {
		if !item.Valid() {
			t.Errorf("item %q invalid after parsing", item.Word)
		}
		if item.ID == "" {
			t.Errorf("item %q has no id", item.Word)
		}
	}
	if items[0].ID == items[1].ID {
		t.Error("items share an id")
	}
}

func TestParseVocabulary_CountMismatch(t *testing.T) {
	if _, err := parseVocabulary(sampleBatch, 5); err == nil {
		t.Error("expected error for short batch")
	}
}

func TestParseVocabulary_DuplicateWordsRejected(t *testing.T) {
	dup := strings.ReplaceAll(sampleBatch, `"word": "arrive"`, `"word": "Journey"`)
	if _, err := parseVocabulary(dup, 2); err == nil {
		t.Error("expected error for duplicate word")
	}
}

func TestParseVocabulary_StripsFences(t *testing.T) {
	fenced := "```json\n" + sampleBatch + "\n```"
	if _, err := parseVocabulary(fenced, 2); err != nil {
		t.Errorf("fenced batch rejected: %v", err)
	}
}
