package models

import (
	"testing"
	"time"
)

func TestNormalize_ResetsUnknownLevelOnly(t *testing.T) {
	p := &UserProfile{
		UserID: 1,
		XP:     730,
		Streak: 4,
		Level:  Level("expert"), // not a known level
		Topic:  TopicTravel,
	}
	p.Normalize()

	if p.Level != LevelBeginner {
		t.Errorf("level = %q, want beginner default", p.Level)
	}
	if p.Topic != TopicTravel {
		t.Errorf("valid topic was not preserved: %q", p.Topic)
	}
	if p.XP != 730 || p.Streak != 4 {
		t.Errorf("counters changed: xp=%d streak=%d", p.XP, p.Streak)
	}
}

func TestNormalizeTopic_Default(t *testing.T) {
	if got := NormalizeTopic("Quantum Physics"); got != TopicDailyCommunication {
		t.Errorf("NormalizeTopic = %q", got)
	}
	if got := NormalizeTopic(string(TopicBusiness)); got != TopicBusiness {
		t.Errorf("known topic rewritten to %q", got)
	}
}

func TestRecordStudy_Streak(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q", s)
		}
		return d
	}

	p := DefaultProfile(1)
	p.RecordStudy(day("2024-03-01"))
	if p.Streak != 1 {
		t.Fatalf("streak = %d after first study day", p.Streak)
	}

	// Same day again: no change.
	p.RecordStudy(day("2024-03-01"))
	if p.Streak != 1 {
		t.Fatalf("streak = %d after repeat on same day", p.Streak)
	}

	// Consecutive day extends.
	p.RecordStudy(day("2024-03-02"))
	if p.Streak != 2 {
		t.Fatalf("streak = %d after consecutive day", p.Streak)
	}

	// A skipped day resets to 1.
	p.RecordStudy(day("2024-03-05"))
	if p.Streak != 1 {
		t.Fatalf("streak = %d after gap", p.Streak)
	}
}

func TestTopEntries_TopTenStable(t *testing.T) {
	entries := make([]LeaderboardEntry, 0, 12)
	scores := []int{500, 200, 900, 200, 700, 100, 300, 650, 200, 400, 50, 820}
	for i, s := range scores {
		entries = append(entries, LeaderboardEntry{ID: int64(i + 1), PlayerName: "p", Score: s})
	}

	top := TopEntries(entries, 10)
	if len(top) != 10 {
		t.Fatalf("top size = %d, want 10", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("top not sorted descending at %d", i)
		}
	}

	// The three 200-scores tie; insertion order (ids 2, 4, 9) must hold.
	var tied []int64
	for _, e := range top {
		if e.Score == 200 {
			tied = append(tied, e.ID)
		}
	}
	if len(tied) != 3 || tied[0] != 2 || tied[1] != 4 || tied[2] != 9 {
		t.Errorf("tied entries out of insertion order: %v", tied)
	}

	// Input order untouched.
	if entries[0].Score != 500 {
		t.Error("TopEntries mutated its input")
	}
}

func TestMaskExample(t *testing.T) {
	got := MaskExample("The cat sleeps.", "cat")
	if got != "The "+BlankToken+" sleeps." {
		t.Errorf("MaskExample = %q", got)
	}
	// Case-insensitive match on the headword.
	got = MaskExample("Cats are Cats.", "cats")
	if got != BlankToken+" are Cats." {
		t.Errorf("MaskExample = %q", got)
	}
	// Word absent: blank appended so the invariant still holds.
	got = MaskExample("Nothing here.", "cat")
	if got != "Nothing here. "+BlankToken {
		t.Errorf("MaskExample = %q", got)
	}
}

func TestVocabularyItemValid(t *testing.T) {
	item := VocabularyItem{
		ID:           "a",
		Word:         "cat",
		MeaningVi:    "con mèo",
		Example:      "The cat sleeps.",
		ExampleBlank: "The " + BlankToken + " sleeps.",
	}
	if !item.Valid() {
		t.Error("valid item rejected")
	}

	bad := item
	bad.ExampleBlank = "The cat sleeps."
	if bad.Valid() {
		t.Error("missing blank token accepted")
	}

	bad = item
	bad.ExampleBlank = BlankToken + " " + BlankToken
	if bad.Valid() {
		t.Error("double blank token accepted")
	}

	bad = item
	bad.Example = "The " + BlankToken + " sleeps."
	if bad.Valid() {
		t.Error("blank token in plain example accepted")
	}
}
