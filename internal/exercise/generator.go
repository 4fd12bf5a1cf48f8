package exercise

import (
	"math/rand"
	"time"

	"github.com/example/vocabot/pkg/models"
	"github.com/google/uuid"
)

// Number of vocabulary items per generated batch
const (
	LessonSize   = 5
	WordRushSize = 15
)

// matchingPrompt is the fixed question text of the matching exercise
const matchingPrompt = "Ghép mỗi từ với nghĩa tiếng Việt đúng của nó"

// Generator builds exercise sequences from a vocabulary set.
// Option order is randomized; distractor choice for lessons is not.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded from the current time
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator creates a generator with a fixed seed, for deterministic tests
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// BuildLesson expands a vocabulary set into the full lesson sequence:
// five exercises per item in input order, then one matching exercise
// covering the whole set.
func (g *Generator) BuildLesson(items []models.VocabularyItem) []models.Exercise {
	exercises := make([]models.Exercise, 0, len(items)*5+1)

	for i, item := range items {
		exercises = append(exercises, models.Exercise{
			ID:           uuid.NewString(),
			Kind:         models.Flashcard,
			TargetID:     item.ID,
			Question:     item.Word,
			CorrectIndex: models.NoCorrectIndex,
		})

		options, correct := g.shuffle(meaningOptions(items, i))
		exercises = append(exercises, models.Exercise{
			ID:           uuid.NewString(),
			Kind:         models.GuessMeaning,
			TargetID:     item.ID,
			Question:     item.Word,
			Options:      options,
			CorrectIndex: correct,
		})

		options, correct = g.shuffle(wordOptions(items, i))
		exercises = append(exercises, models.Exercise{
			ID:           uuid.NewString(),
			Kind:         models.GuessWord,
			TargetID:     item.ID,
			Question:     item.MeaningVi,
			Options:      options,
			CorrectIndex: correct,
		})

		exercises = append(exercises, models.Exercise{
			ID:           uuid.NewString(),
			Kind:         models.FillBlank,
			TargetID:     item.ID,
			Question:     item.ExampleBlank,
			CorrectIndex: models.NoCorrectIndex,
		})

		options, correct = g.shuffle(meaningOptions(items, i))
		exercises = append(exercises, models.Exercise{
			ID:           uuid.NewString(),
			Kind:         models.Listening,
			TargetID:     item.ID,
			Question:     item.Word, // consumed by audio playback, not shown
			Options:      options,
			CorrectIndex: correct,
		})
	}

	pairs := make([]models.MatchingPair, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, models.MatchingPair{WordID: item.ID, Meaning: item.MeaningVi})
	}
	exercises = append(exercises, models.Exercise{
		ID:           uuid.NewString(),
		Kind:         models.Matching,
		TargetID:     models.MatchingTarget,
		Question:     matchingPrompt,
		CorrectIndex: models.NoCorrectIndex,
		Pairs:        pairs,
	})

	return exercises
}

// BuildRushOptions builds the four answer options for a Word Rush round.
// Unlike lessons, distractors are sampled at random from the word list.
func (g *Generator) BuildRushOptions(words []models.VocabularyItem, idx int) ([]string, int) {
	target := words[idx]
	options := []string{target.MeaningVi}

	perm := g.rnd.Perm(len(words))
	for _, j := range perm {
		if len(options) == 4 {
			break
		}
		if j == idx {
			continue
		}
		options = append(options, words[j].MeaningVi)
	}

	return g.shuffle(options, 0)
}

// meaningOptions collects the Vietnamese meaning of item i plus the meanings
// of the first three other items in iteration order. The deterministic pick
// keeps distractor sets stable given the input order.
func meaningOptions(items []models.VocabularyItem, i int) ([]string, int) {
	options := []string{items[i].MeaningVi}
	for j := 0; j < len(items) && len(options) < 4; j++ {
		if j == i {
			continue
		}
		options = append(options, items[j].MeaningVi)
	}
	return options, 0
}

// wordOptions is meaningOptions over headwords instead of meanings
func wordOptions(items []models.VocabularyItem, i int) ([]string, int) {
	options := []string{items[i].Word}
	for j := 0; j < len(items) && len(options) < 4; j++ {
		if j == i {
			continue
		}
		options = append(options, items[j].Word)
	}
	return options, 0
}

// shuffle runs a Fisher-Yates pass over options, tracking where the
// correct entry ends up
func (g *Generator) shuffle(options []string, correct int) ([]string, int) {
	for i := len(options) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		if i == correct {
			correct = j
		} else if j == correct {
			correct = i
		}
		options[i], options[j] = options[j], options[i]
	}
	return options, correct
}
