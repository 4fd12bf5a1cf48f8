package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/vocabot/pkg/models"
	"github.com/google/uuid"
)

// FallbackHint is shown when hint generation fails; hint failures must
// never surface as errors to the learner.
const FallbackHint = "Chưa đúng rồi! Hãy đọc lại câu ví dụ và thử lần nữa nhé."

// ContentProvider generates vocabulary sets, word lists and hints.
// The bot depends on this interface so tests can fake the API.
type ContentProvider interface {
	GenerateVocabularySet(ctx context.Context, level models.Level, topic models.Topic) ([]models.VocabularyItem, error)
	GenerateWordRushList(ctx context.Context, level models.Level) ([]models.VocabularyItem, error)
	GenerateHint(ctx context.Context, item models.VocabularyItem, wrongAnswer string, kind models.ExerciseKind) (string, error)
}

// ChatGPT represents a client for the OpenAI ChatGPT API
type ChatGPT struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// New creates a new ChatGPT client
func New(apiKey string) *ChatGPT {
	return &ChatGPT{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		model:       "gpt-4o-mini",
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = "You are a vocabulary tutor for Vietnamese speakers learning English. " +
	"Always answer with exactly the JSON requested, no markdown fences and no commentary."

// GenerateVocabularySet requests a batch of 5 vocabulary items for a lesson
func (c *ChatGPT) GenerateVocabularySet(ctx context.Context, level models.Level, topic models.Topic) ([]models.VocabularyItem, error) {
	prompt := fmt.Sprintf(vocabularyPrompt, lessonWords, level, topic)
	raw, err := c.complete(ctx, prompt, 1500)
	if err != nil {
		return nil, err
	}
	return parseVocabulary(raw, lessonWords)
}

// GenerateWordRushList requests the larger 15-word list for an arcade run
func (c *ChatGPT) GenerateWordRushList(ctx context.Context, level models.Level) ([]models.VocabularyItem, error) {
	prompt := fmt.Sprintf(vocabularyPrompt, rushWords, level, "mixed everyday topics")
	raw, err := c.complete(ctx, prompt, 3500)
	if err != nil {
		return nil, err
	}
	return parseVocabulary(raw, rushWords)
}

const (
	lessonWords = 5
	rushWords   = 15
)

const vocabularyPrompt = `Generate %d English vocabulary words for a %s learner, topic "%s".
Return a JSON array where each element has these string fields:
"word", "phonetic" (IPA), "meaning" (short English definition),
"meaning_vi" (Vietnamese translation of the meaning), "part_of_speech",
"example" (one sentence using the word),
"example_blank" (the same sentence with the word replaced by "_____"),
"synonyms" (array of strings), "image_hint" (short phrase describing a picture of the word).
Every word must be distinct and every meaning_vi must be distinct.`

// GenerateHint asks for a short explanation after a wrong answer
func (c *ChatGPT) GenerateHint(ctx context.Context, item models.VocabularyItem, wrongAnswer string, kind models.ExerciseKind) (string, error) {
	prompt := fmt.Sprintf(
		"A Vietnamese learner answered %q in a %s exercise about the English word %q (meaning: %q, example: %q). "+
			"Write one short encouraging hint in Vietnamese that nudges them toward the right answer without revealing it outright.",
		wrongAnswer, kind, item.Word, item.MeaningVi, item.Example,
	)
	hint, err := c.complete(ctx, prompt, 120)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(hint), nil
}

// GenerateHintWithFallback generates a hint, substituting a fixed string on failure
func (c *ChatGPT) GenerateHintWithFallback(ctx context.Context, item models.VocabularyItem, wrongAnswer string, kind models.ExerciseKind) string {
	hint, err := c.GenerateHint(ctx, item, wrongAnswer, kind)
	if err != nil || hint == "" {
		return FallbackHint
	}
	return hint
}

// complete sends one chat completion request and returns the raw content
func (c *ChatGPT) complete(ctx context.Context, userPrompt string, maxTokens int) (string, error) {
	request := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return response.Choices[0].Message.Content, nil
}

// parseVocabulary decodes and validates a generated vocabulary batch.
// Items with a broken masked sentence are repaired from the plain example;
// a wrong count or duplicate entries reject the whole batch.
func parseVocabulary(raw string, want int) ([]models.VocabularyItem, error) {
	raw = stripFences(raw)

	var items []models.VocabularyItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary JSON: %v", err)
	}
	if len(items) != want {
		return nil, fmt.Errorf("expected %d vocabulary items, got %d", want, len(items))
	}

	seenWord := make(map[string]bool)
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].Word = strings.TrimSpace(items[i].Word)

		key := strings.ToLower(items[i].Word)
		if key == "" || seenWord[key] {
			return nil, fmt.Errorf("duplicate or empty word in generated set: %q", items[i].Word)
		}
		seenWord[key] = true

		if strings.Count(items[i].ExampleBlank, models.BlankToken) != 1 {
			items[i].ExampleBlank = models.MaskExample(items[i].Example, items[i].Word)
		}
		if !items[i].Valid() {
			return nil, fmt.Errorf("generated item %q is incomplete", items[i].Word)
		}
	}

	return items, nil
}

// stripFences removes a markdown code fence if the model added one anyway
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
