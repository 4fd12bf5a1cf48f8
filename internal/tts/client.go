package tts

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Client produces spoken audio for English text via the Google Cloud TTS
// REST API, caching the resulting mp3 files on disk. Callers treat speech
// as best effort: any failure is returned as an error and the caller moves
// on without audio.
type Client struct {
	cacheDir   string
	apiKey     string
	mu         sync.Mutex
	httpClient *http.Client
}

// NewClient creates a TTS client caching under cacheDir
func NewClient(cacheDir string) *Client {
	os.MkdirAll(cacheDir, 0o755)
	return &Client{
		cacheDir: cacheDir,
		apiKey:   os.Getenv("GOOGLE_TTS_API_KEY"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

func (c *Client) cacheKey(text string) string {
	h := sha256.Sum256([]byte("en:" + text))
	return hex.EncodeToString(h[:16])
}

// GetAudio returns mp3 audio for the given text, serving from the cache
// when possible
func (c *Client) GetAudio(text string) ([]byte, error) {
	cachePath := filepath.Join(c.cacheDir, c.cacheKey(text)+".mp3")
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check cache after acquiring lock
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	if c.apiKey == "" {
		return nil, fmt.Errorf("TTS unavailable: no API key configured")
	}

	data, err := c.synthesize(text)
	if err != nil {
		return nil, err
	}
	os.WriteFile(cachePath, data, 0o644)
	return data, nil
}

func (c *Client) synthesize(text string) ([]byte, error) {
	url := "https://texttospeech.googleapis.com/v1/text:synthesize?key=" + c.apiKey

	reqBody := map[string]interface{}{
		"input": map[string]string{
			"text": text,
		},
		"voice": map[string]interface{}{
			"languageCode": "en-US",
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]string{
			"audioEncoding": "MP3",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}
