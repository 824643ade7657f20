package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/unseriousprof/edgi-vid-library/models"
)

// StructuredClient provides typed JSON responses from LLM calls
type StructuredClient[T any] struct {
	GeminiClient  *GeminiClient
	PromptManager *PromptManager
}

// GeminiClient holds connection settings for the Gemini generateContent API
type GeminiClient struct {
	APIKey      string
	BaseURL     string
	Timeout     int // in milliseconds
	Temperature float64
	Model       string
}

// NewStructuredClient creates a new structured client
func NewStructuredClient[T any](config *models.AIConfig) *StructuredClient[T] {
	log.Printf("[StructuredClient] Initializing client with model=%s, temp=%.2f",
		config.GeminiModel, config.Temperature)

	return &StructuredClient[T]{
		GeminiClient: &GeminiClient{
			APIKey:      config.GeminiKey,
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Timeout:     120000,
			Temperature: config.Temperature,
			Model:       config.GeminiModel,
		},
		PromptManager: NewPromptManager(config.PromptsDir),
	}
}

// GetJsonResponse makes a typed LLM call and parses the JSON response
func (client *StructuredClient[T]) GetJsonResponse(ctx context.Context, prompt string) (*T, error) {
	timeout := time.Duration(client.GeminiClient.Timeout) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Parts []part `json:"parts"`
	}
	type generationConfig struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType"`
	}
	type requestBody struct {
		Contents         []content        `json:"contents"`
		GenerationConfig generationConfig `json:"generationConfig"`
	}

	reqBody := requestBody{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      client.GeminiClient.Temperature,
			ResponseMimeType: "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent",
		client.GeminiClient.BaseURL, client.GeminiClient.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", client.GeminiClient.APIKey)

	log.Printf("[StructuredClient] Sending request to %s - promptLength=%d, temp=%.2f",
		client.GeminiClient.Model, len(prompt), client.GeminiClient.Temperature)

	httpClient := &http.Client{Timeout: timeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("request timeout after %v: %w", timeout, err)
		}
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	// Parse the generateContent response envelope
	type geminiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	var envelope geminiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w\nRaw response: %s", err, string(body))
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response\nRaw response: %s", string(body))
	}

	text := cleanJSONContent(envelope.Candidates[0].Content.Parts[0].Text)

	var result T
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON content into result type: %w\nCleaned content: %s", err, text)
	}
	return &result, nil
}

// GetJsonResponseFromPrompt loads an external prompt template and gets a
// structured response
func (client *StructuredClient[T]) GetJsonResponseFromPrompt(ctx context.Context, promptName string, replacements map[string]string) (*T, error) {
	prompt, err := client.PromptManager.RenderPrompt(promptName, replacements)
	if err != nil {
		return nil, fmt.Errorf("failed to load/render prompt: %w", err)
	}
	return client.GetJsonResponse(ctx, prompt)
}

// cleanJSONContent removes markdown code fences the model sometimes wraps
// around its JSON output even in JSON mode
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Trim any prefix chatter before the first JSON object or array
	if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
		if idx := strings.IndexAny(content, "{["); idx > 0 {
			content = content[idx:]
		}
	}

	return content
}
