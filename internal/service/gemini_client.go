package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talentprep/internal/config"
)

// ModelClient is the generative model dependency of the generator
type ModelClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent API directly over HTTP
type GeminiClient struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiClient creates a Gemini client from AI config
func NewGeminiClient(cfg *config.AIConfig) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// GenerateContent sends a prompt with the configured sampling
// parameters and returns the first candidate's text
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	genConfig := map[string]interface{}{
		"maxOutputTokens": c.config.Params.MaxOutputTokens,
		"temperature":     c.config.Params.Temperature,
		"topK":            c.config.Params.TopK,
		"topP":            c.config.Params.TopP,
	}
	if len(c.config.Params.StopSequences) > 0 {
		genConfig["stopSequences"] = c.config.Params.StopSequences
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": genConfig,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", c.config.ModelEndpoint(), c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// The body text is kept in the error so rate-limit classification
	// can match against it; Gemini sends no structured error code here.
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

var rateLimitMarkers = []string{
	"429",
	"quota",
	"rate limit",
	"rate-limit",
	"resource_exhausted",
	"too many requests",
}

// IsRateLimitError reports whether err looks like an upstream quota or
// rate-limit failure. Matching is by message substring only.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
