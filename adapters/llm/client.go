package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dealscope/internal"
	"dealscope/internal/config"
	apperrors "dealscope/internal/errors"
	"dealscope/ports"
)

// NewClient creates an LLM client from the AI configuration.
func NewClient(cfg config.AIConfig) (ports.LLMClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, apperrors.ConfigInvalid("missing OpenAI API key")
	}
	return &OpenAIClient{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     "https://api.openai.com/v1",
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
		System:      cfg.SystemContext,
		logger:      internal.NewDefaultLogger(),
	}, nil
}

// OpenAIClient implements LLMClient against the chat completions API.
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	System      string

	logger *internal.Logger
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", fmt.Errorf("missing model")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	// Chat Completions API (kept minimal: one system + one user message)
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type respFormat struct {
		Type string `json:"type"`
	}
	type reqBody struct {
		Model          string      `json:"model"`
		Messages       []msg       `json:"messages"`
		Temperature    float64     `json:"temperature,omitempty"`
		MaxTokens      int         `json:"max_tokens,omitempty"`
		ResponseFormat *respFormat `json:"response_format,omitempty"`
	}

	system := c.System
	if system == "" {
		system = "You are a careful assistant. Output exactly what the user asks for."
	}
	body := reqBody{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   maxTokens,
		// JSON mode keeps newer models from drifting into prose; the
		// parser still defends against fenced or chatty output.
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	logger := c.logger
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	logger.Debug("OpenAI request: model=%s bytes=%d maxTokens=%d", model, len(raw), maxTokens)

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("request timeout after %v: %w", timeout, err)
		}
		return "", apperrors.ExternalServiceError("openai", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, string(respRaw))
	}
	logger.Debug("OpenAI response: status=%d bytes=%d", resp.StatusCode, len(respRaw))

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors

	// Prompts records every prompt the mock received.
	Prompts []string
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	// Default mock response: a minimal well-formed assessment
	return `{
		"risk_level": "LOW",
		"risk_score": 10,
		"executive_summary": "No adverse findings for this transaction.",
		"verification_status": "COMPLETE - 0 sources checked",
		"red_flags": [],
		"party_backgrounds": [],
		"recommendations": ["Proceed with standard closing diligence."]
	}`, nil
}
