// Package chat talks to an OpenAI-compatible chat completions API and
// assembles the prompt context the assistant answers against.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	// ErrNotConfigured means no API key is set.
	ErrNotConfigured = errors.New("no LLM API key is configured")

	// ErrUpstream wraps every failure of the upstream API.
	ErrUpstream = errors.New("the AI service could not be reached")
)

const (
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"

	requestTimeout = 60 * time.Second
)

// Message is one turn of a conversation in the wire format of the
// completions API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client calls a chat completions endpoint. The zero value is not
// usable, construct it with NewClient or FromEnv.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config for the completions client. BaseURL and Model fall back to
// the DeepSeek defaults when empty.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	if config.Model == "" {
		config.Model = defaultModel
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		model:   config.Model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// FromEnv builds a client from LLM_API_URL, LLM_API_KEY and LLM_MODEL.
func FromEnv() *Client {
	return NewClient(Config{
		BaseURL: os.Getenv("LLM_API_URL"),
		APIKey:  os.Getenv("LLM_API_KEY"),
		Model:   os.Getenv("LLM_MODEL"),
	})
}

// Complete sends the messages and returns the assistant reply. A
// single request, no retries.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: the response contained no choices", ErrUpstream)
	}

	return completion.Choices[0].Message.Content, nil
}
