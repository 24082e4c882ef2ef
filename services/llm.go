package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged turn sent to the completion API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces one text completion for an ordered message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// LLMClient talks to an OpenAI-compatible chat completions endpoint.
type LLMClient struct {
	BaseURL string
	Token   string
	Model   string
	client  *http.Client
}

func NewLLMClient() *LLMClient {
	timeout := 60 * time.Second
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return &LLMClient{
		BaseURL: os.Getenv("LLM_BASE_URL"),
		Token:   os.Getenv("LLM_TOKEN"),
		Model:   os.Getenv("LLM_MODEL"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *LLMClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(ChatRequest{
		Model:    s.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %v", err)
	}

	url := strings.TrimSuffix(s.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %v", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
