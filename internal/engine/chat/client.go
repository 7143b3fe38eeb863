package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brandgate/internal/platform/config"
)

// DefaultSystemPrompt is the brand-neutral instruction substituted when a
// request carries none.
const DefaultSystemPrompt = "You are a helpful assistant."

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []Message              `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Client relays conversations to the hosted completion endpoint. It holds no
// per-conversation state; every call is independent.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(cfg config.CompletionConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Complete sends the conversation and returns the full assistant reply.
func (c *Client) Complete(ctx context.Context, messages []Message, system string) (string, error) {
	resp, err := c.send(ctx, messages, system, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	return strings.TrimSpace(out.Message.Content), nil
}

// Stream sends the conversation and returns a channel of incremental text
// chunks. Both channels close when the upstream signals completion or
// fails; cancelling ctx aborts the in-flight upstream request.
func (c *Client) Stream(ctx context.Context, messages []Message, system string) (<-chan string, <-chan error, error) {
	resp, err := c.send(ctx, messages, system, true)
	if err != nil {
		return nil, nil, err
	}

	chunks := make(chan string, 4)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk chatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				errs <- fmt.Errorf("failed to decode stream chunk: %w", err)
				return
			}

			if chunk.Message.Content != "" {
				select {
				case chunks <- chunk.Message.Content:
				case <-ctx.Done():
					return
				}
			}
			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errs <- err
		}
	}()

	return chunks, errs, nil
}

func (c *Client) send(ctx context.Context, messages []Message, system string, stream bool) (*http.Response, error) {
	if system == "" {
		system = DefaultSystemPrompt
	}

	full := make([]Message, 0, len(messages)+1)
	full = append(full, Message{Role: "system", Content: system})
	full = append(full, messages...)

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: full,
		Stream:   stream,
		Options:  map[string]interface{}{"temperature": 0.7},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call completion endpoint: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
