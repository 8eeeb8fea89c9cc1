// Package agent holds the outbound LLM collaborator. The rest of the
// application only sees the Generator interface, so tests substitute a
// deterministic stub and the provider behind the HTTP endpoint can change
// without touching the orchestration.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// ErrUnavailable wraps every failure of the generate call: connection
// errors, timeouts and non-200 responses alike.
var ErrUnavailable = errors.New("llm unavailable")

const generateTimeout = 60 * time.Second

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GenerateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}

// LLMClient talks to an Ollama-style /api/generate endpoint.
type LLMClient struct {
	url    string
	model  string
	client *http.Client
	logger *slog.Logger
}

func NewLLMClient(url, model string) *LLMClient {
	return &LLMClient{
		url:    url,
		model:  model,
		client: &http.Client{Timeout: generateTimeout},
		logger: slog.Default(),
	}
}

func (l *LLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() {
		l.logger.Info("llm generation finished", "took", time.Since(start))
	}()

	reqBody, err := json.Marshal(GenerateRequest{
		Model: l.model,
		System: `You are a private knowledge base assistant.
Answer clearly and to the point, without adding any additional information.`,
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if count, err := CountTokens(string(reqBody)); err == nil {
		l.logger.Info("sending prompt to llm", "model", l.model, "tokens", count, "bytes", len(reqBody))
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err == nil && genResp.Response != "" {
		return genResp.Response, nil
	}

	// Streaming endpoints answer with newline-delimited JSON; collect the
	// pieces into one string.
	var output string
	decoder := json.NewDecoder(bytes.NewReader(body))
	for decoder.More() {
		var chunk GenerateResponse
		if err := decoder.Decode(&chunk); err != nil {
			break
		}
		output += chunk.Response
	}
	return output, nil
}

// CountTokens sizes a payload with a tokenizer compatible with most chat
// models; the count is logged for prompt budgeting, not enforced.
func CountTokens(data string) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	tokens := enc.Encode(data, nil, nil)
	return len(tokens), nil
}
