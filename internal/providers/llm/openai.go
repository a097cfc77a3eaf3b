package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OpenAI backs the Summarizer capability with the chat completions API.
type OpenAI struct {
	baseProvider
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		baseProvider: newBaseProvider("https://api.openai.com", apiKey, model),
	}
}

// NewOpenAIWithBaseURL exists for tests and OpenAI-compatible gateways.
func NewOpenAIWithBaseURL(baseURL, apiKey, model string) *OpenAI {
	return &OpenAI{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Summarize sends a single user-role message and returns the first choice.
func (o *OpenAI) Summarize(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": o.model,
		"messages": []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return parseChatResponse(resp)
}

func parseChatResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}
